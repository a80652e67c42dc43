// Package layout models the block graph returned by the layout-analysis
// provider: a forest of typed nodes rooted at PAGE blocks, with CHILD edges
// descending toward LINE and WORD blocks and VALUE edges pairing form keys
// with their values.
package layout

// BlockType is the canonical node type in an analysis response.
type BlockType string

// Stable values (match the provider's wire format exactly).
const (
	BlockTypePage             BlockType = "PAGE"
	BlockTypeLine             BlockType = "LINE"
	BlockTypeWord             BlockType = "WORD"
	BlockTypeKeyValueSet      BlockType = "KEY_VALUE_SET"
	BlockTypeSelectionElement BlockType = "SELECTION_ELEMENT"
)

// EntityRole distinguishes the two halves of a KEY_VALUE_SET pairing.
type EntityRole string

const (
	EntityRoleKey   EntityRole = "KEY"
	EntityRoleValue EntityRole = "VALUE"
)

// SelectionState is the checked/unchecked state of a SELECTION_ELEMENT.
type SelectionState string

const (
	SelectionSelected    SelectionState = "SELECTED"
	SelectionNotSelected SelectionState = "NOT_SELECTED"
)

// RelationKind labels an edge list on a block.
type RelationKind string

const (
	RelationChild RelationKind = "CHILD"
	RelationValue RelationKind = "VALUE"
)

// BoundingBox is a normalized rectangle relative to the page, all values in [0,1].
type BoundingBox struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Relationship is one ordered edge list from a block to other blocks.
type Relationship struct {
	Kind RelationKind `json:"type"`
	IDs  []string     `json:"ids"`
}

// Block is one node of the analysis response. Only the attributes applicable
// to its Type are populated; everything else stays at the zero value.
type Block struct {
	ID             string         `json:"id"`
	Type           BlockType      `json:"blockType"`
	Text           string         `json:"text,omitempty"`
	EntityRoles    []EntityRole   `json:"entityTypes,omitempty"`
	SelectionState SelectionState `json:"selectionStatus,omitempty"`
	BoundingBox    BoundingBox    `json:"boundingBox"`
	Relationships  []Relationship `json:"relationships,omitempty"`
}

// HasRole reports whether the block carries the given entity role.
// Meaningful only for KEY_VALUE_SET blocks.
func (b *Block) HasRole(role EntityRole) bool {
	for _, r := range b.EntityRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RelatedIDs returns the ordered ids of the first relationship of the given
// kind, or nil if the block has none.
func (b *Block) RelatedIDs(kind RelationKind) []string {
	for _, rel := range b.Relationships {
		if rel.Kind == kind {
			return rel.IDs
		}
	}
	return nil
}
