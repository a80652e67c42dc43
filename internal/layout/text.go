package layout

import "strings"

// Selection tokens emitted for SELECTION_ELEMENT children when deriving text.
const (
	tokenSelected    = "[X]"
	tokenNotSelected = "[ ]"
)

// ChildText derives the text of a block by concatenating its CHILD blocks in
// relationship order: WORD blocks contribute their literal text and
// SELECTION_ELEMENT blocks contribute a checkbox token. Tokens are joined
// with single spaces and the result is trimmed.
func (ix *Index) ChildText(id string) string {
	var parts []string
	for _, child := range ix.ResolveChildren(id, RelationChild) {
		switch child.Type {
		case BlockTypeWord:
			parts = append(parts, child.Text)
		case BlockTypeSelectionElement:
			if child.SelectionState == SelectionSelected {
				parts = append(parts, tokenSelected)
			} else {
				parts = append(parts, tokenNotSelected)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// DocumentText flattens the batch to plain text: every LINE block's text, in
// batch order, joined by newlines.
func (ix *Index) DocumentText() string {
	var lines []string
	for i := range ix.blocks {
		if ix.blocks[i].Type == BlockTypeLine {
			lines = append(lines, ix.blocks[i].Text)
		}
	}
	return strings.Join(lines, "\n")
}

// PageText flattens one page: the text of the LINE blocks referenced by the
// page's CHILD relationship, in relationship order, joined by newlines.
func (ix *Index) PageText(pageID string) string {
	var lines []string
	for _, child := range ix.ResolveChildren(pageID, RelationChild) {
		if child.Type == BlockTypeLine {
			lines = append(lines, child.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// PageBlockIDs returns the id set of a page's CHILD subtree, one and two hops
// deep (lines plus their words), including the page itself. Extractors use it
// to scope a whole-batch index down to a single page.
func (ix *Index) PageBlockIDs(pageID string) map[string]struct{} {
	ids := map[string]struct{}{pageID: {}}
	for _, child := range ix.ResolveChildren(pageID, RelationChild) {
		ids[child.ID] = struct{}{}
		for _, gc := range ix.ResolveChildren(child.ID, RelationChild) {
			ids[gc.ID] = struct{}{}
		}
	}
	return ids
}
