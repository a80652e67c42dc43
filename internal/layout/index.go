package layout

// Index provides O(1) lookup over one batch of blocks and resolves
// relationship edges. Ids referenced by a relationship but absent from the
// batch are skipped silently; the producer guarantees a forest, so no cycle
// detection is needed and no consumer descends more than two hops.
type Index struct {
	blocks []Block
	byID   map[string]*Block
}

// NewIndex builds an index over the given batch. The slice is retained, not
// copied; callers must not mutate it while the index is in use.
func NewIndex(blocks []Block) *Index {
	byID := make(map[string]*Block, len(blocks))
	for i := range blocks {
		byID[blocks[i].ID] = &blocks[i]
	}
	return &Index{blocks: blocks, byID: byID}
}

// ByID returns the block with the given id, or nil if absent.
func (ix *Index) ByID(id string) *Block {
	return ix.byID[id]
}

// Blocks returns the batch in its original order.
func (ix *Index) Blocks() []Block {
	return ix.blocks
}

// ResolveChildren returns, in relationship order, the blocks referenced by the
// block's relationship of the given kind. Unknown block ids and unknown
// referenced ids both yield fewer results, never an error.
func (ix *Index) ResolveChildren(id string, kind RelationKind) []*Block {
	b := ix.byID[id]
	if b == nil {
		return nil
	}
	ids := b.RelatedIDs(kind)
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Block, 0, len(ids))
	for _, cid := range ids {
		if child := ix.byID[cid]; child != nil {
			out = append(out, child)
		}
	}
	return out
}

// Scope returns a new index over the subset of the batch whose ids are in the
// given set, preserving batch order. Used to narrow a multi-page batch down to
// one page's blocks.
func (ix *Index) Scope(ids map[string]struct{}) *Index {
	var sub []Block
	for i := range ix.blocks {
		if _, ok := ids[ix.blocks[i].ID]; ok {
			sub = append(sub, ix.blocks[i])
		}
	}
	return NewIndex(sub)
}

// OfType returns all blocks of the given type, in batch order.
func (ix *Index) OfType(t BlockType) []*Block {
	var out []*Block
	for i := range ix.blocks {
		if ix.blocks[i].Type == t {
			out = append(out, &ix.blocks[i])
		}
	}
	return out
}
