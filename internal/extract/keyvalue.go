// Package extract resolves named fields out of an analyzed block batch. Two
// strategies are layered: form key/value pairs first, then a pattern scan of
// the flattened text for fields the form data missed.
package extract

import "github.com/joseph-ayodele/docextract/internal/layout"

// KeyValuePairs resolves the form key/value pairs of a batch into a map of
// trimmed key text to trimmed value text.
//
// KEY_VALUE_SET blocks are partitioned by entity role; each KEY block is
// paired with its value block through its VALUE relationship. Keys whose value
// block cannot be resolved are skipped. If two keys derive the same text the
// later one (batch order) wins.
func KeyValuePairs(ix *layout.Index) map[string]string {
	valueIDs := make(map[string]struct{})
	var keys []*layout.Block
	for _, b := range ix.OfType(layout.BlockTypeKeyValueSet) {
		if b.HasRole(layout.EntityRoleKey) {
			keys = append(keys, b)
		} else {
			valueIDs[b.ID] = struct{}{}
		}
	}

	pairs := make(map[string]string, len(keys))
	for _, key := range keys {
		ids := key.RelatedIDs(layout.RelationValue)
		if len(ids) == 0 {
			continue
		}
		if _, ok := valueIDs[ids[0]]; !ok {
			continue
		}
		pairs[ix.ChildText(key.ID)] = ix.ChildText(ids[0])
	}
	return pairs
}
