package importer

import (
	"strings"

	"github.com/wisdomrain/bookfeed/models"
)

// GroupRows buckets rows by trimmed group id, preserving both first-seen
// group order and intra-group row order. Rows without a group id are
// dropped; empty group ids are tolerated input, not an error.
func GroupRows(rows []*models.Row) []*models.Group {
	index := make(map[string]*models.Group)
	var groups []*models.Group
	for _, row := range rows {
		gid := strings.TrimSpace(row.GroupID)
		if gid == "" {
			continue
		}
		group, ok := index[gid]
		if !ok {
			group = &models.Group{ID: gid}
			index[gid] = group
			groups = append(groups, group)
		}
		group.Rows = append(group.Rows, row)
	}
	return groups
}
