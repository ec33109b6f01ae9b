// Package citation turns citation records into display rows.
package citation

import (
	"fmt"

	"github.com/jask/casedesk/internal/model"
)

// Row renders a single citation. The asset is shown by name whether or not it
// is part of the loaded catalog.
func Row(c model.Chunk) string {
	return fmt.Sprintf("%s — %s p.%d", c.ChunkID, c.Asset, c.Page)
}

// Rows renders citations in backend order. Duplicates are kept.
func Rows(chunks []model.Chunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, Row(c))
	}
	return out
}
