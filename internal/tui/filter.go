package tui

import (
	"path"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/casedesk/internal/model"
)

// fuzzyMinLen is the shortest filter that also matches by edit distance.
const fuzzyMinLen = 3

// matchAsset reports whether name passes filter: a case-insensitive
// substring match, or for longer filters a name stem within two edits.
func matchAsset(filter, name string) bool {
	f := strings.ToLower(strings.TrimSpace(filter))
	if f == "" {
		return true
	}
	n := strings.ToLower(name)
	if strings.Contains(n, f) {
		return true
	}
	if len([]rune(f)) < fuzzyMinLen {
		return false
	}
	stem := strings.TrimSuffix(n, path.Ext(n))
	return levenshtein.ComputeDistance(f, stem) <= 2
}

func filterAssets(filter string, assets []model.Asset) []model.Asset {
	if strings.TrimSpace(filter) == "" {
		return assets
	}
	out := make([]model.Asset, 0, len(assets))
	for _, a := range assets {
		if matchAsset(filter, a.Name) {
			out = append(out, a)
		}
	}
	return out
}
