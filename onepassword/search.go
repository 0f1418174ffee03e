package onepassword

import (
	"sort"
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Searchable raw-record fields. These are the unmapped names the op
// CLI emits, since matching runs before normalization.
const (
	SearchFieldUUID      = "uuid"
	SearchFieldVaultUUID = "vaultUuid"
	SearchFieldAInfo     = "ainfo"
	SearchFieldTitle     = "title"
	SearchFieldURL       = "url"
)

var defaultSearchFields = []string{
	SearchFieldUUID,
	SearchFieldVaultUUID,
	SearchFieldAInfo,
	SearchFieldTitle,
	SearchFieldURL,
}

// SearchOptions tunes the fuzzy item search. The zero value matches
// over all searchable fields, case-insensitively, keeping any record
// where the whole query matches as a subsequence. Defaults favor
// precision over recall.
type SearchOptions struct {
	// Fields restricts which raw fields are matched. Empty means all.
	Fields []string
	// MinScore discards matches scoring below it. Zero keeps every
	// subsequence match.
	MinScore int
	// MinMatchLength discards queries shorter than it. Zero means 1.
	MinMatchLength int
	// CaseSensitive makes matching exact-case.
	CaseSensitive bool
}

// Slab sizes fzf uses for its scoring scratch space.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

func init() {
	algo.Init("default")
}

// searchItems narrows raw item records by approximate text match over
// the configured fields, best match first. It operates strictly on raw
// records so matching sees the unmapped overview fields.
func searchItems(items []rawItem, query string, options SearchOptions) []rawItem {
	minLength := options.MinMatchLength
	if minLength <= 0 {
		minLength = 1
	}
	if len([]rune(query)) < minLength {
		return items
	}

	fields := options.Fields
	if len(fields) == 0 {
		fields = defaultSearchFields
	}

	pattern := []rune(query)
	if !options.CaseSensitive {
		pattern = []rune(strings.ToLower(query))
	}

	slab := util.MakeSlab(slab16Size, slab32Size)

	type scored struct {
		item  rawItem
		score int
	}
	var matches []scored
	for _, item := range items {
		best := -1
		for _, field := range fields {
			text := searchFieldValue(item, field)
			if text == "" {
				continue
			}
			chars := util.ToChars([]byte(text))
			result, _ := algo.FuzzyMatchV2(options.CaseSensitive, false, true, &chars, pattern, false, slab)
			if result.Start < 0 || result.Score < options.MinScore {
				continue
			}
			if result.Score > best {
				best = result.Score
			}
		}
		if best >= 0 {
			matches = append(matches, scored{item: item, score: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	result := make([]rawItem, len(matches))
	for i, m := range matches {
		result[i] = m.item
	}
	return result
}

func searchFieldValue(item rawItem, field string) string {
	switch field {
	case SearchFieldUUID:
		return item.UUID
	case SearchFieldVaultUUID:
		return item.VaultUUID
	case SearchFieldAInfo:
		return item.Overview.AInfo
	case SearchFieldTitle:
		return item.Overview.Title
	case SearchFieldURL:
		return item.Overview.URL
	default:
		return ""
	}
}
