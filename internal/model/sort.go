package model

import (
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// SortField defines what to sort by.
type SortField int

const (
	SortByCount SortField = iota
	SortByName
	SortByPath
	SortByMtime
)

// String returns the display label for the field.
func (f SortField) String() string {
	switch f {
	case SortByName:
		return "Name"
	case SortByPath:
		return "Path"
	case SortByMtime:
		return "Mtime"
	default:
		return "Matches"
	}
}

// SortOrder defines ascending or descending.
type SortOrder int

const (
	SortDesc SortOrder = iota
	SortAsc
)

// SortConfig holds sort preferences.
type SortConfig struct {
	Field SortField
	Order SortOrder
}

// DefaultSort returns the default sort config (match count descending).
func DefaultSort() SortConfig {
	return SortConfig{Field: SortByCount, Order: SortDesc}
}

// Toggle switches to field, or flips the order when field is already active.
func (c SortConfig) Toggle(field SortField) SortConfig {
	if c.Field != field {
		return SortConfig{Field: field, Order: defaultOrder(field)}
	}
	if c.Order == SortDesc {
		c.Order = SortAsc
	} else {
		c.Order = SortDesc
	}
	return c
}

// Names and paths read naturally A→Z, counts and times biggest/newest first.
func defaultOrder(field SortField) SortOrder {
	switch field {
	case SortByName, SortByPath:
		return SortAsc
	default:
		return SortDesc
	}
}

// SortFiles sorts results in place according to config. Ties fall back to
// the natural order of the full path so the listing is stable across runs.
func SortFiles(files []*FileResult, cfg SortConfig) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]

		// For descending order, swap a and b so the same less-than
		// comparisons produce the reverse result.
		if cfg.Order == SortDesc {
			a, b = b, a
		}

		switch cfg.Field {
		case SortByCount:
			if a.Count() != b.Count() {
				return a.Count() < b.Count()
			}
		case SortByName:
			an, bn := strings.ToLower(a.Name()), strings.ToLower(b.Name())
			if an != bn {
				return natural.Less(an, bn)
			}
		case SortByPath:
			return natural.Less(a.Path, b.Path)
		case SortByMtime:
			if !a.Mtime.Equal(b.Mtime) {
				return a.Mtime.Before(b.Mtime)
			}
		}
		return natural.Less(files[i].Path, files[j].Path)
	})
}
