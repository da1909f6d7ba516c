package notepad

import (
	"sort"
	"strings"

	"atelier/internal/models"
)

// SortOrder is the secondary ordering applied within each pinned/unpinned
// partition.
type SortOrder string

const (
	SortUpdatedDesc SortOrder = "updated_desc"
	SortUpdatedAsc  SortOrder = "updated_asc"
	SortTitleAsc    SortOrder = "title_asc"
)

// Virtual selectors. Anything else is treated as a real folder id.
const (
	SelectorAll       = "all"
	SelectorFavorites = "favorites"
	SelectorPinned    = "pinned"
	SelectorDone      = "done"
)

// ParseSortOrder maps a query value to a sort order, defaulting to newest
// first.
func ParseSortOrder(v string) SortOrder {
	switch SortOrder(v) {
	case SortUpdatedAsc, SortTitleAsc:
		return SortOrder(v)
	default:
		return SortUpdatedDesc
	}
}

// VisibleNotes derives the visible note list from the full set. It is a pure
// function: filter by selector, then by search text, then sort with pinned
// notes unconditionally first.
func VisibleNotes(notes []models.Note, selector, search string, order SortOrder) []models.Note {
	visible := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if !matchesSelector(&n, selector) {
			continue
		}
		if !n.MatchesSearch(search) {
			continue
		}
		visible = append(visible, n)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := &visible[i], &visible[j]
		// Pinned precedence is unconditional, applied before any chosen order.
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		switch order {
		case SortUpdatedAsc:
			return a.Updated.Before(b.Updated)
		case SortTitleAsc:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return a.Updated.After(b.Updated)
		}
	})

	return visible
}

func matchesSelector(n *models.Note, selector string) bool {
	switch selector {
	case SelectorAll, "":
		return true
	case SelectorFavorites:
		return n.Favorite
	case SelectorPinned:
		return n.Pinned
	case SelectorDone:
		return n.Done
	default:
		return n.DisplayFolderID() == selector
	}
}
