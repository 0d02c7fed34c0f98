package pulls

import (
	"slices"

	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// Compare orders list items: failing master statuses first, then by elapsed time,
// descending when sortByMostRecent is set and ascending otherwise.
// Items without an elapsed time sort after those with one in either direction.
func Compare(a, b domain.ListItem, sortByMostRecent bool) int {
	switch {
	case a.IsMaster() && b.IsMaster():
		return 0
	case a.IsMaster():
		return -1
	case b.IsMaster():
		return 1
	}

	timeA, okA := a.ElapsedTime()
	timeB, okB := b.ElapsedTime()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}

	if sortByMostRecent {
		return compareInt(timeB, timeA)
	}
	return compareInt(timeA, timeB)
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Sort sorts items in place with Compare; equal items keep their relative order.
func Sort(items []domain.ListItem, sortByMostRecent bool) {
	slices.SortStableFunc(items, func(a, b domain.ListItem) int {
		return Compare(a, b, sortByMostRecent)
	})
}
