package numbering

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterAll is the wildcard value for category and event filters.
const FilterAll = "all"

// Filter narrows a slot listing for display. Empty fields match everything.
type Filter struct {
	Category    string `form:"category"`
	EventKey    string `form:"event"`
	SchoolQuery string `form:"school"`
}

func (f Filter) matches(slot TeamSlot) bool {
	if f.Category != "" && f.Category != FilterAll && string(slot.Category) != f.Category {
		return false
	}
	if f.EventKey != "" && f.EventKey != FilterAll && slot.EventKey != f.EventKey {
		return false
	}
	if f.SchoolQuery != "" &&
		!strings.Contains(strings.ToLower(slot.SchoolName), strings.ToLower(f.SchoolQuery)) {
		return false
	}
	return true
}

// Apply returns the slots matching the filter, in input order.
func (f Filter) Apply(slots []TeamSlot) []TeamSlot {
	out := make([]TeamSlot, 0, len(slots))
	for _, slot := range slots {
		if f.matches(slot) {
			out = append(out, slot)
		}
	}
	return out
}

// SortSlots orders slots for display: running number ascending with empty
// numbers last, then school name, then event name (both with Indonesian
// collation), then team index.
func SortSlots(slots []TeamSlot) {
	c := collate.New(language.Indonesian)
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if !sameNumber(a.RunningNumber, b.RunningNumber) {
			if a.RunningNumber == nil {
				return false
			}
			if b.RunningNumber == nil {
				return true
			}
			return *a.RunningNumber < *b.RunningNumber
		}
		if cmp := c.CompareString(a.SchoolName, b.SchoolName); cmp != 0 {
			return cmp < 0
		}
		if cmp := c.CompareString(a.EventName, b.EventName); cmp != 0 {
			return cmp < 0
		}
		return a.TeamIndex < b.TeamIndex
	})
}
