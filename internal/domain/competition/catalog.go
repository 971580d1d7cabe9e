package domain

import "fmt"

// Category represents the competition tier a school competes in.
type Category string

const (
	CategoryWira  Category = "wira"
	CategoryMadya Category = "madya"
)

// Categories lists every valid category.
func Categories() []Category {
	return []Category{CategoryWira, CategoryMadya}
}

// ParseCategory validates a raw category string.
func ParseCategory(raw string) (Category, error) {
	switch Category(raw) {
	case CategoryWira:
		return CategoryWira, nil
	case CategoryMadya:
		return CategoryMadya, nil
	default:
		return "", fmt.Errorf("unknown category %q", raw)
	}
}

// Event is one contested discipline. The set is closed for a given
// competition year.
type Event struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Scored      bool   `json:"scored"`
}

var eventCatalog = []Event{
	{Key: "pp", DisplayName: "Pertolongan Pertama", Scored: true},
	{Key: "pk", DisplayName: "Perawatan Keluarga", Scored: true},
	{Key: "tandu_putra", DisplayName: "Tandu Darurat Putra", Scored: true},
	{Key: "tandu_putri", DisplayName: "Tandu Darurat Putri", Scored: true},
	{Key: "prs", DisplayName: "Pendidikan Remaja Sebaya", Scored: true},
	{Key: "poster", DisplayName: "Poster Kesehatan", Scored: true},
}

// Events returns the full event catalog in display order.
func Events() []Event {
	out := make([]Event, len(eventCatalog))
	copy(out, eventCatalog)
	return out
}

// EventByKey looks up an event by its key.
func EventByKey(key string) (Event, bool) {
	for _, ev := range eventCatalog {
		if ev.Key == key {
			return ev, true
		}
	}
	return Event{}, false
}

// EventDisplayName resolves a key to its display name, falling back to the
// raw key for entries that predate a catalog change.
func EventDisplayName(key string) string {
	if ev, ok := EventByKey(key); ok {
		return ev.DisplayName
	}
	return key
}
