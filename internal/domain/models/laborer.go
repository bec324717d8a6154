package models

import "time"

// DateLayout is the wire format for working dates. Zero-padded ISO dates
// sort lexicographically in chronological order, which the range queries
// on laborHours rely on.
const DateLayout = "2006-01-02"

// Category identifies the produce line a laborer works on.
type Category string

const (
	CategoryMilk     Category = "Milk"
	CategoryPaneer   Category = "Paneer"
	CategoryIceCream Category = "Ice Cream"
	CategoryCurd     Category = "Curd"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryMilk, CategoryPaneer, CategoryIceCream, CategoryCurd}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMilk, CategoryPaneer, CategoryIceCream, CategoryCurd:
		return true
	}
	return false
}

// Laborer is a registered worker. ID is assigned by the store on insert and
// immutable afterwards. No two laborers may share the same (CardNo, Category).
type Laborer struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FatherName string    `json:"fatherName"`
	CardNo     string    `json:"cardNo"`
	Category   Category  `json:"category"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HoursRecord stores the hours a laborer worked on one date. At most one
// record exists per (LaborerID, Date); writes for an existing pair update
// the record in place.
type HoursRecord struct {
	ID        string    `json:"id"`
	LaborerID string    `json:"laborerId"`
	Date      string    `json:"date"`
	Hours     float64   `json:"hours"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ParseDate validates a wire-format date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
