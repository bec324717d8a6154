package models

// LaborerRequest is the payload for creating or updating a laborer.
type LaborerRequest struct {
	Name       string   `json:"name" binding:"required"`
	FatherName string   `json:"fatherName" binding:"required"`
	CardNo     string   `json:"cardNo" binding:"required"`
	Category   Category `json:"category" binding:"required"`
}

// HoursUpdateRequest is the payload for writing hours for a laborer on a
// date. Hours is a pointer so an explicit 0 survives the required binding.
type HoursUpdateRequest struct {
	Date  string   `json:"date" binding:"required"`
	Hours *float64 `json:"hours" binding:"required"`
}
