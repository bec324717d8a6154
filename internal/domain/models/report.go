package models

// LaborerWithHours is a laborer joined with the hours recorded for one
// specific date (0 when no record exists). Recomputed on every read,
// never persisted.
type LaborerWithHours struct {
	Laborer
	Hours float64 `json:"hours"`
}

// DateHours is one recorded (date, hours) pair inside a monthly report.
type DateHours struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// MonthlyReportRow joins a laborer's identifying fields with every hours
// record of the report month, sorted ascending by date. Laborers without
// records that month carry an empty Hours slice.
type MonthlyReportRow struct {
	Name       string      `json:"name"`
	FatherName string      `json:"fatherName"`
	CardNo     string      `json:"cardNo"`
	Hours      []DateHours `json:"hours"`
}
