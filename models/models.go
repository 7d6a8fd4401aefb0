package models

// Student represents a student on the roster
type Student struct {
	Name    string  `json:"name"`    // Student name, may be empty or contain spaces
	Average float64 `json:"average"` // Grade average, 1 to 10 inclusive
}
