package model

import "strings"

// ValidateLookupName checks the one rule shared by tags and places.
func ValidateLookupName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "Navn er påkrævet"}
	}
	return nil
}

// Tag is a user-defined label. Items and tags are many-to-many.
type Tag struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Place is a user-defined location. An item references at most one place.
type Place struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Category is the superseded predecessor of tags and places: items used to
// reference exactly one category. The backend still serves the old endpoints,
// so the type survives for reading legacy data, but nothing in the current
// data model produces it.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
