package model

import "strings"

// Item represents a single household-inventory record.
type Item struct {
	ID           int64    `json:"id,omitempty"`
	UserID       int64    `json:"user_id,omitempty"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	SerialNumber string   `json:"serial_number,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	PurchaseDate string   `json:"purchase_date,omitempty"` // ISO date (YYYY-MM-DD)
	Tags         []int64  `json:"tags"`
	Place        *int64   `json:"place,omitempty"`
	Archived     bool     `json:"archived,omitempty"`

	// Attachment payloads, only populated on create/update requests.
	// Images and documents are base64 encoded for transport.
	Images            []string      `json:"images,omitempty"`
	ImagesToRemove    []int64       `json:"images_to_remove,omitempty"`
	Documents         []NewDocument `json:"documents,omitempty"`
	DocumentsToRemove []int64       `json:"documents_to_remove,omitempty"`
}

// NewDocument is a document payload attached to an item create/update request.
type NewDocument struct {
	Document    string `json:"document"` // base64 encoded content
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
}

// HasTag reports whether the item carries the given tag.
func (i *Item) HasTag(tagID int64) bool {
	for _, id := range i.Tags {
		if id == tagID {
			return true
		}
	}
	return false
}

// ValidationError describes a field that failed pre-submit validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateItem checks the rules the backend enforces, so a bad request is
// rejected before it is sent: non-empty name, at least one tag, and a
// non-negative price.
func ValidateItem(item *Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return &ValidationError{Field: "name", Message: "Navn er påkrævet"}
	}
	if len(item.Tags) == 0 {
		return &ValidationError{Field: "tags", Message: "Mindst ét tag er påkrævet"}
	}
	if item.Price != nil && *item.Price < 0 {
		return &ValidationError{Field: "price", Message: "Pris kan ikke være negativ"}
	}
	return nil
}
