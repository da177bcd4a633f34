package model

// Image is a stored item image as served by the backend.
type Image struct {
	ID    int64  `json:"id"`
	Image string `json:"image"` // base64 encoded
}

// Document is a stored item document as served by the backend.
type Document struct {
	ID          int64  `json:"id"`
	Document    string `json:"document"` // base64 encoded
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
}
