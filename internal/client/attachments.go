package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mitindbo/indbo/internal/model"
)

// ListImages returns the stored images for an item.
func (c *Client) ListImages(ctx context.Context, itemID int64) ([]model.Image, error) {
	var images []model.Image
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/images/%d", itemID), nil, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// ListDocuments returns the stored documents for an item.
func (c *Client) ListDocuments(ctx context.Context, itemID int64) ([]model.Document, error) {
	var documents []model.Document
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/documents/%d", itemID), nil, &documents); err != nil {
		return nil, err
	}
	return documents, nil
}

// DeleteDocument deletes a stored document by its own id.
func (c *Client) DeleteDocument(ctx context.Context, documentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/documents/%d", documentID), nil, nil)
}
