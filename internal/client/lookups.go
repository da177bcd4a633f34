package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mitindbo/indbo/internal/model"
)

// LookupInput is the request body for creating or updating a tag or place.
type LookupInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ListTags returns all tags.
func (c *Client) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a new tag.
func (c *Client) CreateTag(ctx context.Context, input LookupInput) (*model.Tag, error) {
	tag := &model.Tag{}
	if err := c.do(ctx, http.MethodPost, "/tags", input, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag updates a tag.
func (c *Client) UpdateTag(ctx context.Context, id int64, input LookupInput) (*model.Tag, error) {
	tag := &model.Tag{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tags/%d", id), input, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tags/%d", id), nil, nil)
}

// ListPlaces returns all places.
func (c *Client) ListPlaces(ctx context.Context) ([]model.Place, error) {
	var places []model.Place
	if err := c.do(ctx, http.MethodGet, "/places", nil, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// CreatePlace creates a new place.
func (c *Client) CreatePlace(ctx context.Context, input LookupInput) (*model.Place, error) {
	place := &model.Place{}
	if err := c.do(ctx, http.MethodPost, "/places", input, place); err != nil {
		return nil, err
	}
	return place, nil
}

// UpdatePlace updates a place.
func (c *Client) UpdatePlace(ctx context.Context, id int64, input LookupInput) (*model.Place, error) {
	place := &model.Place{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/places/%d", id), input, place); err != nil {
		return nil, err
	}
	return place, nil
}

// DeletePlace deletes a place.
func (c *Client) DeletePlace(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/places/%d", id), nil, nil)
}

// ListCategories returns all categories from the superseded category shape of
// the data model. Only kept for reading old data.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category in the superseded shape.
func (c *Client) CreateCategory(ctx context.Context, input LookupInput) (*model.Category, error) {
	category := &model.Category{}
	if err := c.do(ctx, http.MethodPost, "/categories", input, category); err != nil {
		return nil, err
	}
	return category, nil
}
