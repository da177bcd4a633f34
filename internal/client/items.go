package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mitindbo/indbo/internal/model"
)

// ListItems returns all items. Archived items are only included when
// includeArchived is set.
func (c *Client) ListItems(ctx context.Context, includeArchived bool) ([]model.Item, error) {
	var items []model.Item
	path := "/items?include_archived=" + strconv.FormatBool(includeArchived)
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem returns a single item by id.
func (c *Client) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item := &model.Item{}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/items/%d", id), nil, item); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem creates a new item and returns the server-assigned record.
func (c *Client) CreateItem(ctx context.Context, item *model.Item) (*model.Item, error) {
	created := &model.Item{}
	if err := c.do(ctx, http.MethodPost, "/items", item, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateItem replaces an item and returns the updated record.
func (c *Client) UpdateItem(ctx context.Context, id int64, item *model.Item) (*model.Item, error) {
	updated := &model.Item{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/items/%d", id), item, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteItem permanently deletes an item.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/items/%d", id), nil, nil)
}

// ArchiveItem soft-hides an item from default listings.
func (c *Client) ArchiveItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/items/%d/archive", id), struct{}{}, nil)
}

// UnarchiveItem restores an archived item.
func (c *Client) UnarchiveItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/items/%d/unarchive", id), struct{}{}, nil)
}
