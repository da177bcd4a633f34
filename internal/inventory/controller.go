// Package inventory implements the item list controller: it holds the full
// collection fetched from the backend and derives the filtered, sorted,
// paginated view shown to the user.
package inventory

import (
	"context"
	"sync"

	"github.com/mitindbo/indbo/internal/model"
)

// State is the load state of the controller.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// DefaultPageSize is the list view's page window.
const DefaultPageSize = 10

// DataSource is the part of the API client the controller needs.
type DataSource interface {
	ListItems(ctx context.Context, includeArchived bool) ([]model.Item, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
	ListPlaces(ctx context.Context) ([]model.Place, error)
}

// Controller maintains the authoritative local item collection and the
// derived visible subset.
type Controller struct {
	source DataSource

	mu         sync.Mutex
	state      State
	gen        uint64
	err        error
	items      []model.Item
	tags       []model.Tag
	places     []model.Place
	tagNames   map[int64]string
	placeNames map[int64]string
	filter     Filter
	sortKeys   []SortKey
	pageSize   int
	page       int
}

// New creates an idle controller reading from source.
func New(source DataSource, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		source:   source,
		state:    StateIdle,
		pageSize: pageSize,
		sortKeys: []SortKey{{Field: SortByName}},
	}
}

// Reload fetches the item collection and the tag/place lookup tables. Only
// the most recently issued reload may publish its result: a load that
// finishes after a newer one started is discarded, so stale data never
// overwrites fresh data.
func (c *Controller) Reload(ctx context.Context) error {
	gen, includeArchived := c.beginLoad()

	items, err := c.source.ListItems(ctx, includeArchived)
	var tags []model.Tag
	var places []model.Place
	if err == nil {
		tags, err = c.source.ListTags(ctx)
	}
	if err == nil {
		places, err = c.source.ListPlaces(ctx)
	}

	if !c.finishLoad(gen, items, tags, places, err) {
		// Superseded by a newer reload, whose result stands instead.
		return nil
	}
	return err
}

// beginLoad enters the loading state and claims a new generation.
func (c *Controller) beginLoad() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.state = StateLoading
	return c.gen, c.filter.ShowArchived
}

// finishLoad publishes a completed load if its generation is still current.
// On failure the collection is reset to empty rather than keeping data of
// unknown freshness.
func (c *Controller) finishLoad(gen uint64, items []model.Item, tags []model.Tag, places []model.Place, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}

	if err != nil {
		c.state = StateError
		c.err = err
		c.items = nil
		c.tags = nil
		c.places = nil
		c.tagNames = nil
		c.placeNames = nil
		return true
	}

	c.state = StateReady
	c.err = nil
	c.items = items
	c.tags = tags
	c.places = places
	c.tagNames = make(map[int64]string, len(tags))
	for _, tag := range tags {
		c.tagNames[tag.ID] = tag.Name
	}
	c.placeNames = make(map[int64]string, len(places))
	for _, place := range places {
		c.placeNames[place.ID] = place.Name
	}
	c.page = 0
	return true
}

// State reports the controller's load state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err reports the error from the last failed load, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Filter returns the active filter state.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter replaces the filter state and resets the page window.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f
	c.page = 0
}

// SetSort replaces the sort keys. With no keys the default (name ascending)
// is restored.
func (c *Controller) SetSort(keys ...SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		keys = []SortKey{{Field: SortByName}}
	}
	c.sortKeys = keys
}

// Items returns a copy of the full (unfiltered) collection.
func (c *Controller) Items() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Lookups returns the cached tag and place tables, for callers (like the
// exporter) that need to resolve names themselves.
func (c *Controller) Lookups() ([]model.Tag, []model.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tags := make([]model.Tag, len(c.tags))
	copy(tags, c.tags)
	places := make([]model.Place, len(c.places))
	copy(places, c.places)
	return tags, places
}

// View returns the filtered, sorted collection before pagination: every
// matching row, in display order.
func (c *Controller) View() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() []model.Item {
	filtered := filterItems(c.items, c.filter, c.tagNames, c.placeNames)
	sortItems(filtered, c.sortKeys)
	return filtered
}

// TagName resolves a tag id to its name, falling back to "Tag <id>".
func (c *Controller) TagName(id int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return resolveName(c.tagNames, "Tag", id)
}

// PlaceName resolves a place id to its name, falling back to "Sted <id>".
func (c *Controller) PlaceName(id int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return resolveName(c.placeNames, "Sted", id)
}
