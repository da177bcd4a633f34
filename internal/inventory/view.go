package inventory

import (
	"sort"

	"github.com/mitindbo/indbo/internal/model"
)

// PageCount reports the number of pages the current view spans.
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := len(c.viewLocked())
	if count == 0 {
		return 0
	}
	return (count + c.pageSize - 1) / c.pageSize
}

// Page reports the current zero-based page index.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// SetPage moves the page window. Out-of-range values are clamped to the
// current view, so Page always reports the page actually shown.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 0 {
		page = 0
	}
	if count := len(c.viewLocked()); count > 0 {
		if last := (count - 1) / c.pageSize; page > last {
			page = last
		}
	}
	c.page = page
}

// PageSize reports the fixed page window size.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// CurrentPage returns the rows of the current page of the view.
func (c *Controller) CurrentPage() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := c.viewLocked()
	if len(view) == 0 {
		return nil
	}

	last := (len(view) - 1) / c.pageSize
	page := c.page
	if page > last {
		page = last
	}

	start := page * c.pageSize
	end := start + c.pageSize
	if end > len(view) {
		end = len(view)
	}
	return view[start:end]
}

// Stats are the dashboard figures, computed over non-archived items.
type Stats struct {
	TotalItems int
	TotalValue float64
	WithPrice  int
	WithSerial int
	Recent     []model.Item // five most recently added
}

// Stats computes the dashboard figures from the loaded collection.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stats Stats
	recent := make([]model.Item, 0, len(c.items))
	for _, item := range c.items {
		if item.Archived {
			continue
		}
		stats.TotalItems++
		if item.Price != nil {
			stats.WithPrice++
			stats.TotalValue += *item.Price
		}
		if item.SerialNumber != "" {
			stats.WithSerial++
		}
		recent = append(recent, item)
	}

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].ID > recent[j].ID })
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.Recent = recent
	return stats
}

// TagUsage counts the non-archived items carrying the given tag.
func (c *Controller) TagUsage(tagID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		if !item.Archived && item.HasTag(tagID) {
			count++
		}
	}
	return count
}

// PlaceUsage counts the non-archived items stored at the given place.
func (c *Controller) PlaceUsage(placeID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		if !item.Archived && item.Place != nil && *item.Place == placeID {
			count++
		}
	}
	return count
}

// ActionKind identifies a row action.
type ActionKind int

const (
	ActionEdit ActionKind = iota
	ActionDelete
	ActionArchive
	ActionUnarchive
)

// Action is one entry of a row's action list.
type Action struct {
	Label string
	Kind  ActionKind
}

// ItemActions returns the fixed action list for an item row. Archived items
// offer restore instead of archive.
func ItemActions(item *model.Item) []Action {
	actions := []Action{{Label: "Rediger", Kind: ActionEdit}}
	if item.Archived {
		actions = append(actions, Action{Label: "Genaktivér", Kind: ActionUnarchive})
	} else {
		actions = append(actions, Action{Label: "Arkivér", Kind: ActionArchive})
	}
	return append(actions, Action{Label: "Slet", Kind: ActionDelete})
}

// LookupActions returns the fixed action list for a tag or place row.
func LookupActions() []Action {
	return []Action{
		{Label: "Rediger", Kind: ActionEdit},
		{Label: "Slet", Kind: ActionDelete},
	}
}
