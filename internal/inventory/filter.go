package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitindbo/indbo/internal/model"
)

// Filter is the list view's filter state.
type Filter struct {
	// Query is matched case-insensitively as a substring of any searchable
	// field. Empty or whitespace-only means no text filter.
	Query string
	// TagID keeps only items carrying this tag. Zero means no tag filter.
	TagID int64
	// ShowArchived includes archived items, which are otherwise dropped.
	ShowArchived bool
}

// filterItems applies the filter stages in a fixed order: archived exclusion,
// then tag filter, then free text. Each stage narrows the previous one.
func filterItems(items []model.Item, f Filter, tagNames, placeNames map[int64]string) []model.Item {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item.Archived && !f.ShowArchived {
			continue
		}
		if f.TagID != 0 && !item.HasTag(f.TagID) {
			continue
		}
		if query != "" && !matchesQuery(&item, query, tagNames, placeNames) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// matchesQuery reports whether the lowercased query appears in any searchable
// field: name, description, serial number, stringified price, resolved place
// name, any resolved tag name, or the raw purchase-date string.
func matchesQuery(item *model.Item, query string, tagNames, placeNames map[int64]string) bool {
	fields := []string{
		item.Name,
		item.Description,
		item.SerialNumber,
		item.PurchaseDate,
	}
	if item.Price != nil {
		fields = append(fields, strconv.FormatFloat(*item.Price, 'f', -1, 64))
	}
	if item.Place != nil {
		fields = append(fields, resolveName(placeNames, "Sted", *item.Place))
	}
	for _, id := range item.Tags {
		fields = append(fields, resolveName(tagNames, "Tag", id))
	}

	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// resolveName returns the display name for a lookup id, falling back to
// "<Kind> <id>" for ids missing from the table.
func resolveName(names map[int64]string, kind string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("%s %d", kind, id)
}

// FilterTags narrows a tag list by a free-text query over name and
// description, the way the tag list screen searches.
func FilterTags(tags []model.Tag, query string) []model.Tag {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return tags
	}
	out := make([]model.Tag, 0, len(tags))
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag.Name), query) ||
			strings.Contains(strings.ToLower(tag.Description), query) {
			out = append(out, tag)
		}
	}
	return out
}

// FilterPlaces narrows a place list by a free-text query over name and
// description.
func FilterPlaces(places []model.Place, query string) []model.Place {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return places
	}
	out := make([]model.Place, 0, len(places))
	for _, place := range places {
		if strings.Contains(strings.ToLower(place.Name), query) ||
			strings.Contains(strings.ToLower(place.Description), query) {
			out = append(out, place)
		}
	}
	return out
}
