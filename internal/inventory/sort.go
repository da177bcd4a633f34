package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitindbo/indbo/internal/model"
)

// SortField identifies an item field the view can sort by.
type SortField int

const (
	SortByName SortField = iota
	SortByDescription
	SortBySerialNumber
	SortByPrice
	SortByPurchaseDate
	SortByID
)

// SortKey is one (field, direction) pair of a multi-key sort.
type SortKey struct {
	Field SortField
	Desc  bool
}

// ParseSortKeys parses sort specs of the form "field" or "field:desc".
// Fields: name, description, serial, price, date, id.
func ParseSortKeys(specs []string) ([]SortKey, error) {
	keys := make([]SortKey, 0, len(specs))
	for _, spec := range specs {
		field, direction, _ := strings.Cut(spec, ":")
		key := SortKey{}
		switch field {
		case "name":
			key.Field = SortByName
		case "description":
			key.Field = SortByDescription
		case "serial":
			key.Field = SortBySerialNumber
		case "price":
			key.Field = SortByPrice
		case "date":
			key.Field = SortByPurchaseDate
		case "id":
			key.Field = SortByID
		default:
			return nil, fmt.Errorf("unknown sort field %q", field)
		}
		switch direction {
		case "", "asc":
		case "desc":
			key.Desc = true
		default:
			return nil, fmt.Errorf("unknown sort direction %q", direction)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// sortItems stably sorts items in place by the given keys: earlier keys win,
// later keys break ties.
func sortItems(items []model.Item, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, key := range keys {
			c := compareField(&items[i], &items[j], key.Field)
			if c == 0 {
				continue
			}
			if key.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareField orders two items by one field. Text compares
// case-insensitively; a missing price sorts before any present price.
func compareField(a, b *model.Item, field SortField) int {
	switch field {
	case SortByName:
		return compareText(a.Name, b.Name)
	case SortByDescription:
		return compareText(a.Description, b.Description)
	case SortBySerialNumber:
		return compareText(a.SerialNumber, b.SerialNumber)
	case SortByPurchaseDate:
		// ISO dates order correctly as strings.
		return strings.Compare(a.PurchaseDate, b.PurchaseDate)
	case SortByPrice:
		return comparePrice(a.Price, b.Price)
	case SortByID:
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	default:
		return 0
	}
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func comparePrice(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}
