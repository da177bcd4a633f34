// Package export serializes a filtered item view to a CSV document for
// download. The format targets Danish spreadsheet consumers: semicolon
// separators, decimal commas, and a UTF-8 byte-order mark.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mitindbo/indbo/internal/model"
)

// ErrEmptyExport is returned instead of producing an empty document.
var ErrEmptyExport = errors.New("Der er ingen indbo at eksportere")

// MIMEType is the content type of the produced document.
const MIMEType = "text/csv;charset=utf-8"

// columns are the fixed header labels, in output order.
var columns = []string{"Navn", "Beskrivelse", "Tags", "Sted", "Serienummer", "Pris", "Købsdato"}

// Filename returns the export filename for the given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("indbo_export_%s.csv", now.Format("2006-01-02"))
}

// Write serializes items to w. The input is the filtered view before
// pagination: every matching row, with the tag and place tables for name
// resolution. An empty input is refused with ErrEmptyExport and nothing is
// written.
func Write(w io.Writer, items []model.Item, tags []model.Tag, places []model.Place) error {
	if len(items) == 0 {
		return ErrEmptyExport
	}

	tagNames := make(map[int64]string, len(tags))
	for _, tag := range tags {
		tagNames[tag.ID] = tag.Name
	}
	placeNames := make(map[int64]string, len(places))
	for _, place := range places {
		placeNames[place.ID] = place.Name
	}

	// BOM first, so spreadsheet apps detect UTF-8.
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range items {
		if err := cw.Write(record(&items[i], tagNames, placeNames)); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// record builds one output row in column order.
func record(item *model.Item, tagNames, placeNames map[int64]string) []string {
	tags := make([]string, len(item.Tags))
	for i, id := range item.Tags {
		tags[i] = resolve(tagNames, "Tag", id)
	}

	place := ""
	if item.Place != nil {
		place = resolve(placeNames, "Sted", *item.Place)
	}

	priceText := ""
	if item.Price != nil {
		priceText = FormatPrice(*item.Price)
	}

	return []string{
		item.Name,
		item.Description,
		strings.Join(tags, ", "),
		place,
		item.SerialNumber,
		priceText,
		formatDate(item.PurchaseDate),
	}
}

// FormatPrice renders a price with two fractional digits, a decimal comma,
// and the currency suffix.
func FormatPrice(price float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", price), ".", ",", 1) + " kr."
}

// formatDate renders an ISO date in the Danish dd.mm.yyyy convention. Dates
// that don't parse pass through as-is.
func formatDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01.2006")
}

// resolve returns the display name for a lookup id, or "<Kind> <id>" for ids
// missing from the table.
func resolve(names map[int64]string, kind string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("%s %d", kind, id)
}
