package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mitindbo/indbo/internal/model"
)

func price(v float64) *float64 { return &v }
func placeRef(id int64) *int64 { return &id }

func TestWriteProducesHeaderAndRows(t *testing.T) {
	items := []model.Item{
		{Name: "TV", Price: price(5000.5), Tags: []int64{1}},
	}
	tags := []model.Tag{{ID: 1, Name: "Elektronik"}}

	var buf bytes.Buffer
	if err := Write(&buf, items, tags, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Error("document must start with a UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(out, "\uFEFF"), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "Navn;Beskrivelse;Tags;Sted;Serienummer;Pris;Købsdato" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "TV;;Elektronik;;;5000,50 kr.;" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteLineCountMatchesRows(t *testing.T) {
	var items []model.Item
	for i := 0; i < 7; i++ {
		items = append(items, model.Item{ID: int64(i), Name: "Ting", Tags: []int64{1}})
	}

	var buf bytes.Buffer
	if err := Write(&buf, items, nil, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(items)+1 {
		t.Errorf("expected %d lines, got %d", len(items)+1, len(lines))
	}
}

func TestWriteEscapesFields(t *testing.T) {
	items := []model.Item{
		{Name: `Skab; "antik"`, Description: "linje1\nlinje2", Tags: []int64{1}},
	}

	var buf bytes.Buffer
	if err := Write(&buf, items, nil, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	// A field containing the separator or quotes is wrapped in quotes with
	// internal quotes doubled.
	if !strings.Contains(out, `"Skab; ""antik"""`) {
		t.Errorf("separator/quote field not escaped: %q", out)
	}
	if !strings.Contains(out, "\"linje1\nlinje2\"") {
		t.Errorf("newline field not escaped: %q", out)
	}
}

func TestWriteResolvesNamesWithFallback(t *testing.T) {
	items := []model.Item{
		{
			Name:         "Cykel",
			Tags:         []int64{1, 99},
			Place:        placeRef(7),
			SerialNumber: "CK-998",
			PurchaseDate: "2023-06-15",
		},
	}
	tags := []model.Tag{{ID: 1, Name: "Transport"}}

	var buf bytes.Buffer
	if err := Write(&buf, items, tags, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[1] != "Cykel;;Transport, Tag 99;Sted 7;CK-998;;15.06.2023" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteRefusesEmptyView(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, nil, nil, nil)
	if !errors.Is(err, ErrEmptyExport) {
		t.Fatalf("expected ErrEmptyExport, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("no document must be produced for an empty view, got %q", buf.String())
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{5000.5, "5000,50 kr."},
		{0, "0,00 kr."},
		{149.999, "150,00 kr."},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.price); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	day := time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC)
	if got := Filename(day); got != "indbo_export_2024-03-09.csv" {
		t.Errorf("Filename = %q", got)
	}
}
