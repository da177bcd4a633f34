package inventory

import (
	"testing"

	"github.com/mitindbo/indbo/internal/model"
)

func TestStats(t *testing.T) {
	c, _ := loadedController(t)

	stats := c.Stats()
	// The archived Sofa is excluded from every figure.
	if stats.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", stats.TotalItems)
	}
	if stats.TotalValue != 5000.5 {
		t.Errorf("TotalValue = %v, want 5000.5", stats.TotalValue)
	}
	if stats.WithPrice != 1 {
		t.Errorf("WithPrice = %d, want 1", stats.WithPrice)
	}
	if stats.WithSerial != 1 {
		t.Errorf("WithSerial = %d, want 1", stats.WithSerial)
	}
	if !equalNames(stats.Recent, "Lampe", "Cykel", "TV") {
		t.Errorf("Recent = %v", names(stats.Recent))
	}
}

func TestUsageCounts(t *testing.T) {
	c, _ := loadedController(t)

	// Tag 2 is carried by Cykel, Lampe, and the archived Sofa; only the
	// non-archived two count.
	if got := c.TagUsage(2); got != 2 {
		t.Errorf("TagUsage(2) = %d, want 2", got)
	}
	if got := c.TagUsage(99); got != 0 {
		t.Errorf("TagUsage(99) = %d, want 0", got)
	}
	if got := c.PlaceUsage(1); got != 1 {
		t.Errorf("PlaceUsage(1) = %d, want 1", got)
	}
}

func TestItemActions(t *testing.T) {
	active := &model.Item{Name: "TV"}
	got := ItemActions(active)
	if len(got) != 3 || got[0].Kind != ActionEdit || got[1].Kind != ActionArchive || got[2].Kind != ActionDelete {
		t.Errorf("active item actions = %+v", got)
	}

	archived := &model.Item{Name: "Sofa", Archived: true}
	got = ItemActions(archived)
	if len(got) != 3 || got[1].Kind != ActionUnarchive {
		t.Errorf("archived item actions = %+v", got)
	}
	if got[1].Label != "Genaktivér" {
		t.Errorf("unarchive label = %q", got[1].Label)
	}
}
