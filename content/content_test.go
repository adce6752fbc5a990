package content

import (
	"errors"
	"sync"
	"testing"
)

func newItem(title, category, basePrice string, tags []string) CreateRequest {
	return CreateRequest{
		Title:       title,
		Description: "desc for " + title,
		Category:    category,
		Preview:     "preview",
		FullContent: "full body",
		BasePrice:   basePrice,
		PriceUSD:    "$0.10",
		Tags:        tags,
	}
}

func TestCreateAssignsIDs(t *testing.T) {
	s := NewStore()

	first := s.Create(newItem("one", "AI", "100", nil), "0xcreator")
	second := s.Create(newItem("two", "AI", "100", nil), "0xcreator")

	if first.ContentID != 1 || second.ContentID != 2 {
		t.Errorf("expected sequential content ids, got %d and %d", first.ContentID, second.ContentID)
	}
	if first.ID == second.ID {
		t.Error("expected unique store ids")
	}
	if first.CreatorName != "Anonymous" {
		t.Errorf("expected default creator name, got %s", first.CreatorName)
	}
	if first.MetadataURI == "" {
		t.Error("expected generated metadata URI")
	}
}

func TestCreateWithChainID(t *testing.T) {
	s := NewStore()

	req := newItem("onchain", "AI", "100", nil)
	req.ContentID = 7
	item := s.Create(req, "0xcreator")
	if item.ContentID != 7 {
		t.Errorf("expected caller-supplied content id 7, got %d", item.ContentID)
	}

	// Counter must advance past used ids.
	next := s.Create(newItem("next", "AI", "100", nil), "0xcreator")
	if next.ContentID != 8 {
		t.Errorf("expected next content id 8, got %d", next.ContentID)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	s := NewStore()
	_, err := s.GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByContentID(t *testing.T) {
	s := NewStore()
	created := s.Create(newItem("one", "AI", "100", nil), "0xcreator")

	item, ok := s.GetByContentID(created.ContentID)
	if !ok || item.ID != created.ID {
		t.Errorf("expected lookup by chain id to find item")
	}
	if _, ok := s.GetByContentID(999); ok {
		t.Error("expected miss for unknown chain id")
	}
}

func TestListSortedByUnlockCount(t *testing.T) {
	s := NewStore()
	s.Seed()

	items := s.List()
	if len(items) != 3 {
		t.Fatalf("expected 3 seeded items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].UnlockCount > items[i-1].UnlockCount {
			t.Errorf("list not sorted by unlock count: %d before %d",
				items[i-1].UnlockCount, items[i].UnlockCount)
		}
	}
}

func TestSearchAndCategory(t *testing.T) {
	s := NewStore()
	s.Create(newItem("Solidity Gas Golfing", "Development", "100", []string{"solidity"}), "0xa")
	s.Create(newItem("Yield Farming Basics", "Trading", "100", []string{"defi"}), "0xb")

	if got := s.Search("solidity"); len(got) != 1 {
		t.Errorf("expected 1 search hit, got %d", len(got))
	}
	if got := s.Search("defi"); len(got) != 1 {
		t.Errorf("expected tag match, got %d hits", len(got))
	}
	if got := s.ByCategory("trading"); len(got) != 1 {
		t.Errorf("expected case-insensitive category match, got %d", len(got))
	}
}

func TestPreviewStripsBody(t *testing.T) {
	s := NewStore()
	created := s.Create(newItem("one", "AI", "100", nil), "0xcreator")

	preview, err := s.Preview(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if preview.FullContent != "" {
		t.Error("preview must not contain the paid body")
	}
	if preview.Title != "one" {
		t.Errorf("preview lost metadata: %+v", preview)
	}
}

func TestIncrementUnlockCount(t *testing.T) {
	s := NewStore()
	created := s.Create(newItem("one", "AI", "100", nil), "0xcreator")

	count, err := s.IncrementUnlockCount(created.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected count 1, got %d (%v)", count, err)
	}

	if _, err := s.IncrementUnlockCount("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIncrementUnlockCountConcurrent(t *testing.T) {
	s := NewStore()
	created := s.Create(newItem("one", "AI", "100", nil), "0xcreator")

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.IncrementUnlockCount(created.ID); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	item, err := s.GetByID(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if item.UnlockCount != n {
		t.Errorf("expected %d unlocks, got %d", n, item.UnlockCount)
	}
}
