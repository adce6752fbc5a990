// Package content is the in-memory catalog of published articles.
package content

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown content ids.
var ErrNotFound = errors.New("content not found")

// Item is one published article. ContentID is the stable numeric identifier
// shared with the on-chain contract; ID is the backend's own UUID.
// BasePrice is fixed at creation; the current price is always derived from
// BasePrice and UnlockCount, never stored.
type Item struct {
	ID          string    `json:"id"`
	ContentID   int64     `json:"contentId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Preview     string    `json:"preview"`
	FullContent string    `json:"fullContent,omitempty"`
	BasePrice   string    `json:"basePrice"`
	PriceUSD    string    `json:"priceUsd"`
	Creator     string    `json:"creator"`
	CreatorName string    `json:"creatorName"`
	MetadataURI string    `json:"metadataURI"`
	UnlockCount uint64    `json:"unlockCount"`
	CreatedAt   time.Time `json:"createdAt"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

// CreateRequest carries the caller-supplied fields for a new item.
type CreateRequest struct {
	ContentID   int64    `json:"contentId"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Preview     string   `json:"preview" binding:"required"`
	FullContent string   `json:"fullContent" binding:"required"`
	BasePrice   string   `json:"basePrice" binding:"required"`
	PriceUSD    string   `json:"priceUsd" binding:"required"`
	CreatorName string   `json:"creatorName"`
	MetadataURI string   `json:"metadataURI"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl"`
}

// Category is one entry of the static category list.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Store is an in-memory content catalog. All mutation goes through a single
// mutex so the unlock counter increment is a serialized read-modify-write.
type Store struct {
	mu        sync.Mutex
	items     map[string]*Item
	idCounter int64
}

// NewStore creates an empty store. The on-chain id counter starts at 1 to
// match the contract's first assigned id.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]*Item),
		idCounter: 1,
	}
}

// Create adds a new item. If req.ContentID is set (the caller already
// registered the item on-chain), that id is used and the counter advanced
// past it; otherwise the next counter value is assigned.
func (s *Store) Create(req CreateRequest, creator string) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()

	contentID := req.ContentID
	if contentID == 0 {
		contentID = s.idCounter
		s.idCounter++
	} else if contentID >= s.idCounter {
		s.idCounter = contentID + 1
	}

	metadataURI := req.MetadataURI
	if metadataURI == "" {
		metadataURI = fmt.Sprintf("ipfs://Qm%s", strings.ReplaceAll(id, "-", "")[:20])
	}
	creatorName := req.CreatorName
	if creatorName == "" {
		creatorName = "Anonymous"
	}
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	item := &Item{
		ID:          id,
		ContentID:   contentID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Preview:     req.Preview,
		FullContent: req.FullContent,
		BasePrice:   req.BasePrice,
		PriceUSD:    req.PriceUSD,
		Creator:     creator,
		CreatorName: creatorName,
		MetadataURI: metadataURI,
		CreatedAt:   time.Now().UTC(),
		Tags:        tags,
		ImageURL:    req.ImageURL,
	}
	s.items[id] = item
	return *item
}

// GetByID returns a copy of the item, or ErrNotFound.
func (s *Store) GetByID(id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *item, nil
}

// GetByContentID looks an item up by its on-chain id.
func (s *Store) GetByContentID(contentID int64) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ContentID == contentID {
			return *item, true
		}
	}
	return Item{}, false
}

// List returns all items sorted by unlock count descending.
func (s *Store) List() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UnlockCount > items[j].UnlockCount
	})
	return items
}

// ByCategory returns items whose category matches, case-insensitively.
func (s *Store) ByCategory(category string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []Item
	for _, item := range s.items {
		if strings.EqualFold(item.Category, category) {
			items = append(items, *item)
		}
	}
	return items
}

// Search matches query against title, description and tags.
func (s *Store) Search(query string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(query)
	var items []Item
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query) ||
			tagsMatch(item.Tags, query) {
			items = append(items, *item)
		}
	}
	return items
}

func tagsMatch(tags []string, query string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// IncrementUnlockCount bumps the item's unlock counter by exactly one and
// returns the new count. The read-modify-write happens inside the store's
// critical section; concurrent unlocks each land exactly once.
func (s *Store) IncrementUnlockCount(id string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	item.UnlockCount++
	return item.UnlockCount, nil
}

// Preview returns the item with its paid body stripped.
func (s *Store) Preview(id string) (Item, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return Item{}, err
	}
	item.FullContent = ""
	return item, nil
}

// Categories returns the static category list.
func (s *Store) Categories() []Category {
	return []Category{
		{ID: "trading", Name: "Trading", Icon: "📈"},
		{ID: "ai", Name: "AI & ML", Icon: "🤖"},
		{ID: "security", Name: "Security", Icon: "🔒"},
		{ID: "development", Name: "Development", Icon: "💻"},
		{ID: "research", Name: "Research", Icon: "📊"},
		{ID: "tutorial", Name: "Tutorial", Icon: "📚"},
	}
}
