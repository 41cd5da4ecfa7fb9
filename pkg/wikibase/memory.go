package wikibase

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/linksync/pkg/errors"
)

// Edit is one save recorded by Memory.
type Edit struct {
	ItemID  string
	Summary string
	Claims  []Claim
}

// Memory is an in-process knowledge base with the same read and write
// surface as Client. Failures can be injected per item.
type Memory struct {
	mu        sync.Mutex
	items     map[string]*Item
	fetchErrs map[string]error
	saveErrs  map[string]error
	fetches   []string
	edits     []Edit
}

// NewMemory creates a store holding copies of items.
func NewMemory(items ...*Item) *Memory {
	m := &Memory{
		items:     make(map[string]*Item, len(items)),
		fetchErrs: map[string]error{},
		saveErrs:  map[string]error{},
	}
	for _, it := range items {
		m.items[it.ID] = it.clone()
	}
	return m
}

// FailFetch makes every fetch of id return err.
func (m *Memory) FailFetch(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErrs[id] = err
}

// FailSave makes every save of id return err.
func (m *Memory) FailSave(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErrs[id] = err
}

// FetchItem returns a copy of the stored item.
func (m *Memory) FetchItem(ctx context.Context, id string) (*Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetches = append(m.fetches, id)
	if err := m.fetchErrs[id]; err != nil {
		return nil, err
	}
	it, ok := m.items[id]
	if !ok {
		return nil, errors.NewNotFoundError("item", id)
	}
	return it.clone(), nil
}

// SaveItem stores the item's claims and bumps its revision.
func (m *Memory) SaveItem(ctx context.Context, item *Item, summary string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.saveErrs[item.ID]; err != nil {
		return err
	}
	m.edits = append(m.edits, Edit{ItemID: item.ID, Summary: summary, Claims: item.Pending()})

	stored := item.clone()
	stored.LastRevID++
	m.items[item.ID] = stored

	item.LastRevID = stored.LastRevID
	item.ClearPending()
	return nil
}

// Item returns a copy of the stored item, or nil.
func (m *Memory) Item(id string) *Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[id]; ok {
		return it.clone()
	}
	return nil
}

// Fetches returns the ids fetched so far, in order.
func (m *Memory) Fetches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.fetches)
}

// Edits returns the saves recorded so far, in order.
func (m *Memory) Edits() []Edit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.edits)
}

func (it *Item) clone() *Item {
	out := &Item{ID: it.ID, LastRevID: it.LastRevID, Claims: make(map[string][]Claim, len(it.Claims))}
	for prop, claims := range it.Claims {
		out.Claims[prop] = slices.Clone(claims)
	}
	return out
}
