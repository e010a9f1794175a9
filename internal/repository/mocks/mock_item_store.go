// Package mocks provides mock implementations of repository interfaces for testing.
package mocks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
)

// DefaultPageSize keeps scans multi-page so callers exercise token handling.
const DefaultPageSize = 2

// MockItemStore provides an in-memory implementation of repository.ItemStore.
// Scans return records in insertion order.
type MockItemStore struct {
	mu sync.RWMutex

	records  map[string]domain.Record
	order    []string
	pageSize int

	// For testing error scenarios
	shouldFailOn map[string]error
	calls        map[string]int
}

var _ repository.ItemStore = (*MockItemStore)(nil)

// NewMockItemStore creates an empty store.
func NewMockItemStore() *MockItemStore {
	return &MockItemStore{
		records:      make(map[string]domain.Record),
		pageSize:     DefaultPageSize,
		shouldFailOn: make(map[string]error),
		calls:        make(map[string]int),
	}
}

// SetError configures the mock to return an error for a specific method.
func (m *MockItemStore) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOn[method] = err
}

// ClearErrors removes all configured errors.
func (m *MockItemStore) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOn = make(map[string]error)
}

// SetPageSize sets how many records each ScanPage returns. Values below 1
// return everything in one page.
func (m *MockItemStore) SetPageSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageSize = n
}

// Seed stores records as given, without any validation. Use it to plant
// malformed rows.
func (m *MockItemStore) Seed(records ...domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.putLocked(r)
	}
}

// Get returns a stored record for assertions.
func (m *MockItemStore) Get(id string) (domain.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	return r, ok
}

// Len returns the number of stored records.
func (m *MockItemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Calls returns how many times method was invoked.
func (m *MockItemStore) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

// ResetCalls zeroes the call counters.
func (m *MockItemStore) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = make(map[string]int)
}

// enter counts the call and returns the configured error, if any.
func (m *MockItemStore) enter(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
	if err, exists := m.shouldFailOn[method]; exists {
		return err
	}
	return nil
}

func (m *MockItemStore) putLocked(r domain.Record) {
	if _, exists := m.records[r.ID]; !exists {
		m.order = append(m.order, r.ID)
	}
	m.records[r.ID] = r
}

func (m *MockItemStore) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	if err := m.enter("GetByID"); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, repository.NewNotFound("item", id)
	}
	return &r, nil
}

func (m *MockItemStore) Put(ctx context.Context, record domain.Record) error {
	if err := m.enter("Put"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(record)
	return nil
}

func (m *MockItemStore) UpdateFields(ctx context.Context, id string, fields repository.Fields) error {
	if err := m.enter("UpdateFields"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return repository.NewNotFound("item", id)
	}
	for name, value := range fields {
		switch name {
		case domain.AttrItemName:
			r.ItemName = value
		case domain.AttrCategory:
			r.Category = value
		case domain.AttrPrice:
			r.Price = value
		case domain.AttrLastUpdated:
			r.LastUpdated = value
		default:
			return fmt.Errorf("mock store cannot update attribute %q", name)
		}
	}
	m.records[id] = r
	return nil
}

func (m *MockItemStore) DeleteByID(ctx context.Context, id string) error {
	if err := m.enter("DeleteByID"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return nil
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockItemStore) QueryByIndex(ctx context.Context, indexName, key, value string) ([]domain.Record, error) {
	if err := m.enter("QueryByIndex"); err != nil {
		return nil, err
	}
	if key != domain.AttrItemName {
		return nil, fmt.Errorf("mock store has no index on %q", key)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Record
	for _, id := range m.order {
		if r := m.records[id]; r.ItemName == value {
			out = append(out, r)
		}
	}
	return out, nil
}

// ScanPage pages through records in insertion order. The token is the offset
// of the next record in the unfiltered order, so filtered pages may be short
// or empty while more remain, as with DynamoDB.
func (m *MockItemStore) ScanPage(ctx context.Context, filter repository.ScanFilter, token string) (*repository.ScanPage, error) {
	if err := m.enter("ScanPage"); err != nil {
		return nil, err
	}

	start := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			return nil, repository.ErrInvalidToken{Token: token, Reason: "not an offset"}
		}
		start = n
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	end := len(m.order)
	if m.pageSize > 0 && start+m.pageSize < end {
		end = start + m.pageSize
	}

	page := &repository.ScanPage{Records: []domain.Record{}}
	for i := start; i < end && i < len(m.order); i++ {
		r := m.records[m.order[i]]
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.NameContains != "" && !strings.Contains(r.ItemName, filter.NameContains) {
			continue
		}
		page.Records = append(page.Records, r)
	}
	if end < len(m.order) {
		page.NextToken = strconv.Itoa(end)
	}
	return page, nil
}
