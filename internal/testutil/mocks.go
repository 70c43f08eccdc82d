package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/bizlytic/internal/domain/calendar"
	"github.com/pratik-mahalle/bizlytic/internal/domain/expense"
	"github.com/pratik-mahalle/bizlytic/internal/domain/sale"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
)

// MockUserRepository is an in-memory user.Repository with version checks
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[string]*user.User
	CreateError error
	GetError    error
	UpdateError error
	// StaleWrites makes the next N updates fail as if another writer got there first
	StaleWrites int
	Updates     int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*user.User),
	}
}

// Seed stores a copy of u, assigning an ID and version when missing
func (m *MockUserRepository) Seed(u *user.User) *user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Version == 0 {
		u.Version = 1
	}
	cp := *u
	m.Users[u.ID] = &cp
	return u
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	for _, existing := range m.Users {
		if existing.Email == u.Email {
			m.mu.Unlock()
			return errors.Conflict("User already exists with this email")
		}
	}
	m.mu.Unlock()
	m.Seed(u)
	return nil
}

func (m *MockUserRepository) find(match func(*user.User) bool) (*user.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NotFound("User")
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.ID == id })
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.Email == email })
}

func (m *MockUserRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*user.User, error) {
	return m.find(func(u *user.User) bool {
		return subscriptionID != "" && u.BillingSubscriptionID == subscriptionID
	})
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Users[u.ID]
	if !ok {
		return errors.NotFound("User")
	}
	if m.StaleWrites > 0 {
		m.StaleWrites--
		stored.Version++
		return errors.Conflict("User was modified concurrently")
	}
	if stored.Version != u.Version {
		return errors.Conflict("User was modified concurrently")
	}

	u.Version++
	cp := *u
	m.Users[u.ID] = &cp
	m.Updates++
	return nil
}

func (m *MockUserRepository) ListWithBillingCustomer(ctx context.Context, limit, offset int) ([]*user.User, error) {
	m.mu.Lock()
	var all []*user.User
	for _, u := range m.Users {
		if u.BillingCustomerID != "" {
			cp := *u
			all = append(all, &cp)
		}
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return []*user.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// MockSaleRepository is an in-memory sale.Repository
type MockSaleRepository struct {
	mu          sync.Mutex
	Sales       map[string]*sale.Sale
	CreateError error
	UpdateError error
}

func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{Sales: make(map[string]*sale.Sale)}
}

func (m *MockSaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	cp := *s
	m.Sales[s.ID] = &cp
	return nil
}

func (m *MockSaleRepository) GetByID(ctx context.Context, userID, id string) (*sale.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sales[id]
	if !ok || s.UserID != userID {
		return nil, errors.NotFound("Sale")
	}
	cp := *s
	return &cp, nil
}

func (m *MockSaleRepository) List(ctx context.Context, userID string, filter sale.Filter, limit, offset int) ([]*sale.Sale, int64, error) {
	m.mu.Lock()
	var result []*sale.Sale
	for _, s := range m.Sales {
		if s.UserID != userID {
			continue
		}
		if filter.Category != "" && s.Category != filter.Category {
			continue
		}
		if filter.CustomerName != "" && !strings.Contains(strings.ToLower(s.CustomerName), strings.ToLower(filter.CustomerName)) {
			continue
		}
		if filter.StartDate != nil && s.SaleDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && s.SaleDate.After(*filter.EndDate) {
			continue
		}
		cp := *s
		result = append(result, &cp)
	}
	m.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].SaleDate.After(result[j].SaleDate) })
	return page(result, limit, offset), int64(len(result)), nil
}

func (m *MockSaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Sales[s.ID]
	if !ok || existing.UserID != s.UserID {
		return errors.NotFound("Sale")
	}
	cp := *s
	m.Sales[s.ID] = &cp
	return nil
}

func (m *MockSaleRepository) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sales[id]
	if !ok || s.UserID != userID {
		return errors.NotFound("Sale")
	}
	delete(m.Sales, id)
	return nil
}

// MockExpenseRepository is an in-memory expense.Repository
type MockExpenseRepository struct {
	mu          sync.Mutex
	Expenses    map[string]*expense.Expense
	CreateError error
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{Expenses: make(map[string]*expense.Expense)}
}

func (m *MockExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	cp := *e
	m.Expenses[e.ID] = &cp
	return nil
}

func (m *MockExpenseRepository) GetByID(ctx context.Context, userID, id string) (*expense.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Expenses[id]
	if !ok || e.UserID != userID {
		return nil, errors.NotFound("Expense")
	}
	cp := *e
	return &cp, nil
}

func (m *MockExpenseRepository) List(ctx context.Context, userID string, filter expense.Filter, limit, offset int) ([]*expense.Expense, int64, error) {
	m.mu.Lock()
	var result []*expense.Expense
	for _, e := range m.Expenses {
		if e.UserID != userID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.MinAmount != nil && e.Amount.LessThan(*filter.MinAmount) {
			continue
		}
		if filter.MaxAmount != nil && e.Amount.GreaterThan(*filter.MaxAmount) {
			continue
		}
		cp := *e
		result = append(result, &cp)
	}
	m.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ExpenseDate.After(result[j].ExpenseDate) })
	return page(result, limit, offset), int64(len(result)), nil
}

func (m *MockExpenseRepository) Update(ctx context.Context, e *expense.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Expenses[e.ID]
	if !ok || existing.UserID != e.UserID {
		return errors.NotFound("Expense")
	}
	cp := *e
	m.Expenses[e.ID] = &cp
	return nil
}

func (m *MockExpenseRepository) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Expenses[id]
	if !ok || e.UserID != userID {
		return errors.NotFound("Expense")
	}
	delete(m.Expenses, id)
	return nil
}

// MockCalendarRepository is an in-memory calendar.Repository
type MockCalendarRepository struct {
	mu     sync.Mutex
	Events map[string]*calendar.Event
}

func NewMockCalendarRepository() *MockCalendarRepository {
	return &MockCalendarRepository{Events: make(map[string]*calendar.Event)}
}

func (m *MockCalendarRepository) Create(ctx context.Context, e *calendar.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	cp := *e
	m.Events[e.ID] = &cp
	return nil
}

func (m *MockCalendarRepository) GetByID(ctx context.Context, userID, id string) (*calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Events[id]
	if !ok || e.UserID != userID {
		return nil, errors.NotFound("Event")
	}
	cp := *e
	return &cp, nil
}

func (m *MockCalendarRepository) List(ctx context.Context, userID string, filter calendar.Filter) ([]*calendar.Event, error) {
	m.mu.Lock()
	var result []*calendar.Event
	for _, e := range m.Events {
		if e.UserID != userID {
			continue
		}
		if filter.StartDate != nil && e.StartDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.StartDate.After(*filter.EndDate) {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.Priority != "" && e.Priority != filter.Priority {
			continue
		}
		cp := *e
		result = append(result, &cp)
	}
	m.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	if result == nil {
		result = []*calendar.Event{}
	}
	return result, nil
}

func (m *MockCalendarRepository) Update(ctx context.Context, e *calendar.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Events[e.ID]
	if !ok || existing.UserID != e.UserID {
		return errors.NotFound("Event")
	}
	cp := *e
	m.Events[e.ID] = &cp
	return nil
}

func (m *MockCalendarRepository) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Events[id]
	if !ok || e.UserID != userID {
		return errors.NotFound("Event")
	}
	delete(m.Events, id)
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// Published is one event captured by RecordingPublisher
type Published struct {
	UserID  string
	Event   string
	Payload interface{}
}

// RecordingPublisher captures realtime events instead of delivering them
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []Published
}

func (p *RecordingPublisher) Publish(userID, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, Published{UserID: userID, Event: event, Payload: payload})
}

// Names returns the captured event names in order
func (p *RecordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.Events))
	for i, e := range p.Events {
		names[i] = e.Event
	}
	return names
}
