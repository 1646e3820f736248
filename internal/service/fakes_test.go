package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thriveverse/backend/internal/domain"
	"github.com/thriveverse/backend/internal/mirror"
	"github.com/thriveverse/backend/pkg/logger"
	"github.com/thriveverse/backend/pkg/payment"
)

func testLogger() *logger.Logger {
	return logger.NewDefault("test")
}

// memStore is an in-memory stand-in for the repositories, implementing
// ApplicationStore, PaymentStore, LedgerStore and UserStore against one
// shared account table so cross-service flows can be tested end to end.
// The conditional debit and the insert-if-absent guard mimic the SQL
// they replace.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	apps     map[string]*domain.Application
	payments map[string]*domain.Payment // keyed by gateway order ID
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*domain.User),
		apps:     make(map[string]*domain.Application),
		payments: make(map[string]*domain.Payment),
	}
}

func (m *memStore) addUser(id string, credits int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = &domain.User{ID: id, Email: id + "@example.com", Name: id, Credits: credits}
}

func (m *memStore) userCredits(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].Credits
}

func (m *memStore) appCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.apps)
}

// ApplicationStore

func (m *memStore) CreateCharging(_ context.Context, a *domain.Application) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[a.UserID]
	if !ok || u.Credits <= 0 {
		return 0, domain.ErrOutOfCredits
	}
	u.Credits--
	clone := *a
	m.apps[a.ID] = &clone
	return u.Credits, nil
}

func (m *memStore) findApp(id, userID string) (*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.apps[id]
	if !ok || a.UserID != userID {
		return nil, domain.ErrRecordNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *memStore) ListByUser(_ context.Context, userID string) ([]*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Application
	for _, a := range m.apps {
		if a.UserID == userID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, a *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.apps[a.ID]
	if !ok || stored.UserID != a.UserID {
		return domain.ErrRecordNotFound
	}
	clone := *a
	clone.MirrorRecordID = stored.MirrorRecordID
	m.apps[a.ID] = &clone
	return nil
}

func (m *memStore) SetMirrorRecordID(_ context.Context, id, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.apps[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	a.MirrorRecordID = recordID
	return nil
}

// PaymentStore

func (m *memStore) RecordCompleted(_ context.Context, p *domain.Payment, sub *domain.Subscription) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.payments[p.GatewayOrderID]; exists {
		return false, nil
	}
	clone := *p
	m.payments[p.GatewayOrderID] = &clone

	u, ok := m.users[p.UserID]
	if !ok {
		return false, errors.New("unknown account")
	}
	u.Credits += p.Credits
	subClone := *sub
	u.Subscription = &subClone
	return true, nil
}

func (m *memStore) FindByOrderID(_ context.Context, orderID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[orderID]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

// LedgerStore / UserStore

func (m *memStore) findUser(id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	if u.Subscription != nil {
		subClone := *u.Subscription
		clone.Subscription = &subClone
	}
	return &clone, nil
}

func (m *memStore) CancelSubscription(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok || u.Subscription == nil || u.Subscription.Status != domain.SubscriptionActive {
		return domain.ErrRecordNotFound
	}
	u.Subscription.Status = domain.SubscriptionCancelled
	return nil
}

// appStoreAdapter narrows memStore to the ApplicationStore interface.
type appStoreAdapter struct{ *memStore }

func (a appStoreAdapter) FindByID(_ context.Context, id, userID string) (*domain.Application, error) {
	return a.findApp(id, userID)
}

// ledgerAdapter narrows memStore to the payment service's LedgerStore.
type ledgerAdapter struct{ *memStore }

func (l ledgerAdapter) FindByID(_ context.Context, id string) (*domain.User, error) {
	return l.findUser(id)
}

// paymentStoreAdapter gives PaymentStore its own ListByUser over payments.
type paymentStoreAdapter struct{ *memStore }

func (p paymentStoreAdapter) ListByUser(_ context.Context, userID string) ([]*domain.Payment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []*domain.Payment
	for _, pay := range p.payments {
		if pay.UserID == userID {
			clone := *pay
			out = append(out, &clone)
		}
	}
	return out, nil
}

// userStoreAdapter narrows memStore to the auth service's UserStore.
type userStoreAdapter struct{ *memStore }

func (u userStoreAdapter) Create(_ context.Context, user *domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	clone := *user
	u.users[user.ID] = &clone
	return nil
}

func (u userStoreAdapter) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, stored := range u.users {
		if stored.Email == email {
			clone := *stored
			return &clone, nil
		}
	}
	return nil, nil
}

func (u userStoreAdapter) FindByID(_ context.Context, id string) (*domain.User, error) {
	return u.findUser(id)
}

func (u userStoreAdapter) Exists(_ context.Context, email string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, stored := range u.users {
		if stored.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (u userStoreAdapter) UpdateProfile(_ context.Context, id, name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	stored, ok := u.users[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	stored.Name = name
	return nil
}

// fakeGateway is an in-memory payment gateway.
type fakeGateway struct {
	mu        sync.Mutex
	orders    map[string]*payment.Order
	seq       int
	failFetch bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{orders: make(map[string]*payment.Order)}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string, notes map[string]string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	order := &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.seq),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	}
	g.orders[order.ID] = order
	return order, nil
}

func (g *fakeGateway) FetchOrder(_ context.Context, orderID string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failFetch {
		return nil, errors.New("gateway unreachable")
	}
	order, ok := g.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	return order, nil
}

// fakeMirror records mirror calls and can be set to fail.
type fakeMirror struct {
	mu      sync.Mutex
	fail    bool
	created int
	updated int
}

func (f *fakeMirror) CreateRecord(_ context.Context, _ mirror.Fields) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return "", errors.New("mirror unreachable")
	}
	f.created++
	return fmt.Sprintf("rec_%d", f.created), nil
}

func (f *fakeMirror) UpdateRecord(_ context.Context, _ string, _ mirror.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return errors.New("mirror unreachable")
	}
	f.updated++
	return nil
}

func (f *fakeMirror) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created, f.updated
}
