package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"mercadinho/internal/domain"
)

// MemoryStore документное in-memory хранилище. Идентификаторы записей
// генерирует само хранилище; наружу отдаются и принимаются только копии.
type MemoryStore struct {
	mu           sync.RWMutex
	productsByID map[string]domain.Product
	sales        []domain.Sale // порядок добавления = порядок журнала
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		productsByID: make(map[string]domain.Product),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// SaleRepository реализован отдельным типом MemorySales

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p.ID = uuid.NewString()
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[p.ID]; !ok {
		return ErrNotFound
	}
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0, len(m.productsByID))
	for _, p := range m.productsByID {
		out = append(out, p)
	}
	return out, nil
}

// ReserveStock проверка и списание под одной блокировкой записи,
// чтобы два конкурентных вызова не ушли в минус по остатку
func (m *MemoryStore) ReserveStock(ctx context.Context, id string, qty int64) (bool, error) {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return false, ErrNotFound
	}
	if p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	m.productsByID[id] = p
	return true, nil
}

func (m *MemoryStore) ReleaseStock(ctx context.Context, id string, qty int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock += qty
	m.productsByID[id] = p
	return nil
}

// SaleRepository implementation on wrapper type
type MemorySales struct{ store *MemoryStore }

func NewMemorySales(store *MemoryStore) *MemorySales { return &MemorySales{store: store} }

var _ SaleRepository = (*MemorySales)(nil)

func (ms *MemorySales) Create(ctx context.Context, s *domain.Sale) error {
	ms.store.wlock(ctx)
	defer ms.store.wunlock(ctx)
	s.ID = uuid.NewString()
	cp := *s
	cp.Lines = make([]domain.CartLine, len(s.Lines))
	copy(cp.Lines, s.Lines)
	ms.store.sales = append(ms.store.sales, cp)
	return nil
}

func (ms *MemorySales) List(ctx context.Context) ([]domain.Sale, error) {
	ms.store.rlock(ctx)
	defer ms.store.runlock(ctx)
	out := make([]domain.Sale, len(ms.store.sales))
	for i, s := range ms.store.sales {
		cp := s
		cp.Lines = make([]domain.CartLine, len(s.Lines))
		copy(cp.Lines, s.Lines)
		out[i] = cp
	}
	return out, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Для in-memory используем блокировку записи и помечаем контекст, чтобы репозитории пропускали внутренние локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
