package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"mercadinho/internal/domain"
	"mercadinho/internal/repository"
)

// CatalogService инкапсулирует бизнес-логику каталога товаров:
// валидация на границе, CRUD и атомарная резервация остатка
type CatalogService struct {
	repo repository.ProductRepository
	tx   repository.TxManager
}

func NewCatalogService(repo repository.ProductRepository, tx repository.TxManager) *CatalogService {
	return &CatalogService{repo: repo, tx: tx}
}

var ErrInvalidInput = errors.New("invalid input")

// ProductUpdate частичное обновление: nil-поле означает "не трогать"
type ProductUpdate struct {
	Name      *string
	UnitPrice *decimal.Decimal
	Stock     *int64
}

func (s *CatalogService) Add(ctx context.Context, name string, unitPrice decimal.Decimal, stock int64) (*domain.Product, error) {
	if name == "" || unitPrice.IsNegative() || stock < 0 {
		return nil, ErrInvalidInput
	}
	p := domain.Product{Name: name, UnitPrice: unitPrice, Stock: stock}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Update применяет частичное правки к товару. Read-modify-write выполняется
// внутри транзакции, чтобы прямая правка остатка не потеряла конкурентную резервацию
func (s *CatalogService) Update(ctx context.Context, id string, upd ProductUpdate) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if upd.Name != nil && *upd.Name == "" {
		return nil, ErrInvalidInput
	}
	if upd.UnitPrice != nil && upd.UnitPrice.IsNegative() {
		return nil, ErrInvalidInput
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return nil, ErrInvalidInput
	}

	var updated *domain.Product
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.UnitPrice != nil {
			p.UnitPrice = *upd.UnitPrice
		}
		if upd.Stock != nil {
			p.Stock = *upd.Stock
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// TryReserveStock атомарно списывает qty, если остатка хватает.
// false без ошибки — остатка недостаточно, ничего не списано
func (s *CatalogService) TryReserveStock(ctx context.Context, id string, qty int64) (bool, error) {
	if id == "" || qty <= 0 {
		return false, ErrInvalidInput
	}
	return s.repo.ReserveStock(ctx, id, qty)
}

// ReleaseStock возвращает ранее зарезервированное количество на склад
func (s *CatalogService) ReleaseStock(ctx context.Context, id string, qty int64) error {
	if id == "" || qty <= 0 {
		return ErrInvalidInput
	}
	return s.repo.ReleaseStock(ctx, id, qty)
}
