package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mercadinho/internal/domain"
	"mercadinho/internal/repository"
)

// LedgerService журнал продаж: фиксирует корзину как единое целое
// и хранит историю завершённых продаж
type LedgerService struct {
	catalog *CatalogService
	sales   repository.SaleRepository
	log     *zap.Logger
}

func NewLedgerService(catalog *CatalogService, sales repository.SaleRepository, log *zap.Logger) *LedgerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LedgerService{catalog: catalog, sales: sales, log: log}
}

var ErrInsufficientStock = errors.New("insufficient stock")

// CommitSale резервирует остаток по каждой позиции и записывает продажу в журнал.
// Всё или ничего: при отказе любой позиции уже сделанные резервации откатываются,
// журнал не меняется. Резервации берутся в порядке возрастания id товара,
// чтобы пересекающиеся конкурентные продажи не взаимоблокировались.
func (s *LedgerService) CommitSale(ctx context.Context, cart []domain.CartLine) (*domain.Sale, error) {
	if len(cart) == 0 {
		return nil, ErrInvalidInput
	}
	for _, line := range cart {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
	}

	// порядок захвата — по id, порядок строк в продаже — порядок корзины
	order := make([]int, len(cart))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return cart[order[a]].ProductID < cart[order[b]].ProductID
	})

	reserved := make([]int, 0, len(cart))
	rollback := func() {
		for _, i := range reserved {
			line := cart[i]
			if err := s.catalog.ReleaseStock(ctx, line.ProductID, line.Quantity); err != nil {
				// товар могли удалить между резервацией и откатом
				s.log.Warn("rollback failed",
					zap.String("product_id", line.ProductID),
					zap.Int64("quantity", line.Quantity),
					zap.Error(err))
			}
		}
	}

	for _, i := range order {
		line := cart[i]
		ok, err := s.catalog.TryReserveStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			rollback()
			return nil, err
		}
		if !ok {
			rollback()
			return nil, fmt.Errorf("product %q: %w", line.ProductName, ErrInsufficientStock)
		}
		reserved = append(reserved, i)
	}

	sale := domain.Sale{
		Timestamp: time.Now().UTC(),
		Lines:     make([]domain.CartLine, len(cart)),
		Total:     decimal.Zero,
	}
	for i, line := range cart {
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
		sale.Lines[i] = line
		sale.Total = sale.Total.Add(line.LineTotal)
	}

	if err := s.sales.Create(ctx, &sale); err != nil {
		rollback()
		return nil, err
	}

	s.log.Info("sale committed",
		zap.String("sale_id", sale.ID),
		zap.Int("lines", len(sale.Lines)),
		zap.String("total", sale.Total.String()))
	return &sale, nil
}

// ListSales возвращает журнал в порядке записи
func (s *LedgerService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.sales.List(ctx)
}
