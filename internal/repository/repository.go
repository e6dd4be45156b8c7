package repository

import (
	"context"
	"errors"

	"mercadinho/internal/domain"
)

// ErrNotFound возвращается, когда запись не найдена
var ErrNotFound = errors.New("not found")

// ProductRepository интерфейс репозитория товаров.
// ReserveStock и ReleaseStock — атомарные операции над остатком одного товара:
// проверка и запись выполняются под одной блокировкой.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Product, error)
	// ReserveStock условно списывает qty со склада: если остатка хватает,
	// пишет stock-qty и возвращает true; иначе ничего не пишет и возвращает false.
	ReserveStock(ctx context.Context, id string, qty int64) (bool, error)
	// ReleaseStock возвращает qty на склад (откат резервации)
	ReleaseStock(ctx context.Context, id string, qty int64) error
}

// SaleRepository журнал продаж: только добавление и полное чтение.
// Записи не обновляются и не удаляются.
type SaleRepository interface {
	Create(ctx context.Context, s *domain.Sale) error
	List(ctx context.Context) ([]domain.Sale, error)
}

// TxManager абстракция транзакции. Для in-memory — глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
