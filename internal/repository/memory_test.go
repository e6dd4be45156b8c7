package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"mercadinho/internal/domain"
)

func TestMemoryStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.Product{Name: "Água Mineral 500ml", UnitPrice: decimal.NewFromFloat(2.50), Stock: 50}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("no id")
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != p.Name || !got.UnitPrice.Equal(p.UnitPrice) || got.Stock != p.Stock {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	p.UnitPrice = decimal.NewFromFloat(3.00)
	if err := store.Update(ctx, &p); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, p.ID); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	// повторное удаление тоже not found
	if err := store.Delete(ctx, p.ID); err != ErrNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestReserveStock(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := domain.Product{Name: "A", UnitPrice: decimal.NewFromInt(10), Stock: 5}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	ok, err := store.ReserveStock(ctx, p.ID, 3)
	if err != nil || !ok {
		t.Fatalf("reserve: ok=%v err=%v", ok, err)
	}
	got, _ := store.GetByID(ctx, p.ID)
	if got.Stock != 2 {
		t.Fatalf("stock expected 2, got %v", got.Stock)
	}

	// остатка не хватает: false и без списания
	ok, err = store.ReserveStock(ctx, p.ID, 3)
	if err != nil || ok {
		t.Fatalf("expected refusal, ok=%v err=%v", ok, err)
	}
	got, _ = store.GetByID(ctx, p.ID)
	if got.Stock != 2 {
		t.Fatalf("stock changed on refused reserve: %v", got.Stock)
	}

	if err := store.ReleaseStock(ctx, p.ID, 3); err != nil {
		t.Fatalf("release: %v", err)
	}
	got, _ = store.GetByID(ctx, p.ID)
	if got.Stock != 5 {
		t.Fatalf("stock expected 5 after release, got %v", got.Stock)
	}

	if _, err := store.ReserveStock(ctx, "missing", 1); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReserveStock_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := domain.Product{Name: "A", UnitPrice: decimal.NewFromInt(10), Stock: 50}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := store.ReserveStock(ctx, p.ID, 30)
			if err != nil {
				t.Errorf("reserve: %v", err)
			}
			results[i] = ok
		}(i)
	}
	wg.Wait()

	if results[0] == results[1] {
		t.Fatalf("expected exactly one reservation to win: %v", results)
	}
	got, _ := store.GetByID(ctx, p.ID)
	if got.Stock != 20 {
		t.Fatalf("stock expected 20, got %v", got.Stock)
	}
}

func TestMemoryTx_TransactionalUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tx := NewMemoryTx(store)

	p := domain.Product{Name: "A", UnitPrice: decimal.NewFromInt(10), Stock: 5}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	// read-modify-write под одной транзакцией
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		pp, err := store.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		pp.Stock = 7
		return store.Update(ctx, pp)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	pp, _ := store.GetByID(context.Background(), p.ID)
	if pp.Stock != 7 {
		t.Fatalf("stock expected 7, got %v", pp.Stock)
	}
}

func TestMemorySales_AppendOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sales := NewMemorySales(store)

	for i, total := range []int64{10, 20, 30} {
		s := domain.Sale{
			Lines: []domain.CartLine{{ProductID: "p", ProductName: "A", Quantity: 1}},
			Total: decimal.NewFromInt(total),
		}
		if err := sales.Create(ctx, &s); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if s.ID == "" {
			t.Fatalf("no sale id")
		}
	}

	list, err := sales.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 sales, got %d", len(list))
	}
	for i, total := range []int64{10, 20, 30} {
		if !list[i].Total.Equal(decimal.NewFromInt(total)) {
			t.Fatalf("sale %d out of order: %v", i, list[i].Total)
		}
	}

	// копии: правка выданного среза не трогает журнал
	list[0].Lines[0].Quantity = 99
	again, _ := sales.List(ctx)
	if again[0].Lines[0].Quantity != 1 {
		t.Fatalf("ledger record mutated through returned copy")
	}
}
