package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mercadinho/internal/domain"
	httpapi "mercadinho/internal/http"
	"mercadinho/internal/repository"
	"mercadinho/internal/service"

	_ "mercadinho/docs"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store := repository.NewMemoryStore()
	salesRepo := repository.NewMemorySales(store)
	tx := repository.NewMemoryTx(store)

	catalogSvc := service.NewCatalogService(store, tx)
	ledgerSvc := service.NewLedgerService(catalogSvc, salesRepo, logger)

	if os.Getenv("POS_SEED") != "false" {
		seedCatalog(catalogSvc, logger)
	}

	srv := httpapi.NewServer(catalogSvc, ledgerSvc)

	addr := os.Getenv("POS_ADDR")
	if addr == "" {
		addr = ":9091"
	}
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

// seedCatalog заполняет пустой каталог стартовым ассортиментом
func seedCatalog(catalog *service.CatalogService, logger *zap.Logger) {
	ctx := context.Background()
	existing, err := catalog.List(ctx)
	if err != nil || len(existing) > 0 {
		return
	}
	seed := []domain.Product{
		{Name: "Água Mineral 500ml", UnitPrice: decimal.NewFromFloat(2.50), Stock: 50},
		{Name: "Biscoito Recheado", UnitPrice: decimal.NewFromFloat(4.00), Stock: 30},
		{Name: "Salgadinho 50g", UnitPrice: decimal.NewFromFloat(5.50), Stock: 40},
		{Name: "Suco de Laranja 1L", UnitPrice: decimal.NewFromFloat(7.00), Stock: 20},
		{Name: "Refrigerante Lata 350ml", UnitPrice: decimal.NewFromFloat(4.50), Stock: 60},
	}
	for _, p := range seed {
		if _, err := catalog.Add(ctx, p.Name, p.UnitPrice, p.Stock); err != nil {
			logger.Warn("seed product failed", zap.String("name", p.Name), zap.Error(err))
		}
	}
	logger.Info("catalog seeded", zap.Int("products", len(seed)))
}
