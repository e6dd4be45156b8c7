package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"mercadinho/internal/domain"
	"mercadinho/internal/repository"
	"mercadinho/internal/service"
)

type Server struct {
	engine  *gin.Engine
	catalog *service.CatalogService
	ledger  *service.LedgerService
}

func NewServer(catalog *service.CatalogService, ledger *service.LedgerService) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{engine: r, catalog: catalog, ledger: ledger}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.POST("", s.createProduct)
		products.GET(":id", s.getProduct)
		products.PUT(":id", s.updateProduct)
		products.DELETE(":id", s.deleteProduct)
		products.GET("", s.listProducts)

		sales := v1.Group("/sales")
		sales.POST("", s.commitSale)
		sales.GET("", s.listSales)
	}
}

// Product handlers
type createProductReq struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int64           `json:"stock_quantity"`
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param input body createProductReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.catalog.Add(c, req.Name, req.UnitPrice, req.Stock)
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.catalog.Get(c, c.Param("id"))
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateProductReq struct {
	Name      *string          `json:"name"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Stock     *int64           `json:"stock_quantity"`
}

// @Summary Update product (partial)
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param input body updateProductReq true "Fields to change"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req updateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.catalog.Update(c, c.Param("id"), service.ProductUpdate{
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Stock:     req.Stock,
	})
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.catalog.Delete(c, c.Param("id")); err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} domain.Product
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	list, err := s.catalog.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Sale handlers
type saleItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type commitSaleReq struct {
	Items []saleItemReq `json:"items"`
}

// @Summary Commit sale
// @Description Снимает остатки по всем позициям атомарно и записывает продажу в журнал
// @Tags sales
// @Accept json
// @Produce json
// @Param input body commitSaleReq true "Cart"
// @Success 201 {object} domain.Sale
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sales [post]
func (s *Server) commitSale(c *gin.Context) {
	var req commitSaleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	// корзина собирается из снимков товаров на момент запроса
	cart := make([]domain.CartLine, 0, len(req.Items))
	for _, it := range req.Items {
		p, err := s.catalog.Get(c, it.ProductID)
		if err != nil {
			status := mapErrorToStatus(err)
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		cart = append(cart, domain.CartLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   p.UnitPrice,
			LineTotal:   p.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	sale, err := s.ledger.CommitSale(c, cart)
	if err != nil {
		status := mapErrorToStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// @Summary List sales
// @Tags sales
// @Produce json
// @Success 200 {array} domain.Sale
// @Router /sales [get]
func (s *Server) listSales(c *gin.Context) {
	list, err := s.ledger.ListSales(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
