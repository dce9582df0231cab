package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"sewlovely/internal/caching"
	"sewlovely/internal/common"
	"sewlovely/internal/models"
	"sewlovely/internal/repositories"
	"sewlovely/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const productCatalogTTL = 30 * time.Minute

// ProductHandlers handles HTTP requests for the product catalog and the
// price calculators.
type ProductHandlers struct {
	productRepo    repositories.ProductRepository
	cacheSvc       caching.CacheService
	pricingService *services.PricingService
}

// NewProductHandlers creates a new product handlers instance
func NewProductHandlers(productRepo repositories.ProductRepository, cacheSvc caching.CacheService,
	pricingService *services.PricingService) *ProductHandlers {
	return &ProductHandlers{
		productRepo:    productRepo,
		cacheSvc:       cacheSvc,
		pricingService: pricingService,
	}
}

// ListProducts handles GET /products. The full catalog is cached; a cache
// miss or cache error falls through to the database. Category-filtered lists
// bypass the cache.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	if category := c.QueryParam("category"); category != "" {
		products, err := h.productRepo.ListByCategory(ctx, category)
		if err != nil {
			return common.SendServerError(c, "Failed to list products")
		}
		return c.JSON(http.StatusOK, products)
	}

	cached, err := h.cacheSvc.GetProductCatalog(ctx)
	if err != nil {
		log.Printf("Product catalog cache read failed: %v", err)
	}
	if cached != nil {
		return c.JSON(http.StatusOK, cached)
	}

	products, err := h.productRepo.List(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to list products")
	}

	if err := h.cacheSvc.SetProductCatalog(ctx, products, productCatalogTTL); err != nil {
		log.Printf("Product catalog cache write failed: %v", err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	product, err := h.productRepo.GetByID(ctx, id)
	if err != nil {
		return common.SendServerError(c, "Failed to load product")
	}
	if product == nil {
		return common.SendNotFoundError(c, "product")
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name     string `json:"name"`
		Price    int64  `json:"price"`
		Category string `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if req.Price <= 0 {
		return common.SendValidationError(c, "price", "must be a positive amount in the smallest currency unit")
	}

	product := &models.Product{
		ID:       uuid.New(),
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
	}
	if err := h.productRepo.Create(ctx, product); err != nil {
		return common.SendServerError(c, "Failed to create product")
	}
	h.invalidateCatalog(ctx)
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	product, err := h.productRepo.GetByID(ctx, id)
	if err != nil {
		return common.SendServerError(c, "Failed to load product")
	}
	if product == nil {
		return common.SendNotFoundError(c, "product")
	}

	var req struct {
		Name     string `json:"name"`
		Price    int64  `json:"price"`
		Category string `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendClientError(c, err.Error())
	}
	if req.Price <= 0 {
		return common.SendValidationError(c, "price", "must be a positive amount in the smallest currency unit")
	}

	product.Name = req.Name
	product.Price = req.Price
	product.Category = req.Category
	if err := h.productRepo.Update(ctx, product); err != nil {
		return common.SendServerError(c, "Failed to update product")
	}
	h.invalidateCatalog(ctx)
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.productRepo.Delete(ctx, id); err != nil {
		return common.SendServerError(c, "Failed to delete product")
	}
	h.invalidateCatalog(ctx)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandlers) invalidateCatalog(ctx context.Context) {
	if err := h.cacheSvc.InvalidateProductCatalog(ctx); err != nil {
		log.Printf("Product catalog cache invalidation failed: %v", err)
	}
}

// Quote handles POST /products/quote
func (h *ProductHandlers) Quote(c echo.Context) error {
	var req struct {
		CalculatorType string `json:"calculator_type"`
		WidthCM        int64  `json:"width_cm"`
		HeightCM       int64  `json:"height_cm"`
		UnitPrice      int64  `json:"unit_price"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	price, err := h.pricingService.Quote(req.CalculatorType, req.WidthCM, req.HeightCM, req.UnitPrice)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int64{"price": price})
}
