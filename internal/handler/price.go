package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apierror"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/middleware"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type PriceHandler struct{ svc service.PriceService }

func NewPriceHandler(svc service.PriceService) *PriceHandler {
	return &PriceHandler{svc: svc}
}

// CambiarPrecio godoc
// @Summary Cambia el precio de un producto
// @Description Deltas sobre el umbral configurado requieren PIN de supervisor.
// @Tags precios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.PriceChangeRequest true "Nuevo precio y motivo"
// @Success 200 {object} dto.PriceChangeResponse
// @Failure 401 {object} apierror.APIError "Falta PIN o PIN rechazado"
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/precios/cambio [post]
func (h *PriceHandler) CambiarPrecio(c *gin.Context) {
	var req dto.PriceChangeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actorID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	resp, err := h.svc.ApproveChange(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary Historial de cambios de precio de un producto
// @Tags precios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Param limit query int false "Registros (default 50, max 200)"
// @Success 200 {object} []dto.PriceChangeEntry
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id}/historial-precios [get]
func (h *PriceHandler) Historial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de producto inválido"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.svc.History(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ── Public price check ───────────────────────────────────────────────────────

// PriceCheckHandler serves the public price check endpoint.
// No authentication required and no side effects.
type PriceCheckHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewPriceCheckHandler(repo repository.ProductRepository, rdb *redis.Client) *PriceCheckHandler {
	return &PriceCheckHandler{repo: repo, rdb: rdb}
}

// PorBarcode godoc
// @Summary Consulta de precio por código de barras (sin autenticación)
// @Tags precio
// @Produce json
// @Param barcode path string true "Código de barras"
// @Success 200 {object} dto.PriceCheckResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{barcode} [get]
func (h *PriceCheckHandler) PorBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()
	cacheKey := service.PriceCacheKey(barcode)

	// 1. Try Redis cache first; price changes invalidate this key on commit.
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceCheckResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	product, err := h.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}

	resp := dto.PriceCheckResponse{
		Name:          product.Name,
		Price:         product.Price,
		StockAvail:    product.Stock,
		Bioequivalent: product.Bioequivalent,
		Generic:       product.Generic,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, service.PriceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}

// ── Product search ───────────────────────────────────────────────────────────

// ProductsHandler serves the authenticated product lookup used at the counter
// when a barcode will not scan.
type ProductsHandler struct{ repo repository.ProductRepository }

func NewProductsHandler(repo repository.ProductRepository) *ProductsHandler {
	return &ProductsHandler{repo: repo}
}

// Buscar godoc
// @Summary Busca productos por nombre o código de barras
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param q query string true "Término de búsqueda (mínimo 3 caracteres)"
// @Param limit query int false "Resultados (default 20, max 50)"
// @Success 200 {object} []dto.ProductSearchResult
// @Router /v1/productos [get]
func (h *ProductsHandler) Buscar(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if len(term) < 3 {
		c.JSON(http.StatusBadRequest, apierror.New("q debe tener al menos 3 caracteres"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, err := h.repo.Search(c.Request.Context(), term, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al buscar productos"))
		return
	}

	resp := make([]dto.ProductSearchResult, 0, len(products))
	for i := range products {
		p := &products[i]
		resp = append(resp, dto.ProductSearchResult{
			ID:            p.ID.String(),
			Barcode:       p.Barcode,
			Name:          p.Name,
			Price:         p.Price,
			Stock:         p.Stock,
			Bioequivalent: p.Bioequivalent,
			Generic:       p.Generic,
		})
	}
	c.JSON(http.StatusOK, resp)
}
