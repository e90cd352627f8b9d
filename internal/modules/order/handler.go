package order

import (
	"errors"
	"net/http"

	"artfolio/internal/middleware"
	"artfolio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/orders")
	{
		g.POST("", h.Create)
		g.GET("/my-orders", h.MyOrders)
		g.GET("/sales/history", middleware.ArtistOnly(), h.SalesHistory)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	o, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, o)
}

func (h *Handler) MyOrders(c *gin.Context) {
	items, err := h.service.MyOrders(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) SalesHistory(c *gin.Context) {
	items, err := h.service.SalesHistory(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrArtworkNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Artwork not found")
	case errors.Is(err, ErrNotForSale):
		response.Error(c, http.StatusConflict, "NOT_FOR_SALE", "This artwork is not for sale")
	case errors.Is(err, ErrOwnArtwork):
		response.Error(c, http.StatusBadRequest, "OWN_ARTWORK", "You cannot buy your own artwork")
	case errors.Is(err, ErrAlreadyPurchased):
		response.Error(c, http.StatusConflict, "ALREADY_PURCHASED", "You have already purchased this artwork")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
