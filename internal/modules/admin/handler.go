package admin

import (
	"errors"
	"net/http"
	"strconv"

	"artfolio/internal/middleware"
	"artfolio/internal/modules/artwork"
	"artfolio/internal/modules/commission"
	"artfolio/internal/pkg/response"
	"artfolio/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already guarded by middleware.AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// statistics
	admin.GET("/stats", h.GetStats)

	// users moderation
	admin.GET("/users", h.GetUsers)
	admin.PATCH("/users/:id/ban", h.banHandler(true))
	admin.PATCH("/users/:id/unban", h.banHandler(false))

	// artworks moderation
	admin.GET("/artworks", h.GetArtworks)
	admin.PATCH("/artworks/:id/flag", h.flagHandler(true))
	admin.PATCH("/artworks/:id/unflag", h.flagHandler(false))
	admin.DELETE("/artworks/:id", h.DeleteArtwork)

	// ledgers
	admin.GET("/orders", h.GetOrders)
	admin.GET("/commissions", h.GetCommissions)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) GetUsers(c *gin.Context) {
	var filter UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}
	page := utils.ParsePagination(c)

	users, total, err := h.service.ListUsers(c.Request.Context(), filter, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, users, total, page.Page, page.Limit)
}

func (h *Handler) banHandler(banned bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Invalid user ID")
		if !ok {
			return
		}
		u, err := h.service.SetBanned(c.Request.Context(), middleware.CurrentActor(c), id, banned)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, u)
	}
}

func (h *Handler) GetArtworks(c *gin.Context) {
	var flagged *bool
	if raw := c.Query("flagged"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "flagged must be a boolean",
				map[string]string{"flagged": "boolean"})
			return
		}
		flagged = &v
	}
	page := utils.ParsePagination(c)

	res, err := h.service.ListArtworks(c.Request.Context(), flagged, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, res.Items, res.Total, res.Page, res.Limit)
}

func (h *Handler) flagHandler(flagged bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "Invalid artwork ID")
		if !ok {
			return
		}
		a, err := h.service.SetArtworkFlagged(c.Request.Context(), middleware.CurrentActor(c), id, flagged)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, a)
	}
}

func (h *Handler) DeleteArtwork(c *gin.Context) {
	id, ok := parseID(c, "Invalid artwork ID")
	if !ok {
		return
	}
	if err := h.service.DeleteArtwork(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) GetOrders(c *gin.Context) {
	page := utils.ParsePagination(c)
	items, total, err := h.service.ListOrders(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, items, total, page.Page, page.Limit)
}

func (h *Handler) GetCommissions(c *gin.Context) {
	page := utils.ParsePagination(c)
	res, err := h.service.ListCommissions(c.Request.Context(), middleware.CurrentActor(c), c.Query("status"), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, res.Items, res.Total, res.Page, res.Limit)
}

func parseID(c *gin.Context, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", msg)
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, artwork.ErrArtworkNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Artwork not found")
	case errors.Is(err, ErrCannotBan):
		response.Error(c, http.StatusBadRequest, "CANNOT_BAN", "You cannot ban yourself or another admin")
	case errors.Is(err, ErrInvalidRole):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown role",
			map[string]string{"role": "oneof"})
	case errors.Is(err, commission.ErrInvalidStatus):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown commission status",
			map[string]string{"status": "oneof"})
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
