package commission

import (
	"errors"
	"net/http"
	"strconv"

	"artfolio/internal/middleware"
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

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/commissions")
	{
		g.POST("", h.Create)
		g.GET("/artist", middleware.ArtistOnly(), h.Inbox)
		g.GET("/mine", h.Mine)
		g.GET("/:id", h.Get)
		g.PATCH("/:id", middleware.ArtistOnly(), h.Update)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	out, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) Inbox(c *gin.Context) {
	res, err := h.service.Inbox(c.Request.Context(), middleware.CurrentActor(c), c.Query("status"), utils.ParsePagination(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, res.Items, res.Total, res.Page, res.Limit)
}

func (h *Handler) Mine(c *gin.Context) {
	res, err := h.service.Mine(c.Request.Context(), middleware.CurrentActor(c), c.Query("status"), utils.ParsePagination(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paginated(c, res.Items, res.Total, res.Page, res.Limit)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	out, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	out, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid commission ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCommissionNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Commission not found")
	case errors.Is(err, ErrArtistNotFound):
		response.Error(c, http.StatusNotFound, "ARTIST_NOT_FOUND", "Artist not found")
	case errors.Is(err, ErrCommissionsClosed):
		response.Error(c, http.StatusConflict, "COMMISSIONS_CLOSED", "This artist is not accepting commissions")
	case errors.Is(err, ErrSelfCommission):
		response.Error(c, http.StatusBadRequest, "SELF_COMMISSION", "You cannot commission yourself")
	case errors.Is(err, ErrBriefTooShort):
		response.Error(c, http.StatusBadRequest, "BRIEF_TOO_SHORT", "Brief is too short")
	case errors.Is(err, ErrDeadlineInPast):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Deadline must be in the future",
			map[string]string{"deadline": "future"})
	case errors.Is(err, ErrInvalidStatus):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status",
			map[string]string{"status": "oneof"})
	case errors.Is(err, ErrPriceLocked):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Price can only be set while pending or accepted",
			map[string]string{"price": "locked"})
	case errors.Is(err, ErrNothingToUpdate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No fields to update")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "This status change is not allowed")
	case errors.Is(err, ErrConcurrentUpdate):
		response.Error(c, http.StatusConflict, "CONCURRENT_UPDATE", "The commission was changed by another request")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
