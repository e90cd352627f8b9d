package artwork

import (
	"errors"
	"net/http"
	"strconv"

	"artfolio/internal/middleware"
	"artfolio/internal/pkg/response"
	"artfolio/internal/pkg/utils"
	"artfolio/internal/storage"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for the text fields next to the image.
const multipartOverhead = 1 << 20

type Handler struct {
	service       *Service
	maxUploadSize int64
}

func NewHandler(service *Service, maxUploadSize int64) *Handler {
	return &Handler{service: service, maxUploadSize: maxUploadSize}
}

// RegisterRoutes mounts the catalog. public should carry OptionalAuth,
// protected the full auth gate.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	pub := public.Group("/artworks")
	{
		pub.GET("", h.List)
		pub.GET("/:id", h.Get)
		pub.GET("/:id/comments", h.ListComments)
	}

	g := protected.Group("/artworks")
	{
		g.POST("", middleware.ArtistOnly(), h.Create)
		g.PATCH("/:id", middleware.ArtistOrAdmin(), h.Update)
		g.DELETE("/:id", middleware.ArtistOrAdmin(), h.Delete)

		g.PATCH("/:id/like", h.likeHandler(LikeToggle))
		g.PUT("/:id/like", h.likeHandler(LikeAdd))
		g.DELETE("/:id/like", h.likeHandler(LikeRemove))

		g.POST("/:id/comments", h.AddComment)
	}
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.List(c.Request.Context(), q)
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

	a, err := h.service.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// Create accepts multipart/form-data with an "image" file, or JSON with
// image_url.
func (h *Handler) Create(c *gin.Context) {
	var in CreateInput

	if c.ContentType() == "multipart/form-data" {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)

		var form CreateArtworkForm
		if err := c.ShouldBind(&form); err != nil {
			response.BindError(c, err)
			return
		}
		fh, err := c.FormFile("image")
		if err != nil {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image file is required",
				map[string]string{"image": "required"})
			return
		}
		file, err := fh.Open()
		if err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cannot read uploaded image")
			return
		}
		defer file.Close()

		in = CreateInput{
			Title:       form.Title,
			Description: form.Description,
			Price:       form.Price,
			Category:    form.Category,
			Tags:        utils.SplitTags(form.Tags),
			IsForSale:   form.IsForSale == nil || *form.IsForSale,
			Image:       &ImageUpload{Reader: file, Size: fh.Size},
		}
	} else {
		var req CreateArtworkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
		in = CreateInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Tags:        req.Tags,
			IsForSale:   req.IsForSale == nil || *req.IsForSale,
			ImageURL:    req.ImageURL,
		}
	}

	a, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	a, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true, "id": id})
}

func (h *Handler) likeHandler(op LikeOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		res, err := h.service.Like(c.Request.Context(), middleware.CurrentActor(c), id, op)
		if err != nil {
			h.fail(c, err)
			return
		}
		response.Success(c, http.StatusOK, res)
	}
}

func (h *Handler) AddComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	comments, err := h.service.AddComment(c.Request.Context(), middleware.CurrentActor(c), id, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, comments)
}

func (h *Handler) ListComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	comments, err := h.service.ListComments(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, comments)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid artwork ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, ErrArtworkNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Artwork not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only modify your own artworks")
	case errors.Is(err, ErrNotAnArtist):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only artists can publish artworks")
	case errors.Is(err, ErrInvalidComment):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Comment must be 1-1000 characters",
			map[string]string{"text": "length"})
	case errors.Is(err, ErrInvalidSort):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown sort order",
			map[string]string{"sort": "oneof"})
	case errors.Is(err, ErrNothingToUpdate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No fields to update")
	case errors.Is(err, ErrImageRequired), errors.Is(err, storage.ErrEmptyFile):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image is required",
			map[string]string{"image": "required"})
	case errors.Is(err, storage.ErrFileTooLarge), errors.As(err, &maxBytes):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image is too large",
			map[string]string{"image": "max_size"})
	case errors.Is(err, storage.ErrUnsupportedType):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image must be jpeg, png, gif or webp",
			map[string]string{"image": "mime"})
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
