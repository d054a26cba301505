package posters

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-poster/backend/internal/copygen"
	"github.com/campus-poster/backend/internal/models"
	"github.com/campus-poster/backend/pkg/queue"
	"github.com/campus-poster/backend/pkg/response"
	"github.com/campus-poster/backend/pkg/storage"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Store persists posters. Implemented by Repository.
type Store interface {
	Create(ctx context.Context, p *models.Poster) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Poster, error)
	List(ctx context.Context, limit int) ([]models.Poster, error)
	UpdateCopies(ctx context.Context, id uuid.UUID, copies copygen.CopyResult, source copygen.Source) error
	UpdateImage(ctx context.Context, id uuid.UUID, key string) error
}

// Generator produces copy for an event. Implemented by copygen.Pipeline.
type Generator interface {
	GenerateWithSource(ctx context.Context, ev copygen.EventData) (copygen.CopyResult, copygen.Source)
	Settings() copygen.Settings
}

// ImageStore keeps exported poster images. Implemented by storage.S3.
type ImageStore interface {
	PutPosterImage(ctx context.Context, key, contentType, downloadName string, body io.Reader, size int64) error
	PosterImageURL(ctx context.Context, key string) (string, error)
	DeletePosterImage(ctx context.Context, key string) error
}

// JobQueue schedules background copy regeneration. Implemented by queue.Queue.
type JobQueue interface {
	EnqueueCopyRegenerate(ctx context.Context, payload queue.CopyRegeneratePayload) (string, error)
}

// ImageRequest is the body for POST /posters/:id/image.
type ImageRequest struct {
	PosterBase64 string `json:"poster_base64" binding:"required"`
}

// Handler handles poster HTTP endpoints.
type Handler struct {
	store     Store
	generator Generator
	images    ImageStore
	jobs      JobQueue
	logger    *zap.Logger
}

// NewHandler creates a poster handler. Image storage and the job queue are optional; see SetImageStore and SetJobQueue.
func NewHandler(store Store, generator Generator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, generator: generator, logger: logger}
}

// SetImageStore enables POST /posters/:id/image and image URLs on reads.
func (h *Handler) SetImageStore(images ImageStore) { h.images = images }

// SetJobQueue enables POST /posters/:id/copies/regenerate.
func (h *Handler) SetJobQueue(jobs JobQueue) { h.jobs = jobs }

// bindEvent decodes and validates an event body, answering the request itself on failure.
func (h *Handler) bindEvent(c *gin.Context) (copygen.EventData, bool) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return copygen.EventData{}, false
	}
	ev := req.Event()
	if errs := Validate(ev, h.generator.Settings().Location); len(errs) > 0 {
		response.Invalid(c, errs)
		return copygen.EventData{}, false
	}
	return ev, true
}

// Create handles POST /posters: store the event, generate copy, store the copy.
func (h *Handler) Create(c *gin.Context) {
	ev, ok := h.bindEvent(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	p := &models.Poster{
		Title:        ev.Title,
		Time:         ev.Time,
		Location:     ev.Location,
		Organizer:    ev.Organizer,
		Description:  ev.Description,
		JoinURL:      ev.JoinURL,
		IsAffiliated: ev.IsAffiliated,
	}
	if err := h.store.Create(ctx, p); err != nil {
		h.logger.Error("create poster failed", zap.Error(err))
		response.Internal(c, "failed to create poster")
		return
	}

	copies, source := h.generator.GenerateWithSource(ctx, ev)
	p.Copies = &copies
	p.CopySource = string(source)
	if err := h.store.UpdateCopies(ctx, p.ID, copies, source); err != nil {
		h.logger.Error("store copies failed", zap.String("poster_id", p.ID.String()), zap.Error(err))
	}
	response.Created(c, p)
}

// GenerateCopies handles POST /copies: generate copy for an event without storing anything.
func (h *Handler) GenerateCopies(c *gin.Context) {
	ev, ok := h.bindEvent(c)
	if !ok {
		return
	}
	copies, source := h.generator.GenerateWithSource(c.Request.Context(), ev)
	response.OK(c, gin.H{"copies": copies, "source": source})
}

// GetByID handles GET /posters/:id.
func (h *Handler) GetByID(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}
	if p.ImageKey != "" && h.images != nil {
		url, err := h.images.PosterImageURL(c.Request.Context(), p.ImageKey)
		if err != nil {
			h.logger.Warn("presign poster image failed", zap.String("poster_id", p.ID.String()), zap.Error(err))
		} else {
			p.ImageURL = url
		}
	}
	response.OK(c, p)
}

// List handles GET /posters?limit=N, newest first.
func (h *Handler) List(c *gin.Context) {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.BadRequest(c, "invalid limit")
			return
		}
		limit = min(n, maxListLimit)
	}
	list, err := h.store.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list posters failed", zap.Error(err))
		response.Internal(c, "failed to list posters")
		return
	}
	response.OK(c, list)
}

// UploadImage handles POST /posters/:id/image with an image exported by the client.
func (h *Handler) UploadImage(c *gin.Context) {
	if h.images == nil {
		response.ServiceUnavailable(c, "image storage not configured")
		return
	}
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	p, ok := h.load(c)
	if !ok {
		return
	}
	img, err := storage.DecodeDataURL(req.PosterBase64)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	key := storage.PosterImageKey(p.ID.String(), img.Ext)
	if err := h.images.PutPosterImage(ctx, key, img.ContentType, downloadName(p, h.generator.Settings(), img.Ext), img.Reader(), int64(len(img.Data))); err != nil {
		h.logger.Error("upload poster image failed", zap.String("poster_id", p.ID.String()), zap.Error(err))
		response.Internal(c, "failed to store image")
		return
	}
	if err := h.store.UpdateImage(ctx, p.ID, key); err != nil {
		h.logger.Error("record poster image failed", zap.String("poster_id", p.ID.String()), zap.Error(err))
		response.Internal(c, "failed to store image")
		return
	}
	if p.ImageKey != "" && p.ImageKey != key {
		if err := h.images.DeletePosterImage(ctx, p.ImageKey); err != nil {
			h.logger.Warn("delete replaced poster image failed", zap.String("key", p.ImageKey), zap.Error(err))
		}
	}
	data := gin.H{"id": p.ID, "image_key": key}
	if url, err := h.images.PosterImageURL(ctx, key); err == nil {
		data["image_url"] = url
	}
	response.OK(c, data)
}

// RegenerateCopies handles POST /posters/:id/copies/regenerate by queueing a worker job.
func (h *Handler) RegenerateCopies(c *gin.Context) {
	if h.jobs == nil {
		response.ServiceUnavailable(c, "job queue not configured")
		return
	}
	p, ok := h.load(c)
	if !ok {
		return
	}
	jobID, err := h.jobs.EnqueueCopyRegenerate(c.Request.Context(), queue.CopyRegeneratePayload{PosterID: p.ID})
	if err != nil {
		h.logger.Error("enqueue copy job failed", zap.String("poster_id", p.ID.String()), zap.Error(err))
		response.Internal(c, "failed to schedule regeneration")
		return
	}
	response.Accepted(c, gin.H{"id": p.ID, "job_id": jobID})
}

func (h *Handler) load(c *gin.Context) (*models.Poster, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid poster id")
		return nil, false
	}
	p, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "poster not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error("get poster failed", zap.String("poster_id", id.String()), zap.Error(err))
		response.Internal(c, "failed to get poster")
		return nil, false
	}
	return p, true
}

// downloadName is "{title}-{3月15日}.png", or "{title}.png" without a usable time.
func downloadName(p *models.Poster, s copygen.Settings, ext string) string {
	name := p.Title
	if date := copygen.FormatDateOnly(p.Time, s.Location); date != "" {
		name += "-" + date
	}
	return name + ext
}

// Register mounts the poster routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/posters", h.Create)
	r.GET("/posters", h.List)
	r.GET("/posters/:id", h.GetByID)
	r.POST("/posters/:id/image", h.UploadImage)
	r.POST("/posters/:id/copies/regenerate", h.RegenerateCopies)
	r.POST("/copies", h.GenerateCopies)
}
