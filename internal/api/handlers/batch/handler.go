package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/dkochetov/imgset/internal/api/respond"
	"github.com/dkochetov/imgset/internal/model"
	batchrepo "github.com/dkochetov/imgset/internal/repository/batch"
)

// service defines the interface for batch-related operations.
type service interface {
	CreateBatch(ctx context.Context, filename string, file io.Reader, spec model.BatchSpec) (uuid.UUID, error)
	GetBatch(ctx context.Context, id uuid.UUID) (model.Batch, error)
	DeleteBatch(ctx context.Context, id uuid.UUID) error
}

// Handler provides HTTP handlers for batch-related endpoints.
// It depends on a service interface to perform the business logic.
type Handler struct {
	service service
}

// NewHandler creates a new Handler with the given service.
func NewHandler(s service) *Handler {
	return &Handler{service: s}
}

// Create handles the HTTP request for submitting a new batch: a source
// image plus the JSON description of the variants to derive from it.
// Processing happens asynchronously; the response carries the batch ID.
func (h *Handler) Create(c *ginext.Context) {
	// Parse the multipart form with a 10MB max memory limit.
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("parse multipart form failed: %v", err))
		return
	}

	// Retrieve the uploaded source image from the form.
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		zlog.Logger.Err(err).Msg("failed to upload the file")
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("failed to retrieve the file"))
		return
	}
	defer file.Close()

	// Parse the "batch" JSON field describing the variants.
	batchJSON := c.PostForm("batch")
	if batchJSON == "" {
		zlog.Logger.Warn().Msg("no batch spec provided")
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("batch field is required"))
		return
	}

	var spec model.BatchSpec
	if err := json.Unmarshal([]byte(batchJSON), &spec); err != nil {
		zlog.Logger.Err(err).Msg("failed to unmarshal the batch spec")
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("failed to unmarshal the batch spec"))
		return
	}

	id, err := h.service.CreateBatch(c.Request.Context(), header.Filename, file, spec)
	if err != nil {
		if errors.Is(err, model.ErrNoVariants) || errors.Is(err, model.ErrUnknownSourceType) {
			respond.Fail(c, http.StatusBadRequest, err)
			return
		}

		zlog.Logger.Err(err).Msg("failed to create batch")
		respond.Fail(c, http.StatusInternalServerError, fmt.Errorf("failed to create batch: %v", err))
		return
	}

	respond.Created(c, map[string]interface{}{
		"id":       id,
		"filename": header.Filename,
	})
}

// Get returns the batch record with its status and any variant results.
func (h *Handler) Get(c *ginext.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBatch(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, batchrepo.ErrBatchNotFound) {
			respond.Fail(c, http.StatusNotFound, fmt.Errorf("batch not found"))
			return
		}

		zlog.Logger.Err(err).Msg("failed to get batch")
		respond.Fail(c, http.StatusInternalServerError, fmt.Errorf("failed to get batch: %v", err))
		return
	}

	respond.OK(c, b)
}

// Delete removes a batch and its stored source by ID.
func (h *Handler) Delete(c *ginext.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBatch(c.Request.Context(), id); err != nil {
		if errors.Is(err, batchrepo.ErrBatchNotFound) {
			respond.Fail(c, http.StatusNotFound, fmt.Errorf("batch not found"))
			return
		}

		zlog.Logger.Err(err).Msg("failed to delete the batch")
		respond.Fail(c, http.StatusInternalServerError, fmt.Errorf("failed to delete batch: %v", err))
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *ginext.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	if idStr == "" {
		zlog.Logger.Warn().Msg("missing id")
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("missing id"))
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Err(err).Msg("failed to parse id")
		respond.Fail(c, http.StatusBadRequest, fmt.Errorf("invalid id: %v", err))
		return uuid.Nil, false
	}

	return id, true
}
