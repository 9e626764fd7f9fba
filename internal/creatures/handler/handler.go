package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"creaturedex/internal/creatures/service"
	"creaturedex/internal/creatures/transport"
	"creaturedex/platform/httpkit"
	"creaturedex/platform/validator"
)

// Handler handles HTTP requests for the creature collection.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid creature id"
)

// New creates a new creature handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return 0, false
	}
	return id, true
}

// List returns every collected creature.
// GET /api/creatures
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CreatureListResponse{Success: true, Data: items, Total: len(items)})
}

// GetByID returns one creature.
// GET /api/creatures/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rec, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CreatureResponse{Success: true, Data: &rec})
}

// GetByName returns one creature by case-insensitive name.
// GET /api/creatures/name/:name
func (h *Handler) GetByName(c *gin.Context) {
	rec, err := h.svc.GetByName(c.Request.Context(), c.Param("name"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CreatureResponse{Success: true, Data: &rec})
}

// Exists reports whether a name is already collected.
// GET /api/creatures/exists/:name
func (h *Handler) Exists(c *gin.Context) {
	exists, err := h.svc.Exists(c.Request.Context(), c.Param("name"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ExistsResponse{Success: true, Exists: exists})
}

// Create inserts a creature.
// POST /api/creatures
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCreatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.CreatureResponse{
		Success: true,
		Data:    &rec,
		Message: "creature added to collection",
	})
}

// Delete removes a creature.
// DELETE /api/creatures/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Success: true, Message: "creature removed from collection"})
}

// Stats summarizes the collection.
// GET /api/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.StatsResponse{Success: true, Stats: &stats})
}

// Reseed queues a background reseed. The body is optional.
// POST /api/admin/reseed
func (h *Handler) Reseed(c *gin.Context) {
	var req transport.ReseedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	result, err := h.svc.RequestReseed(c.Request.Context(), req.Dataset)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, result)
}
