package crm

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rihla/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(provider *gin.RouterGroup) {
	g := provider.Group("/crm")
	{
		g.POST("/interactions", h.LogInteraction)
		g.GET("/interactions", h.ListInteractions)
		g.POST("/notes", h.AddNote)
		g.GET("/leads/:id/notes", h.ListNotes)
	}
}

func (h *Handler) LogInteraction(c *gin.Context) {
	var req LogInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	i, err := h.service.LogInteraction(c.Request.Context(), c.GetInt64("provider_id"), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"interaction": i})
}

func (h *Handler) ListInteractions(c *gin.Context) {
	var leadID int64
	if s := c.Query("lead_id"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
			return
		}
		leadID = v
	}

	list, err := h.service.ListInteractions(c.Request.Context(), c.GetInt64("provider_id"), leadID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.List(c, http.StatusOK, list, int64(len(list)))
}

func (h *Handler) AddNote(c *gin.Context) {
	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	n, err := h.service.AddNote(c.Request.Context(), c.GetInt64("provider_id"), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"note": n})
}

func (h *Handler) ListNotes(c *gin.Context) {
	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || leadID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return
	}

	list, err := h.service.ListNotes(c.Request.Context(), leadID, c.GetInt64("provider_id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.List(c, http.StatusOK, list, int64(len(list)))
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidKind), errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotDistributee):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Lead was not distributed to this provider")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "CRM operation failed")
	}
}
