package distribution

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rihla/internal/domain"
	"rihla/internal/middleware"
	"rihla/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the provider inbox under the provider group and the
// manual distribution controls under the admin group.
func (h *Handler) RegisterRoutes(provider, admin *gin.RouterGroup) {
	inbox := provider.Group("/inbox")
	{
		inbox.GET("", h.Inbox)
		inbox.GET("/summary", h.InboxSummary)
		inbox.PATCH("/:id/view", h.MarkViewed)
		inbox.POST("/:id/respond", h.Respond)
		inbox.PATCH("/:id/ignore", h.MarkIgnored)
	}

	admin.POST("/leads/:id/distribute", h.Distribute)
	admin.POST("/leads/:id/redistribute", h.Redistribute)
	admin.GET("/leads/:id/distributions", h.ListForLead)
}

func (h *Handler) Inbox(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var status *domain.DistributionStatus
	if s := c.Query("status"); s != "" {
		st := domain.DistributionStatus(s)
		status = &st
	}
	limit, offset := pagination(c)

	list, total, err := h.service.ListForProvider(c.Request.Context(), actor, status, limit, offset)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.List(c, http.StatusOK, toResponses(list), total)
}

func (h *Handler) InboxSummary(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	summary, err := h.service.ProviderSummary(c.Request.Context(), actor)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

func (h *Handler) MarkViewed(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	d, err := h.service.MarkViewed(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"distribution": toResponse(d)})
}

func (h *Handler) Respond(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.Respond(c.Request.Context(), c.Param("id"), actor, req.Message, req.QuotedPrice)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"distribution": toResponse(d)})
}

func (h *Handler) MarkIgnored(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	d, err := h.service.MarkIgnored(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"distribution": toResponse(d)})
}

func (h *Handler) Distribute(c *gin.Context) {
	leadID, ok := leadParam(c)
	if !ok {
		return
	}

	var req DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	created, err := h.service.Distribute(c.Request.Context(), leadID, req.selector(), req.MaxProviders, req.Strict)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"distributed_to": len(created),
		"distributions":  toResponses(created),
	})
}

func (h *Handler) Redistribute(c *gin.Context) {
	leadID, ok := leadParam(c)
	if !ok {
		return
	}

	created, err := h.service.Redistribute(c.Request.Context(), leadID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"distributed_to": len(created),
		"distributions":  toResponses(created),
	})
}

func (h *Handler) ListForLead(c *gin.Context) {
	leadID, ok := leadParam(c)
	if !ok {
		return
	}

	list, err := h.service.ListForLead(c.Request.Context(), leadID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.List(c, http.StatusOK, toResponses(list), int64(len(list)))
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error(), gin.H{
			"field": verr.Field,
		})
	case errors.Is(err, ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, ErrDistributionNotFound):
		response.Error(c, http.StatusNotFound, "DISTRIBUTION_NOT_FOUND", "Distribution not found")
	case errors.Is(err, ErrNotDistributee):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Distribution belongs to another provider")
	case errors.Is(err, ErrAlreadyDistributed):
		response.Error(c, http.StatusConflict, "ALREADY_DISTRIBUTED", "Lead already distributed to the requested providers")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Distribution operation failed")
	}
}

func leadParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
