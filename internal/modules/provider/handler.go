package provider

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

func (h *Handler) RegisterRoutes(protected, providerGroup, admin *gin.RouterGroup) {
	protected.GET("/plans", h.ListPlans)

	providerGroup.POST("/subscriptions", h.Subscribe)
	providerGroup.GET("/subscriptions", h.ActiveSubscriptions)

	admin.GET("/providers", h.List)
	admin.GET("/providers/:id", h.Get)
	admin.PATCH("/providers/:id/flags", h.UpdateFlags)
	admin.POST("/plans", h.CreatePlan)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"provider": p})
}

func (h *Handler) List(c *gin.Context) {
	limit := 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}

	list, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.List(c, http.StatusOK, list, total)
}

func (h *Handler) UpdateFlags(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.UpdateFlags(c.Request.Context(), id, req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"provider": p})
}

func (h *Handler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.List(c, http.StatusOK, plans, int64(len(plans)))
}

func (h *Handler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	p, err := h.service.CreatePlan(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"plan": p})
}

func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), c.GetInt64("provider_id"), req.PlanID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subscription": sub})
}

func (h *Handler) ActiveSubscriptions(c *gin.Context) {
	subs, err := h.service.ActiveSubscriptions(c.Request.Context(), c.GetInt64("provider_id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.List(c, http.StatusOK, subs, int64(len(subs)))
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "PROVIDER_NOT_FOUND", "Provider not found")
	case errors.Is(err, ErrPlanNotFound):
		response.Error(c, http.StatusNotFound, "PLAN_NOT_FOUND", "Plan not found")
	case errors.Is(err, ErrPlanInactive):
		response.Error(c, http.StatusConflict, "PLAN_INACTIVE", "Plan is not active")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Provider operation failed")
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid provider ID")
		return 0, false
	}
	return id, true
}
