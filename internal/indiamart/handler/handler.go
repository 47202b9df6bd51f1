// Package handler exposes the IndiaMART integration over HTTP: manual fetch,
// connectivity test, fetch logs, and settings management.
package handler

import (
	"net/http"
	"strconv"

	"indiamart_bridge/internal/indiamart/repository"
	"indiamart_bridge/internal/indiamart/service"
	"indiamart_bridge/internal/indiamart/transport"
	"indiamart_bridge/platform/httpkit"
	"indiamart_bridge/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles IndiaMART integration HTTP requests.
type Handler struct {
	service *service.Service
	repo    *repository.Repository
	val     *validator.Validator
}

// New creates a new IndiaMART handler.
func New(svc *service.Service, repo *repository.Repository, val *validator.Validator) *Handler {
	return &Handler{service: svc, repo: repo, val: val}
}

// HandleFetchLeads runs a manual fetch over the submitted window.
// POST /api/v1/indiamart/fetch
func (h *Handler) HandleFetchLeads(c *gin.Context) {
	var req transport.FetchLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	summary, err := h.service.FetchManual(c.Request.Context(), req.StartTime, req.EndTime)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.FetchSummaryResponse{
		LeadsFetched: summary.LeadsFetched,
		LeadsCreated: summary.LeadsCreated,
		Message:      summary.Message,
	})
}

// HandleTestConnection verifies the configured API key against the Pull API.
// POST /api/v1/indiamart/test-connection
func (h *Handler) HandleTestConnection(c *gin.Context) {
	message, err := h.service.TestConnection(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.TestConnectionResponse{Message: message})
}

// HandleListLogs returns fetch log rows, newest first.
// GET /api/v1/indiamart/logs?limit=50
func (h *Handler) HandleListLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.repo.ListLogs(c.Request.Context(), limit)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to list fetch logs", nil)
		return
	}

	responses := make([]transport.FetchLogResponse, 0, len(logs))
	for _, entry := range logs {
		responses = append(responses, transport.FetchLogResponse{
			ID:              entry.ID.String(),
			RequestTime:     entry.RequestTime,
			Status:          entry.Status,
			IsManual:        entry.IsManual,
			LeadsFetched:    entry.LeadsFetched,
			LeadsCreated:    entry.LeadsCreated,
			ResponseMessage: entry.ResponseMessage,
		})
	}
	httpkit.OK(c, gin.H{"logs": responses})
}

// HandleGetSettings returns the stored configuration with the key masked.
// GET /api/v1/indiamart/settings
func (h *Handler) HandleGetSettings(c *gin.Context) {
	settings, err := h.repo.GetSettings(c.Request.Context())
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to read settings", nil)
		return
	}
	httpkit.OK(c, toSettingsResponse(settings))
}

// HandleUpdateSettings replaces the stored Pull API key.
// PUT /api/v1/indiamart/settings
func (h *Handler) HandleUpdateSettings(c *gin.Context) {
	var req transport.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return
	}

	settings, err := h.repo.UpdateAPIKey(c.Request.Context(), req.APIKey)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to update settings", nil)
		return
	}
	httpkit.OK(c, toSettingsResponse(settings))
}

func toSettingsResponse(settings repository.Settings) transport.SettingsResponse {
	resp := transport.SettingsResponse{APIKeySet: settings.APIKey != ""}
	if settings.APIKey != "" {
		prefixLen := 4
		if len(settings.APIKey) < prefixLen {
			prefixLen = len(settings.APIKey)
		}
		resp.APIKeyPrefix = settings.APIKey[:prefixLen]
		resp.UpdatedAt = &settings.UpdatedAt
	}
	return resp
}
