package leads

import (
	"net/http"
	"strconv"
	"time"

	"indiamart_bridge/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles lead HTTP requests.
type Handler struct {
	repo *Repository
}

// NewHandler creates a new leads handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// LeadResponse is the JSON shape for a single lead.
type LeadResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	PartnerName    string     `json:"partnerName"`
	ContactName    string     `json:"contactName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Street         string     `json:"street"`
	City           string     `json:"city"`
	StateID        *uuid.UUID `json:"stateId,omitempty"`
	CountryID      *uuid.UUID `json:"countryId,omitempty"`
	Description    string     `json:"description"`
	UniqueID       string     `json:"indiamartUniqueId"`
	QueryType      string     `json:"indiamartQueryType"`
	QueryTypeLabel string     `json:"indiamartQueryTypeLabel"`
	Probability    int        `json:"probability"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// HandleList returns imported leads, newest first.
// GET /api/v1/leads?limit=100
func (h *Handler) HandleList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	results, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to list leads", nil)
		return
	}

	responses := make([]LeadResponse, 0, len(results))
	for _, lead := range results {
		responses = append(responses, toLeadResponse(lead))
	}
	httpkit.OK(c, gin.H{"leads": responses})
}

func toLeadResponse(lead Lead) LeadResponse {
	return LeadResponse{
		ID:             lead.ID,
		Name:           lead.Name,
		PartnerName:    lead.PartnerName,
		ContactName:    lead.ContactName,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Street:         lead.Street,
		City:           lead.City,
		StateID:        lead.StateID,
		CountryID:      lead.CountryID,
		Description:    lead.Description,
		UniqueID:       lead.IndiamartUniqueID,
		QueryType:      lead.IndiamartQueryType,
		QueryTypeLabel: QueryTypeLabel(lead.IndiamartQueryType),
		Probability:    lead.Probability,
		CreatedAt:      lead.CreatedAt,
	}
}
