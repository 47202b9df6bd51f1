// Package leads provides the CRM lead bounded context: the lead entity,
// its persistence, and the read-side HTTP surface.
package leads

import (
	"time"

	"github.com/google/uuid"
)

// IndiaMART QUERY_TYPE codes. Unrecognized codes are stored verbatim so that
// upstream additions never drop data.
const (
	QueryTypeDirectEnquiry   = "W"
	QueryTypeBuyLead         = "B"
	QueryTypePNSCall         = "P"
	QueryTypeCatalogView     = "BIZ"
	QueryTypeWhatsAppEnquiry = "WA"
)

var queryTypeLabels = map[string]string{
	QueryTypeDirectEnquiry:   "Direct Enquiry",
	QueryTypeBuyLead:         "Buy-Lead",
	QueryTypePNSCall:         "PNS Call",
	QueryTypeCatalogView:     "Catalog View",
	QueryTypeWhatsAppEnquiry: "WhatsApp Enquiry",
}

// QueryTypeLabel returns the human-readable label for a QUERY_TYPE code.
// Unknown codes are returned as-is.
func QueryTypeLabel(code string) string {
	if label, ok := queryTypeLabels[code]; ok {
		return label
	}
	return code
}

// Lead is a prospective sales contact imported from IndiaMART.
type Lead struct {
	ID                 uuid.UUID
	Name               string
	PartnerName        string
	ContactName        string
	Email              string
	Phone              string
	Street             string
	City               string
	StateID            *uuid.UUID
	CountryID          *uuid.UUID
	Description        string
	IndiamartUniqueID  string
	IndiamartQueryType string
	Probability        int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewLead holds the values for creating a lead. It is the strongly-typed
// replacement for the loose field maps the Pull API hands us.
type NewLead struct {
	Name               string
	PartnerName        string
	ContactName        string
	Email              string
	Phone              string
	Street             string
	City               string
	StateID            *uuid.UUID
	CountryID          *uuid.UUID
	Description        string
	IndiamartUniqueID  string
	IndiamartQueryType string
	Probability        int
}
