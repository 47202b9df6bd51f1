package service

import (
	"fmt"

	"indiamart_bridge/internal/indiamart/transport"
	"indiamart_bridge/internal/leads"
	"indiamart_bridge/platform/phone"
)

// defaultProbability applies to unknown or missing query types.
const defaultProbability = 10

var probabilityByQueryType = map[string]int{
	leads.QueryTypePNSCall:         75,
	leads.QueryTypeDirectEnquiry:   50,
	leads.QueryTypeWhatsAppEnquiry: 40,
	leads.QueryTypeBuyLead:         25,
	leads.QueryTypeCatalogView:     10,
}

// ProbabilityFor returns the win probability assigned to a QUERY_TYPE code.
func ProbabilityFor(queryType string) int {
	if p, ok := probabilityByQueryType[queryType]; ok {
		return p
	}
	return defaultProbability
}

// BuildLead maps a raw Pull API record to lead creation values. It is pure:
// deduplication and geography resolution happen in the orchestrator.
// The query type code is carried verbatim, recognized or not.
func BuildLead(raw transport.RawLead) leads.NewLead {
	return leads.NewLead{
		Name:               fmt.Sprintf("%s - %s", orDefault(raw.SenderName, "N/A"), orDefault(raw.Subject, "Inquiry")),
		PartnerName:        orDefault(raw.SenderCompany, raw.SenderName),
		ContactName:        raw.SenderName,
		Email:              raw.SenderEmail,
		Phone:              phone.NormalizeE164(raw.SenderMobile),
		Street:             raw.SenderAddress,
		City:               raw.SenderCity,
		Description:        buildDescription(raw),
		IndiamartUniqueID:  raw.UniqueQueryID,
		IndiamartQueryType: raw.QueryType,
		Probability:        ProbabilityFor(raw.QueryType),
	}
}

func buildDescription(raw transport.RawLead) string {
	return fmt.Sprintf(
		"IndiaMART Lead\n--------------------\n"+
			"Subject: %s\nMessage: %s\n\n"+
			"Product Name: %s\nSender Location: %s, %s\n"+
			"Query Type: %s\n",
		orDefault(raw.Subject, "N/A"),
		orDefault(raw.QueryMessage, "N/A"),
		orDefault(raw.ProductName, "N/A"),
		raw.SenderCity,
		raw.SenderState,
		orDefault(raw.QueryType, "N/A"),
	)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
