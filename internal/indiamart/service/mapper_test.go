package service

import (
	"strings"
	"testing"

	"indiamart_bridge/internal/indiamart/transport"
)

func TestProbabilityFor_KnownQueryTypes(t *testing.T) {
	cases := map[string]int{
		"P":   75,
		"W":   50,
		"WA":  40,
		"B":   25,
		"BIZ": 10,
	}

	for queryType, want := range cases {
		if got := ProbabilityFor(queryType); got != want {
			t.Fatalf("ProbabilityFor(%q) = %d, want %d", queryType, got, want)
		}
	}
}

func TestProbabilityFor_UnknownAndMissingDefaultToTen(t *testing.T) {
	if got := ProbabilityFor("XYZ"); got != 10 {
		t.Fatalf("ProbabilityFor(XYZ) = %d, want 10", got)
	}
	if got := ProbabilityFor(""); got != 10 {
		t.Fatalf("ProbabilityFor(\"\") = %d, want 10", got)
	}
}

func TestBuildLead_FullRecord(t *testing.T) {
	raw := transport.RawLead{
		UniqueQueryID: "Q-1001",
		QueryType:     "P",
		SenderName:    "Ravi Kumar",
		SenderCompany: "Kumar Traders",
		Subject:       "Need 100 units",
		QueryMessage:  "Please share pricing.",
		ProductName:   "Steel Pipes",
		SenderCity:    "Pune",
		SenderState:   "Maharashtra",
		SenderEmail:   "ravi@example.com",
		SenderMobile:  "+91 98765 43210",
		SenderAddress: "12 MG Road",
	}

	lead := BuildLead(raw)

	if lead.Name != "Ravi Kumar - Need 100 units" {
		t.Fatalf("unexpected lead name: %q", lead.Name)
	}
	if lead.PartnerName != "Kumar Traders" {
		t.Fatalf("unexpected partner name: %q", lead.PartnerName)
	}
	if lead.Probability != 75 {
		t.Fatalf("unexpected probability: %d", lead.Probability)
	}
	if lead.IndiamartUniqueID != "Q-1001" {
		t.Fatalf("unexpected unique id: %q", lead.IndiamartUniqueID)
	}
	if lead.IndiamartQueryType != "P" {
		t.Fatalf("unexpected query type: %q", lead.IndiamartQueryType)
	}
	if lead.Phone != "+919876543210" {
		t.Fatalf("phone not normalized to E.164: %q", lead.Phone)
	}
	if !strings.Contains(lead.Description, "Subject: Need 100 units") {
		t.Fatalf("description missing subject: %q", lead.Description)
	}
	if !strings.Contains(lead.Description, "Sender Location: Pune, Maharashtra") {
		t.Fatalf("description missing location: %q", lead.Description)
	}
}

func TestBuildLead_MissingFieldsGetDefaults(t *testing.T) {
	lead := BuildLead(transport.RawLead{UniqueQueryID: "Q-2"})

	if lead.Name != "N/A - Inquiry" {
		t.Fatalf("unexpected lead name: %q", lead.Name)
	}
	if lead.Probability != 10 {
		t.Fatalf("unexpected probability: %d", lead.Probability)
	}
	if !strings.Contains(lead.Description, "Subject: N/A") {
		t.Fatalf("description missing subject default: %q", lead.Description)
	}
	if !strings.Contains(lead.Description, "Message: N/A") {
		t.Fatalf("description missing message default: %q", lead.Description)
	}
	if !strings.Contains(lead.Description, "Query Type: N/A") {
		t.Fatalf("description missing query type default: %q", lead.Description)
	}
}

func TestBuildLead_CompanyFallsBackToSenderName(t *testing.T) {
	lead := BuildLead(transport.RawLead{UniqueQueryID: "Q-3", SenderName: "Asha"})

	if lead.PartnerName != "Asha" {
		t.Fatalf("unexpected partner name: %q", lead.PartnerName)
	}
}

func TestBuildLead_UnrecognizedQueryTypeKeptVerbatim(t *testing.T) {
	lead := BuildLead(transport.RawLead{UniqueQueryID: "Q-4", QueryType: "NEWTYPE"})

	if lead.IndiamartQueryType != "NEWTYPE" {
		t.Fatalf("query type not carried verbatim: %q", lead.IndiamartQueryType)
	}
	if lead.Probability != 10 {
		t.Fatalf("unexpected probability for unknown type: %d", lead.Probability)
	}
}
