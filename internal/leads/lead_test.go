package leads

import "testing"

func TestQueryTypeLabel(t *testing.T) {
	cases := map[string]string{
		"W":      "Direct Enquiry",
		"B":      "Buy-Lead",
		"P":      "PNS Call",
		"BIZ":    "Catalog View",
		"WA":     "WhatsApp Enquiry",
		"FUTURE": "FUTURE",
		"":       "",
	}

	for code, want := range cases {
		if got := QueryTypeLabel(code); got != want {
			t.Fatalf("QueryTypeLabel(%q) = %q, want %q", code, got, want)
		}
	}
}
