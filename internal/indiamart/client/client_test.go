package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"indiamart_bridge/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, logger.New("development")), server
}

func TestFetch_RequestShape(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"STATUS":"SUCCESS","MESSAGE":"","RESPONSE":[]}`))
	})

	start := time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 25, 23, 59, 59, 0, time.UTC)
	result := c.Fetch(context.Background(), "secret-key", start, end)

	if result.Outcome != OutcomeSuccess {
		t.Fatalf("unexpected outcome: %d (%s)", result.Outcome, result.Message)
	}
	if gotPath != "/wservce/crm/crmListing/v2/" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if got := gotQuery.Get("glusr_crm_key"); got != "secret-key" {
		t.Fatalf("unexpected api key param: %q", got)
	}
	if got := gotQuery.Get("start_time"); got != "25-01-202500:00:00" {
		t.Fatalf("unexpected start_time: %q", got)
	}
	if got := gotQuery.Get("end_time"); got != "25-01-202523:59:59" {
		t.Fatalf("unexpected end_time: %q", got)
	}
}

func TestFetch_DecodesLeads(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"STATUS":"SUCCESS","MESSAGE":"2 records","RESPONSE":[
			{"UNIQUE_QUERY_ID":"Q-1","SENDER_NAME":"Ravi"},
			{"UNIQUE_QUERY_ID":"Q-2","SENDER_NAME":"Asha"}
		]}`))
	})

	result := c.Fetch(context.Background(), "k", time.Now().Add(-time.Hour), time.Now())

	if result.Outcome != OutcomeSuccess {
		t.Fatalf("unexpected outcome: %d", result.Outcome)
	}
	if len(result.Leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(result.Leads))
	}
	if result.Leads[0].UniqueQueryID != "Q-1" || result.Leads[1].SenderName != "Asha" {
		t.Fatalf("leads decoded incorrectly: %+v", result.Leads)
	}
}

func TestFetch_DomainFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"STATUS":"FAILURE","MESSAGE":"Invalid API key","RESPONSE":[]}`))
	})

	result := c.Fetch(context.Background(), "bad-key", time.Now().Add(-time.Hour), time.Now())

	if result.Outcome != OutcomeDomainFailure {
		t.Fatalf("unexpected outcome: %d", result.Outcome)
	}
	if result.Message != "Invalid API key" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestFetch_NonOKStatusIsTransportFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	result := c.Fetch(context.Background(), "k", time.Now().Add(-time.Hour), time.Now())

	if result.Outcome != OutcomeTransportFailure {
		t.Fatalf("unexpected outcome: %d", result.Outcome)
	}
}

func TestFetch_ConnectionRefusedIsTransportFailure(t *testing.T) {
	c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	result := c.Fetch(context.Background(), "k", time.Now().Add(-time.Hour), time.Now())

	if result.Outcome != OutcomeTransportFailure {
		t.Fatalf("unexpected outcome: %d", result.Outcome)
	}
}

func TestFetch_InvalidJSONIsParseFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	})

	result := c.Fetch(context.Background(), "k", time.Now().Add(-time.Hour), time.Now())

	if result.Outcome != OutcomeParseFailure {
		t.Fatalf("unexpected outcome: %d", result.Outcome)
	}
}

func TestTestConnection_OmitsTimeWindow(t *testing.T) {
	var gotQuery url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"STATUS":"SUCCESS","MESSAGE":"","RESPONSE":[]}`))
	})

	message, err := c.TestConnection(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message != "Successfully connected to the IndiaMART API." {
		t.Fatalf("unexpected message: %q", message)
	}
	if gotQuery.Has("start_time") || gotQuery.Has("end_time") {
		t.Fatalf("test connection must not send a time window: %v", gotQuery)
	}
}

func TestTestConnection_DomainFailureSurfacesMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"STATUS":"FAILURE","MESSAGE":"Key expired","RESPONSE":[]}`))
	})

	_, err := c.TestConnection(context.Background(), "k")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); got != "IndiaMART API error: Key expired" {
		t.Fatalf("unexpected error: %q", got)
	}
}
