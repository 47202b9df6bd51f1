package service

import (
	"context"
	"testing"
	"time"

	"indiamart_bridge/internal/indiamart/client"
	"indiamart_bridge/internal/indiamart/repository"
	"indiamart_bridge/internal/indiamart/transport"
	"indiamart_bridge/internal/leads"
	"indiamart_bridge/platform/apperr"
	"indiamart_bridge/platform/logger"

	"github.com/google/uuid"
)

type stubLeadStore struct {
	existing  map[string]bool
	created   []leads.NewLead
	stateIDs  map[string]uuid.UUID
	countries map[string]uuid.UUID
}

func newStubLeadStore() *stubLeadStore {
	return &stubLeadStore{
		existing:  map[string]bool{},
		stateIDs:  map[string]uuid.UUID{},
		countries: map[string]uuid.UUID{},
	}
}

func (s *stubLeadStore) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	return s.existing[externalID], nil
}

func (s *stubLeadStore) Create(ctx context.Context, in leads.NewLead) (leads.Lead, error) {
	if s.existing[in.IndiamartUniqueID] {
		return leads.Lead{}, leads.ErrDuplicateExternalID
	}
	s.existing[in.IndiamartUniqueID] = true
	s.created = append(s.created, in)
	return leads.Lead{ID: uuid.New(), Name: in.Name, IndiamartUniqueID: in.IndiamartUniqueID}, nil
}

func (s *stubLeadStore) FindStateByName(ctx context.Context, name string) (*uuid.UUID, error) {
	if id, ok := s.stateIDs[name]; ok {
		return &id, nil
	}
	return nil, nil
}

func (s *stubLeadStore) FindCountryByISO(ctx context.Context, isoCode string) (*uuid.UUID, error) {
	if id, ok := s.countries[isoCode]; ok {
		return &id, nil
	}
	return nil, nil
}

type stubLogStore struct {
	entries []repository.NewFetchLog
}

func (s *stubLogStore) Append(ctx context.Context, entry repository.NewFetchLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

type stubSettings struct {
	key string
}

func (s *stubSettings) GetAPIKey(ctx context.Context) (string, error) {
	return s.key, nil
}

type stubClient struct {
	result client.FetchResult
	calls  int
}

func (c *stubClient) Fetch(ctx context.Context, apiKey string, start, end time.Time) client.FetchResult {
	c.calls++
	return c.result
}

func (c *stubClient) TestConnection(ctx context.Context, apiKey string) (string, error) {
	return "Successfully connected to the IndiaMART API.", nil
}

type stubNotifier struct {
	messages []string
}

func (n *stubNotifier) SendFetchFailureAlert(ctx context.Context, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func newFixture(result client.FetchResult) (*Service, *stubClient, *stubLeadStore, *stubLogStore, *stubNotifier) {
	pullClient := &stubClient{result: result}
	leadStore := newStubLeadStore()
	logStore := &stubLogStore{}
	notifier := &stubNotifier{}
	svc := New(pullClient, leadStore, logStore, &stubSettings{key: "test-key"}, notifier, logger.New("development"))
	return svc, pullClient, leadStore, logStore, notifier
}

func rawLeads(ids ...string) []transport.RawLead {
	out := make([]transport.RawLead, 0, len(ids))
	for _, id := range ids {
		out = append(out, transport.RawLead{UniqueQueryID: id, SenderName: "Sender " + id})
	}
	return out
}

func window() (time.Time, time.Time) {
	end := time.Now()
	return end.Add(-time.Hour), end
}

func TestFetchManual_CreatesNewLeads(t *testing.T) {
	svc, _, leadStore, logStore, _ := newFixture(client.FetchResult{
		Outcome: client.OutcomeSuccess,
		Leads:   rawLeads("Q-1", "Q-2", "Q-3"),
	})

	start, end := window()
	summary, err := svc.FetchManual(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.LeadsFetched != 3 || summary.LeadsCreated != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(leadStore.created) != 3 {
		t.Fatalf("expected 3 created leads, got %d", len(leadStore.created))
	}
	if len(logStore.entries) != 1 {
		t.Fatalf("expected exactly one log row, got %d", len(logStore.entries))
	}
	entry := logStore.entries[0]
	if entry.Status != repository.StatusSuccess || !entry.IsManual {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
	if entry.LeadsFetched != 3 || entry.LeadsCreated != 3 {
		t.Fatalf("unexpected log counts: %+v", entry)
	}
}

func TestFetchManual_RefetchIsIdempotent(t *testing.T) {
	svc, _, leadStore, logStore, _ := newFixture(client.FetchResult{
		Outcome: client.OutcomeSuccess,
		Leads:   rawLeads("Q-1", "Q-2"),
	})

	start, end := window()
	if _, err := svc.FetchManual(context.Background(), start, end); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	summary, err := svc.FetchManual(context.Background(), start, end)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if summary.LeadsFetched != 2 || summary.LeadsCreated != 0 {
		t.Fatalf("unexpected second summary: %+v", summary)
	}
	if len(leadStore.created) != 2 {
		t.Fatalf("leads duplicated on refetch: %d", len(leadStore.created))
	}
	if len(logStore.entries) != 2 {
		t.Fatalf("expected one log row per run, got %d", len(logStore.entries))
	}
}

func TestFetchManual_SkipsRecordsWithoutUniqueID(t *testing.T) {
	leadsIn := rawLeads("Q-1")
	leadsIn = append(leadsIn, transport.RawLead{SenderName: "no id"})
	svc, _, leadStore, _, _ := newFixture(client.FetchResult{
		Outcome: client.OutcomeSuccess,
		Leads:   leadsIn,
	})

	start, end := window()
	summary, err := svc.FetchManual(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.LeadsFetched != 2 || summary.LeadsCreated != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(leadStore.created) != 1 {
		t.Fatalf("expected 1 created lead, got %d", len(leadStore.created))
	}
}

func TestFetchManual_WindowViolationsRejectedBeforeFetch(t *testing.T) {
	svc, pullClient, _, logStore, _ := newFixture(client.FetchResult{Outcome: client.OutcomeSuccess})
	now := time.Now()

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"start after end", now, now.Add(-time.Hour)},
		{"start equals end", now, now},
		{"window over seven days", now.Add(-8 * 24 * time.Hour), now},
	}

	for _, tc := range cases {
		_, err := svc.FetchManual(context.Background(), tc.start, tc.end)
		if err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%s: unexpected error kind: %v", tc.name, err)
		}
	}

	if pullClient.calls != 0 {
		t.Fatalf("pull api called despite invalid window: %d calls", pullClient.calls)
	}
	if len(logStore.entries) != 0 {
		t.Fatalf("window violations must not be logged, got %d rows", len(logStore.entries))
	}
}

func TestFetchManual_MissingAPIKeyIsLogged(t *testing.T) {
	pullClient := &stubClient{}
	logStore := &stubLogStore{}
	svc := New(pullClient, newStubLeadStore(), logStore, &stubSettings{key: ""}, nil, logger.New("development"))

	start, end := window()
	_, err := svc.FetchManual(context.Background(), start, end)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apperr.Is(err, apperr.KindConfiguration) {
		t.Fatalf("unexpected error kind: %v", err)
	}
	if pullClient.calls != 0 {
		t.Fatalf("pull api called without an api key: %d calls", pullClient.calls)
	}
	if len(logStore.entries) != 1 {
		t.Fatalf("expected one failure log row, got %d", len(logStore.entries))
	}
	if logStore.entries[0].Status != repository.StatusFailure {
		t.Fatalf("unexpected log status: %q", logStore.entries[0].Status)
	}
}

func TestFetchManual_DomainFailureCountsFetched(t *testing.T) {
	svc, _, leadStore, logStore, _ := newFixture(client.FetchResult{
		Outcome: client.OutcomeDomainFailure,
		Leads:   rawLeads("Q-1"),
		Message: "Invalid API key",
	})

	start, end := window()
	summary, err := svc.FetchManual(context.Background(), start, end)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("unexpected error kind: %v", err)
	}

	if summary.LeadsFetched != 1 || summary.LeadsCreated != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(leadStore.created) != 0 {
		t.Fatalf("leads created on a failed run: %d", len(leadStore.created))
	}
	if len(logStore.entries) != 1 || logStore.entries[0].Status != repository.StatusFailure {
		t.Fatalf("unexpected log entries: %+v", logStore.entries)
	}
	if logStore.entries[0].LeadsFetched != 1 {
		t.Fatalf("failure log must keep the fetched count: %+v", logStore.entries[0])
	}
}

func TestFetchManual_TransportFailureIsLogged(t *testing.T) {
	svc, _, _, logStore, _ := newFixture(client.FetchResult{
		Outcome: client.OutcomeTransportFailure,
		Message: "upstream error: status 503",
	})

	start, end := window()
	_, err := svc.FetchManual(context.Background(), start, end)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("unexpected error kind: %v", err)
	}
	if len(logStore.entries) != 1 || logStore.entries[0].Status != repository.StatusFailure {
		t.Fatalf("unexpected log entries: %+v", logStore.entries)
	}
}

func TestFetchManual_GeographyMissesAreNonFatal(t *testing.T) {
	svc, _, leadStore, _, _ := newFixture(client.FetchResult{
		Outcome: client.OutcomeSuccess,
		Leads: []transport.RawLead{
			{UniqueQueryID: "Q-1", SenderState: "Atlantis", SenderCountryISO: "ZZ"},
		},
	})

	start, end := window()
	summary, err := svc.FetchManual(context.Background(), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.LeadsCreated != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	created := leadStore.created[0]
	if created.StateID != nil || created.CountryID != nil {
		t.Fatalf("unknown geography must leave references empty: %+v", created)
	}
}

func TestFetchManual_ResolvesKnownGeography(t *testing.T) {
	svc, _, leadStore, _, _ := newFixture(client.FetchResult{
		Outcome: client.OutcomeSuccess,
		Leads: []transport.RawLead{
			{UniqueQueryID: "Q-1", SenderState: "Maharashtra", SenderCountryISO: "IN"},
		},
	})
	stateID := uuid.New()
	countryID := uuid.New()
	leadStore.stateIDs["Maharashtra"] = stateID
	leadStore.countries["IN"] = countryID

	start, end := window()
	if _, err := svc.FetchManual(context.Background(), start, end); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created := leadStore.created[0]
	if created.StateID == nil || *created.StateID != stateID {
		t.Fatalf("state not resolved: %+v", created.StateID)
	}
	if created.CountryID == nil || *created.CountryID != countryID {
		t.Fatalf("country not resolved: %+v", created.CountryID)
	}
}

func TestFetchScheduled_SwallowsErrorsAndAlerts(t *testing.T) {
	svc, _, _, logStore, notifier := newFixture(client.FetchResult{
		Outcome: client.OutcomeTransportFailure,
		Message: "connection refused",
	})

	svc.FetchScheduled(context.Background(), 10*time.Minute)

	if len(logStore.entries) != 1 {
		t.Fatalf("expected one failure log row, got %d", len(logStore.entries))
	}
	entry := logStore.entries[0]
	if entry.Status != repository.StatusFailure || entry.IsManual {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one alert, got %d", len(notifier.messages))
	}
}

func TestFetchScheduled_NilNotifierDoesNotPanic(t *testing.T) {
	logStore := &stubLogStore{}
	pullClient := &stubClient{result: client.FetchResult{Outcome: client.OutcomeTransportFailure, Message: "down"}}
	svc := New(pullClient, newStubLeadStore(), logStore, &stubSettings{key: "k"}, nil, logger.New("development"))

	svc.FetchScheduled(context.Background(), 10*time.Minute)

	if len(logStore.entries) != 1 {
		t.Fatalf("expected one failure log row, got %d", len(logStore.entries))
	}
}

func TestTestConnection_MissingKeyIsConfigurationError(t *testing.T) {
	svc := New(&stubClient{}, newStubLeadStore(), &stubLogStore{}, &stubSettings{key: ""}, nil, logger.New("development"))

	_, err := svc.TestConnection(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !apperr.Is(err, apperr.KindConfiguration) {
		t.Fatalf("unexpected error kind: %v", err)
	}
}
