// Package service implements the lead fetch orchestration: validate the
// window, call the Pull API, map and persist each new lead, and write exactly
// one fetch log row per attempt.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"indiamart_bridge/internal/indiamart/client"
	"indiamart_bridge/internal/indiamart/repository"
	"indiamart_bridge/internal/indiamart/transport"
	"indiamart_bridge/internal/leads"
	"indiamart_bridge/platform/apperr"
	"indiamart_bridge/platform/logger"

	"github.com/google/uuid"
)

// maxWindow caps the manual fetch date range.
const maxWindow = 7 * 24 * time.Hour

// LeadStore is the narrow slice of the CRM store the orchestrator needs.
type LeadStore interface {
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)
	Create(ctx context.Context, in leads.NewLead) (leads.Lead, error)
	FindStateByName(ctx context.Context, name string) (*uuid.UUID, error)
	FindCountryByISO(ctx context.Context, isoCode string) (*uuid.UUID, error)
}

// FetchLogStore appends audit rows for fetch attempts.
type FetchLogStore interface {
	Append(ctx context.Context, entry repository.NewFetchLog) error
}

// SettingsStore resolves the configured Pull API key.
type SettingsStore interface {
	GetAPIKey(ctx context.Context) (string, error)
}

// PullClient is the outbound Pull API surface.
type PullClient interface {
	Fetch(ctx context.Context, apiKey string, start, end time.Time) client.FetchResult
	TestConnection(ctx context.Context, apiKey string) (string, error)
}

// Notifier delivers fetch-failure alerts for scheduled runs.
type Notifier interface {
	SendFetchFailureAlert(ctx context.Context, message string) error
}

// FetchSummary reports the outcome of one fetch run.
type FetchSummary struct {
	LeadsFetched int
	LeadsCreated int
	Message      string
}

// Service orchestrates lead fetching for both the manual and scheduled paths.
type Service struct {
	client   PullClient
	leads    LeadStore
	logs     FetchLogStore
	settings SettingsStore
	notifier Notifier
	log      *logger.Logger
}

// New creates the fetch orchestrator. notifier may be nil.
func New(pullClient PullClient, leadStore LeadStore, logStore FetchLogStore, settings SettingsStore, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		client:   pullClient,
		leads:    leadStore,
		logs:     logStore,
		settings: settings,
		notifier: notifier,
		log:      log,
	}
}

// FetchManual runs a user-triggered fetch over [start, end). Window violations
// are rejected pre-flight without a log row; every other failure is logged and
// returned to the caller.
func (s *Service) FetchManual(ctx context.Context, start, end time.Time) (FetchSummary, error) {
	if err := validateWindow(start, end); err != nil {
		return FetchSummary{}, err
	}
	return s.run(ctx, start, end, true)
}

// FetchScheduled runs a cron-triggered fetch over the trailing lookback
// window. Errors are logged (and alerted on) but never returned, so the
// scheduler does not mark the run failed for upstream problems.
func (s *Service) FetchScheduled(ctx context.Context, lookback time.Duration) {
	end := time.Now()
	start := end.Add(-lookback)

	summary, err := s.run(ctx, start, end, false)
	if err != nil {
		if s.notifier != nil {
			if alertErr := s.notifier.SendFetchFailureAlert(ctx, err.Error()); alertErr != nil {
				s.log.Error("fetch failure alert not sent", "error", alertErr)
			}
		}
		return
	}

	s.log.Debug("scheduled fetch complete",
		"leads_fetched", summary.LeadsFetched, "leads_created", summary.LeadsCreated)
}

// TestConnection verifies the configured API key against the Pull API.
func (s *Service) TestConnection(ctx context.Context) (string, error) {
	apiKey, err := s.settings.GetAPIKey(ctx)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "failed to read settings", err)
	}
	if apiKey == "" {
		return "", apperr.Configuration("IndiaMART API key is not set")
	}

	message, err := s.client.TestConnection(ctx, apiKey)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, err.Error(), err)
	}
	return message, nil
}

// run is the shared fetch pipeline. It writes exactly one fetch log row,
// success or failure, before returning.
func (s *Service) run(ctx context.Context, start, end time.Time, manual bool) (FetchSummary, error) {
	trigger := "scheduled"
	if manual {
		trigger = "manual"
	}

	apiKey, err := s.settings.GetAPIKey(ctx)
	if err != nil {
		return s.fail(ctx, trigger, manual, 0, 0, apperr.Wrap(apperr.KindInternal, "failed to read settings", err))
	}
	if apiKey == "" {
		return s.fail(ctx, trigger, manual, 0, 0,
			apperr.Configuration("IndiaMART API key is not set. Configure it before fetching leads."))
	}

	result := s.client.Fetch(ctx, apiKey, start, end)
	fetched := len(result.Leads)

	switch result.Outcome {
	case client.OutcomeDomainFailure:
		return s.fail(ctx, trigger, manual, fetched, 0,
			apperr.Upstream(fmt.Sprintf("IndiaMART API error: %s", result.Message)))
	case client.OutcomeTransportFailure:
		return s.fail(ctx, trigger, manual, 0, 0, apperr.Upstream(result.Message))
	case client.OutcomeParseFailure:
		return s.fail(ctx, trigger, manual, 0, 0,
			apperr.Upstream("received an invalid response from the IndiaMART server"))
	}

	created := 0
	for _, raw := range result.Leads {
		imported, err := s.importLead(ctx, raw)
		if err != nil {
			return s.fail(ctx, trigger, manual, fetched, created,
				apperr.Wrap(apperr.KindInternal, "failed to persist lead", err))
		}
		if imported {
			created++
		}
	}

	summary := FetchSummary{
		LeadsFetched: fetched,
		LeadsCreated: created,
		Message:      fmt.Sprintf("Successfully created %d new lead(s).", created),
	}

	s.appendLog(ctx, repository.NewFetchLog{
		Status:          repository.StatusSuccess,
		IsManual:        manual,
		LeadsFetched:    fetched,
		LeadsCreated:    created,
		ResponseMessage: summary.Message,
	})
	s.log.FetchEvent(trigger, repository.StatusSuccess, fetched, created, summary.Message)

	return summary, nil
}

// importLead maps and persists one raw record. Returns false when the record
// is skipped (missing or already-imported unique ID).
func (s *Service) importLead(ctx context.Context, raw transport.RawLead) (bool, error) {
	if raw.UniqueQueryID == "" {
		return false, nil
	}

	exists, err := s.leads.ExistsByExternalID(ctx, raw.UniqueQueryID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	lead := BuildLead(raw)

	// Geography misses are non-fatal: the lead is created without references.
	lead.StateID, err = s.leads.FindStateByName(ctx, raw.SenderState)
	if err != nil {
		return false, err
	}
	lead.CountryID, err = s.leads.FindCountryByISO(ctx, raw.SenderCountryISO)
	if err != nil {
		return false, err
	}

	if _, err := s.leads.Create(ctx, lead); err != nil {
		if errors.Is(err, leads.ErrDuplicateExternalID) {
			// Lost the race against a concurrent fetch; the lead exists, move on.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// fail writes the failure log row and returns the error to the caller.
func (s *Service) fail(ctx context.Context, trigger string, manual bool, fetched, created int, err *apperr.Error) (FetchSummary, error) {
	s.appendLog(ctx, repository.NewFetchLog{
		Status:          repository.StatusFailure,
		IsManual:        manual,
		LeadsFetched:    fetched,
		LeadsCreated:    created,
		ResponseMessage: err.Message,
	})
	s.log.FetchEvent(trigger, repository.StatusFailure, fetched, created, err.Message)
	return FetchSummary{LeadsFetched: fetched, LeadsCreated: created}, err
}

func (s *Service) appendLog(ctx context.Context, entry repository.NewFetchLog) {
	if err := s.logs.Append(ctx, entry); err != nil {
		s.log.DatabaseError("append fetch log", err)
	}
}

func validateWindow(start, end time.Time) error {
	if !start.Before(end) {
		return apperr.Validation("start date must be before end date")
	}
	if end.Sub(start) > maxWindow {
		return apperr.Validation("the date range cannot be more than 7 days")
	}
	return nil
}
