// Package repository provides data access for the IndiaMART integration:
// the append-only fetch log and the singleton settings record.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Fetch log status values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// FetchLog is one audit row per fetch attempt, manual or scheduled.
type FetchLog struct {
	ID              uuid.UUID
	RequestTime     time.Time
	Status          string
	IsManual        bool
	LeadsFetched    int
	LeadsCreated    int
	ResponseMessage string
}

// NewFetchLog holds the values for appending a fetch log row.
type NewFetchLog struct {
	Status          string
	IsManual        bool
	LeadsFetched    int
	LeadsCreated    int
	ResponseMessage string
}

// Settings is the singleton IndiaMART configuration record.
type Settings struct {
	APIKey    string
	UpdatedAt time.Time
}

// Repository provides data access for fetch logs and settings.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new IndiaMART repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append writes one fetch log row. Rows are never updated or deleted.
func (r *Repository) Append(ctx context.Context, entry NewFetchLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO indiamart_fetch_logs (status, is_manual, leads_fetched, leads_created, response_message)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.Status, entry.IsManual, entry.LeadsFetched, entry.LeadsCreated, entry.ResponseMessage)
	return err
}

// ListLogs returns fetch log rows, newest first.
func (r *Repository) ListLogs(ctx context.Context, limit int) ([]FetchLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, request_time, status, is_manual, leads_fetched, leads_created, response_message
		FROM indiamart_fetch_logs
		ORDER BY request_time DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []FetchLog
	for rows.Next() {
		var entry FetchLog
		if err := rows.Scan(
			&entry.ID, &entry.RequestTime, &entry.Status, &entry.IsManual,
			&entry.LeadsFetched, &entry.LeadsCreated, &entry.ResponseMessage,
		); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

// GetSettings reads the singleton settings row (seeded by migration).
func (r *Repository) GetSettings(ctx context.Context) (Settings, error) {
	var settings Settings
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(api_key, ''), updated_at
		FROM indiamart_settings
		WHERE id = 1
	`).Scan(&settings.APIKey, &settings.UpdatedAt)
	return settings, err
}

// GetAPIKey returns the configured Pull API key, empty when unset.
func (r *Repository) GetAPIKey(ctx context.Context) (string, error) {
	settings, err := r.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.APIKey, nil
}

// UpdateAPIKey replaces the stored Pull API key.
func (r *Repository) UpdateAPIKey(ctx context.Context, apiKey string) (Settings, error) {
	var settings Settings
	err := r.pool.QueryRow(ctx, `
		UPDATE indiamart_settings
		SET api_key = $1, updated_at = now()
		WHERE id = 1
		RETURNING COALESCE(api_key, ''), updated_at
	`, apiKey).Scan(&settings.APIKey, &settings.UpdatedAt)
	return settings, err
}
