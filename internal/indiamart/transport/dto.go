// Package transport defines the wire-level shapes shared between the IndiaMART
// client, service, and HTTP handlers.
package transport

import "time"

// RawLead is a single lead record as returned by the Pull API.
// Field names follow the upstream JSON exactly.
type RawLead struct {
	UniqueQueryID    string `json:"UNIQUE_QUERY_ID"`
	QueryType        string `json:"QUERY_TYPE"`
	SenderName       string `json:"SENDER_NAME"`
	SenderCompany    string `json:"SENDER_COMPANY"`
	Subject          string `json:"SUBJECT"`
	QueryMessage     string `json:"QUERY_MESSAGE"`
	ProductName      string `json:"PRODUCT_NAME"`
	SenderCity       string `json:"SENDER_CITY"`
	SenderState      string `json:"SENDER_STATE"`
	SenderCountryISO string `json:"SENDER_COUNTRY_ISO"`
	SenderEmail      string `json:"SENDER_EMAIL"`
	SenderMobile     string `json:"SENDER_MOBILE"`
	SenderAddress    string `json:"SENDER_ADDRESS"`
}

// PullResponse is the envelope the Pull API wraps every response in.
type PullResponse struct {
	Status   string    `json:"STATUS"`
	Message  string    `json:"MESSAGE"`
	Response []RawLead `json:"RESPONSE"`
}

// FetchLeadsRequest is the manual fetch request body.
type FetchLeadsRequest struct {
	StartTime time.Time `json:"startTime" binding:"required" validate:"required"`
	EndTime   time.Time `json:"endTime" binding:"required" validate:"required"`
}

// FetchSummaryResponse reports the outcome of a manual fetch.
type FetchSummaryResponse struct {
	LeadsFetched int    `json:"leadsFetched"`
	LeadsCreated int    `json:"leadsCreated"`
	Message      string `json:"message"`
}

// TestConnectionResponse reports the outcome of a connectivity test.
type TestConnectionResponse struct {
	Message string `json:"message"`
}

// FetchLogResponse is the JSON shape for a single fetch-log row.
type FetchLogResponse struct {
	ID              string    `json:"id"`
	RequestTime     time.Time `json:"requestTime"`
	Status          string    `json:"status"`
	IsManual        bool      `json:"isManual"`
	LeadsFetched    int       `json:"leadsFetched"`
	LeadsCreated    int       `json:"leadsCreated"`
	ResponseMessage string    `json:"responseMessage"`
}

// SettingsResponse exposes the stored configuration with the key masked.
type SettingsResponse struct {
	APIKeySet    bool       `json:"apiKeySet"`
	APIKeyPrefix string     `json:"apiKeyPrefix,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// UpdateSettingsRequest replaces the stored API key.
type UpdateSettingsRequest struct {
	APIKey string `json:"apiKey" validate:"required,min=8,max=200"`
}
