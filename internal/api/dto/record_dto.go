package dto

import "time"

// SearchMetadataRequest carries the outcome of a databrowser search.
type SearchMetadataRequest struct {
	NumResults   *int   `json:"num_results" validate:"required,min=0"`
	Flavour      string `json:"flavour" validate:"required"`
	UniqKey      string `json:"uniq_key" validate:"required,oneof=file uri"`
	ServerStatus *int   `json:"server_status" validate:"required,min=0"`
}

// SearchQueryRequest payload for storing a databrowser search.
type SearchQueryRequest struct {
	User     string                 `json:"user" validate:"required"`
	Query    map[string]string      `json:"query" validate:"required,min=1"`
	Metadata *SearchMetadataRequest `json:"metadata" validate:"required"`
}

// PluginStatRequest payload for storing a plugin run statistic.
type PluginStatRequest struct {
	PluginName string     `json:"plugin_name" validate:"required"`
	User       string     `json:"user" validate:"required"`
	Status     string     `json:"status" validate:"required,oneof=running finished failed"`
	Version    string     `json:"version"`
	StartedAt  time.Time  `json:"started_at" validate:"required"`
	FinishedAt *time.Time `json:"finished_at"`
}

// RecordCreatedResponse reports a stored record.
type RecordCreatedResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// DeletedResponse reports how many records a filtered delete removed.
type DeletedResponse struct {
	Status  string `json:"status"`
	Deleted int64  `json:"deleted"`
}
