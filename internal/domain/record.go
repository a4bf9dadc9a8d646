package domain

import "time"

// SearchFlavourFacets lists the facet keys a databrowser search query may
// carry. Unknown keys are rejected at the validation boundary.
var SearchFlavourFacets = []string{
	"project",
	"product",
	"institute",
	"model",
	"experiment",
	"time_frequency",
	"ensemble",
	"realm",
	"variable",
	"user",
}

// UniqKey enumerates how databrowser search results were keyed.
type UniqKey string

const (
	UniqKeyFile UniqKey = "file"
	UniqKeyURI  UniqKey = "uri"
)

// SearchMetadata describes the outcome of a databrowser search.
type SearchMetadata struct {
	NumResults   int       `bson:"num_results" json:"num_results"`
	Flavour      string    `bson:"flavour" json:"flavour"`
	UniqKey      UniqKey   `bson:"uniq_key" json:"uniq_key"`
	ServerStatus int       `bson:"server_status" json:"server_status"`
	Date         time.Time `bson:"date" json:"date"`
}

// SearchQueryRecord is one stored databrowser user search.
// Immutable once stored except via explicit replace or delete.
type SearchQueryRecord struct {
	ID       string            `bson:"_id,omitempty" json:"id,omitempty"`
	User     string            `bson:"user" json:"user"`
	Query    map[string]string `bson:"query" json:"query"`
	Metadata SearchMetadata    `bson:"metadata" json:"metadata"`
}

// PluginStatus enumerates plugin run lifecycle states.
type PluginStatus string

const (
	PluginStatusRunning  PluginStatus = "running"
	PluginStatusFinished PluginStatus = "finished"
	PluginStatusFailed   PluginStatus = "failed"
)

// ValidPluginStatus reports whether s is a known lifecycle state.
func ValidPluginStatus(s PluginStatus) bool {
	switch s {
	case PluginStatusRunning, PluginStatusFinished, PluginStatusFailed:
		return true
	}
	return false
}

// PluginStatRecord is one stored plugin execution statistic.
type PluginStatRecord struct {
	ID         string       `bson:"_id,omitempty" json:"id,omitempty"`
	PluginName string       `bson:"plugin_name" json:"plugin_name"`
	User       string       `bson:"user" json:"user"`
	Status     PluginStatus `bson:"status" json:"status"`
	Version    string       `bson:"version,omitempty" json:"version,omitempty"`
	StartedAt  time.Time    `bson:"started_at" json:"started_at"`
	FinishedAt *time.Time   `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
	Date       time.Time    `bson:"date" json:"date"`
}
