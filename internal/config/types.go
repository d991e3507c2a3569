package config

// Source kinds a roster document can be loaded from.
const (
	SourceFile     = "file"
	SourceURL      = "url"
	SourceDynamoDB = "dynamodb"
)

// Config holds all configuration for a roster run.
type Config struct {
	Source   SourceConfig   `json:"source"`
	Roster   RosterConfig   `json:"roster"`
	Log      LogConfig      `json:"log"`
	DynamoDB DynamoDBConfig `json:"dynamodb"`
	Metrics  MetricsConfig  `json:"metrics"`
	IsLambda bool           `json:"-"`
}

// SourceConfig selects where the roster document is read from and written to.
type SourceConfig struct {
	Kind        string `json:"kind"`
	Input       string `json:"input,omitempty"`
	Output      string `json:"output,omitempty"`
	URL         string `json:"url,omitempty"`
	Token       string `json:"-"`
	TokenSecret string `json:"token_secret,omitempty"`
	// Name keys the document in the DynamoDB snapshot table.
	Name string `json:"name,omitempty"`
}

// OutputPath returns the file the document is saved to, defaulting to the input file.
func (s SourceConfig) OutputPath() string {
	if s.Output != "" {
		return s.Output
	}
	return s.Input
}

// RosterConfig holds normalization and inference behavior.
type RosterConfig struct {
	DryRun           bool     `json:"dry_run"`
	Catalog          string   `json:"catalog,omitempty"`
	InferenceDomains []string `json:"inference_domains,omitempty"`
	CommitterLabels  []string `json:"committer_labels,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// DynamoDBConfig holds settings for the roster snapshot table.
type DynamoDBConfig struct {
	TableName string `json:"table_name"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint,omitempty"`
	// TTLDays bounds how long superseded snapshots are kept.
	TTLDays int `json:"ttl_days"`
}

// MetricsConfig holds CloudWatch settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
	Region    string `json:"region"`
}
