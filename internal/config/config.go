package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment variables, and defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("source.kind", SourceFile)
	v.SetDefault("source.input", "team.json")
	v.SetDefault("source.name", "default")
	v.SetDefault("roster.dry_run", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("dynamodb.table_name", "team-roster")
	v.SetDefault("dynamodb.region", "eu-west-1")
	v.SetDefault("dynamodb.ttl_days", 90)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "TeamRoster")
	v.SetDefault("metrics.region", "eu-west-1")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("source.kind", "ROSTER_SOURCE")
	_ = v.BindEnv("source.input", "ROSTER_INPUT")
	_ = v.BindEnv("source.output", "ROSTER_OUTPUT")
	_ = v.BindEnv("source.url", "ROSTER_URL")
	_ = v.BindEnv("source.token", "ROSTER_TOKEN")
	_ = v.BindEnv("source.token_secret", "ROSTER_TOKEN_SECRET")
	_ = v.BindEnv("source.name", "ROSTER_NAME")
	_ = v.BindEnv("roster.catalog", "ROSTER_CATALOG")
	_ = v.BindEnv("roster.dry_run", "DRY_RUN")
	_ = v.BindEnv("roster.inference_domains", "INFERENCE_DOMAINS")
	_ = v.BindEnv("roster.committer_labels", "COMMITTER_LABELS")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
	_ = v.BindEnv("dynamodb.table_name", "DYNAMODB_TABLE_NAME")
	_ = v.BindEnv("dynamodb.region", "DYNAMODB_REGION")
	_ = v.BindEnv("dynamodb.endpoint", "DYNAMODB_ENDPOINT")
	_ = v.BindEnv("dynamodb.ttl_days", "DYNAMODB_TTL_DAYS")
	_ = v.BindEnv("metrics.enabled", "METRICS_ENABLED")
	_ = v.BindEnv("metrics.namespace", "METRICS_NAMESPACE")
	_ = v.BindEnv("metrics.region", "METRICS_REGION")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// Explicitly map values to avoid tag mismatch issues.
	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(v.GetString("source.kind")))
	cfg.Source.Input = v.GetString("source.input")
	cfg.Source.Output = v.GetString("source.output")
	cfg.Source.URL = v.GetString("source.url")
	cfg.Source.Token = v.GetString("source.token")
	cfg.Source.TokenSecret = v.GetString("source.token_secret")
	cfg.Source.Name = v.GetString("source.name")

	cfg.Roster.DryRun = v.GetBool("roster.dry_run")
	cfg.Roster.Catalog = v.GetString("roster.catalog")
	cfg.Roster.InferenceDomains = splitList(v.GetStringSlice("roster.inference_domains"))
	cfg.Roster.CommitterLabels = splitList(v.GetStringSlice("roster.committer_labels"))

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	cfg.DynamoDB.TableName = v.GetString("dynamodb.table_name")
	cfg.DynamoDB.Region = v.GetString("dynamodb.region")
	cfg.DynamoDB.Endpoint = v.GetString("dynamodb.endpoint")
	cfg.DynamoDB.TTLDays = v.GetInt("dynamodb.ttl_days")

	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Metrics.Namespace = v.GetString("metrics.namespace")
	cfg.Metrics.Region = v.GetString("metrics.region")

	cfg.IsLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""

	return cfg, nil
}

// splitList accepts both YAML lists and comma-separated environment values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
