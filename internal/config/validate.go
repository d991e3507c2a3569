package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures configuration is complete and well-formed.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var errs []string

	requireNonEmpty := func(value string, field string) {
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field))
		}
	}

	switch cfg.Source.Kind {
	case SourceFile:
		requireNonEmpty(cfg.Source.Input, "source.input")
	case SourceURL:
		requireNonEmpty(cfg.Source.URL, "source.url")
		if cfg.Source.URL != "" {
			if u, err := url.Parse(cfg.Source.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				errs = append(errs, "source.url must be an absolute http(s) URL")
			}
		}
		if cfg.IsLambda && cfg.Source.Token == "" && cfg.Source.TokenSecret == "" {
			errs = append(errs, "source.token_secret is required")
		}
	case SourceDynamoDB:
		requireNonEmpty(cfg.Source.Name, "source.name")
		requireNonEmpty(cfg.DynamoDB.TableName, "dynamodb.table_name")
		requireNonEmpty(cfg.DynamoDB.Region, "dynamodb.region")
		if cfg.DynamoDB.TTLDays <= 0 {
			errs = append(errs, "dynamodb.ttl_days must be positive")
		}
	default:
		errs = append(errs, fmt.Sprintf("source.kind must be one of %s, %s, %s", SourceFile, SourceURL, SourceDynamoDB))
	}

	if cfg.IsLambda && cfg.Source.Kind == SourceFile {
		errs = append(errs, "source.kind file is not available in Lambda")
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "", "text", "json", "pretty":
	default:
		errs = append(errs, "log.format must be text, json or pretty")
	}

	if cfg.Metrics.Enabled {
		requireNonEmpty(cfg.Metrics.Namespace, "metrics.namespace")
		requireNonEmpty(cfg.Metrics.Region, "metrics.region")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
