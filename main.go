package main

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/daniloc96/gitcode-team-roster/cmd"
	"github.com/daniloc96/gitcode-team-roster/internal/config"
	store "github.com/daniloc96/gitcode-team-roster/internal/dynamodb"
	"github.com/daniloc96/gitcode-team-roster/internal/filestore"
	"github.com/daniloc96/gitcode-team-roster/internal/interfaces"
	"github.com/daniloc96/gitcode-team-roster/internal/metrics"
	"github.com/daniloc96/gitcode-team-roster/internal/models"
	"github.com/daniloc96/gitcode-team-roster/internal/remote"
	"github.com/daniloc96/gitcode-team-roster/internal/roster"
	"github.com/daniloc96/gitcode-team-roster/internal/runner"
	"github.com/daniloc96/gitcode-team-roster/internal/secrets"
	"github.com/sirupsen/logrus"
)

func main() {
	cmd.SetLambdaHandler(HandleRequest)
	cmd.SetRunAction(runAction)
	cmd.SetSnapshotHandlers(listSnapshots, loadSnapshot)
	cmd.Execute()
}

// HandleRequest is the AWS Lambda handler.
func HandleRequest(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error) {
	if event.Source != "" || event.DetailType != "" {
		if !isScheduledEvent(event) {
			return models.NewErrorResponse(fmt.Errorf("unsupported event source")), nil
		}
		event.Action = models.ActionNormalize
	}
	req := models.ActionRequest{Action: event.EffectiveAction()}
	if req.IsMutation() {
		return models.NewErrorResponse(fmt.Errorf("action %s is only available from the CLI", req.Action)), nil
	}

	cfg, err := config.Load("")
	if err != nil {
		return models.NewErrorResponse(err), nil
	}

	cfg.Roster.DryRun = event.IsDryRun(cfg.Roster.DryRun)
	if err := config.Validate(cfg); err != nil {
		return models.NewErrorResponse(err), nil
	}

	result, err := runAction(ctx, cfg, req)
	if err != nil {
		return models.NewErrorResponse(err), nil
	}

	return models.NewSuccessResponse(result), nil
}

func isScheduledEvent(event models.LambdaEvent) bool {
	return event.Source == "aws.events" && event.DetailType == "Scheduled Event"
}

var runAction = func(ctx context.Context, cfg *config.Config, req models.ActionRequest) (*models.RunResult, error) {
	docStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	engine := runner.NewEngine(docStore, cfg)

	if cfg.Roster.Catalog != "" {
		names, err := loadCatalog(cfg.Roster.Catalog)
		if err != nil {
			return nil, err
		}
		engine.SetCatalog(names)
	}

	// Metrics are best-effort: a missing AWS config never blocks a run.
	if cfg.Metrics.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Metrics.Region))
		if err != nil {
			logrus.WithError(err).Warn("⚠ AWS config load failed, metrics disabled")
		} else {
			engine.SetMetrics(metrics.NewEmitter(awsCfg, cfg.Metrics.Namespace))
			logrus.WithField("namespace", cfg.Metrics.Namespace).Debug("CloudWatch metrics enabled")
		}
	}

	return engine.Run(ctx, req)
}

// openStore resolves the document store for the configured source kind.
func openStore(ctx context.Context, cfg *config.Config) (interfaces.DocumentStore, error) {
	switch cfg.Source.Kind {
	case config.SourceURL:
		token, err := secrets.ResolveToken(cfg.Source.TokenSecret, cfg.Source.Token)
		if err != nil {
			return nil, fmt.Errorf("remote token: %w", err)
		}
		client, err := remote.NewClient(cfg.Source.URL, token)
		if err != nil {
			return nil, err
		}
		if cfg.Source.Output == "" {
			return client, nil
		}
		return &runner.SplitStore{
			Source: client,
			Sink:   filestore.New(cfg.Source.Output, cfg.Source.Output),
		}, nil

	case config.SourceDynamoDB:
		dynamoStore, err := store.NewStore(ctx, cfg.DynamoDB, cfg.Source.Name)
		if err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"table":  cfg.DynamoDB.TableName,
			"region": cfg.DynamoDB.Region,
			"name":   cfg.Source.Name,
		}).Debug("Using DynamoDB snapshot store")
		return dynamoStore, nil

	default:
		return filestore.New(cfg.Source.Input, cfg.Source.OutputPath()), nil
	}
}

func loadCatalog(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening team catalog: %w", err)
	}
	defer f.Close()
	return roster.ParseCatalog(f)
}

var listSnapshots = func(ctx context.Context, cfg *config.Config, limit int32) ([]models.RosterSnapshot, error) {
	dynamoStore, err := store.NewStore(ctx, cfg.DynamoDB, cfg.Source.Name)
	if err != nil {
		return nil, err
	}
	return dynamoStore.ListSnapshots(ctx, limit)
}

var loadSnapshot = func(ctx context.Context, cfg *config.Config, sk string) (*models.RosterSnapshot, error) {
	dynamoStore, err := store.NewStore(ctx, cfg.DynamoDB, cfg.Source.Name)
	if err != nil {
		return nil, err
	}
	return dynamoStore.LoadSnapshot(ctx, sk)
}
