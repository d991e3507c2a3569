package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/daniloc96/gitcode-team-roster/internal/config"
	"github.com/daniloc96/gitcode-team-roster/internal/log"
	"github.com/daniloc96/gitcode-team-roster/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	flagDryRun    bool
	flagPrint     bool
	flagSource    string
	flagInput     string
	flagOutput    string
	flagURL       string
	flagToken     string
	flagName      string
	flagCatalog   string
	flagLogLevel  string
	flagLogFormat string

	lambdaHandler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)
	runAction     func(ctx context.Context, cfg *config.Config, req models.ActionRequest) (*models.RunResult, error)
	listSnapshots func(ctx context.Context, cfg *config.Config, limit int32) ([]models.RosterSnapshot, error)
	loadSnapshot  func(ctx context.Context, cfg *config.Config, sk string) (*models.RosterSnapshot, error)
)

// SetLambdaHandler registers the Lambda handler used in Lambda mode.
func SetLambdaHandler(handler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)) {
	lambdaHandler = handler
}

// SetRunAction registers the roster runner used by the CLI.
func SetRunAction(handler func(ctx context.Context, cfg *config.Config, req models.ActionRequest) (*models.RunResult, error)) {
	runAction = handler
}

// SetSnapshotHandlers registers the snapshot history readers used by the snapshots command.
func SetSnapshotHandlers(
	list func(ctx context.Context, cfg *config.Config, limit int32) ([]models.RosterSnapshot, error),
	load func(ctx context.Context, cfg *config.Config, sk string) (*models.RosterSnapshot, error),
) {
	listSnapshots = list
	loadSnapshot = load
}

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Normalize and edit GitCode team roster documents",
	Long: "Loads a team roster document, repairs it into canonical form and applies one edit.\n" +
		"Without a subcommand the document is normalized.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, models.ActionRequest{Action: models.ActionNormalize})
	},
}

// Execute runs the CLI or Lambda handler depending on environment.
func Execute() {
	if isLambda() {
		if lambdaHandler == nil {
			logrus.Fatal("lambda handler is not configured")
		}
		lambda.Start(lambdaHandler)
		return
	}

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// prepare loads and validates configuration and configures the global logger.
func prepare(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	overrideConfigFromFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logger := log.NewLogger(cfg.Log.Level, cfg.Log.Format)
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.Level)
	logrus.SetOutput(logger.Out)
	return cfg, nil
}

// execute runs one action and reports its outcome. The exported document goes to
// stdout when --print is set; everything else is logged.
func execute(cmd *cobra.Command, req models.ActionRequest) error {
	cfg, err := prepare(cmd)
	if err != nil {
		return err
	}
	if runAction == nil {
		return fmt.Errorf("roster runner is not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := runAction(ctx, cfg, req)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"action":      result.Action,
		"dry_run":     result.DryRun,
		"saved":       result.Saved,
		"repairs":     result.Report.Repairs(),
		"duration_ms": result.DurationMs,
	}).Info(result.Summary.String())

	if inf := result.Inference; inf != nil {
		logrus.Info("────────────────────────────────────────")
		if len(inf.Changes) == 0 {
			logrus.Info("✏️  Inferred names: (none)")
		}
		for i, c := range inf.Changes {
			logrus.Infof("  %d. %s: %q → %q", i+1, c.Username, c.OldRealName, c.NewRealName)
		}
		logrus.Info("────────────────────────────────────────")
	}

	if flagPrint {
		if _, err := cmd.OutOrStdout().Write(result.Document); err != nil {
			return fmt.Errorf("writing document: %w", err)
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", true, "Preview changes without saving")
	rootCmd.PersistentFlags().BoolVar(&flagPrint, "print", false, "Write the exported document to stdout")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "Document source: file, url or dynamodb")
	rootCmd.PersistentFlags().StringVar(&flagInput, "input", "", "Path of the team document to read")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "Path to write the document to (defaults to --input)")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "URL of a published team document")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Bearer token for --url, or @file to read it from a file")
	rootCmd.PersistentFlags().StringVar(&flagName, "name", "", "Roster name in the DynamoDB snapshot table")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Team catalog file, one team name per line")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text, json or pretty")
}

func isLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func overrideConfigFromFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("dry-run") {
		cfg.Roster.DryRun = flagDryRun
	}
	if cmd.Flags().Changed("source") {
		cfg.Source.Kind = strings.ToLower(strings.TrimSpace(flagSource))
	}
	if cmd.Flags().Changed("input") {
		cfg.Source.Input = flagInput
	}
	if cmd.Flags().Changed("output") {
		cfg.Source.Output = flagOutput
	}
	if cmd.Flags().Changed("url") {
		cfg.Source.URL = flagURL
		if !cmd.Flags().Changed("source") {
			cfg.Source.Kind = config.SourceURL
		}
	}
	if cmd.Flags().Changed("token") {
		cfg.Source.Token = flagToken
	}
	if cmd.Flags().Changed("name") {
		cfg.Source.Name = flagName
	}
	if cmd.Flags().Changed("catalog") {
		cfg.Roster.Catalog = flagCatalog
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
}
