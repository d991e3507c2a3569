package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/daniloc96/gitcode-team-roster/internal/config"
	"github.com/daniloc96/gitcode-team-roster/internal/models"
	"github.com/spf13/cobra"
)

var (
	flagUnset         bool
	flagSnapshotLimit int32
	flagSnapshotShow  string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Repair the document and rewrite it in canonical form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, models.ActionRequest{Action: models.ActionNormalize})
	},
}

var inferNamesCmd = &cobra.Command{
	Use:   "infer-names",
	Short: "Fill placeholder real names from organizational email addresses",
	Long: "Previews the real names derivable from allow-listed email addresses.\n" +
		"With --dry-run=false the previewed names are applied; confirmed people are never touched.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, models.ActionRequest{Action: models.ActionInferNames})
	},
}

var setTeamCmd = &cobra.Command{
	Use:   "set-team <username> [team]",
	Short: "Assign a person to a team (by id or name), or clear the assignment",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.ActionRequest{Action: models.ActionSetTeam, Username: args[0]}
		if len(args) == 2 {
			req.TeamID = args[1]
		}
		return execute(cmd, req)
	},
}

var setLeaderCmd = &cobra.Command{
	Use:   "set-leader <team> [username]",
	Short: "Set the leader of a team, or clear the leader slot",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.ActionRequest{Action: models.ActionSetLeader, TeamID: args[0]}
		if len(args) == 2 {
			req.Username = args[1]
		}
		return execute(cmd, req)
	},
}

var setFieldCmd = &cobra.Command{
	Use:   "set-field <username> <realName|email|notes> <value>",
	Short: "Set a free-text field of a person",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, models.ActionRequest{
			Action:   models.ActionSetField,
			Username: args[0],
			Field:    args[1],
			Value:    args[2],
		})
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm <username>",
	Short: "Lock a person's real name against inference (--unset to release)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, models.ActionRequest{
			Action:    models.ActionConfirm,
			Username:  args[0],
			Confirmed: !flagUnset,
		})
	},
}

var setTeamNotesCmd = &cobra.Command{
	Use:   "set-team-notes <team> <notes>",
	Short: "Set the notes of a team",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, models.ActionRequest{Action: models.ActionSetTeamNotes, TeamID: args[0], Value: args[1]})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Report roster statistics without saving",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, models.ActionRequest{Action: models.ActionSummary})
	},
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List saved document history (dynamodb source)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := prepare(cmd)
		if err != nil {
			return err
		}
		if cfg.Source.Kind != config.SourceDynamoDB {
			return fmt.Errorf("snapshots require source.kind %s, got %s", config.SourceDynamoDB, cfg.Source.Kind)
		}
		if listSnapshots == nil || loadSnapshot == nil {
			return fmt.Errorf("snapshot history is not configured")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if flagSnapshotShow != "" {
			snap, err := loadSnapshot(ctx, cfg, flagSnapshotShow)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), snap.Document)
			return err
		}

		snaps, err := listSnapshots(ctx, cfg, flagSnapshotLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SNAPSHOT\tSAVED AT\tBYTES")
		for _, s := range snaps {
			fmt.Fprintf(w, "%s\t%s\t%d\n", s.SK, s.SavedAt.Format("2006-01-02 15:04:05"), s.SizeBytes)
		}
		return w.Flush()
	},
}

func init() {
	confirmCmd.Flags().BoolVar(&flagUnset, "unset", false, "Release the confirmation lock")
	snapshotsCmd.Flags().Int32Var(&flagSnapshotLimit, "limit", 20, "Maximum number of snapshots to list")
	snapshotsCmd.Flags().StringVar(&flagSnapshotShow, "show", "", "Print the document of one snapshot key")

	rootCmd.AddCommand(
		normalizeCmd,
		inferNamesCmd,
		setTeamCmd,
		setLeaderCmd,
		setFieldCmd,
		confirmCmd,
		setTeamNotesCmd,
		summaryCmd,
		snapshotsCmd,
	)
}
