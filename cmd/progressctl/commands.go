package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/2beens/fitprogress/internal/auth"
	"github.com/2beens/fitprogress/internal/backup"
	"github.com/2beens/fitprogress/internal/progress/evaluation"
	"github.com/2beens/fitprogress/pkg"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"
)

var (
	evaluateUserID int
	evaluateKind   string

	driveCredentialsPath string
	driveShareWith       string

	newUserEmail    string
	newUserPassword string
)

var regeneratePlansCmd = &cobra.Command{
	Use:   "regenerate-plans",
	Short: "Generate new weekly workout and meal plans for every user with a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		start := time.Now()
		if err := rt.core.Plans.RegenerateAllPlans(cmd.Context()); err != nil {
			// partial failures still leave the other users' plans in place
			log.Errorf("plans regeneration finished with errors: %s", err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "plans regenerated in %s\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run and store an evaluation for one user, print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if evaluateUserID <= 0 {
			return errors.New("--user is required")
		}
		kind := evaluation.Kind(strings.ToUpper(evaluateKind))
		switch kind {
		case evaluation.KindTraining, evaluation.KindNutrition, evaluation.KindCombined, "FULL":
		default:
			return fmt.Errorf("unknown evaluation kind [%s], use training, nutrition or full", evaluateKind)
		}

		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		var snapshot *evaluation.Snapshot
		switch kind {
		case evaluation.KindTraining:
			snapshot, err = rt.core.Evaluations.EvaluateTraining(cmd.Context(), evaluateUserID)
		case evaluation.KindNutrition:
			snapshot, err = rt.core.Evaluations.EvaluateNutrition(cmd.Context(), evaluateUserID)
		default:
			snapshot, err = rt.core.Evaluations.EvaluateFull(cmd.Context(), evaluateUserID)
		}
		if err != nil {
			return fmt.Errorf("evaluate user %d: %w", evaluateUserID, err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	},
}

var exportEvaluationsCmd = &cobra.Command{
	Use:   "export-evaluations",
	Short: "Export all stored evaluations to Google Drive",
	RunE: func(cmd *cobra.Command, args []string) error {
		if driveCredentialsPath == "" {
			return errors.New("google drive credentials json not specified")
		}
		credentials, err := os.ReadFile(driveCredentialsPath)
		if err != nil {
			return fmt.Errorf("unable to read credentials file: %w", err)
		}

		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		exporter, err := backup.NewDriveExporter(
			cmd.Context(),
			backup.DriveExporterParams{
				Evaluations: rt.core.EvaluationsRepo,
				Users:       rt.core.ProfilesRepo,
				ShareWith:   driveShareWith,
			},
			option.WithCredentialsJSON(credentials),
		)
		if err != nil {
			return fmt.Errorf("new drive exporter: %w", err)
		}

		exported, err := exporter.ExportAll(cmd.Context(), time.Now())
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d evaluations\n", exported)
		return err
	},
}

var addUserCmd = &cobra.Command{
	Use:   "add-user",
	Short: "Create a user that can log in with email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if newUserEmail == "" || newUserPassword == "" {
			return errors.New("--email and --password are required")
		}
		if err := pkg.ValidatePassword(newUserPassword); err != nil {
			return err
		}

		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		hash, err := pkg.HashPassword(newUserPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user, err := auth.NewUsersRepo(rt.dbPool).Add(cmd.Context(), newUserEmail, hash)
		if err != nil {
			return fmt.Errorf("add user: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %d created: %s\n", user.ID, user.Email)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().IntVar(&evaluateUserID, "user", 0, "user id")
	evaluateCmd.Flags().StringVar(&evaluateKind, "kind", "full", "training, nutrition or full")

	exportEvaluationsCmd.Flags().StringVar(&driveCredentialsPath, "gd-creds", "./drive-credentials.json", "google drive service account credentials json")
	exportEvaluationsCmd.Flags().StringVar(&driveShareWith, "share-with", "", "email that gets reader access to exported files")

	addUserCmd.Flags().StringVar(&newUserEmail, "email", "", "user email")
	addUserCmd.Flags().StringVar(&newUserPassword, "password", "", "user password")

	rootCmd.AddCommand(regeneratePlansCmd, evaluateCmd, exportEvaluationsCmd, addUserCmd)
}
