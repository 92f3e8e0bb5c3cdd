package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zdm_server_go/auth"
	"zdm_server_go/data"
	"zdm_server_go/errors"
	"zdm_server_go/logger"
	"zdm_server_go/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Open applies the schema.
		db, err := data.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Logger.Infow("schema is up to date", "database", cfg.Database.Path)
		return nil
	},
}

// --- user ---

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage console users",
}

var (
	userEmail    string
	userName     string
	userPassword string
)

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a console user",
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(userPassword)
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		name := userName
		if name == "" {
			name = strings.SplitN(userEmail, "@", 2)[0]
		}
		u := &models.User{Email: userEmail, DisplayName: name, PasswordHash: hash}
		if err := a.stores.Users.Create(cmd.Context(), u); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %d created (%s)\n", u.ID, u.Email)
		return nil
	},
}

// --- center ---

var centerCmd = &cobra.Command{
	Use:   "center",
	Short: "Manage ZDM centers",
}

var centerDescription string

var centerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a center",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.catalog.CreateCenter(cmd.Context(), &models.CreateCenterRequest{Name: args[0], Description: centerDescription})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "center %d created (%s)\n", c.Id, c.Name)
		return nil
	},
}

// --- job ---

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Inspect and complete worker requests",
	Long: `Worker requests are normally completed by the external ZDM worker.
"job complete" writes the terminal result by hand, which unblocks a
waiting license request during maintenance or testing.`,
}

var (
	jobResult      string
	jobDescription string
)

var jobShowCmd = &cobra.Command{
	Use:   "show <correlation-id>",
	Short: "Show a worker request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCorrelationID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		req, err := a.stores.Jobs.GetByCorrelationID(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d %s %s result=%q description=%q\n",
			req.CorrelationId, req.JobType, req.JobStatus, req.Result, req.Description)
		return nil
	},
}

var jobCompleteCmd = &cobra.Command{
	Use:   "complete <correlation-id>",
	Short: "Write a terminal result for a worker request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseCorrelationID(args[0])
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		result := strings.ToUpper(strings.TrimSpace(jobResult))
		if err := a.stores.Jobs.Complete(cmd.Context(), id, result, jobDescription); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "job %d marked %s\n", id, result)
		return nil
	},
}

func parseCorrelationID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("correlation id must be a positive integer", "correlationId", s)
	}
	return id, nil
}

func init() {
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "login email")
	userAddCmd.Flags().StringVar(&userName, "name", "", "display name (defaults to the email local part)")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userAddCmd)

	centerAddCmd.Flags().StringVar(&centerDescription, "description", "", "free-form description")
	centerCmd.AddCommand(centerAddCmd)

	jobCompleteCmd.Flags().StringVar(&jobResult, "result", models.JobResultSuccess, "SUCCESS or FAILED")
	jobCompleteCmd.Flags().StringVar(&jobDescription, "description", "", "result description")
	jobCmd.AddCommand(jobShowCmd, jobCompleteCmd)
}
