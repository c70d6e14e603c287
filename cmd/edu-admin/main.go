// edu-admin is the command-line companion of edu-admin-api. It talks to the
// configured backend and falls back to the local server when the backend
// is unreachable.
//
//	edu-admin --config=config/local.yaml users search john
//	edu-admin --token=$TOKEN payments mark-paid 2 --method Cash
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/aanand-mishra/edu-admin-api/internal/auth"
	"github.com/aanand-mishra/edu-admin-api/internal/client"
	"github.com/aanand-mishra/edu-admin-api/internal/config"
	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"github.com/spf13/cobra"
)

var (
	configPath string
	token      string
	backendURL string
	localURL   string
	timeout    time.Duration

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "edu-admin",
	Short: "Education portal administration CLI",
	Long:  `A command-line interface for managing portal users and payments.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			configPath = os.Getenv("CONFIG_PATH")
		}
		if configPath == "" {
			return nil
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		if !cmd.Flags().Changed("backend") {
			backendURL = cfg.Client.BackendURL
		}
		if !cmd.Flags().Changed("local") {
			localURL = cfg.Client.LocalURL
		}
		if !cmd.Flags().Changed("timeout") {
			timeout = cfg.Client.Timeout
		}
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "User management",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := client.ListUsers(cmd.Context(), requester(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd, users)
	},
}

var usersSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search users by username or email",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}

		users, err := client.SearchUsers(cmd.Context(), requester(cmd), query)
		if err != nil {
			return err
		}
		return printJSON(cmd, users)
	},
}

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Payment management",
}

var paymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		payments, err := client.ListPayments(cmd.Context(), requester(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd, payments)
	},
}

var markPaidMethod string

var paymentsMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid <id>",
	Short: "Mark a pending or overdue payment as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: must be an integer", args[0])
		}

		payment, err := client.MarkPaid(cmd.Context(), requester(cmd), id,
			types.MarkPaidRequest{Method: markPaidMethod})
		if err != nil {
			return err
		}
		return printJSON(cmd, payment)
	},
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Show subjects, curriculums and categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, err := localClient().FetchMeta(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, meta)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Issue a bearer token signed with the configured auth secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil || cfg.Auth.Secret == "" {
			return fmt.Errorf("auth.secret is not configured")
		}

		tm := auth.NewTokenManager([]byte(cfg.Auth.Secret), cfg.Auth.Issuer, cfg.Auth.TTL)
		signed, err := tm.Issue(args[0], types.RoleAdmin)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration YAML file")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("EDU_ADMIN_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", os.Getenv("BACKEND_URL"), "Remote backend base URL")
	rootCmd.PersistentFlags().StringVar(&localURL, "local", "http://localhost:8082", "Local server base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	usersCmd.AddCommand(usersListCmd, usersSearchCmd)
	rootCmd.AddCommand(usersCmd)

	paymentsMarkPaidCmd.Flags().StringVar(&markPaidMethod, "method", "", "Payment method (default \"Manual Entry\")")
	paymentsCmd.AddCommand(paymentsListCmd, paymentsMarkPaidCmd)
	rootCmd.AddCommand(paymentsCmd)

	rootCmd.AddCommand(metaCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func requester(cmd *cobra.Command) client.Requester {
	var tokens client.TokenSource
	if token != "" {
		tokens = client.StaticToken(token)
	}

	f := &client.Fallback{
		Local: client.New(client.Config{BaseURL: localURL, Tokens: tokens, Timeout: timeout}),
		Log:   slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)),
	}
	if backendURL != "" {
		f.Remote = client.New(client.Config{BaseURL: backendURL, Tokens: tokens, Timeout: timeout})
	}
	return f
}

func localClient() *client.Client {
	return client.New(client.Config{BaseURL: localURL, Timeout: timeout})
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
