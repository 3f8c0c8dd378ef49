package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pudey33/DreamRate/internal/data/repository"
	"github.com/pudey33/DreamRate/internal/usecase"
	"github.com/pudey33/DreamRate/pkg/database"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath   string
	outputFormat string
	verbose      bool
	timeout      time.Duration

	config *utils.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dreamrate",
	Short: "Share dreams and rate the dreams of others",
	Long: `DreamRate keeps a journal of dreams in a hosted Postgres store and lets
signed-in users read and rate dreams written by other people.

Run 'dreamrate serve' for the HTTP API, or use the commands below as a
single signed-in client. The session is kept in SESSION_FILE between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(outputFormat); err != nil {
			return err
		}

		cfg, err := utils.LoadConfig(configPath)
		if err != nil {
			return err
		}
		config = cfg

		logger, err = utils.InitLogger(cfg.App.LogPath, cfg.App.Name, cfg.App.Debug || verbose, verbose)
		if err != nil {
			log.Printf("Failed to init logger: %v. Using no-op logger.", err)
			logger = zap.NewNop()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the command line until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".env", "Path to a dotenv config file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatYAML, "Output format: yaml or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr as well as the log file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for store and auth calls")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(signinCmd)
	rootCmd.AddCommand(signoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(dreamsCmd)
	rootCmd.AddCommand(reviewsCmd)
}

// stores opens every store handle the configured backend needs.
func stores(cfg *utils.Config) (*database.Gateway, repository.Stores, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, repository.Stores{}, nil, err
	}

	gateway, err := database.NewGateway(cfg.Supabase)
	if err != nil {
		return nil, repository.Stores{}, nil, err
	}

	s := repository.Stores{Gateway: gateway, SessionFile: cfg.Auth.SessionFile}
	closeFn := func() {}

	if cfg.Database.Backend == utils.BackendPostgres {
		pool, err := database.InitDB(cfg.Database)
		if err != nil {
			return nil, repository.Stores{}, nil, err
		}
		s.Postgres = pool
		closeFn = pool.Close
		logger.Info("Database connected successfully")
	}

	return gateway, s, closeFn, nil
}

// client is one signed-in (or signed-out) CLI process.
type client struct {
	service *usecase.Service
	state   *usecase.AuthState
	close   func()
}

func newClient(ctx context.Context) (*client, error) {
	gateway, s, closeFn, err := stores(config)
	if err != nil {
		return nil, err
	}

	repo, err := repository.NewRepository(config.Database.Backend, s, logger)
	if err != nil {
		closeFn()
		return nil, err
	}

	service := usecase.NewService(repo, gateway.Auth(), logger)
	state := usecase.NewAuthState(service.Auth, repo.Session, logger)
	state.Start(ctx)
	if err := state.WaitReady(ctx); err != nil {
		closeFn()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	return &client{service: service, state: state, close: closeFn}, nil
}

// withClient runs fn with a ready client under the --timeout deadline.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	c, err := newClient(ctx)
	if err != nil {
		return err
	}
	defer c.close()

	return fn(ctx, c)
}

// signedIn returns ctx bound to the held session and the user it belongs to.
func (c *client) signedIn(ctx context.Context) (context.Context, uuid.UUID, error) {
	session := c.state.Session.Get()
	if session == nil {
		return nil, uuid.Nil, fmt.Errorf("%w: run 'dreamrate signin' first", usecase.ErrNotSignedIn)
	}
	return c.state.Bind(ctx), session.User.ID, nil
}
