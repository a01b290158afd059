package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"railspark/cmd/railctl/ui"
	"railspark/internal/apiclient"
	"railspark/internal/config"
	"railspark/internal/logging"
	"railspark/internal/railapi"
	"railspark/internal/session"
	"railspark/internal/usage"
)

// loadingDelay is how long a call may run before "Loading..." is shown.
const loadingDelay = 150 * time.Millisecond

type envOptions struct {
	workspace  string
	configPath string
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
	out        io.Writer
	errOut     io.Writer
}

// appEnv is everything a command needs: config, session, client and output.
type appEnv struct {
	workspace string
	cfg       *config.Config
	store     *session.FileStore
	session   *session.Session
	client    *apiclient.Client
	api       *railapi.API
	tracker   *usage.Tracker
	styles    ui.Styles
	logger    *zap.Logger
	out       io.Writer
	errOut    io.Writer
}

func newAppEnv(opts envOptions) (*appEnv, error) {
	ws := opts.workspace
	if ws == "" {
		var err error
		if ws, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("failed to resolve workspace: %w", err)
		}
	}
	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath(ws)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if opts.baseURL != "" {
		cfg.API.BaseURL = opts.baseURL
	}
	if opts.timeout > 0 {
		cfg.API.Timeout = opts.timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stateDir := cfg.StateDir(ws)
	if err := logging.Initialize(stateDir, cfg.Logging.ToLogging()); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	store := session.NewFileStore(cfg.SessionPath(ws))
	sess, err := session.NewWithStore(store)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	if !sess.IsAuthenticated() && cfg.API.Token != "" {
		if err := sess.Login(cfg.API.Token, nil); err != nil {
			return nil, err
		}
	}

	tracker, err := usage.NewTracker(stateDir)
	if err != nil {
		return nil, err
	}

	logger := opts.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := apiclient.New(cfg.API.BaseURL, sess,
		apiclient.WithTimeout(cfg.GetAPITimeout()),
		apiclient.WithObserver(apiclient.NewLogObserver(logger)),
		apiclient.WithObserver(tracker),
	)

	logging.Boot("railctl: workspace=%s base_url=%s timeout=%s", ws, cfg.API.BaseURL, cfg.GetAPITimeout())

	return &appEnv{
		workspace: ws,
		cfg:       cfg,
		store:     store,
		session:   sess,
		client:    client,
		api:       railapi.New(client, sess),
		tracker:   tracker,
		styles:    ui.DefaultStyles(),
		logger:    logger,
		out:       opts.out,
		errOut:    opts.errOut,
	}, nil
}

func (e *appEnv) close() {
	if err := e.tracker.Close(); err != nil {
		logging.UsageWarn("failed to save usage: %v", err)
	}
	logging.CloseAll()
}

// call runs fn and shows the loading line on errOut if the client is still
// loading after loadingDelay.
func (e *appEnv) call(ctx context.Context, fn func(context.Context) error) error {
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	timer := time.NewTimer(loadingDelay)
	defer timer.Stop()
	for {
		select {
		case err := <-done:
			return err
		case <-timer.C:
			if e.client.Loading() {
				fmt.Fprintln(e.errOut, ui.LoadingLine(e.styles))
			}
		}
	}
}

func (e *appEnv) println(s string) {
	fmt.Fprintln(e.out, s)
}

// printTable prints t, or the empty state when it has no rows.
func (e *appEnv) printTable(t *ui.SimpleTable, empty, action string) {
	if t.Len() == 0 {
		e.println(ui.EmptyState(e.styles, empty, action))
		return
	}
	fmt.Fprint(e.out, t.View(e.styles))
}

func (e *appEnv) requireLogin() error {
	if !e.session.IsAuthenticated() {
		return fmt.Errorf("not logged in: run \"railctl login\" first")
	}
	return nil
}
