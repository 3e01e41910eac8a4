package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/featureflags"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
	"github.com/aryan0dhankhar/allocdesk/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/allocdesk/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/allocdesk/internal/lifecycle"
	"github.com/aryan0dhankhar/allocdesk/internal/observability/tracing"
	"github.com/aryan0dhankhar/allocdesk/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/allocdesk/internal/resolver"
	"github.com/aryan0dhankhar/allocdesk/internal/security/audit"
	"github.com/aryan0dhankhar/allocdesk/pkg/cache"
	"github.com/aryan0dhankhar/allocdesk/pkg/config"
)

var errNotLoggedIn = errors.New("not logged in, run `allocdesk login` first")

// app is the state shared by every command of one invocation.
type app struct {
	in  *bufio.Reader
	out io.Writer

	baseURL   string
	verbose   bool
	assumeYes bool

	cfg     *config.Config
	log     *slog.Logger
	store   cache.Store
	breaker *circuitbreaker.CircuitBreaker
	closers []func(context.Context) error
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: bufio.NewReader(in), out: out}

	cmd := &cobra.Command{
		Use:           "allocdesk",
		Short:         "Manage employees, projects and allocations on the staffing API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "API base URL (overrides API_BASE_URL)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log gateway calls to stderr")
	cmd.PersistentFlags().BoolVarP(&a.assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")

	cmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newPasswordCmd(a),
		newEmployeeCmd(a),
		newProjectCmd(a),
		newAllocationCmd(a),
		newExportCmd(a),
	)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})
	return cmd
}

func (a *app) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return withCode(exitUsage, err)
	}
	if a.baseURL != "" {
		cfg.API.BaseURL = a.baseURL
		if err := cfg.API.Validate(); err != nil {
			return withCode(exitUsage, err)
		}
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if !a.verbose && level != "debug" {
		level = "warn"
	} else if a.verbose {
		level = "debug"
	}
	a.log = logger.NewWithWriter(os.Stderr, level)

	shutdown, err := tracing.Init(ctx, a.log, "allocdesk-cli", cfg.Environment)
	if err != nil {
		a.log.Warn("tracing disabled", slog.String("error", err.Error()))
	} else {
		a.closers = append(a.closers, shutdown)
	}

	a.store = a.directoryStore(ctx)
	if cfg.Breaker.FailureThreshold > 0 {
		a.breaker = circuitbreaker.NewCircuitBreaker(cfg.Breaker.FailureThreshold, cfg.Breaker.SuccessThreshold, cfg.Breaker.OpenTimeout)
	}
	return nil
}

// directoryStore picks the employee-name cache. A redis outage degrades to
// the in-process cache.
func (a *app) directoryStore(ctx context.Context) cache.Store {
	if a.cfg.Cache.Backend != "redis" {
		return cache.New()
	}
	rc, err := redis.NewClient(ctx, a.cfg.Cache.RedisURL, a.log)
	if err != nil {
		a.log.Warn("redis unavailable, using in-memory directory cache", slog.String("error", err.Error()))
		return cache.New()
	}
	a.closers = append(a.closers, func(context.Context) error { return rc.Close() })
	return rc
}

func (a *app) close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}

// client builds a gateway client bound to the stored session. With
// requireSession set, a missing session is an auth failure.
func (a *app) client(requireSession bool) (*gateway.Client, error) {
	sess, err := loadSession(a.cfg.API.SessionFile)
	if err != nil {
		return nil, err
	}
	if requireSession && len(sess.Cookies) == 0 {
		return nil, withCode(exitAuth, errNotLoggedIn)
	}
	return gateway.NewClient(gateway.Options{
		BaseURL: a.cfg.API.BaseURL,
		Timeout: a.cfg.API.RequestTimeout,
		Session: sess,
		Breaker: a.breaker,
		Logger:  a.log,
	})
}

func (a *app) deps(c *gateway.Client) lifecycle.Deps {
	return lifecycle.Deps{
		API:       c,
		Resolver:  resolver.New(c, a.log),
		Directory: a.directory(c),
		Session:   c.Session(),
		Flags:     featureflags.FromEnv(),
		Audit:     audit.NewLogger(a.log),
		Logger:    a.log,
	}
}

func (a *app) directory(c *gateway.Client) *resolver.Directory {
	return resolver.NewDirectory(c, a.store, a.cfg.Cache.DirectoryTTL, a.log)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// kindArg parses a record kind argument.
func kindArg(s string) (domain.Kind, error) {
	k, err := domain.ParseKind(s)
	if err != nil {
		return domain.Kind{}, withCode(exitUsage, err)
	}
	return k, nil
}
