// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/tedxbedayia/usher/cmd/usher/cli"
	"github.com/tedxbedayia/usher/lib/admission"
	"github.com/tedxbedayia/usher/lib/clock"
	"github.com/tedxbedayia/usher/lib/config"
	"github.com/tedxbedayia/usher/lib/gate"
	"github.com/tedxbedayia/usher/lib/history"
	"github.com/tedxbedayia/usher/lib/kvstore"
	"github.com/tedxbedayia/usher/lib/session"
)

// GlobalFlags are accepted by every leaf command.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
}

// AddFlags implements cli.FlagBinder.
func (flags *GlobalFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&flags.ConfigPath, "config", "", "configuration file (default: $"+config.EnvVar+", then built-in defaults)")
	flagSet.BoolVarP(&flags.Verbose, "verbose", "v", false, "log at debug level")
}

// runtime is everything a command needs, opened from one
// configuration.
type runtime struct {
	config  *config.Config
	clock   clock.Clock
	logger  *slog.Logger
	stores  *kvstore.Stores
	session *session.Session
	history *history.Log
	client  *admission.Client
	gate    *gate.Gate
}

// open resolves configuration and opens storage, the session, the
// history log, the API client, and the gate.
func (env *Env) open(flags GlobalFlags, logger *slog.Logger) (*runtime, error) {
	if flags.Verbose && env.Level != nil {
		env.Level.Set(slog.LevelDebug)
	}
	clk := env.Clock
	if clk == nil {
		clk = clock.Real()
	}

	cfg, err := config.Resolve(flags.ConfigPath)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	location, err := cfg.Location()
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	stores, err := kvstore.Open(cfg, clk, logger)
	if err != nil {
		return nil, cli.Internal("opening storage: %w", err)
	}

	result := &runtime{config: cfg, clock: clk, logger: logger, stores: stores}

	result.session, err = session.New(session.Config{Store: stores.Secure, Logger: logger})
	if err != nil {
		result.Close()
		return nil, cli.Internal("%w", err)
	}
	result.history, err = history.New(history.Config{
		Store:    stores.Data,
		Clock:    clk,
		Location: location,
		Logger:   logger,
	})
	if err != nil {
		result.Close()
		return nil, cli.Internal("%w", err)
	}
	result.client, err = admission.NewClient(admission.Config{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: env.HTTPClient,
		Clock:      clk,
		Logger:     logger,
		Timeout:    timeout,
		UserAgent:  cfg.API.UserAgent,
	})
	if err != nil {
		result.Close()
		return nil, cli.Validation("%w", err)
	}
	result.gate, err = gate.New(gate.Config{
		Session: result.session,
		Client:  result.client,
		History: result.history,
		Logger:  logger,
	})
	if err != nil {
		result.Close()
		return nil, cli.Internal("%w", err)
	}
	return result, nil
}

// Close releases the session and storage.
func (r *runtime) Close() error {
	var errs []error
	if r.session != nil {
		errs = append(errs, r.session.Close())
	}
	if r.stores != nil {
		errs = append(errs, r.stores.Close())
	}
	return errors.Join(errs...)
}

// credentialsError turns gate and session errors into categorized CLI
// errors.
func credentialsError(err error) error {
	switch {
	case errors.Is(err, session.ErrNoAppKey):
		return cli.NotFound("No App Key: configure one with \"usher key set\"")
	case errors.Is(err, kvstore.ErrStorage):
		return cli.Internal("%w", err)
	default:
		return err
	}
}

// withRuntime opens a runtime, runs fn, and closes the runtime.
func (env *Env) withRuntime(ctx context.Context, flags GlobalFlags, logger *slog.Logger, fn func(context.Context, *runtime) error) error {
	rt, err := env.open(flags, logger)
	if err != nil {
		return err
	}
	runErr := fn(ctx, rt)
	if closeErr := rt.Close(); closeErr != nil {
		logger.Warn("closing storage", "error", closeErr)
	}
	return runErr
}
