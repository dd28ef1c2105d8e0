package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gaboelnuevo/cofi-app/client"
	"github.com/gaboelnuevo/cofi-app/internal/config"
	"github.com/gaboelnuevo/cofi-app/internal/logger"
	"github.com/gaboelnuevo/cofi-app/internal/session"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// cli carries the persistent flags shared by every subcommand.
type cli struct {
	cfg     *config.Config
	cfgErr  error
	retries int
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	a := &cli{}
	a.cfg, a.cfgErr = config.New()
	if a.cfg == nil {
		a.cfg = config.NewForTesting(client.DefaultBaseURL)
	}
	if a.cfg.TokenStore == "" {
		a.cfg.TokenStore = defaultTokenStore()
	}

	rootCmd := &cobra.Command{
		Use:           "cofi",
		Short:         "Command line client for the cofi backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.InfoLevel
			if a.cfg.Debug {
				level = zerolog.DebugLevel
			}
			log.Logger = logger.Console(level)
			zerolog.SetGlobalLevel(level)
			log.Debug().Msg("debug logging enabled")

			if a.cfgErr != nil {
				if err := a.reload(cmd.Flags()); err != nil {
					return err
				}
			}
			if a.retries < 0 {
				return fmt.Errorf("--retries must be >= 0")
			}
			return a.cfg.Validate()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfg.BaseURL, "base-url", a.cfg.BaseURL, "Base URL of the cofi API")
	pf.StringVar(&a.cfg.TokenStore, "token-store", a.cfg.TokenStore, "SQLite file holding the session token")
	pf.BoolVarP(&a.cfg.Debug, "debug", "d", a.cfg.Debug, "Enable verbose debug output and HTTP dumps")
	pf.DurationVar(&a.cfg.Timeout, "timeout", a.cfg.Timeout, "Per-request timeout")
	pf.IntVar(&a.retries, "retries", 0, "Retry transport failures this many times (never HTTP errors)")

	rootCmd.AddCommand(a.userCommands()...)
	rootCmd.AddCommand(a.socialCommands()...)
	rootCmd.AddCommand(a.alarmCommands()...)
	rootCmd.AddCommand(a.newCoffeesCmd(), a.newExploraCmd())

	return rootCmd
}

// flagEnv maps the persistent flags to the variables they override.
var flagEnv = map[string]string{
	"base-url":    "BASE_URL",
	"token-store": "TOKEN_STORE",
	"debug":       "DEBUG",
	"timeout":     "TIMEOUT",
}

// reload reads the configuration again with every changed flag standing in
// for its variable, so a flag replaces a malformed environment value. The
// environment is restored afterwards.
func (a *cli) reload(flags *pflag.FlagSet) error {
	overridden := false
	for name, key := range flagEnv {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		key = config.Prefix + "_" + key
		prev, had := os.LookupEnv(key)
		if err := os.Setenv(key, f.Value.String()); err != nil {
			return err
		}
		defer func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		}()
		overridden = true
	}
	if !overridden {
		return a.cfgErr
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	if cfg.TokenStore == "" {
		cfg.TokenStore = defaultTokenStore()
	}
	*a.cfg = *cfg
	a.cfgErr = nil
	return nil
}

func defaultTokenStore() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cofi", "session.db")
}

// callFunc is one API call against an open session.
type callFunc func(ctx context.Context, s *session.Session) (*client.Response, error)

// call opens a session, runs fn with retries on transport problems and
// prints the response. A non-2xx response is printed and returned as error.
func (a *cli) call(cmd *cobra.Command, name string, fn callFunc) (*client.Response, error) {
	sess, err := session.Open(a.cfg, log.Logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = sess.Close() }()
	return a.callWith(cmd, sess, name, fn)
}

func (a *cli) callWith(cmd *cobra.Command, sess *session.Session, name string, fn callFunc) (*client.Response, error) {
	ctx := cmd.Context()
	log.Debug().Str("command", name).Str("base_url", a.cfg.BaseURL).Msg("calling")

	start := time.Now()
	res, err := retry(ctx, a.retries, func() (*client.Response, error) { return fn(ctx, sess) })
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Str("command", name).Dur("elapsed", elapsed).Msg("call failed")
		if res != nil {
			printResponse(cmd.OutOrStdout(), res)
		}
		return res, err
	}
	log.Debug().Str("command", name).Int("status", res.Status).Dur("elapsed", elapsed).Msg("call completed")

	printResponse(cmd.OutOrStdout(), res)
	if !res.OK {
		return res, fmt.Errorf("%s: HTTP %d %s", name, res.Status, res.Problem)
	}
	return res, nil
}

// retry runs op up to retries+1 times with exponential backoff. Only
// transport problems (timeouts, refused or broken connections) are retried.
func retry(ctx context.Context, retries int, op func() (*client.Response, error)) (*client.Response, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.Multiplier = 2
	exp.MaxInterval = 5 * time.Second
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)

	var res *client.Response
	err := backoff.RetryNotify(func() error {
		r, err := op()
		res = r
		if err == nil {
			return nil
		}
		if r != nil && client.IsTransient(client.Problem(r.Problem)) {
			return err
		}
		return backoff.Permanent(err)
	}, b, func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("wait", wait).Msg("transport failure, retrying")
	})
	return res, err
}

func printResponse(w io.Writer, res *client.Response) {
	fmt.Fprintf(w, "status: %d\nok: %t\nproblem: %s\n", res.Status, res.OK, res.Problem)
	if len(res.Data) == 0 {
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, res.Data, "", "  "); err != nil {
		fmt.Fprintf(w, "%s\n", res.Data)
		return
	}
	fmt.Fprintf(w, "%s\n", buf.Bytes())
}

// jsonBody parses a --data flag. An empty string is an empty object.
func jsonBody(raw string) (map[string]any, error) {
	body := map[string]any{}
	if raw == "" {
		return body, nil
	}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return nil, fmt.Errorf("--data is not a JSON object: %w", err)
	}
	return body, nil
}
