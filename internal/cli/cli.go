// Package cli implements the starctl command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/starctl/internal/config"
	"github.com/matzehuels/starctl/pkg/buildinfo"
	"github.com/matzehuels/starctl/pkg/cache"
	starerrors "github.com/matzehuels/starctl/pkg/errors"
	"github.com/matzehuels/starctl/pkg/integrations"
	"github.com/matzehuels/starctl/pkg/integrations/github"
	"github.com/matzehuels/starctl/pkg/observability"
	"github.com/matzehuels/starctl/pkg/session"
)

const (
	appName = "starctl"

	// retryDelay is the initial backoff between attempts.
	retryDelay = time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Global flags.
	verbose    bool
	configPath string
	token      string
	noCache    bool

	cfg   *config.Config
	cache cache.Cache
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Star, unstar and check GitHub repositories from the terminal",
		Long: `starctl manages the repositories you have starred on GitHub.

Authenticate once with 'starctl auth login' (or set GITHUB_TOKEN), then star,
unstar and check repositories by owner/repo.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/starctl/config.toml)")
	flags.StringVar(&c.token, "token", "", "GitHub token (overrides GITHUB_TOKEN and the saved session)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the response cache")

	root.AddCommand(c.starCommand())
	root.AddCommand(c.unstarCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --verbose, loads the config
// and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := logHooks{logger: c.Logger}
		observability.SetHTTPHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// Close releases the response cache, if one was opened.
func (c *CLI) Close() error {
	if c.cache == nil {
		return nil
	}
	err := c.cache.Close()
	c.cache = nil
	return err
}

// settings returns the loaded configuration, or the defaults when setup has
// not run.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// openCache picks the cache backend: none with --no-cache or
// cache.disabled, Redis when cache.redis_url is set, otherwise the file
// cache. An unreachable Redis or an unusable cache directory degrades to no
// cache with a warning.
func (c *CLI) openCache(ctx context.Context) cache.Cache {
	if c.cache != nil {
		return c.cache
	}
	logger := loggerFromContext(ctx)
	cfg := c.settings()

	switch {
	case c.noCache || cfg.Cache.Disabled:
		c.cache = cache.NewNullCache()
	case cfg.Cache.RedisURL != "":
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Warn("redis cache unavailable, continuing without cache", "err", err)
			c.cache = cache.NewNullCache()
		} else {
			logger.Debug("using redis cache")
			c.cache = rc
		}
	default:
		dir, err := cfg.CacheDir()
		if err == nil {
			var fc *cache.FileCache
			if fc, err = cache.NewFileCache(dir); err == nil {
				logger.Debug("using file cache", "dir", dir)
				c.cache = fc
				break
			}
		}
		logger.Warn("file cache unavailable, continuing without cache", "err", err)
		c.cache = cache.NewNullCache()
	}
	return c.cache
}

// errNotLoggedIn is returned when a command needs a token and none is found.
var errNotLoggedIn = starerrors.New(starerrors.ErrCodeUnauthorized, "not logged in (run 'starctl auth login' or set GITHUB_TOKEN)")

// resolveToken finds the GitHub token in order: --token, GITHUB_TOKEN or
// auth.token (the environment wins over the file), then the saved session.
// It returns "" without error when there is none.
func (c *CLI) resolveToken(ctx context.Context) (string, error) {
	logger := loggerFromContext(ctx)
	if c.token != "" {
		logger.Debug("using token from --token")
		return c.token, nil
	}
	if t := c.settings().Auth.Token; t != "" {
		logger.Debug("using token from environment or config")
		return t, nil
	}

	store, err := session.NewCLIStore()
	if err != nil {
		return "", err
	}
	sess, err := store.GetSession(ctx)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", nil
	}
	logger.Debug("using saved session", "user", sess.Login())
	return sess.AccessToken, nil
}

// newClient builds a GitHub client for token using the configured base
// URL, timeout, retries and cache.
func (c *CLI) newClient(ctx context.Context, token string) *github.Client {
	return c.clientWithCache(token, c.openCache(ctx))
}

func (c *CLI) clientWithCache(token string, store cache.Cache) *github.Client {
	cfg := c.settings()
	return github.NewClient(token, store, cfg.Cache.TTL.Duration,
		integrations.WithBaseURL(cfg.API.BaseURL),
		integrations.WithHTTPClient(integrations.NewHTTPClientWithTimeout(cfg.API.Timeout.Duration)),
		integrations.WithRetry(cfg.API.Retries, retryDelay),
	)
}

// authedClient is newClient for commands that need a token.
func (c *CLI) authedClient(ctx context.Context) (*github.Client, error) {
	token, err := c.resolveToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errNotLoggedIn
	}
	return c.newClient(ctx, token), nil
}

// ExitError carries a process exit status without a message. check --quiet
// uses it to report "not starred".
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return "exit status " + strconv.Itoa(e.Code) }

// ExitCode maps err to a process exit status: 0 for nil, the carried code
// for an *ExitError, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}
