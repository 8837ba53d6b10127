package cli

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/starctl/pkg/cache"
	"github.com/matzehuels/starctl/pkg/integrations/github"
	"github.com/matzehuels/starctl/pkg/session"
)

const (
	loginTimeout  = 15 * time.Minute
	whoamiTimeout = 30 * time.Second
)

func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in to GitHub and manage the saved session",
		Long: `Authenticate with GitHub using the device flow.

The session is stored in $XDG_CONFIG_HOME/starctl/sessions/ (owner-only
permissions). A token given with --token or GITHUB_TOKEN takes precedence.`,
	}

	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authWhoamiCommand())

	return cmd
}

func (c *CLI) authLoginCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with GitHub using the device flow",
		Long: `Start the GitHub device authorization flow.

You'll be given a code to enter at https://github.com/login/device.
Once authorized, the session is saved for later commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := session.NewCLIStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if !force {
				if existing, _ := store.GetSession(ctx); existing != nil {
					printInfo("Already logged in as @%s", existing.Login())
					printDetail("Run 'starctl auth login --force' to re-authenticate")
					return nil
				}
			}
			return c.runDeviceLogin(ctx, store)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "log in again even if a session exists")
	return cmd
}

func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved GitHub session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewCLIStore()
			if err != nil {
				return fmt.Errorf("open session store: %w", err)
			}
			if err := store.DeleteSession(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

func (c *CLI) authWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated GitHub user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), whoamiTimeout)
			defer cancel()

			client, err := c.authedClient(ctx)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Verifying token...")
			spinner.Start()
			user, err := client.FetchUser(ctx, true)
			if err != nil {
				spinner.StopWithError("Token invalid")
				return fmt.Errorf("verify token: %w", err)
			}
			spinner.Stop()

			printSuccess("GitHub account")
			printKeyValue("Username", "@"+user.Login)
			if user.Name != "" {
				printKeyValue("Name", user.Name)
			}
			if user.Email != "" {
				printKeyValue("Email", user.Email)
			}
			if store, err := session.NewCLIStore(); err == nil {
				if sess, _ := store.GetSession(ctx); sess != nil && c.token == "" && c.settings().Auth.Token == "" {
					printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
					printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
				}
			}
			return nil
		},
	}
}

// runDeviceLogin walks the user through the device flow and saves the
// resulting session.
func (c *CLI) runDeviceLogin(ctx context.Context, store *session.CLIStore) error {
	logger := loggerFromContext(ctx)
	oauth := github.NewOAuthClient(github.OAuthConfig{ClientID: c.settings().Auth.ClientID})

	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	device, err := oauth.RequestDeviceCode(ctx)
	if err != nil {
		return fmt.Errorf("request device code: %w", err)
	}

	printNewline()
	fmt.Fprintln(out, StyleTitle.Render("GitHub Device Authorization"))
	printNewline()
	printKeyValue("Code", StyleNumber.Render(device.UserCode))
	printKeyValue("URL", StyleLink.Render(device.VerificationURI))
	printNewline()

	if err := openBrowser(device.VerificationURI); err != nil {
		logger.Debug("could not open browser", "err", err)
		printDetail("Copy the URL above and paste it in your browser")
	} else {
		printDetail("Opening browser...")
	}
	printInline("Waiting for authorization...")

	token, err := oauth.PollForToken(ctx, device.DeviceCode, device.Interval)
	printNewline()
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	// The profile is fetched fresh; nothing is cached under a token that
	// has not been saved yet.
	user, err := c.clientWithCache(token.AccessToken, cache.NewNullCache()).FetchUser(ctx, true)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}

	sess, err := session.New(token.AccessToken, user, session.DefaultTTL)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if err := store.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	printSuccess("Logged in as @%s", user.Login)
	logger.Debug("saved session", "path", store.Path(), "scope", token.Scope)
	return nil
}

func openBrowser(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "linux":
		cmd = exec.Command("xdg-open", rawURL)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
