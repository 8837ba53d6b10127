package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	starerrors "github.com/matzehuels/starctl/pkg/errors"
	"github.com/matzehuels/starctl/pkg/integrations/github"
)

// maxConcurrentRequests bounds parallel star/unstar calls.
const maxConcurrentRequests = 4

func (c *CLI) starCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "star owner/repo...",
		Short: "Star one or more repositories",
		Example: `  starctl star charmbracelet/lipgloss
  starctl star spf13/cobra redis/go-redis`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBulk(cmd.Context(), args, "Starred", (*github.StarService).StarRepository)
		},
	}
}

func (c *CLI) unstarCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unstar owner/repo...",
		Short: "Remove the star from one or more repositories",
		Args:  cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return c.completeStarred(cmd.Context(), args, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBulk(cmd.Context(), args, "Unstarred", (*github.StarService).UnstarRepository)
		},
	}
}

func (c *CLI) checkCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check owner/repo",
		Short: "Report whether you have starred a repository",
		Long: `Report whether the authenticated user has starred a repository.

With --quiet nothing is printed and the exit status tells the answer:
0 when starred, 1 when not starred, and 1 with a message on error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := parseRepoArg(args[0])
			if err != nil {
				return err
			}
			client, err := c.authedClient(ctx)
			if err != nil {
				return err
			}

			loggerFromContext(ctx).Debug("checking star", "repo", repo)
			starred, err := client.Stars().IsStarring(ctx, repo)
			if err != nil {
				return fmt.Errorf("check %s: %w", repo, err)
			}
			if quiet {
				if !starred {
					return &ExitError{Code: 1}
				}
				return nil
			}
			printStarred(repo.String(), starred)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing; exit status 1 when not starred")
	return cmd
}

func (c *CLI) listCommand() *cobra.Command {
	var (
		refresh bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your starred repositories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.authedClient(ctx)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Fetching starred repositories...")
			spinner.Start()
			prog := newProgress(loggerFromContext(ctx))
			repos, err := client.ListStarred(ctx, refresh)
			spinner.Stop()
			if err != nil {
				return fmt.Errorf("list starred: %w", err)
			}
			prog.done(fmt.Sprintf("Fetched %d starred repositories", len(repos)))

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(repos)
			}
			if len(repos) == 0 {
				printInfo("No starred repositories")
				return nil
			}
			for _, r := range repos {
				printRepo(r)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printRepo(r github.StarredRepo) {
	line := styleStar.Render(iconStar) + " " + StyleValue.Render(r.Repo.RepositoryID().String()) +
		" " + StyleNumber.Render(strconv.Itoa(r.Repo.Stars))
	if r.Repo.Archived {
		line += " " + StyleWarning.Render("archived")
	}
	fmt.Fprintln(out, line)
	if r.Repo.Description != "" {
		printDetail("%s", r.Repo.Description)
	}
}

// completeStarred suggests starred repositories from the (cached) listing,
// skipping ones already on the command line.
func (c *CLI) completeStarred(ctx context.Context, args []string, prefix string) []string {
	client, err := c.authedClient(ctx)
	if err != nil {
		return nil
	}
	repos, err := client.ListStarred(ctx, false)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool, len(args))
	for _, a := range args {
		seen[a] = true
	}
	var names []string
	for _, r := range repos {
		name := r.Repo.RepositoryID().String()
		if !seen[name] && strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names
}

// starOp is StarRepository or UnstarRepository as a method expression.
type starOp func(*github.StarService, context.Context, *github.RepositoryID) error

// runBulk applies op to every repository named in args, at most
// maxConcurrentRequests at a time. All arguments are parsed before any
// request is sent. Failures are reported per repository; the command fails
// if any did.
func (c *CLI) runBulk(ctx context.Context, args []string, verb string, op starOp) error {
	repos, err := parseRepoArgs(args)
	if err != nil {
		return err
	}
	client, err := c.authedClient(ctx)
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	errs := make([]error, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRequests)
	for i, repo := range repos {
		g.Go(func() error {
			logger.Debug(strings.ToLower(verb), "repo", repo)
			errs[i] = op(client.Stars(), gctx, repo)
			// Cancellation is the only thing that stops the batch.
			if gctx.Err() != nil {
				return gctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, repo := range repos {
		if errs[i] != nil {
			failed++
			printError("%s: %s", repo, describeError(errs[i]))
			continue
		}
		printSuccess("%s %s", verb, repo)
	}
	if failed < len(repos) {
		if err := client.InvalidateStarred(ctx); err != nil {
			logger.Warn("could not invalidate starred cache", "err", err)
		}
	}
	prog.done(fmt.Sprintf("%s %d of %d repositories", verb, len(repos)-failed, len(repos)))

	if failed > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// parseRepoArgs parses every argument, reporting the first invalid one.
func parseRepoArgs(args []string) ([]*github.RepositoryID, error) {
	repos := make([]*github.RepositoryID, 0, len(args))
	for _, arg := range args {
		repo, err := parseRepoArg(arg)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

// parseRepoArg accepts owner/repo as well as github.com/owner/repo and
// https://github.com/owner/repo.
func parseRepoArg(arg string) (*github.RepositoryID, error) {
	ref := strings.TrimSpace(arg)
	for _, prefix := range []string{"https://", "http://"} {
		ref = strings.TrimPrefix(ref, prefix)
	}
	ref = strings.TrimPrefix(ref, "www.")
	ref = strings.TrimPrefix(ref, "github.com/")
	ref = strings.TrimSuffix(ref, "/")
	if strings.Count(ref, "/") > 1 {
		return nil, starerrors.New(starerrors.ErrCodeInvalidRepo, "invalid repository %q: use owner/repo", arg)
	}
	return github.ParseRepositoryID(ref)
}
