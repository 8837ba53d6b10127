package github

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/starctl/pkg/buildinfo"
	"github.com/matzehuels/starctl/pkg/cache"
	"github.com/matzehuels/starctl/pkg/integrations"
)

const (
	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	apiVersion = "2022-11-28"

	// starMediaType makes the starred listing include starred_at.
	starMediaType = "application/vnd.github.star+json"

	starredPerPage  = 100
	maxStarredPages = 10

	userKey    = "user"
	starredKey = "starred"
)

// Client provides access to the GitHub API for the authenticated user.
// It handles HTTP requests with caching, automatic retries, and optional
// authentication. Star, unstar, and check go through [Client.Stars].
type Client struct {
	*integrations.Client
	stars *StarService
}

// NewClient creates a GitHub API client. Pass an empty token for
// unauthenticated requests (starring endpoints will answer 401). Cached
// entries are namespaced by a hash of the token so accounts sharing a cache
// stay separate. Options override the base URL, HTTP client, and retries.
func NewClient(token string, c cache.Cache, ttl time.Duration, opts ...integrations.Option) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": apiVersion,
		"User-Agent":           buildinfo.UserAgent(),
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	opts = append([]integrations.Option{integrations.WithBaseURL(DefaultBaseURL)}, opts...)
	ic := integrations.NewClient(c, cacheNamespace(token), ttl, headers, opts...)
	return &Client{
		Client: ic,
		stars:  NewStarService(ic),
	}
}

func cacheNamespace(token string) string {
	if token == "" {
		return "github:anonymous:"
	}
	return "github:" + cache.Hash([]byte(token))[:16] + ":"
}

// Stars returns the starring service bound to this client.
func (c *Client) Stars() *StarService { return c.stars }

// FetchUser retrieves the authenticated user's profile.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchUser(ctx context.Context, refresh bool) (*User, error) {
	var user User
	err := c.Cached(ctx, userKey, refresh, &user, func() error {
		return c.GetJSON(ctx, "/user", &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListStarred returns the repositories the authenticated user has starred,
// most recently starred first. Pagination follows the Link header up to
// ten pages of one hundred. If refresh is true, cached data is bypassed.
func (c *Client) ListStarred(ctx context.Context, refresh bool) ([]StarredRepo, error) {
	var repos []StarredRepo
	err := c.Cached(ctx, starredKey, refresh, &repos, func() error {
		all, err := c.fetchStarred(ctx)
		repos = all
		return err
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// InvalidateStarred drops the cached starred listing. Call it after
// starring or unstarring so the next [Client.ListStarred] is fresh.
func (c *Client) InvalidateStarred(ctx context.Context) error {
	return c.Forget(ctx, starredKey)
}

func (c *Client) fetchStarred(ctx context.Context) ([]StarredRepo, error) {
	var all []StarredRepo
	page := 1

	for n := 0; page > 0 && n < maxStarredPages; n++ {
		resp, err := c.Get(ctx, &integrations.Request{
			Path: "/user/starred",
			Params: url.Values{
				"per_page": {strconv.Itoa(starredPerPage)},
				"page":     {strconv.Itoa(page)},
			},
			Accept: starMediaType,
		})
		if err != nil {
			return nil, err
		}

		var batch []StarredRepo
		if err := resp.Decode(&batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		page = resp.NextPage()
	}
	return all, nil
}
