// Package pkg holds the libraries behind the starctl command.
//
//   - [github.com/matzehuels/starctl/pkg/integrations/github]: star, unstar
//     and check on /user/starred/{owner}/{repo}, plus profile, starred
//     listing and the OAuth device flow
//   - [github.com/matzehuels/starctl/pkg/integrations]: the shared REST client
//     (status classification, retries, response cache)
//   - [github.com/matzehuels/starctl/pkg/cache]: file, Redis and no-op caches
//   - [github.com/matzehuels/starctl/pkg/session]: saved login sessions
//   - [github.com/matzehuels/starctl/pkg/errors]: coded errors
//   - [github.com/matzehuels/starctl/pkg/httputil]: retry with backoff
//   - [github.com/matzehuels/starctl/pkg/observability]: request and cache hooks
//
// Starring in three lines:
//
//	client := github.NewClient(token, cache.NewNullCache(), 0)
//	repo, _ := github.ParseRepositoryID("charmbracelet/log")
//	err := client.Stars().StarRepository(ctx, repo)
package pkg
