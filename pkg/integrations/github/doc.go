// Package github provides a client for the GitHub starring API.
//
// # Overview
//
// [StarService] is the core: it turns a [RepositoryID] into the path
// /user/starred/{owner}/{repo} and issues one request through a
// [Requester]:
//
//   - [StarService.StarRepository]: PUT
//   - [StarService.UnstarRepository]: DELETE
//   - [StarService.IsStarring]: GET, true on success, false on 404
//
// A nil or incomplete RepositoryID fails with an INVALID_INPUT error before
// any request is made. Every other failure comes from the Requester
// unchanged.
//
// # Usage
//
//	client := github.NewClient(token, cache, 5*time.Minute)
//	repo := github.NewRepositoryID("octocat", "hello-world")
//
//	if err := client.Stars().StarRepository(ctx, repo); err != nil {
//	    log.Fatal(err)
//	}
//	starring, err := client.Stars().IsStarring(ctx, repo)
//
// # Authentication
//
// The starring endpoints act on the authenticated user, so a token is
// required in practice. [OAuthClient] runs the device flow to obtain one;
// the default scopes allow starring public repositories.
//
// # Listing
//
// [Client.ListStarred] pages through /user/starred and caches the result.
// Call [Client.InvalidateStarred] after a star or unstar.
package github
