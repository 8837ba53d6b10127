// Package integrations provides the shared HTTP client used by REST API
// clients.
//
// # Overview
//
// [Client] owns everything below the resource layer: base URL resolution,
// default headers (media type, authentication), status classification,
// retries with backoff, and JSON response caching. Resource packages such as
// [github] build paths and interpret outcomes; they never touch net/http.
//
// # Request Descriptors
//
// GETs take a [Request] carrying the path, optional query parameters, and an
// optional media type:
//
//	resp, err := client.Get(ctx, &integrations.Request{Path: "/user/starred/octocat/hello-world"})
//
// PUT and DELETE take a bare path since they carry no body.
//
// # Status Classification
//
// Every non-success status becomes a [*RequestError] that unwraps to a
// sentinel:
//
//   - 200, 201, 204: success
//   - 404: [ErrNotFound]
//   - 401: [ErrUnauthorized]
//   - 403 with an exhausted quota, 429: rate limited (retried)
//   - 403 otherwise: [ErrForbidden]
//   - 5xx: [ErrNetwork] (retried)
//
// Check-style endpoints rely on this: a 404 is the "no" answer, anything
// else that fails is an error.
//
// # Caching
//
// [Client.Cached] stores decoded results in a [cache.Cache] under the
// client's namespace. Mutating calls never go through the cache.
//
// # Observability
//
// Requests, responses, retries and cache lookups are reported to the hooks
// registered with the observability package; the defaults do nothing.
//
// [github]: github.com/matzehuels/starctl/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/starctl/pkg/cache.Cache
package integrations
