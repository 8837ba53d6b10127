// Package httputil provides retry helpers for the GitHub API client.
//
// # Retry
//
// [Retry] re-runs an operation when it fails with a transient error:
//
//   - Network errors
//   - 5xx server errors
//   - 429 and exhausted-quota 403 responses
//
// Only errors wrapped with [RetryableError] are retried; everything else is
// returned on the first failure. The delay doubles after each attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return doRequest(ctx)
//	})
//
// When the error chain carries a server hint (a RetryDelay method, as on
// errors.RateLimitedError), the wait is stretched to honour it, capped at
// one minute.
//
// # Configuration
//
// [RetryWithBackoff] uses the defaults:
//
//   - Max attempts: 3
//   - Base backoff: 1 second
//
// The CLI overrides the attempt count with the [api] retries setting.
package httputil
