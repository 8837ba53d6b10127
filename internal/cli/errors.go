package cli

import (
	"context"
	"errors"
	"time"

	starerrors "github.com/matzehuels/starctl/pkg/errors"
	"github.com/matzehuels/starctl/pkg/integrations"
)

// describeError turns err into a one-line message, adding a hint for the
// failures a user can act on.
func describeError(err error) string {
	var rl *starerrors.RateLimitedError
	switch {
	case errors.As(err, &rl):
		if rl.RetryAfter > 0 {
			return "GitHub rate limit exceeded; try again in " + rl.RetryAfter.Round(time.Second).String()
		}
		return "GitHub rate limit exceeded; try again later"
	case errors.Is(err, integrations.ErrUnauthorized):
		return "GitHub rejected the token (run 'starctl auth login' or check GITHUB_TOKEN)"
	case errors.Is(err, integrations.ErrForbidden):
		return "access denied; the token may lack the public_repo scope"
	case errors.Is(err, integrations.ErrNotFound):
		return "repository not found"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, integrations.ErrNetwork):
		return "could not reach GitHub: " + err.Error()
	}
	return starerrors.UserMessage(err)
}

// FormatError renders err for the terminal. It returns "" for errors that
// have already been reported, such as an *ExitError.
func FormatError(err error) string {
	var ee *ExitError
	if err == nil || errors.As(err, &ee) {
		return ""
	}
	return styleIconError.Render(iconError) + " " + describeError(err)
}
