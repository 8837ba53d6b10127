package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	starerrors "github.com/matzehuels/starctl/pkg/errors"
	"github.com/matzehuels/starctl/pkg/integrations"
)

func TestDescribeError(t *testing.T) {
	wrap := func(err error) error {
		return &integrations.RequestError{Method: "PUT", Path: "/user/starred/o/r", Err: err}
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", wrap(&starerrors.RateLimitedError{RetryAfter: 90 * time.Second}), "try again in 1m30s"},
		{"rate limited no hint", wrap(&starerrors.RateLimitedError{}), "try again later"},
		{"unauthorized", wrap(fmt.Errorf("%w: Bad credentials", integrations.ErrUnauthorized)), "auth login"},
		{"forbidden", wrap(integrations.ErrForbidden), "public_repo"},
		{"not found", wrap(integrations.ErrNotFound), "repository not found"},
		{"timeout", fmt.Errorf("check: %w", context.DeadlineExceeded), "timed out"},
		{"network", wrap(integrations.ErrNetwork), "could not reach GitHub"},
		{"coded", starerrors.New(starerrors.ErrCodeInvalidRepo, "invalid repository %q", "x"), `invalid repository "x"`},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeError(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("describeError() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("nil error should format as empty")
	}
	if FormatError(&ExitError{Code: 1}) != "" {
		t.Error("ExitError should format as empty")
	}
	if got := FormatError(errors.New("boom")); !strings.Contains(got, "boom") {
		t.Errorf("FormatError() = %q", got)
	}
}
