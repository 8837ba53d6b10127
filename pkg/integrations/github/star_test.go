package github_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	starerrors "github.com/matzehuels/starctl/pkg/errors"
	"github.com/matzehuels/starctl/pkg/integrations"
	"github.com/matzehuels/starctl/pkg/integrations/github"
	"github.com/matzehuels/starctl/pkg/integrations/github/mocks"
)

func newStarService(t *testing.T) (*github.StarService, *mocks.MockRequester) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mocks.NewMockRequester(ctrl)
	return github.NewStarService(client), client
}

func TestStarRepository(t *testing.T) {
	svc, client := newStarService(t)
	ctx := context.Background()

	client.EXPECT().Put(ctx, "/user/starred/u/p").Return(nil).Times(1)

	require.NoError(t, svc.StarRepository(ctx, github.NewRepositoryID("u", "p")))
}

func TestUnstarRepository(t *testing.T) {
	svc, client := newStarService(t)
	ctx := context.Background()

	client.EXPECT().Delete(ctx, "/user/starred/u/p").Return(nil).Times(1)

	require.NoError(t, svc.UnstarRepository(ctx, github.NewRepositoryID("u", "p")))
}

func TestIsStarringIssuesGet(t *testing.T) {
	svc, client := newStarService(t)
	ctx := context.Background()

	client.EXPECT().
		Get(ctx, &integrations.Request{Path: "/user/starred/u/p"}).
		Return(&integrations.Response{StatusCode: http.StatusNoContent}, nil).
		Times(1)

	starring, err := svc.IsStarring(ctx, github.NewRepositoryID("u", "p"))
	require.NoError(t, err)
	assert.True(t, starring)
}

func TestIsStarringNotFound(t *testing.T) {
	svc, client := newStarService(t)
	ctx := context.Background()

	notFound := &integrations.RequestError{
		Method: http.MethodGet,
		Path:   "/user/starred/u/p",
		Err:    integrations.ErrNotFound,
	}
	client.EXPECT().Get(ctx, gomock.Any()).Return(nil, notFound)

	starring, err := svc.IsStarring(ctx, github.NewRepositoryID("u", "p"))
	require.NoError(t, err)
	assert.False(t, starring)
}

func TestIsStarringPropagatesOtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unauthorized", fmt.Errorf("GET /user/starred/u/p: %w", integrations.ErrUnauthorized)},
		{"network", integrations.ErrNetwork},
		{"canceled", context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, client := newStarService(t)
			ctx := context.Background()

			client.EXPECT().Get(ctx, gomock.Any()).Return(nil, tt.err)

			starring, err := svc.IsStarring(ctx, github.NewRepositoryID("u", "p"))
			require.ErrorIs(t, err, tt.err)
			assert.False(t, starring)
		})
	}
}

func TestStarErrorsPropagateUnchanged(t *testing.T) {
	svc, client := newStarService(t)
	ctx := context.Background()
	cause := errors.New("connection refused")

	client.EXPECT().Put(ctx, gomock.Any()).Return(cause)
	client.EXPECT().Delete(ctx, gomock.Any()).Return(cause)

	repo := github.NewRepositoryID("u", "p")
	assert.Same(t, cause, svc.StarRepository(ctx, repo))
	assert.Same(t, cause, svc.UnstarRepository(ctx, repo))
}

func TestNilRepositoryRejectedBeforeRequest(t *testing.T) {
	// The mock has no expectations: any call fails the test.
	svc, _ := newStarService(t)
	ctx := context.Background()

	err := svc.StarRepository(ctx, nil)
	assert.True(t, starerrors.Is(err, starerrors.ErrCodeInvalidInput), "star: %v", err)

	err = svc.UnstarRepository(ctx, nil)
	assert.True(t, starerrors.Is(err, starerrors.ErrCodeInvalidInput), "unstar: %v", err)

	starring, err := svc.IsStarring(ctx, nil)
	assert.True(t, starerrors.Is(err, starerrors.ErrCodeInvalidInput), "check: %v", err)
	assert.False(t, starring)
}

func TestIncompleteRepositoryRejectedBeforeRequest(t *testing.T) {
	svc, _ := newStarService(t)
	ctx := context.Background()

	for _, repo := range []*github.RepositoryID{
		github.NewRepositoryID("", "p"),
		github.NewRepositoryID("u", ""),
		{},
	} {
		err := svc.StarRepository(ctx, repo)
		assert.True(t, starerrors.Is(err, starerrors.ErrCodeInvalidInput), "%s: %v", repo, err)
	}
}

func TestStarredPath(t *testing.T) {
	tests := []struct {
		owner, name string
		want        string
	}{
		{"u", "p", "/user/starred/u/p"},
		{"octocat", "Hello-World", "/user/starred/octocat/Hello-World"},
		// Segments are used verbatim.
		{"my org", "a.b_c", "/user/starred/my org/a.b_c"},
	}

	for _, tt := range tests {
		got, err := github.StarredPath(github.NewRepositoryID(tt.owner, tt.name))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestStarServiceOverHTTP(t *testing.T) {
	var mu sync.Mutex
	starred := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodPut:
			starred[r.URL.Path] = true
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			delete(starred, r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			if starred[r.URL.Path] {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := github.NewClient("secret", nil, time.Hour,
		integrations.WithBaseURL(server.URL),
		integrations.WithRetry(1, time.Millisecond),
	)
	svc := client.Stars()
	ctx := context.Background()
	repo := github.NewRepositoryID("octocat", "hello-world")

	starring, err := svc.IsStarring(ctx, repo)
	require.NoError(t, err)
	assert.False(t, starring)

	require.NoError(t, svc.StarRepository(ctx, repo))
	starring, err = svc.IsStarring(ctx, repo)
	require.NoError(t, err)
	assert.True(t, starring)

	require.NoError(t, svc.UnstarRepository(ctx, repo))
	starring, err = svc.IsStarring(ctx, repo)
	require.NoError(t, err)
	assert.False(t, starring)
}

func TestStarServiceOverHTTPUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Requires authentication"}`))
	}))
	defer server.Close()

	client := github.NewClient("", nil, time.Hour, integrations.WithBaseURL(server.URL))

	_, err := client.Stars().IsStarring(context.Background(), github.NewRepositoryID("u", "p"))
	require.ErrorIs(t, err, integrations.ErrUnauthorized)
}
