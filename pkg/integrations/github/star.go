package github

import (
	"context"
	"errors"

	starerrors "github.com/matzehuels/starctl/pkg/errors"
	"github.com/matzehuels/starctl/pkg/integrations"
)

// Path segments of the starring resource.
const (
	segmentUser    = "/user"
	segmentStarred = "/starred"
)

// Requester is the HTTP collaborator a [StarService] issues requests
// through. It owns transport, authentication, and status classification;
// a Get for a resource that does not exist must fail with an error
// matching [integrations.ErrNotFound].
//
//go:generate mockgen -source=star.go -destination=mocks/mock_requester.go -package=mocks
type Requester interface {
	Put(ctx context.Context, path string) error
	Delete(ctx context.Context, path string) error
	Get(ctx context.Context, req *integrations.Request) (*integrations.Response, error)
}

// StarService stars, unstars, and checks repositories for the
// authenticated user. It keeps no state besides its Requester and is safe
// for concurrent use when the Requester is.
type StarService struct {
	client Requester
}

// NewStarService creates a StarService issuing requests through client.
func NewStarService(client Requester) *StarService {
	return &StarService{client: client}
}

// StarRepository stars repo (PUT /user/starred/{owner}/{repo}).
func (s *StarService) StarRepository(ctx context.Context, repo *RepositoryID) error {
	path, err := StarredPath(repo)
	if err != nil {
		return err
	}
	return s.client.Put(ctx, path)
}

// UnstarRepository unstars repo (DELETE /user/starred/{owner}/{repo}).
func (s *StarService) UnstarRepository(ctx context.Context, repo *RepositoryID) error {
	path, err := StarredPath(repo)
	if err != nil {
		return err
	}
	return s.client.Delete(ctx, path)
}

// IsStarring reports whether the authenticated user has starred repo
// (GET /user/starred/{owner}/{repo}). A not-found outcome means "no";
// any other failure is returned as is.
func (s *StarService) IsStarring(ctx context.Context, repo *RepositoryID) (bool, error) {
	path, err := StarredPath(repo)
	if err != nil {
		return false, err
	}
	if _, err := s.client.Get(ctx, &integrations.Request{Path: path}); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// StarredPath returns /user/starred/{owner}/{name} for repo. Owner and
// name are used verbatim. A nil or incomplete repo is an
// [starerrors.ErrCodeInvalidInput] error.
func StarredPath(repo *RepositoryID) (string, error) {
	if repo == nil {
		return "", starerrors.New(starerrors.ErrCodeInvalidInput, "repository cannot be nil")
	}
	if err := repo.Validate(); err != nil {
		return "", err
	}
	return segmentUser + segmentStarred + "/" + repo.GenerateID(), nil
}
