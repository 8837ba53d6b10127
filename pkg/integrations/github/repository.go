package github

import (
	"strings"

	starerrors "github.com/matzehuels/starctl/pkg/errors"
)

// RepositoryID names a repository by owner and name.
type RepositoryID struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// NewRepositoryID returns a RepositoryID for owner/name.
func NewRepositoryID(owner, name string) *RepositoryID {
	return &RepositoryID{Owner: owner, Name: name}
}

// ParseRepositoryID parses an "owner/name" reference. Surrounding
// whitespace and a trailing ".git" are ignored; owner and name must both
// be present and pass [ValidateRepoRef].
func ParseRepositoryID(ref string) (*RepositoryID, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(ref), "/")
	if !ok {
		return nil, starerrors.New(starerrors.ErrCodeInvalidRepo, "invalid repository %q: use owner/repo", ref)
	}
	name = strings.TrimSuffix(name, ".git")
	if err := ValidateRepoRef(owner, name); err != nil {
		return nil, starerrors.Wrap(starerrors.ErrCodeInvalidRepo, err, "invalid repository %q", ref)
	}
	return NewRepositoryID(owner, name), nil
}

// GenerateID returns "owner/name".
func (r *RepositoryID) GenerateID() string {
	return r.Owner + "/" + r.Name
}

func (r *RepositoryID) String() string {
	if r == nil {
		return "<nil>"
	}
	return r.GenerateID()
}

// Validate reports an [starerrors.ErrCodeInvalidInput] error when owner or
// name is empty. It does not apply GitHub's naming rules.
func (r *RepositoryID) Validate() error {
	if r.Owner == "" {
		return starerrors.New(starerrors.ErrCodeInvalidInput, "repository owner cannot be empty")
	}
	if r.Name == "" {
		return starerrors.New(starerrors.ErrCodeInvalidInput, "repository name cannot be empty")
	}
	return nil
}
