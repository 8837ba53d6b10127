package github

import "time"

// User represents a GitHub user.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email"`
}

// Repo represents a GitHub repository as listed by the starring API.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	Language    string `json:"language"`
	HTMLURL     string `json:"html_url"`
	Stars       int    `json:"stargazers_count"`
	Archived    bool   `json:"archived"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// RepositoryID returns the owner/name identifier of r.
func (r Repo) RepositoryID() *RepositoryID {
	return NewRepositoryID(r.Owner.Login, r.Name)
}

// StarredRepo is a starred repository together with the time it was
// starred.
type StarredRepo struct {
	StarredAt time.Time `json:"starred_at"`
	Repo      Repo      `json:"repo"`
}

// OAuthConfig holds OAuth configuration.
type OAuthConfig struct {
	ClientID string
	// Scopes requested during authorization. Defaults to [DefaultScopes].
	Scopes string
	// BaseURL is the GitHub web root serving the OAuth endpoints.
	// Defaults to https://github.com.
	BaseURL string
}

// OAuthToken represents an OAuth access token response.
type OAuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}
