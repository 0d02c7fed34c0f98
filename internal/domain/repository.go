package domain

import "fmt"

// Repository describes one watched repository.
// Important is a pointer because "unset" and "false" are different when merging.
type Repository struct {
	UserName      string `json:"userName"`
	Repo          string `json:"repo"`
	BaseURL       string `json:"baseUrl,omitempty"`
	Important     *bool  `json:"important,omitempty"`
	DefaultBranch string `json:"defaultBranch,omitempty"`
}

// RepositoryKey identifies the same logical repository across sources.
type RepositoryKey struct {
	UserName string
	Repo     string
	BaseURL  string
}

// Key returns the identity key, with the base URL defaulted.
func (r Repository) Key() RepositoryKey {
	return RepositoryKey{
		UserName: r.UserName,
		Repo:     r.Repo,
		BaseURL:  r.ReposBaseURL(),
	}
}

// ReposBaseURL returns BaseURL or the public default.
func (r Repository) ReposBaseURL() string {
	if r.BaseURL == "" {
		return DefaultReposBaseURL
	}
	return r.BaseURL
}

// IsImportant reports whether the repository is flagged important.
func (r Repository) IsImportant() bool {
	return r.Important != nil && *r.Important
}

// Branch returns the default branch, falling back to master.
func (r Repository) Branch() string {
	if r.DefaultBranch == "" {
		return DefaultBranch
	}
	return r.DefaultBranch
}

// PullsURL returns the pull request listing endpoint of the repository.
func (r Repository) PullsURL() string {
	return fmt.Sprintf("%s/%s/%s/pulls", r.ReposBaseURL(), r.UserName, r.Repo)
}

// FullName returns "owner/repo".
func (r Repository) FullName() string {
	return r.UserName + "/" + r.Repo
}

// Bool returns a pointer to b, for populating optional fields.
func Bool(b bool) *bool {
	return &b
}
