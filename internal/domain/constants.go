package domain

// Host constants
const (
	// PublicAPIHost is the hostname of the public GitHub API.
	PublicAPIHost = "api.github.com"
	// PublicAPIBaseURL is the API root of the public GitHub host.
	PublicAPIBaseURL = "https://api.github.com"
	// DefaultReposBaseURL is the base URL used for repositories that don't declare one.
	DefaultReposBaseURL = PublicAPIBaseURL + "/repos"
	// DefaultBranch is assumed when a repository doesn't report its default branch.
	DefaultBranch = "master"
)
