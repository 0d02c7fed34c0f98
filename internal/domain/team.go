package domain

// Team identifies an organization team whose repositories are watched.
type Team struct {
	Org      string
	Team     string
	Hostname string
	BaseURL  string
}

// BaseURLForHost maps a hostname to its API root.
// The public host maps to the public API; anything else is treated as GitHub Enterprise.
func BaseURLForHost(hostname string) string {
	if hostname == PublicAPIHost {
		return PublicAPIBaseURL
	}
	return "https://" + hostname + "/api/v3"
}

// ReposBaseURL is the repository base URL assigned to repositories found through this team.
func (t Team) ReposBaseURL() string {
	return t.BaseURL + "/repos"
}

// String returns "org/team@hostname".
func (t Team) String() string {
	return t.Org + "/" + t.Team + "@" + t.Hostname
}
