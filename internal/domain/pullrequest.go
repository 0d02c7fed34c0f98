package domain

import "time"

// User is a platform account as embedded in pull request payloads.
type User struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// ReviewSummary aggregates review activity on a pull request.
type ReviewSummary struct {
	Approvals        int `json:"approvals"`
	ChangesRequested int `json:"changesRequested"`
	Comments         int `json:"comments"`
}

// PullRequest is an open pull request with the data the dashboard needs.
type PullRequest struct {
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	HTMLURL     string    `json:"htmlUrl"`
	URL         string    `json:"url"`
	CommentsURL string    `json:"commentsUrl"`
	HeadSHA     string    `json:"headSha"`
	Repo        string    `json:"repo"`
	User        *User     `json:"user,omitempty"`
	Assignee    *User     `json:"assignee,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// ElapsedTime is seconds since creation; nil when the creation date is unknown.
	ElapsedTime *int64 `json:"elapsedTime,omitempty"`

	Status        Status        `json:"status,omitempty"`
	Mergeable     *bool         `json:"mergeable,omitempty"`
	Reviews       ReviewSummary `json:"reviews"`
	RepoImportant bool          `json:"repoImportant"`
}

// Author returns the author login, or "" when the payload had no user.
func (p *PullRequest) Author() string {
	if p.User == nil {
		return ""
	}
	return p.User.Login
}

// MasterStatus is the build status of a repository's default branch.
type MasterStatus struct {
	Repo      string `json:"repo"`
	UserName  string `json:"userName"`
	Branch    string `json:"branch"`
	State     Status `json:"state,omitempty"`
	TargetURL string `json:"targetUrl,omitempty"`
	Failed    bool   `json:"failed"`
}

// ItemKind tags the variant held by a ListItem.
type ItemKind string

const (
	ItemMaster ItemKind = "master"
	ItemPull   ItemKind = "pull"
)

// ListItem is one entry of the displayed list: either a failing default branch or a pull request.
// Exactly one of Master and Pull is set, matching Kind.
type ListItem struct {
	Kind   ItemKind      `json:"kind"`
	Master *MasterStatus `json:"master,omitempty"`
	Pull   *PullRequest  `json:"pull,omitempty"`
}

// MasterItem wraps a master status.
func MasterItem(m MasterStatus) ListItem {
	return ListItem{Kind: ItemMaster, Master: &m}
}

// PullItem wraps a pull request.
func PullItem(p PullRequest) ListItem {
	return ListItem{Kind: ItemPull, Pull: &p}
}

// IsMaster reports whether the item is a master status entry.
func (i ListItem) IsMaster() bool {
	return i.Kind == ItemMaster
}

// ElapsedTime returns the item's age in seconds, if known.
func (i ListItem) ElapsedTime() (int64, bool) {
	if i.Kind != ItemPull || i.Pull == nil || i.Pull.ElapsedTime == nil {
		return 0, false
	}
	return *i.Pull.ElapsedTime, true
}

// ElapsedSince returns whole seconds between created and now, clamped at zero.
func ElapsedSince(created, now time.Time) int64 {
	secs := int64(now.Sub(created) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
