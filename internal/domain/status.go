package domain

// Status is a commit status state as reported by the hosting platform.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusError   Status = "error"
)

// IsFailed returns true for any reported state that is neither success nor pending.
func (s Status) IsFailed() bool {
	return s != "" && s != StatusSuccess && s != StatusPending
}

// CommitStatus is one status entry for a commit, newest first in API listings.
type CommitStatus struct {
	State     Status `json:"state"`
	Context   string `json:"context"`
	TargetURL string `json:"target_url"`
}

// LatestState returns the state of the newest status, or "" when there are none.
func LatestState(statuses []CommitStatus) Status {
	if len(statuses) == 0 {
		return ""
	}
	return statuses[0].State
}
