package pulls

import (
	"fmt"

	"github.com/CharlesIC/fourth-wall/internal/config"
	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// Age thresholds.
const (
	agingAfter = 2 * 3600
	oldAfter   = 6 * 3600
)

// Review states counted in summaries.
const (
	ReviewApproved         = "APPROVED"
	ReviewChangesRequested = "CHANGES_REQUESTED"
)

// AgeClass buckets a pull's age in seconds.
func AgeClass(seconds int64) string {
	switch {
	case seconds > oldAfter:
		return "age-old"
	case seconds > agingAfter:
		return "age-aging"
	default:
		return "age-fresh"
	}
}

// FormatElapsed renders seconds as "{d}d HHh MMm", omitting days when zero.
func FormatElapsed(seconds int64) string {
	days := seconds / 86400
	hours := (seconds - days*86400) / 3600
	minutes := (seconds - days*86400 - hours*3600) / 60

	dayPart := ""
	if days > 0 {
		dayPart = fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%s %02dh %02dm", dayPart, hours, minutes)
}

// Summarize counts approvals and change requests in reviewStates. Comments is the sum
// of issue comments and reviews.
func Summarize(issueComments int, reviewStates []string) domain.ReviewSummary {
	summary := domain.ReviewSummary{Comments: issueComments + len(reviewStates)}
	for _, state := range reviewStates {
		switch state {
		case ReviewApproved:
			summary.Approvals++
		case ReviewChangesRequested:
			summary.ChangesRequested++
		}
	}
	return summary
}

// Classes returns the presentation classes for a pull under p.
func (p Policy) Classes(pull *domain.PullRequest) []string {
	var classes []string
	if pull.ElapsedTime != nil {
		classes = append(classes, AgeClass(*pull.ElapsedTime))
	}
	if !p.IsUserImportant(pull.Author()) {
		classes = append(classes, "unimportant-user")
	}
	if !pull.RepoImportant {
		classes = append(classes, "unimportant-repo")
	}
	if p.WipHandling == config.WipSmall && p.IsWip(pull.Title) {
		classes = append(classes, "wip")
	}
	if pull.Assignee != nil {
		classes = append(classes, "under-review")
	}
	return classes
}

// StatusLine describes mergeability or the head commit state, in that order.
func StatusLine(pull *domain.PullRequest) (class, text string) {
	switch {
	case pull.Mergeable != nil && !*pull.Mergeable:
		return "not-mergeable", "No auto merge"
	case pull.Status != "":
		return string(pull.Status), "Status: " + string(pull.Status)
	default:
		return "", "No status"
	}
}
