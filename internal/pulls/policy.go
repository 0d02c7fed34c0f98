package pulls

import (
	"strings"

	"github.com/CharlesIC/fourth-wall/internal/config"
	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// Policy decides which pulls matter and how work in progress is treated.
type Policy struct {
	FilterUsers bool
	WipHandling config.WipHandling
	WipMarkers  []string
	Users       *domain.ImportantUsers
}

// NewPolicy builds a policy from options and the session's important users.
func NewPolicy(opts config.Options, users *domain.ImportantUsers) Policy {
	return Policy{
		FilterUsers: opts.FilterUsers,
		WipHandling: opts.WipHandling,
		WipMarkers:  opts.WipMarkers,
		Users:       users,
	}
}

// IsUserImportant is true when user filtering is off, when no important users are
// known, or when login is one of them.
func (p Policy) IsUserImportant(login string) bool {
	return !p.FilterUsers || p.Users == nil || p.Users.Len() == 0 || p.Users.Contains(login)
}

// IsImportant reports whether a pull is shown: its repository is important or its
// author is.
func (p Policy) IsImportant(pull *domain.PullRequest, repoImportant bool) bool {
	return repoImportant || p.IsUserImportant(pull.Author())
}

// IsWip reports whether title contains any WIP marker, ignoring case.
func (p Policy) IsWip(title string) bool {
	upper := strings.ToUpper(title)
	for _, marker := range p.WipMarkers {
		if strings.Contains(upper, strings.ToUpper(marker)) {
			return true
		}
	}
	return false
}

// IsHidden reports whether a pull is removed from view because it's WIP and WIP
// pulls are hidden.
func (p Policy) IsHidden(pull *domain.PullRequest) bool {
	return p.WipHandling == config.WipHide && p.IsWip(pull.Title)
}
