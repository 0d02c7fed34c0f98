package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTeamSpec is returned when a team specifier isn't exactly "org/team".
var ErrInvalidTeamSpec = errors.New("team name must contain a slash {org}/{team}")

// TeamNotFoundError is returned when a team slug is missing from the first page of org teams.
type TeamNotFoundError struct {
	Org  string
	Team string
}

func (e *TeamNotFoundError) Error() string {
	return fmt.Sprintf("couldn't map team '%s' in org '%s' to an ID", e.Team, e.Org)
}
