package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// WipHandling selects how work-in-progress pulls are demoted.
type WipHandling string

const (
	// WipSmall shows WIP pulls in a reduced style.
	WipSmall WipHandling = "small"
	// WipHide removes WIP pulls from view.
	WipHide WipHandling = "hide"
)

// Query parameter names.
const (
	ParamToken        = "token"
	ParamTeam         = "team"
	ParamGist         = "gist"
	ParamFile         = "file"
	ParamFilterRepo   = "filterrepo"
	ParamFilterUsers  = "filterusers"
	ParamRecent       = "recent"
	ParamWipHandling  = "wiphandling"
	ParamInterval     = "interval"
	ParamRepoInterval = "repointerval"
)

// Defaults for options not present in the query.
const (
	DefaultStatusInterval = 60 * time.Second
	DefaultRepoInterval   = 15 * time.Minute
)

// DefaultWipMarkers are the title fragments that mark a pull as work in progress.
var DefaultWipMarkers = []string{"WIP", "DO NOT MERGE", "REVIEW ONLY"}

// Options is the configuration derived from the dashboard query string.
type Options struct {
	FilterUsers      bool
	SortByMostRecent bool
	WipHandling      WipHandling
	WipMarkers       []string
	FilterRepos      []string
	FileURL          string
	GistID           string
	Teams            []domain.Team
	StatusInterval   time.Duration
	RepoInterval     time.Duration
}

// NewOptions derives Options from q. Malformed team entries are reported in the
// returned error while every valid entry is still kept.
func NewOptions(q *Query) (Options, error) {
	teams, err := q.Teams()

	opts := Options{
		FilterUsers:      q.CheckOptionEnabled(ParamFilterUsers, true),
		SortByMostRecent: q.CheckOptionEnabled(ParamRecent, true),
		WipHandling:      q.wipHandling(),
		WipMarkers:       append([]string(nil), DefaultWipMarkers...),
		FilterRepos:      q.filterRepos(),
		Teams:            teams,
		StatusInterval:   q.interval(ParamInterval, time.Second, DefaultStatusInterval),
		RepoInterval:     q.interval(ParamRepoInterval, time.Minute, DefaultRepoInterval),
	}
	opts.FileURL, _ = q.Get(ParamFile)
	opts.GistID, _ = q.Get(ParamGist)

	return opts, err
}

// HasTeams reports whether any team source is configured.
func (o Options) HasTeams() bool {
	return len(o.Teams) > 0
}

// CheckOptionEnabled returns true only for the literal "true", false for any other
// non-empty value, and def when the option is absent or empty.
func (q *Query) CheckOptionEnabled(name string, def bool) bool {
	value, ok := q.Get(name)
	if !ok || value == "" {
		return def
	}
	return value == "true"
}

func (q *Query) filterRepos() []string {
	value, _ := q.Params().Get(ParamFilterRepo)
	return value.Strings()
}

func (q *Query) wipHandling() WipHandling {
	value, _ := q.Get(ParamWipHandling)
	if WipHandling(value) == WipHide {
		return WipHide
	}
	return WipSmall
}

func (q *Query) interval(name string, unit, def time.Duration) time.Duration {
	value, ok := q.Get(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * unit
}

// Teams extracts team specifiers from "team" and "{prefix}_team" keys.
// Entries that aren't exactly "org/team" are skipped and reported in the error.
func (q *Query) Teams() ([]domain.Team, error) {
	params := q.Params()

	var teams []domain.Team
	var errs []error
	for _, key := range params.Keys() {
		hostname, ok := teamHostname(key)
		if !ok {
			continue
		}
		value, _ := params.Get(key)
		for _, spec := range value.Strings() {
			parts := strings.Split(spec, "/")
			if len(parts) != 2 {
				errs = append(errs, fmt.Errorf("%s=%q: %w", key, spec, domain.ErrInvalidTeamSpec))
				continue
			}
			teams = append(teams, domain.Team{
				Org:      parts[0],
				Team:     parts[1],
				Hostname: hostname,
				BaseURL:  domain.BaseURLForHost(hostname),
			})
		}
	}

	return teams, errors.Join(errs...)
}

// teamHostname matches "team" and "{prefix}_team", returning the hostname the key refers to.
func teamHostname(key string) (string, bool) {
	if key == ParamTeam {
		return domain.PublicAPIHost, true
	}
	prefix, ok := strings.CutSuffix(key, "_"+ParamTeam)
	if !ok {
		return "", false
	}
	if prefix == "" {
		return domain.PublicAPIHost, true
	}
	return prefix, true
}

// Token returns the auth token for hostname: "{hostname}_token", falling back to
// "token" for the public host only.
func (q *Query) Token(hostname string) string {
	if token, ok := q.Get(hostname + "_" + ParamToken); ok {
		return token
	}
	if hostname == domain.PublicAPIHost {
		token, _ := q.Get(ParamToken)
		return token
	}
	return ""
}

// TokenForURL returns the token for the hostname of rawURL.
func (q *Query) TokenForURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return q.Token(u.Hostname())
}
