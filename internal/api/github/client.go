package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/CharlesIC/fourth-wall/internal/api"
	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// Client exposes the GitHub REST endpoints the dashboard reads.
// Endpoints that can live on several hosts take the base URL to use.
type Client struct {
	baseURL string
	fetcher api.Fetcher
}

// NewClient creates a GitHub client. baseURL is the API root used for gists.
func NewClient(baseURL string, fetcher api.Fetcher) *Client {
	if baseURL == "" {
		baseURL = domain.PublicAPIBaseURL
	}

	return &Client{
		baseURL: baseURL,
		fetcher: fetcher,
	}
}

func firstPage() url.Values {
	return url.Values{"per_page": {strconv.Itoa(api.DefaultPageSize)}}
}

// GetFileContent reads a repository file through the contents API.
func (c *Client) GetFileContent(ctx context.Context, fileURL string) (*FileContent, error) {
	var content FileContent
	if err := api.FetchJSON(ctx, c.fetcher, fileURL, nil, &content); err != nil {
		return nil, fmt.Errorf("failed to get file content: %w", err)
	}
	return &content, nil
}

// GetGist reads a gist with its files in document order.
func (c *Client) GetGist(ctx context.Context, id string) (*Gist, error) {
	var gist Gist
	if err := api.FetchJSON(ctx, c.fetcher, fmt.Sprintf("%s/gists/%s", c.baseURL, id), nil, &gist); err != nil {
		return nil, fmt.Errorf("failed to get gist %s: %w", id, err)
	}
	return &gist, nil
}

// ListOrgTeams returns the first page of an organization's teams.
func (c *Client) ListOrgTeams(ctx context.Context, baseURL, org string) ([]Team, error) {
	var teams []Team
	if err := api.FetchJSON(ctx, c.fetcher, fmt.Sprintf("%s/orgs/%s/teams", baseURL, org), firstPage(), &teams); err != nil {
		return nil, fmt.Errorf("failed to list teams of %s: %w", org, err)
	}
	return teams, nil
}

// ListTeamRepos returns the first page of a team's repositories.
func (c *Client) ListTeamRepos(ctx context.Context, baseURL string, teamID int64) ([]TeamRepository, error) {
	var repos []TeamRepository
	if err := api.FetchJSON(ctx, c.fetcher, fmt.Sprintf("%s/teams/%d/repos", baseURL, teamID), firstPage(), &repos); err != nil {
		return nil, fmt.Errorf("failed to list repositories of team %d: %w", teamID, err)
	}
	return repos, nil
}

// ListTeamMembers returns a team's members.
func (c *Client) ListTeamMembers(ctx context.Context, baseURL string, teamID int64) ([]domain.User, error) {
	var members []domain.User
	if err := api.FetchJSON(ctx, c.fetcher, fmt.Sprintf("%s/teams/%d/members", baseURL, teamID), nil, &members); err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", teamID, err)
	}
	return members, nil
}

// ListPulls returns the open pull requests of a repository.
func (c *Client) ListPulls(ctx context.Context, repo domain.Repository) ([]Pull, error) {
	var pulls []Pull
	if err := api.FetchJSON(ctx, c.fetcher, repo.PullsURL(), nil, &pulls); err != nil {
		return nil, fmt.Errorf("failed to list pulls of %s: %w", repo.FullName(), err)
	}
	return pulls, nil
}

// ListCommitStatuses returns the statuses of ref, newest first.
func (c *Client) ListCommitStatuses(ctx context.Context, repo domain.Repository, ref string) ([]domain.CommitStatus, error) {
	statusURL := fmt.Sprintf("%s/%s/%s/commits/%s/statuses", repo.ReposBaseURL(), repo.UserName, repo.Repo, url.PathEscape(ref))

	var statuses []domain.CommitStatus
	if err := api.FetchJSON(ctx, c.fetcher, statusURL, nil, &statuses); err != nil {
		return nil, fmt.Errorf("failed to get statuses of %s@%s: %w", repo.FullName(), ref, err)
	}
	return statuses, nil
}

// GetPullInfo returns the detail view of a pull request.
func (c *Client) GetPullInfo(ctx context.Context, pullURL string) (*PullInfo, error) {
	var info PullInfo
	if err := api.FetchJSON(ctx, c.fetcher, pullURL, nil, &info); err != nil {
		return nil, fmt.Errorf("failed to get pull info: %w", err)
	}
	return &info, nil
}

// ListComments returns the issue comments of a pull request.
func (c *Client) ListComments(ctx context.Context, commentsURL string) ([]Comment, error) {
	var comments []Comment
	if err := api.FetchJSON(ctx, c.fetcher, commentsURL, nil, &comments); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ListReviews returns the reviews of a pull request.
func (c *Client) ListReviews(ctx context.Context, pullURL string) ([]Review, error) {
	var reviews []Review
	if err := api.FetchJSON(ctx, c.fetcher, pullURL+"/reviews", nil, &reviews); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// GitHub API response types

// FileContent is a contents API response; Content is base64 encoded.
type FileContent struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GistFile is one file of a gist.
type GistFile struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Type     string `json:"type"`
	Content  string `json:"content"`
}

// Gist keeps its files in the order the API listed them.
type Gist struct {
	ID    string
	Files []GistFile
}

// UnmarshalJSON decodes "files" as an ordered list instead of a map.
func (g *Gist) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string          `json:"id"`
		Files json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.ID = raw.ID
	g.Files = nil
	if len(raw.Files) == 0 || string(raw.Files) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Files))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return fmt.Errorf("gist files: expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("gist files: %w", err)
		}
		name, _ := tok.(string)

		var file GistFile
		if err := dec.Decode(&file); err != nil {
			return fmt.Errorf("gist file %s: %w", name, err)
		}
		if file.Filename == "" {
			file.Filename = name
		}
		g.Files = append(g.Files, file)
	}
	return nil
}

// Team is an organization team.
type Team struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// TeamRepository is a repository as listed for a team.
type TeamRepository struct {
	Name          string      `json:"name"`
	Owner         domain.User `json:"owner"`
	DefaultBranch string      `json:"default_branch"`
}

// Pull is a pull request as listed for a repository.
type Pull struct {
	Number      int          `json:"number"`
	Title       string       `json:"title"`
	HTMLURL     string       `json:"html_url"`
	URL         string       `json:"url"`
	CommentsURL string       `json:"comments_url"`
	User        *domain.User `json:"user"`
	Assignee    *domain.User `json:"assignee"`
	CreatedAt   *time.Time   `json:"created_at"`
	Head        struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// PullInfo is the detail view of a pull request; Mergeable is nil while GitHub computes it.
type PullInfo struct {
	Mergeable *bool `json:"mergeable"`
}

// Comment is an issue comment.
type Comment struct {
	ID int64 `json:"id"`
}

// Review is a pull request review.
type Review struct {
	State string `json:"state"`
}
