package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// mockFetcher is a test double for api.Fetcher.
// Follows FIRST principles - tests are Fast and Independent.
type mockFetcher struct {
	fetchFunc func(ctx context.Context, rawURL string, params url.Values) ([]byte, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	return m.fetchFunc(ctx, rawURL, params)
}

// respondAt returns a fetcher serving body for wantURL and failing the test otherwise.
func respondAt(t *testing.T, wantURL, body string) *mockFetcher {
	return &mockFetcher{fetchFunc: func(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
		assert.Equal(t, wantURL, rawURL)
		return []byte(body), nil
	}}
}

// TestListOrgTeams tests retrieving the first page of org teams.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestListOrgTeams(t *testing.T) {
	// Arrange
	var gotParams url.Values
	fetcher := &mockFetcher{fetchFunc: func(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
		assert.Equal(t, "https://github.gds/api/v3/orgs/myorg/teams", rawURL)
		gotParams = params
		return []byte(`[{"id": 7, "slug": "myteam", "name": "My Team"}]`), nil
	}}
	client := NewClient("", fetcher)

	// Act
	teams, err := client.ListOrgTeams(context.Background(), "https://github.gds/api/v3", "myorg")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "100", gotParams.Get("per_page"))
	require.Len(t, teams, 1)
	assert.Equal(t, int64(7), teams[0].ID)
	assert.Equal(t, "myteam", teams[0].Slug)
}

// TestListTeamRepos tests mapping of team repositories.
func TestListTeamRepos(t *testing.T) {
	// Arrange
	client := NewClient("", respondAt(t, "https://api.github.com/teams/7/repos",
		`[{"name": "app", "owner": {"login": "org"}, "default_branch": "main"}]`))

	// Act
	repos, err := client.ListTeamRepos(context.Background(), "https://api.github.com", 7)

	// Assert
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "app", repos[0].Name)
	assert.Equal(t, "org", repos[0].Owner.Login)
	assert.Equal(t, "main", repos[0].DefaultBranch)
}

// TestListTeamMembers tests member listing.
func TestListTeamMembers(t *testing.T) {
	client := NewClient("", respondAt(t, "https://api.github.com/teams/7/members",
		`[{"login": "alice"}, {"login": "bob"}]`))

	members, err := client.ListTeamMembers(context.Background(), "https://api.github.com", 7)

	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "bob", members[1].Login)
}

// TestGetGist_KeepsFileOrder tests that gist files keep their document order.
func TestGetGist_KeepsFileOrder(t *testing.T) {
	// Arrange
	body := `{"id": "abc", "files": {
		"z.json": {"filename": "z.json", "language": "JSON", "content": "[]"},
		"a.css": {"filename": "a.css", "language": "CSS", "type": "text/css", "content": "body{}"},
		"users.json": {"language": "JSON", "content": "[\"alice\"]"}
	}}`
	client := NewClient("https://api.example.com", respondAt(t, "https://api.example.com/gists/abc", body))

	// Act
	gist, err := client.GetGist(context.Background(), "abc")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "abc", gist.ID)
	require.Len(t, gist.Files, 3)
	assert.Equal(t, "z.json", gist.Files[0].Filename)
	assert.Equal(t, "a.css", gist.Files[1].Filename)
	assert.Equal(t, "users.json", gist.Files[2].Filename)
}

func TestGist_UnmarshalNoFiles(t *testing.T) {
	var gist Gist

	err := json.Unmarshal([]byte(`{"id": "x"}`), &gist)

	require.NoError(t, err)
	assert.Empty(t, gist.Files)
}

// TestListPulls tests the pulls URL and payload mapping.
func TestListPulls(t *testing.T) {
	// Arrange
	body := `[{"number": 12, "title": "Add thing", "html_url": "h", "url": "https://api.base.url/repos/foo/bar/pulls/12",
		"comments_url": "c", "user": {"login": "alice", "avatar_url": "a"}, "assignee": null,
		"created_at": "2013-09-02T10:00:00+01:00", "head": {"sha": "abc"}}]`
	client := NewClient("", respondAt(t, "https://api.base.url/repos/foo/bar/pulls", body))
	repo := domain.Repository{UserName: "foo", Repo: "bar", BaseURL: "https://api.base.url/repos"}

	// Act
	pulls, err := client.ListPulls(context.Background(), repo)

	// Assert
	require.NoError(t, err)
	require.Len(t, pulls, 1)
	assert.Equal(t, 12, pulls[0].Number)
	assert.Equal(t, "alice", pulls[0].User.Login)
	assert.Nil(t, pulls[0].Assignee)
	assert.Equal(t, "abc", pulls[0].Head.SHA)
	require.NotNil(t, pulls[0].CreatedAt)
}

// TestListCommitStatuses tests the statuses URL for the default repos host.
func TestListCommitStatuses(t *testing.T) {
	client := NewClient("", respondAt(t, "https://api.github.com/repos/foo/bar/commits/main/statuses",
		`[{"state": "failure"}, {"state": "success"}]`))

	statuses, err := client.ListCommitStatuses(context.Background(), domain.Repository{UserName: "foo", Repo: "bar"}, "main")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailure, domain.LatestState(statuses))
}

// TestListReviews tests the reviews URL.
func TestListReviews(t *testing.T) {
	client := NewClient("", respondAt(t, "https://x/pulls/1/reviews", `[{"state": "APPROVED"}]`))

	reviews, err := client.ListReviews(context.Background(), "https://x/pulls/1")

	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "APPROVED", reviews[0].State)
}

// TestGetPullInfo_UnknownMergeable tests that a null mergeable stays unknown.
func TestGetPullInfo_UnknownMergeable(t *testing.T) {
	client := NewClient("", respondAt(t, "https://x/pulls/1", `{"mergeable": null}`))

	info, err := client.GetPullInfo(context.Background(), "https://x/pulls/1")

	require.NoError(t, err)
	assert.Nil(t, info.Mergeable)
}

// TestGetFileContent_Error tests error wrapping.
func TestGetFileContent_Error(t *testing.T) {
	boom := errors.New("boom")
	client := NewClient("", &mockFetcher{fetchFunc: func(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
		return nil, boom
	}})

	_, err := client.GetFileContent(context.Background(), "https://x/contents/repos.json")

	assert.ErrorIs(t, err, boom)
}
