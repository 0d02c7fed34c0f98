package domain

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepository_Defaults(t *testing.T) {
	r := Repository{UserName: "alphagov", Repo: "whitehall"}

	assert.Equal(t, "https://api.github.com/repos/alphagov/whitehall/pulls", r.PullsURL())
	assert.Equal(t, "master", r.Branch())
	assert.False(t, r.IsImportant())
	assert.Equal(t, "alphagov/whitehall", r.FullName())
}

func TestRepository_Explicit(t *testing.T) {
	r := Repository{UserName: "o", Repo: "r", BaseURL: "https://ghe/api/v3/repos", DefaultBranch: "main", Important: Bool(true)}

	assert.Equal(t, "https://ghe/api/v3/repos/o/r/pulls", r.PullsURL())
	assert.Equal(t, "main", r.Branch())
	assert.True(t, r.IsImportant())
}

func TestRepository_KeyDefaultsBaseURL(t *testing.T) {
	implicit := Repository{UserName: "o", Repo: "r"}
	explicit := Repository{UserName: "o", Repo: "r", BaseURL: DefaultReposBaseURL}
	other := Repository{UserName: "o", Repo: "r", BaseURL: "https://ghe/api/v3/repos"}

	assert.Equal(t, implicit.Key(), explicit.Key())
	assert.NotEqual(t, implicit.Key(), other.Key())
}

func TestTeam(t *testing.T) {
	assert.Equal(t, "https://api.github.com", BaseURLForHost("api.github.com"))
	assert.Equal(t, "https://ghe.example/api/v3", BaseURLForHost("ghe.example"))

	team := Team{Org: "o", Team: "t", Hostname: "ghe.example", BaseURL: BaseURLForHost("ghe.example")}
	assert.Equal(t, "https://ghe.example/api/v3/repos", team.ReposBaseURL())
	assert.Equal(t, "o/t@ghe.example", team.String())
}

func TestTeamNotFoundError(t *testing.T) {
	var err error = &TeamNotFoundError{Org: "o", Team: "t"}

	var target *TeamNotFoundError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "couldn't map team 't' in org 'o' to an ID", err.Error())
}

func TestImportantUsers_AppendOnlyAndDeduplicated(t *testing.T) {
	// Arrange
	u := NewImportantUsers("alice", "")

	// Act
	u.Add("bob", "alice")
	list := u.List()
	list[0] = "mallory"

	// Assert
	assert.Equal(t, []string{"alice", "bob"}, u.List())
	assert.Equal(t, 2, u.Len())
	assert.True(t, u.Contains("bob"))
	assert.False(t, u.Contains("mallory"))
}

func TestImportantUsers_ConcurrentAdd(t *testing.T) {
	u := NewImportantUsers()

	var wg sync.WaitGroup
	for _, login := range []string{"a", "b", "c", "a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.Add(login)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, u.Len())
}

func TestStatus(t *testing.T) {
	assert.False(t, Status("").IsFailed())
	assert.False(t, StatusPending.IsFailed())
	assert.False(t, StatusSuccess.IsFailed())
	assert.True(t, StatusFailure.IsFailed())
	assert.True(t, StatusError.IsFailed())

	assert.Equal(t, Status(""), LatestState(nil))
	assert.Equal(t, StatusError, LatestState([]CommitStatus{{State: StatusError}, {State: StatusSuccess}}))
}

func TestListItem(t *testing.T) {
	elapsed := int64(5)
	pull := PullItem(PullRequest{ElapsedTime: &elapsed})
	master := MasterItem(MasterStatus{Repo: "r"})

	got, ok := pull.ElapsedTime()
	assert.True(t, ok)
	assert.Equal(t, int64(5), got)
	assert.False(t, pull.IsMaster())

	_, ok = master.ElapsedTime()
	assert.False(t, ok)
	assert.True(t, master.IsMaster())

	_, ok = PullItem(PullRequest{}).ElapsedTime()
	assert.False(t, ok)
}

func TestElapsedSince(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(90), ElapsedSince(now.Add(-90*time.Second-500*time.Millisecond), now))
	assert.Equal(t, int64(0), ElapsedSince(now.Add(time.Minute), now))
}

func TestPullRequest_Author(t *testing.T) {
	assert.Equal(t, "", (&PullRequest{}).Author())
	assert.Equal(t, "bob", (&PullRequest{User: &User{Login: "bob"}}).Author())
}
