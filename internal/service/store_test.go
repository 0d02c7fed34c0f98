package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CharlesIC/fourth-wall/internal/domain"
)

func TestStore_SetReposReportsChangedFields(t *testing.T) {
	// Arrange
	store := NewStore()
	repos := []domain.Repository{{UserName: "o", Repo: "r"}}
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	// Act
	first := store.SetRepos(repos, "c1", at)
	second := store.SetRepos(repos, "c2", at.Add(time.Minute))

	// Assert
	assert.Equal(t, []Field{FieldRepos}, first.Fields)
	assert.Empty(t, second.Fields)
	snap := store.Snapshot()
	assert.Equal(t, repos, snap.Repos)
	assert.Equal(t, "c2", snap.Cycle)
	assert.Equal(t, at.Add(time.Minute), snap.RepoListAt)
}

func TestStore_SnapshotIsIsolatedFromCallerSlices(t *testing.T) {
	store := NewStore()
	repos := []domain.Repository{{UserName: "o", Repo: "r"}}
	store.SetRepos(repos, "c", time.Now())

	repos[0].Repo = "changed"

	assert.Equal(t, "r", store.Snapshot().Repos[0].Repo)
}

func TestStore_PreviousSnapshotUnaffectedByUpdate(t *testing.T) {
	store := NewStore()
	store.SetItems([]domain.ListItem{domain.PullItem(domain.PullRequest{Title: "a"})}, "c1", time.Now())
	before := store.Snapshot()

	store.SetItems(nil, "c2", time.Now())

	require.Len(t, before.Items, 1)
	assert.Equal(t, "a", before.Items[0].Pull.Title)
	assert.Empty(t, store.Snapshot().Items)
}

func TestStore_SubscribeReceivesChanges(t *testing.T) {
	// Arrange
	store := NewStore()
	ch, cancel := store.Subscribe(4)
	defer cancel()

	// Act
	store.SetStylesheet("body{}")
	store.SetStylesheet("body{}")
	store.SetItems([]domain.ListItem{domain.MasterItem(domain.MasterStatus{Repo: "r", Failed: true})}, "c", time.Now())

	// Assert
	change := <-ch
	assert.True(t, change.Has(FieldStylesheet))
	assert.Equal(t, "body{}", change.Snapshot.Stylesheet)
	change = <-ch
	assert.Equal(t, []Field{FieldItems}, change.Fields)
	assert.Len(t, ch, 0)
}

func TestStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	store := NewStore()
	ch, cancel := store.Subscribe(1)
	defer cancel()

	store.SetStylesheet("a")
	store.SetStylesheet("b")
	store.SetStylesheet("c")

	assert.Equal(t, "a", (<-ch).Snapshot.Stylesheet)
	assert.Equal(t, "c", store.Snapshot().Stylesheet)
}

func TestStore_CancelClosesChannel(t *testing.T) {
	store := NewStore()
	ch, cancel := store.Subscribe(1)

	cancel()
	cancel()
	store.SetStylesheet("x")

	_, open := <-ch
	assert.False(t, open)
}
