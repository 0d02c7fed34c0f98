package service

import (
	"context"
	"sync"

	"github.com/CharlesIC/fourth-wall/internal/api/github"
	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// stubSource is a test double for repos.Source.
type stubSource struct {
	name  string
	repos []domain.Repository
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context) ([]domain.Repository, error) {
	return s.repos, s.err
}

// mockStatusClient is a test double for StatusClient.
type mockStatusClient struct {
	listPullsFunc          func(ctx context.Context, repo domain.Repository) ([]github.Pull, error)
	listCommitStatusesFunc func(ctx context.Context, repo domain.Repository, ref string) ([]domain.CommitStatus, error)
	getPullInfoFunc        func(ctx context.Context, pullURL string) (*github.PullInfo, error)
	listCommentsFunc       func(ctx context.Context, commentsURL string) ([]github.Comment, error)
	listReviewsFunc        func(ctx context.Context, pullURL string) ([]github.Review, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockStatusClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockStatusClient) ListPulls(ctx context.Context, repo domain.Repository) ([]github.Pull, error) {
	m.record("pulls " + repo.FullName())
	if m.listPullsFunc != nil {
		return m.listPullsFunc(ctx, repo)
	}
	return nil, nil
}

func (m *mockStatusClient) ListCommitStatuses(ctx context.Context, repo domain.Repository, ref string) ([]domain.CommitStatus, error) {
	m.record("statuses " + repo.FullName() + "@" + ref)
	if m.listCommitStatusesFunc != nil {
		return m.listCommitStatusesFunc(ctx, repo, ref)
	}
	return nil, nil
}

func (m *mockStatusClient) GetPullInfo(ctx context.Context, pullURL string) (*github.PullInfo, error) {
	m.record("info " + pullURL)
	if m.getPullInfoFunc != nil {
		return m.getPullInfoFunc(ctx, pullURL)
	}
	return &github.PullInfo{}, nil
}

func (m *mockStatusClient) ListComments(ctx context.Context, commentsURL string) ([]github.Comment, error) {
	m.record("comments " + commentsURL)
	if m.listCommentsFunc != nil {
		return m.listCommentsFunc(ctx, commentsURL)
	}
	return nil, nil
}

func (m *mockStatusClient) ListReviews(ctx context.Context, pullURL string) ([]github.Review, error) {
	m.record("reviews " + pullURL)
	if m.listReviewsFunc != nil {
		return m.listReviewsFunc(ctx, pullURL)
	}
	return nil, nil
}

func (m *mockStatusClient) called(call string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == call {
			return true
		}
	}
	return false
}
