package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/CharlesIC/fourth-wall/internal/api/github"
	"github.com/CharlesIC/fourth-wall/internal/domain"
	"github.com/CharlesIC/fourth-wall/internal/metrics"
	"github.com/CharlesIC/fourth-wall/internal/pulls"
	"github.com/CharlesIC/fourth-wall/internal/repos"
)

// StatusClient is the subset of the GitHub client used to refresh repository status.
type StatusClient interface {
	ListPulls(ctx context.Context, repo domain.Repository) ([]github.Pull, error)
	ListCommitStatuses(ctx context.Context, repo domain.Repository, ref string) ([]domain.CommitStatus, error)
	GetPullInfo(ctx context.Context, pullURL string) (*github.PullInfo, error)
	ListComments(ctx context.Context, commentsURL string) ([]github.Comment, error)
	ListReviews(ctx context.Context, pullURL string) ([]github.Review, error)
}

// repoStatus is the last successfully fetched state of one repository.
type repoStatus struct {
	master domain.MasterStatus
	pulls  []domain.PullRequest
}

// Aggregator runs aggregation cycles and publishes their results to a Store.
type Aggregator struct {
	session *Session
	sources []repos.Source
	client  StatusClient
	store   *Store
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	statuses map[domain.RepositoryKey]repoStatus
}

// NewAggregator creates an aggregator over the given sources.
func NewAggregator(session *Session, sources []repos.Source, client StatusClient, store *Store, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		session:  session,
		sources:  sources,
		client:   client,
		store:    store,
		logger:   logger.Named("aggregator"),
		now:      time.Now,
		statuses: make(map[domain.RepositoryKey]repoStatus),
	}
}

// RefreshRepos fetches every source, merges the results and publishes the merged set.
// When any source fails the cycle is aborted and the previous set stays in place.
func (a *Aggregator) RefreshRepos(ctx context.Context) error {
	cycle := uuid.NewString()
	log := a.logger.With(zap.String("cycle", cycle), zap.String("kind", metrics.KindRepos))
	start := time.Now()
	defer func() {
		metrics.CycleDuration.WithLabelValues(metrics.KindRepos).Observe(time.Since(start).Seconds())
	}()

	merged, err := repos.FetchFromEverywhere(ctx, a.sources, a.session.Options.FilterRepos)
	if err != nil {
		metrics.CyclesTotal.WithLabelValues(metrics.KindRepos, metrics.ResultFailed).Inc()
		log.Error("repository refresh aborted", zap.Error(err))
		return fmt.Errorf("refresh repositories: %w", err)
	}

	a.pruneStatuses(merged)
	change := a.store.SetRepos(merged, cycle, a.now())

	metrics.CyclesTotal.WithLabelValues(metrics.KindRepos, metrics.ResultOK).Inc()
	metrics.Repositories.Set(float64(len(merged)))
	metrics.ImportantUsers.Set(float64(a.session.Users.Len()))
	log.Info("repositories refreshed",
		zap.Int("repositories", len(merged)),
		zap.Int("importantUsers", a.session.Users.Len()),
		zap.Bool("changed", change.Has(FieldRepos)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// RefreshStatus fetches pulls and default branch status of every repository in the
// current set and publishes the ordered list. A repository that fails keeps the data
// of its last successful fetch.
func (a *Aggregator) RefreshStatus(ctx context.Context) error {
	cycle := uuid.NewString()
	log := a.logger.With(zap.String("cycle", cycle), zap.String("kind", metrics.KindStatus))
	start := time.Now()
	defer func() {
		metrics.CycleDuration.WithLabelValues(metrics.KindStatus).Observe(time.Since(start).Seconds())
	}()

	repoSet := a.store.Snapshot().Repos
	fetched := make([]*repoStatus, len(repoSet))
	var failed atomic.Int32

	var g errgroup.Group
	for i, repo := range repoSet {
		g.Go(func() error {
			status, err := a.fetchRepoStatus(ctx, repo)
			if err != nil {
				failed.Add(1)
				log.Warn("keeping previous status", zap.String("repo", repo.FullName()), zap.Error(err))
				return nil
			}
			fetched[i] = status
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		metrics.CyclesTotal.WithLabelValues(metrics.KindStatus, metrics.ResultFailed).Inc()
		return fmt.Errorf("refresh status: %w", err)
	}

	items := a.buildItems(repoSet, fetched)
	change := a.store.SetItems(items, cycle, a.now())

	metrics.CyclesTotal.WithLabelValues(metrics.KindStatus, metrics.ResultOK).Inc()
	metrics.ListItems.Set(float64(len(items)))
	log.Info("status refreshed",
		zap.Int("repositories", len(repoSet)),
		zap.Int32("failedRepositories", failed.Load()),
		zap.Int("items", len(items)),
		zap.Bool("changed", change.Has(FieldItems)),
		zap.Duration("took", time.Since(start)))
	return nil
}

// buildItems records fresh results, falls back to previous ones, and produces the
// filtered and ordered list. Importance is evaluated here, after all sources have
// contributed their important users.
func (a *Aggregator) buildItems(repoSet []domain.Repository, fetched []*repoStatus) []domain.ListItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	policy := a.session.Policy()
	now := a.now()

	var items []domain.ListItem
	for i, repo := range repoSet {
		key := repo.Key()
		if fetched[i] != nil {
			a.statuses[key] = *fetched[i]
		}
		status, ok := a.statuses[key]
		if !ok {
			continue
		}

		for _, pull := range status.pulls {
			if !policy.IsImportant(&pull, repo.IsImportant()) || policy.IsHidden(&pull) {
				continue
			}
			pull.RepoImportant = repo.IsImportant()
			if !pull.CreatedAt.IsZero() {
				elapsed := domain.ElapsedSince(pull.CreatedAt, now)
				pull.ElapsedTime = &elapsed
			}
			items = append(items, domain.PullItem(pull))
		}
		if status.master.Failed {
			items = append(items, domain.MasterItem(status.master))
		}
	}

	pulls.Sort(items, a.session.Options.SortByMostRecent)
	return items
}

func (a *Aggregator) pruneStatuses(repoSet []domain.Repository) {
	keep := make(map[domain.RepositoryKey]struct{}, len(repoSet))
	for _, repo := range repoSet {
		keep[repo.Key()] = struct{}{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for key := range a.statuses {
		if _, ok := keep[key]; !ok {
			delete(a.statuses, key)
		}
	}
}

func (a *Aggregator) fetchRepoStatus(ctx context.Context, repo domain.Repository) (*repoStatus, error) {
	var status repoStatus

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		master, err := a.fetchMaster(ctx, repo)
		if err != nil {
			return err
		}
		status.master = master
		return nil
	})
	g.Go(func() error {
		prs, err := a.fetchPulls(ctx, repo)
		if err != nil {
			return err
		}
		status.pulls = prs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &status, nil
}

func (a *Aggregator) fetchMaster(ctx context.Context, repo domain.Repository) (domain.MasterStatus, error) {
	branch := repo.Branch()
	statuses, err := a.client.ListCommitStatuses(ctx, repo, branch)
	if err != nil {
		return domain.MasterStatus{}, err
	}

	master := domain.MasterStatus{
		Repo:     repo.Repo,
		UserName: repo.UserName,
		Branch:   branch,
		State:    domain.LatestState(statuses),
	}
	if len(statuses) > 0 {
		master.TargetURL = statuses[0].TargetURL
	}
	master.Failed = master.State.IsFailed()
	return master, nil
}

func (a *Aggregator) fetchPulls(ctx context.Context, repo domain.Repository) ([]domain.PullRequest, error) {
	listed, err := a.client.ListPulls(ctx, repo)
	if err != nil {
		return nil, err
	}

	var withUser []github.Pull
	for _, p := range listed {
		if p.User == nil {
			a.logger.Debug("skipping pull without user", zap.String("repo", repo.FullName()), zap.Int("number", p.Number))
			continue
		}
		withUser = append(withUser, p)
	}

	result := make([]domain.PullRequest, len(withUser))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range withUser {
		g.Go(func() error {
			pr, err := a.fetchPull(ctx, repo, p)
			if err != nil {
				return err
			}
			result[i] = pr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// fetchPull loads head status, mergeability, comments and reviews of one pull.
func (a *Aggregator) fetchPull(ctx context.Context, repo domain.Repository, p github.Pull) (domain.PullRequest, error) {
	pr := domain.PullRequest{
		Number:        p.Number,
		Title:         p.Title,
		HTMLURL:       p.HTMLURL,
		URL:           p.URL,
		CommentsURL:   p.CommentsURL,
		HeadSHA:       p.Head.SHA,
		Repo:          repo.Repo,
		User:          p.User,
		Assignee:      p.Assignee,
		RepoImportant: repo.IsImportant(),
	}
	if p.CreatedAt != nil {
		pr.CreatedAt = *p.CreatedAt
	}

	var (
		comments     []github.Comment
		reviewStates []string
	)

	g, ctx := errgroup.WithContext(ctx)
	if pr.HeadSHA != "" {
		g.Go(func() error {
			statuses, err := a.client.ListCommitStatuses(ctx, repo, pr.HeadSHA)
			if err != nil {
				return err
			}
			pr.Status = domain.LatestState(statuses)
			return nil
		})
	}
	g.Go(func() error {
		info, err := a.client.GetPullInfo(ctx, pr.URL)
		if err != nil {
			return err
		}
		pr.Mergeable = info.Mergeable
		return nil
	})
	g.Go(func() error {
		var err error
		comments, err = a.client.ListComments(ctx, pr.CommentsURL)
		return err
	})
	g.Go(func() error {
		reviews, err := a.client.ListReviews(ctx, pr.URL)
		if err != nil {
			return err
		}
		for _, r := range reviews {
			reviewStates = append(reviewStates, r.State)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.PullRequest{}, fmt.Errorf("pull %s#%d: %w", repo.FullName(), p.Number, err)
	}
	pr.Reviews = pulls.Summarize(len(comments), reviewStates)
	return pr, nil
}
