package repos

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/CharlesIC/fourth-wall/internal/api/github"
	"github.com/CharlesIC/fourth-wall/internal/config"
	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// Source produces repository descriptors from one external place.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Repository, error)
}

// StylesheetSink receives custom CSS found in a gist.
type StylesheetSink interface {
	SetStylesheet(css string)
}

// Client is the subset of the GitHub client the sources need.
type Client interface {
	GetFileContent(ctx context.Context, fileURL string) (*github.FileContent, error)
	GetGist(ctx context.Context, id string) (*github.Gist, error)
	ListOrgTeams(ctx context.Context, baseURL, org string) ([]github.Team, error)
	ListTeamRepos(ctx context.Context, baseURL string, teamID int64) ([]github.TeamRepository, error)
	ListTeamMembers(ctx context.Context, baseURL string, teamID int64) ([]domain.User, error)
}

// ConfiguredSources returns the sources enabled by opts. Unconfigured sources are
// simply absent.
func ConfiguredSources(opts config.Options, client Client, users *domain.ImportantUsers, styles StylesheetSink, logger *zap.Logger) []Source {
	var sources []Source
	if opts.FileURL != "" {
		sources = append(sources, NewFileSource(opts.FileURL, client))
	}
	if opts.GistID != "" {
		sources = append(sources, NewGistSource(opts.GistID, client, users, styles, logger))
	}
	if opts.HasTeams() {
		sources = append(sources, NewTeamSource(opts.Teams, client, users, logger))
	}
	return sources
}

// Collect runs all sources concurrently and waits for every one of them.
// Results keep the order of sources. The first failure fails the whole collection.
func Collect(ctx context.Context, sources []Source) ([][]domain.Repository, error) {
	results := make([][]domain.Repository, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			repos, err := source.Fetch(ctx)
			if err != nil {
				return fmt.Errorf("%s source: %w", source.Name(), err)
			}
			results[i] = repos
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FetchFromEverywhere collects every source and merges the results.
func FetchFromEverywhere(ctx context.Context, sources []Source, excluded []string) ([]domain.Repository, error) {
	results, err := Collect(ctx, sources)
	if err != nil {
		return nil, err
	}
	return Merge(results, excluded), nil
}
