package repos

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// TeamSource lists the repositories of teams and records their members as important users.
type TeamSource struct {
	teams  []domain.Team
	client Client
	users  *domain.ImportantUsers
	logger *zap.Logger
}

// NewTeamSource creates a source for teams.
func NewTeamSource(teams []domain.Team, client Client, users *domain.ImportantUsers, logger *zap.Logger) *TeamSource {
	return &TeamSource{
		teams:  teams,
		client: client,
		users:  users,
		logger: logger,
	}
}

// Name implements Source.
func (s *TeamSource) Name() string { return "team" }

// Fetch implements Source. Members of every team are in the important users set by
// the time Fetch returns.
func (s *TeamSource) Fetch(ctx context.Context) ([]domain.Repository, error) {
	results := make([][]domain.Repository, len(s.teams))

	g, ctx := errgroup.WithContext(ctx)
	for i, team := range s.teams {
		g.Go(func() error {
			repos, err := s.fetchTeam(ctx, team)
			if err != nil {
				return fmt.Errorf("team %s: %w", team, err)
			}
			results[i] = repos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.Repository
	for _, repos := range results {
		all = append(all, repos...)
	}
	return all, nil
}

func (s *TeamSource) fetchTeam(ctx context.Context, team domain.Team) ([]domain.Repository, error) {
	teamID, err := s.teamID(ctx, team)
	if err != nil {
		return nil, err
	}

	var repos []domain.Repository
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.client.ListTeamRepos(ctx, team.BaseURL, teamID)
		if err != nil {
			return err
		}
		repos = make([]domain.Repository, 0, len(list))
		for _, item := range list {
			repos = append(repos, domain.Repository{
				UserName:      item.Owner.Login,
				Repo:          item.Name,
				BaseURL:       team.ReposBaseURL(),
				DefaultBranch: item.DefaultBranch,
			})
		}
		return nil
	})
	g.Go(func() error {
		members, err := s.client.ListTeamMembers(ctx, team.BaseURL, teamID)
		if err != nil {
			return err
		}
		for _, m := range members {
			s.users.Add(m.Login)
		}
		s.logger.Debug("team members added", zap.Stringer("team", team), zap.Int("members", len(members)))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return repos, nil
}

// teamID maps the team slug to its numeric ID using the first page of org teams.
func (s *TeamSource) teamID(ctx context.Context, team domain.Team) (int64, error) {
	teams, err := s.client.ListOrgTeams(ctx, team.BaseURL, team.Org)
	if err != nil {
		return 0, err
	}
	for _, t := range teams {
		if t.Slug == team.Team {
			return t.ID, nil
		}
	}
	return 0, &domain.TeamNotFoundError{Org: team.Org, Team: team.Team}
}
