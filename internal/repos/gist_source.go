package repos

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/CharlesIC/fourth-wall/internal/api/github"
	"github.com/CharlesIC/fourth-wall/internal/domain"
)

const usersFile = "users.json"

// GistSource reads the repository list, important users and custom CSS from a gist.
type GistSource struct {
	id     string
	client Client
	users  *domain.ImportantUsers
	styles StylesheetSink
	logger *zap.Logger
}

// NewGistSource creates a source for gist id. styles may be nil.
func NewGistSource(id string, client Client, users *domain.ImportantUsers, styles StylesheetSink, logger *zap.Logger) *GistSource {
	return &GistSource{
		id:     id,
		client: client,
		users:  users,
		styles: styles,
		logger: logger,
	}
}

// Name implements Source.
func (s *GistSource) Name() string { return "gist" }

// Fetch implements Source. When several files qualify as the repository list, the
// last one wins.
func (s *GistSource) Fetch(ctx context.Context) ([]domain.Repository, error) {
	gist, err := s.client.GetGist(ctx, s.id)
	if err != nil {
		return nil, err
	}

	var repos []domain.Repository
	for _, file := range gist.Files {
		switch {
		case file.Filename == usersFile:
			if file.Content == "" {
				continue
			}
			var logins []string
			if err := json.Unmarshal([]byte(file.Content), &logins); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", usersFile, err)
			}
			s.users.Add(logins...)
		case isStylesheet(file):
			if s.styles != nil {
				s.styles.SetStylesheet(file.Content)
			}
		case isRepositoryList(file):
			var list []domain.Repository
			if err := json.Unmarshal([]byte(file.Content), &list); err != nil {
				return nil, fmt.Errorf("failed to parse repository list %s: %w", file.Filename, err)
			}
			repos = list
		default:
			s.logger.Debug("ignoring gist file", zap.String("file", file.Filename), zap.String("language", file.Language))
		}
	}
	return repos, nil
}

func isStylesheet(f github.GistFile) bool {
	return f.Language == "CSS" || f.Type == "text/css"
}

func isRepositoryList(f github.GistFile) bool {
	return f.Language == "" || f.Language == "JSON" || f.Language == "JavaScript"
}
