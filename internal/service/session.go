package service

import (
	"go.uber.org/zap"

	"github.com/CharlesIC/fourth-wall/internal/config"
	"github.com/CharlesIC/fourth-wall/internal/domain"
	"github.com/CharlesIC/fourth-wall/internal/pulls"
)

// Session is the configuration and mutable state of one dashboard, built once from
// the query string and passed explicitly to sources, aggregator and renderer.
type Session struct {
	Query   *config.Query
	Options config.Options
	Users   *domain.ImportantUsers
}

// NewSession parses raw. Malformed team entries are logged and dropped; the rest of
// the configuration still applies.
func NewSession(raw string, logger *zap.Logger) *Session {
	q := config.NewQuery(raw)
	opts, err := config.NewOptions(q)
	if err != nil {
		logger.Warn("ignoring invalid configuration entries", zap.Error(err))
	}
	return &Session{
		Query:   q,
		Options: opts,
		Users:   domain.NewImportantUsers(),
	}
}

// Policy returns the importance and WIP rules for this session.
func (s *Session) Policy() pulls.Policy {
	return pulls.NewPolicy(s.Options, s.Users)
}
