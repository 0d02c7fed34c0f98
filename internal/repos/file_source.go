package repos

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// FileSource reads a JSON repository list from a file served by the contents API.
type FileSource struct {
	fileURL string
	client  Client
}

// NewFileSource creates a source for the contents API URL fileURL,
// e.g. https://api.github.com/repos/org/radiator/contents/repos.json?ref=gh-pages.
func NewFileSource(fileURL string, client Client) *FileSource {
	return &FileSource{fileURL: fileURL, client: client}
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) ([]domain.Repository, error) {
	content, err := s.client.GetFileContent(ctx, s.fileURL)
	if err != nil {
		return nil, err
	}
	if content.Content == "" {
		return nil, nil
	}

	return decodeFileList(content.Content)
}

// fileEntry accepts the contents-file spelling "owner"/"name" next to "userName"/"repo".
type fileEntry struct {
	domain.Repository
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func decodeFileList(encoded string) ([]domain.Repository, error) {
	// The contents API wraps base64 at 60 columns.
	raw, err := base64.StdEncoding.DecodeString(strings.NewReplacer("\n", "", "\r", "").Replace(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}

	var entries []fileEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse repository list: %w", err)
	}

	repos := make([]domain.Repository, 0, len(entries))
	for _, e := range entries {
		r := e.Repository
		if r.UserName == "" {
			r.UserName = e.Owner
		}
		if r.Repo == "" {
			r.Repo = e.Name
		}
		repos = append(repos, r)
	}
	return repos, nil
}
