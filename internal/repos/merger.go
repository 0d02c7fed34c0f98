package repos

import (
	"slices"

	"github.com/CharlesIC/fourth-wall/internal/domain"
)

// Merge flattens the repository lists of all sources, merges records that denote the
// same repository and drops repositories whose name is excluded.
//
// Records are grouped by owner, name and base URL, an absent base URL meaning the public
// host. When no record for an owner and name declares the public host, a record without a
// base URL instead joins the first record with the same owner and name that has one, so a
// source that only knows the name and a source that knows the host are combined. Output
// order is the order in which each group first appears.
func Merge(sources [][]domain.Repository, excluded []string) []domain.Repository {
	type nameKey struct{ userName, repo string }

	explicitBase := make(map[nameKey]string)
	publicBase := make(map[nameKey]bool)
	for _, list := range sources {
		for _, r := range list {
			k := nameKey{r.UserName, r.Repo}
			switch {
			case r.BaseURL == domain.DefaultReposBaseURL:
				publicBase[k] = true
			case r.BaseURL != "":
				if _, ok := explicitBase[k]; !ok {
					explicitBase[k] = r.BaseURL
				}
			}
		}
	}

	index := make(map[domain.RepositoryKey]int)
	var merged []domain.Repository
	for _, list := range sources {
		for _, r := range list {
			key := r.Key()
			if k := (nameKey{r.UserName, r.Repo}); r.BaseURL == "" && !publicBase[k] {
				if base, ok := explicitBase[k]; ok {
					key.BaseURL = base
				}
			}

			i, seen := index[key]
			if !seen {
				index[key] = len(merged)
				merged = append(merged, clone(r))
				continue
			}
			merged[i] = mergeFields(merged[i], r)
		}
	}

	return slices.DeleteFunc(merged, func(r domain.Repository) bool {
		return slices.Contains(excluded, r.Repo)
	})
}

// mergeFields fills fields of into from other without ever replacing a populated value
// by an empty one. Important is true if either record says so.
func mergeFields(into, other domain.Repository) domain.Repository {
	switch {
	case into.Important == nil:
		if other.Important != nil {
			into.Important = domain.Bool(*other.Important)
		}
	case !*into.Important && other.IsImportant():
		into.Important = domain.Bool(true)
	}
	if into.BaseURL == "" {
		into.BaseURL = other.BaseURL
	}
	if into.DefaultBranch == "" {
		into.DefaultBranch = other.DefaultBranch
	}
	return into
}

// clone copies r so merged output never aliases an input's Important pointer.
func clone(r domain.Repository) domain.Repository {
	if r.Important != nil {
		r.Important = domain.Bool(*r.Important)
	}
	return r
}
