package aifilter

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/text/unicode/norm"

	"reelog/models"
)

// companyLookupConcurrency caps the fan-out of per-title detail fetches. One
// slow lookup must not hold up the rest, and one failed lookup only skips its
// own item.
const companyLookupConcurrency = 4

var companySuffixWordRe = regexp.MustCompile(`\s+(?:films?|pictures|productions?|studios?|entertainment)$`)

// filterByCompany returns the user's items produced by the named company,
// most recently watched first. A failed company search propagates; failed
// per-title lookups silently skip that title.
func (s *Service) filterByCompany(ctx context.Context, companyName, mediaTypeHint string, items []models.WatchItem) ([]models.WatchItem, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return []models.WatchItem{}, nil
	}

	companyID, err := s.metadata.SearchCompany(ctx, companyName)
	if err != nil {
		return nil, err
	}
	if companyID == 0 {
		log.Printf("[aifilter] no company found for %q", companyName)
		return []models.WatchItem{}, nil
	}

	target := Company{ID: companyID, Name: companyName}

	// Bounded fan-out: each worker writes only its own slot, so no lock is
	// needed on the results slice.
	matched := make([]bool, len(items))
	p := pool.New().WithMaxGoroutines(companyLookupConcurrency)
	for i := range items {
		item := items[i]
		if mediaTypeHint != "" && item.MediaType != mediaTypeHint {
			continue
		}
		idx := i
		p.Go(func() {
			companies, err := s.metadata.TitleCompanies(ctx, item.TmdbID, item.MediaType)
			if err != nil {
				log.Printf("[aifilter] skipping %q: %v", item.Title, err)
				return
			}
			for _, company := range companies {
				if CompanyMatches(target, company) {
					matched[idx] = true
					return
				}
			}
		})
	}
	p.Wait()

	result := make([]models.WatchItem, 0, len(items))
	for i, ok := range matched {
		if ok {
			result = append(result, items[i])
		}
	}
	models.SortWatchItemsByDateDesc(result)
	return result, nil
}

// CompanyMatches reports whether a credited production company matches the
// target: either by exact external ID, or by normalized-name equality or
// containment.
func CompanyMatches(target, candidate Company) bool {
	if target.ID != 0 && candidate.ID == target.ID {
		return true
	}

	a := NormalizeCompanyName(target.Name)
	b := NormalizeCompanyName(candidate.Name)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if len(a) >= 2 && len(b) >= 2 {
		return strings.Contains(a, b) || strings.Contains(b, a)
	}
	return false
}

// NormalizeCompanyName canonicalizes a company name for comparison: Unicode
// NFKC fold, lowercase, collapsed whitespace, and trailing corporate suffix
// words ("films", "production", "studios", ...) removed. Idempotent.
func NormalizeCompanyName(name string) string {
	s := strings.ToLower(norm.NFKC.String(name))
	s = strings.Join(strings.Fields(s), " ")
	for {
		stripped := companySuffixWordRe.ReplaceAllString(s, "")
		if stripped == s {
			return s
		}
		s = stripped
	}
}
