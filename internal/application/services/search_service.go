package services

import (
	"math"
	"sort"
	"strings"

	"github.com/bizlink/directory-backend/internal/domain/entities"
)

// SearchState is the caller's query, filter and pagination selection.
// Zero values degrade safely: empty query and filters match everything,
// page clamps to 1, page size falls back to the service default.
type SearchState struct {
	Query    string
	City     string
	Tags     []string
	Page     int
	PageSize int
}

// SearchResult is one page of the filtered directory plus the facet lists
// used to drive filter dropdowns.
type SearchResult struct {
	Businesses          []*entities.Business `json:"businesses"`
	TotalResults        int                  `json:"total_results"`
	TotalPages          int                  `json:"total_pages"`
	Page                int                  `json:"page"`
	PageSize            int                  `json:"page_size"`
	AvailableCities     []string             `json:"available_cities"`
	AvailableCategories []string             `json:"available_categories"`
}

// SearchService filters, facets and paginates the in-memory directory.
// It is a pure transformation: no I/O, no retained state beyond defaults.
type SearchService struct {
	defaultPageSize int
}

// NewSearchService creates a search service with the given default page size
func NewSearchService(defaultPageSize int) *SearchService {
	if defaultPageSize <= 0 {
		defaultPageSize = 5
	}
	return &SearchService{defaultPageSize: defaultPageSize}
}

// Search applies the query state to the full business list and returns the
// requested page plus facets and totals.
func (s *SearchService) Search(businesses []*entities.Business, state SearchState) SearchResult {
	pageSize := state.PageSize
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	page := state.Page
	if page < 1 {
		page = 1
	}

	filtered := Filter(businesses, state)

	total := len(filtered)
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return SearchResult{
		Businesses:          filtered[start:end],
		TotalResults:        total,
		TotalPages:          totalPages,
		Page:                page,
		PageSize:            pageSize,
		AvailableCities:     AvailableCities(businesses),
		AvailableCategories: AvailableCategories(businesses),
	}
}

// Filter returns the businesses matching every active predicate: free-text
// (case-insensitive substring over name, brief, cities and categories),
// selected city (exact match against any address), and selected tags
// (the business must carry every one).
func Filter(businesses []*entities.Business, state SearchState) []*entities.Business {
	filtered := make([]*entities.Business, 0, len(businesses))
	for _, b := range businesses {
		if !b.MatchesText(state.Query) {
			continue
		}
		if !matchesCity(b, state.City) {
			continue
		}
		if !matchesTags(b, state.Tags) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

// AvailableCities returns the sorted deduplicated union of address cities
func AvailableCities(businesses []*entities.Business) []string {
	seen := map[string]struct{}{}
	cities := []string{}
	for _, b := range businesses {
		for _, addr := range b.Addresses {
			if _, ok := seen[addr.City]; ok {
				continue
			}
			seen[addr.City] = struct{}{}
			cities = append(cities, addr.City)
		}
	}
	sort.Strings(cities)
	return cities
}

// AvailableCategories returns the sorted deduplicated union of categories
func AvailableCategories(businesses []*entities.Business) []string {
	seen := map[string]struct{}{}
	categories := []string{}
	for _, b := range businesses {
		for _, c := range b.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	return categories
}

// matchesCity is an exact, case-sensitive comparison against each address
// city. "New York City" does not match a selected "New York".
func matchesCity(b *entities.Business, city string) bool {
	if city == "" {
		return true
	}
	for _, addr := range b.Addresses {
		if addr.City == city {
			return true
		}
	}
	return false
}

// matchesTags requires every selected tag to be present (AND semantics)
func matchesTags(b *entities.Business, tags []string) bool {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		if !b.HasCategory(tag) {
			return false
		}
	}
	return true
}
