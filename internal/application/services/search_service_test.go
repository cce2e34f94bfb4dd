package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizlink/directory-backend/internal/application/services"
	"github.com/bizlink/directory-backend/internal/domain/entities"
)

func directory() []*entities.Business {
	return []*entities.Business{
		{
			ID: "1", Name: "Acme Retail", Brief: "General store downtown",
			Categories: []string{"Retail"},
			Addresses:  []entities.Address{{City: "New York"}},
		},
		{
			ID: "2", Name: "Bella Fashion House", Brief: "Designer clothing boutique",
			Categories: []string{"Retail", "Fashion"},
			Addresses:  []entities.Address{{City: "New York City"}},
		},
		{
			ID: "3", Name: "Crystal Legal Services", Brief: "Legal advice for small businesses",
			Categories: []string{"Legal Services"},
			Addresses:  []entities.Address{{City: "Rajkot"}, {City: "Ahmedabad"}},
		},
		{
			ID: "4", Name: "Delta Cafe", Brief: "Coffee and light meals",
			Categories: []string{"Food", "Cafe"},
			Addresses:  []entities.Address{{City: "Rajkot"}},
		},
	}
}

func ids(businesses []*entities.Business) []string {
	var out []string
	for _, b := range businesses {
		out = append(out, b.ID)
	}
	return out
}

func TestFilter_IsSubsetAndIdempotent(t *testing.T) {
	all := directory()
	state := services.SearchState{Query: "re"}

	once := services.Filter(all, state)
	twice := services.Filter(once, state)

	assert.LessOrEqual(t, len(once), len(all))
	for _, b := range once {
		assert.Contains(t, all, b)
	}
	assert.Equal(t, once, twice)
}

func TestFilter_TextMatchesNameBriefCityAndCategory(t *testing.T) {
	all := directory()

	assert.Equal(t, []string{"1"}, ids(services.Filter(all, services.SearchState{Query: "acme"})))
	assert.Equal(t, []string{"4"}, ids(services.Filter(all, services.SearchState{Query: "coffee"})))
	assert.Equal(t, []string{"3"}, ids(services.Filter(all, services.SearchState{Query: "ahmed"})))
	assert.Equal(t, []string{"2"}, ids(services.Filter(all, services.SearchState{Query: "fashion"})))
	// whitespace and case are trimmed/ignored on both sides
	assert.Equal(t, []string{"1"}, ids(services.Filter(all, services.SearchState{Query: "  ACME  "})))
}

func TestFilter_TagsUseANDSemantics(t *testing.T) {
	all := directory()

	both := services.Filter(all, services.SearchState{Tags: []string{"Retail", "Fashion"}})
	assert.Equal(t, []string{"2"}, ids(both))

	// a business carrying only one of the selected tags is excluded
	retailOnly := services.Filter(all, services.SearchState{Tags: []string{"Retail"}})
	assert.Equal(t, []string{"1", "2"}, ids(retailOnly))
}

func TestFilter_CityIsExactMatch(t *testing.T) {
	all := directory()

	got := services.Filter(all, services.SearchState{City: "New York"})
	require.Equal(t, []string{"1"}, ids(got), `"New York City" must not match "New York"`)
}

func TestFilter_EmptyStateMatchesEverything(t *testing.T) {
	all := directory()
	assert.Len(t, services.Filter(all, services.SearchState{}), len(all))
}

func TestFilter_AllPredicatesCombineWithAND(t *testing.T) {
	all := directory()
	got := services.Filter(all, services.SearchState{
		Query: "legal",
		City:  "Rajkot",
		Tags:  []string{"Legal Services"},
	})
	assert.Equal(t, []string{"3"}, ids(got))

	none := services.Filter(all, services.SearchState{Query: "legal", City: "New York"})
	assert.Empty(t, none)
}

func TestSearch_PaginationMath(t *testing.T) {
	svc := services.NewSearchService(5)
	all := directory()

	result := svc.Search(all, services.SearchState{Page: 1, PageSize: 3})
	assert.Equal(t, 4, result.TotalResults)
	assert.Equal(t, 2, result.TotalPages)
	assert.Len(t, result.Businesses, 3)
	assert.Equal(t, []string{"1", "2", "3"}, ids(result.Businesses))

	second := svc.Search(all, services.SearchState{Page: 2, PageSize: 3})
	assert.Equal(t, []string{"4"}, ids(second.Businesses))
}

func TestSearch_PageBeyondRangeIsEmptyNotError(t *testing.T) {
	svc := services.NewSearchService(5)
	result := svc.Search(directory(), services.SearchState{Page: 9, PageSize: 3})
	assert.Empty(t, result.Businesses)
	assert.Equal(t, 4, result.TotalResults)
}

func TestSearch_DefaultsApplied(t *testing.T) {
	svc := services.NewSearchService(2)
	result := svc.Search(directory(), services.SearchState{Page: -1})
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 2, result.PageSize)
	assert.Len(t, result.Businesses, 2)
	assert.Equal(t, 2, result.TotalPages)
}

func TestSearch_Facets(t *testing.T) {
	svc := services.NewSearchService(5)
	result := svc.Search(directory(), services.SearchState{})

	assert.Equal(t, []string{"Ahmedabad", "New York", "New York City", "Rajkot"}, result.AvailableCities)
	assert.Equal(t, []string{"Cafe", "Fashion", "Food", "Legal Services", "Retail"}, result.AvailableCategories)
}

func TestSearch_FacetsUnaffectedByFilter(t *testing.T) {
	svc := services.NewSearchService(5)
	result := svc.Search(directory(), services.SearchState{Query: "acme"})

	// facets reflect the full directory so dropdowns stay populated
	assert.Equal(t, 1, result.TotalResults)
	assert.Len(t, result.AvailableCities, 4)
}

func TestSearch_EmptyDirectory(t *testing.T) {
	svc := services.NewSearchService(5)
	result := svc.Search(nil, services.SearchState{Query: "anything"})
	assert.Empty(t, result.Businesses)
	assert.Equal(t, 0, result.TotalResults)
	assert.Equal(t, 0, result.TotalPages)
	assert.Empty(t, result.AvailableCities)
}
