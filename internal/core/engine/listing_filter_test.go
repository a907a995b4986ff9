package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-service/internal/core/domain"
)

func scenarioCatalog() []domain.Listing {
	return []domain.Listing{
		{ID: "1", Category: domain.CategoryHouse, Title: "Modern Villa", Location: "Lekki Phase 1, Lagos",
			Price: "₦120,000,000", Coordinates: domain.Coordinates{Latitude: 6.45, Longitude: 3.45}},
		{ID: "2", Category: domain.CategoryLand, Title: "Premium Land", Location: "Sangotedo, Ajah",
			Price: "₦45,000,000", Coordinates: domain.Coordinates{Latitude: 6.47, Longitude: 3.60}},
	}
}

func ids(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

// randomCatalog строит детерминированный каталог для проверки свойств
func randomCatalog(r *rand.Rand, n int) []domain.Listing {
	titles := []string{"Villa", "Duplex", "Plot", "Studio", "Office", "Terrace"}
	places := []string{"Lekki Phase 1, Lagos", "Sangotedo, Ajah", "Ikeja GRA, Lagos", "Wuse 2, Abuja", "GRA, Port Harcourt"}
	categories := domain.KnownCategories()

	out := make([]domain.Listing, n)
	for i := range out {
		out[i] = domain.Listing{
			ID:       fmt.Sprintf("id-%d", i),
			Title:    titles[r.Intn(len(titles))],
			Location: places[r.Intn(len(places))],
			Category: categories[r.Intn(len(categories))],
			Coordinates: domain.Coordinates{
				Latitude:  6 + r.Float64(),
				Longitude: 3 + r.Float64(),
			},
		}
	}
	return out
}

func isSubsequence(sub, full []domain.Listing) bool {
	j := 0
	for i := 0; i < len(full) && j < len(sub); i++ {
		if full[i].ID == sub[j].ID {
			j++
		}
	}
	return j == len(sub)
}

func TestComputeVisible_Scenarios(t *testing.T) {
	catalog := scenarioCatalog()

	tests := []struct {
		name  string
		state domain.FilterState
		want  []string
	}{
		{"category only", domain.FilterState{ActiveCategory: domain.CategoryLand}, []string{"2"}},
		{"search only", domain.FilterState{ActiveCategory: domain.CategoryAll, SearchQuery: "ajah"}, []string{"2"}},
		{"empty intersection", domain.FilterState{ActiveCategory: domain.CategoryHouse, SearchQuery: "ajah"}, []string{}},
		{"search by title", domain.FilterState{ActiveCategory: domain.CategoryAll, SearchQuery: "villa"}, []string{"1"}},
		{"whitespace query is a no-op", domain.FilterState{ActiveCategory: domain.CategoryAll, SearchQuery: "   "}, []string{"1", "2"}},
		{"zero value state keeps all", domain.FilterState{}, []string{"1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeVisible(catalog, tt.state)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestComputeVisible_CaseInsensitiveSearch(t *testing.T) {
	catalog := scenarioCatalog()

	lower := ComputeVisible(catalog, domain.FilterState{ActiveCategory: domain.CategoryAll, SearchQuery: "lekki"})
	upper := ComputeVisible(catalog, domain.FilterState{ActiveCategory: domain.CategoryAll, SearchQuery: "LEKKI"})

	assert.Equal(t, []string{"1"}, ids(lower))
	assert.Equal(t, ids(lower), ids(upper))
}

func TestComputeVisible_QueryIsNotTrimmed(t *testing.T) {
	catalog := scenarioCatalog()

	// "lekki " с пробелом все еще подстрока "lekki phase 1, lagos"
	got := ComputeVisible(catalog, domain.FilterState{SearchQuery: "lekki "})
	assert.Equal(t, []string{"1"}, ids(got))

	got = ComputeVisible(catalog, domain.FilterState{SearchQuery: " ajah "})
	assert.Empty(t, got)
}

func TestComputeVisible_CategoryMatchIsExact(t *testing.T) {
	catalog := scenarioCatalog()
	catalog = append(catalog, domain.Listing{ID: "3", Category: "land", Title: "lowercase category"})

	got := ComputeVisible(catalog, domain.FilterState{ActiveCategory: domain.CategoryLand})
	assert.Equal(t, []string{"2"}, ids(got))

	// под All объект с неизвестной категорией остается
	got = ComputeVisible(catalog, domain.NoFilter())
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestComputeVisible_EmptyCatalog(t *testing.T) {
	got := ComputeVisible(nil, domain.NoFilter())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestComputeVisible_DoesNotMutateCatalog(t *testing.T) {
	catalog := scenarioCatalog()
	snapshot := append([]domain.Listing(nil), catalog...)

	got := ComputeVisible(catalog, domain.FilterState{ActiveCategory: domain.CategoryLand})
	got[0].Title = "changed"

	assert.Equal(t, snapshot, catalog)
}

func TestComputeVisible_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	queries := []string{"", "lagos", "VILLA", "gra", "abuja", "nothing-matches", " "}
	categories := append([]domain.Category{domain.CategoryAll}, domain.KnownCategories()...)

	for round := 0; round < 50; round++ {
		catalog := randomCatalog(r, r.Intn(40))

		// тождество
		assert.Equal(t, catalog, ComputeVisible(catalog, domain.NoFilter()))

		for _, category := range categories {
			for _, q := range queries {
				state := domain.FilterState{ActiveCategory: category, SearchQuery: q}
				visible := ComputeVisible(catalog, state)

				// подпоследовательность с сохранением порядка
				assert.True(t, isSubsequence(visible, catalog), "round %d state %+v", round, state)

				// идемпотентность при no-op втором фильтре
				assert.Equal(t, visible, ComputeVisible(visible, domain.NoFilter()))

				// детерминизм
				assert.Equal(t, visible, ComputeVisible(catalog, state))

				// повторное применение того же фильтра ничего не меняет
				assert.Equal(t, visible, ComputeVisible(visible, state))
			}
		}
	}
}
