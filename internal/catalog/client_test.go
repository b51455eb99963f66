package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"platea/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const mealDoc = `{"meals":[{
	"idMeal":"52874",
	"strMeal":"Beef and Mustard Pie",
	"strCategory":"Beef",
	"strArea":"British",
	"strInstructions":"Preheat the oven.",
	"strMealThumb":"https://img/pie.jpg",
	"strYoutube":"https://youtu.be/x",
	"strIngredient1":"Beef","strMeasure1":"1kg",
	"strIngredient2":"Plain Flour","strMeasure2":"2 tbs",
	"strIngredient3":"","strMeasure3":""
}]}`

func newClient(t *testing.T, handler http.HandlerFunc) *catalog.Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return catalog.NewClient(srv.URL, srv.URL, zap.NewNop())
}

func TestSearchMeals(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.php", r.URL.Path)
		assert.Equal(t, "pie", r.URL.Query().Get("s"))
		_, _ = w.Write([]byte(mealDoc))
	})

	meals, err := c.SearchMeals(context.Background(), "pie")
	require.NoError(t, err)
	require.Len(t, meals, 1)

	m := meals[0]
	assert.Equal(t, "52874", m.ID)
	assert.Equal(t, "Beef and Mustard Pie", m.Name)
	assert.Equal(t, "Beef", m.Category)
	assert.Equal(t, "British", m.Area)
	require.Len(t, m.Ingredients, 2)
	assert.Equal(t, "Beef", m.Ingredients[0].Name)
	assert.Equal(t, "1kg", m.Ingredients[0].Measure)
}

func TestNoResultsIsEmptyNotError(t *testing.T) {
	// The catalog answers a miss with a null list, not an empty array.
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	})

	meals, err := c.SearchMeals(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, meals)

	m, err := c.MealByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestFilterRows(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/filter.php", r.URL.Path)
		assert.Equal(t, "Dessert", r.URL.Query().Get("c"))
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"1","strMeal":"Cake","strMealThumb":"https://img/c.jpg"}]}`))
	})

	meals, err := c.MealsByCategory(context.Background(), "Dessert")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "Cake", meals[0].Name)
	assert.Empty(t, meals[0].Ingredients)
}

func TestDrinkLookup(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup.php", r.URL.Path)
		_, _ = w.Write([]byte(`{"drinks":[{"idDrink":"11007","strDrink":"Margarita","strDrinkThumb":"https://img/m.jpg","strIngredient1":"Tequila","strMeasure1":"1 1/2 oz"}]}`))
	})

	d, err := c.DrinkByID(context.Background(), "11007")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Margarita", d.Name)
	assert.Equal(t, "https://img/m.jpg", d.Thumbnail)
	require.Len(t, d.Ingredients, 1)
}

func TestUpstreamFailuresAreUnavailable(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.SearchMeals(context.Background(), "x")
	assert.ErrorIs(t, err, catalog.ErrUnavailable)

	c = newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	_, err = c.RandomMeal(context.Background())
	assert.ErrorIs(t, err, catalog.ErrUnavailable)

	// Server gone entirely.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c = catalog.NewClient(srv.URL, srv.URL, zap.NewNop())
	_, err = c.SearchMeals(context.Background(), "x")
	assert.ErrorIs(t, err, catalog.ErrUnavailable)
}
