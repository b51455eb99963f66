package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ErrUnavailable marks upstream catalog failures so handlers can
// surface a retryable 502 instead of a generic server error.
var ErrUnavailable = errors.New("catalog unavailable")

const numberedFields = 20 // the catalog schema's strIngredientN/strMeasureN pairs

type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

type Meal struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Area         string       `json:"area"`
	Instructions string       `json:"instructions"`
	Thumbnail    string       `json:"thumbnail"`
	YoutubeURL   string       `json:"youtube_url"`
	Ingredients  []Ingredient `json:"ingredients"`
}

// Client talks to TheMealDB and TheCocktailDB. Both expose the same
// path shapes and the same numbered-field document convention.
type Client struct {
	MealBaseURL  string
	DrinkBaseURL string
	HTTP         *http.Client
	Log          *zap.Logger
}

func NewClient(mealBase, drinkBase string, log *zap.Logger) *Client {
	return &Client{
		MealBaseURL:  mealBase,
		DrinkBaseURL: drinkBase,
		HTTP:         &http.Client{Timeout: 10 * time.Second},
		Log:          log,
	}
}

func (c *Client) SearchMeals(ctx context.Context, query string) ([]Meal, error) {
	return c.fetch(ctx, c.MealBaseURL+"/search.php?s="+url.QueryEscape(query), "meals")
}

func (c *Client) MealsByCategory(ctx context.Context, category string) ([]Meal, error) {
	return c.fetch(ctx, c.MealBaseURL+"/filter.php?c="+url.QueryEscape(category), "meals")
}

func (c *Client) MealsByArea(ctx context.Context, area string) ([]Meal, error) {
	return c.fetch(ctx, c.MealBaseURL+"/filter.php?a="+url.QueryEscape(area), "meals")
}

func (c *Client) MealByID(ctx context.Context, id string) (*Meal, error) {
	meals, err := c.fetch(ctx, c.MealBaseURL+"/lookup.php?i="+url.QueryEscape(id), "meals")
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return &meals[0], nil
}

func (c *Client) RandomMeal(ctx context.Context) (*Meal, error) {
	meals, err := c.fetch(ctx, c.MealBaseURL+"/random.php", "meals")
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return &meals[0], nil
}

func (c *Client) SearchDrinks(ctx context.Context, query string) ([]Meal, error) {
	return c.fetch(ctx, c.DrinkBaseURL+"/search.php?s="+url.QueryEscape(query), "drinks")
}

func (c *Client) DrinkByID(ctx context.Context, id string) (*Meal, error) {
	drinks, err := c.fetch(ctx, c.DrinkBaseURL+"/lookup.php?i="+url.QueryEscape(id), "drinks")
	if err != nil {
		return nil, err
	}
	if len(drinks) == 0 {
		return nil, nil
	}
	return &drinks[0], nil
}

func (c *Client) fetch(ctx context.Context, rawURL, listKey string) ([]Meal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var doc map[string][]map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: bad payload: %v", ErrUnavailable, err)
	}

	rows := doc[listKey]
	out := make([]Meal, 0, len(rows))
	for _, row := range rows {
		out = append(out, buildMeal(row))
	}
	return out, nil
}

// buildMeal tolerates the three document shapes the catalogs return:
// full meal, full drink, and the thin filter.php rows.
func buildMeal(row map[string]any) Meal {
	str := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := row[k].(string); ok && v != "" {
				return v
			}
		}
		return ""
	}

	m := Meal{
		ID:           str("idMeal", "idDrink"),
		Name:         str("strMeal", "strDrink"),
		Category:     str("strCategory"),
		Area:         str("strArea"),
		Instructions: str("strInstructions"),
		Thumbnail:    str("strMealThumb", "strDrinkThumb"),
		YoutubeURL:   str("strYoutube"),
	}

	for i := 1; i <= numberedFields; i++ {
		name := str(fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		m.Ingredients = append(m.Ingredients, Ingredient{
			Name:    name,
			Measure: str(fmt.Sprintf("strMeasure%d", i)),
		})
	}
	return m
}
