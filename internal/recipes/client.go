// Package recipes is a thin client for the Spoonacular API. Every failure
// is folded into ErrUnavailable so callers can degrade to "no recipes
// found" instead of crashing a page.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"larder/internal/config"
)

// ErrUnavailable wraps every transport and HTTP-level failure from the
// recipe API.
var ErrUnavailable = errors.New("recipe service unavailable")

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// Recipe is one search result from findByIngredients.
type Recipe struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

// Ingredient is one entry of a recipe's extended ingredient list.
type Ingredient struct {
	Name string `json:"name"`
}

// Details is the subset of /recipes/{id}/information the app renders.
// Instructions arrive as HTML-escaped markup and are cleaned before use.
type Details struct {
	ExtendedIngredients []Ingredient `json:"extendedIngredients"`
	Instructions        string       `json:"instructions"`
	ReadyInMinutes      int          `json:"readyInMinutes"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(cfg.SpoonacularBaseURL, "/"),
		apiKey:     cfg.SpoonacularAPIKey,
	}
}

// FindByIngredients searches for recipes that use the given ingredients.
func (c *Client) FindByIngredients(ctx context.Context, ingredients []string, number int) ([]Recipe, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("ingredients", strings.Join(ingredients, ","))
	params.Set("number", fmt.Sprintf("%d", number))

	endpoint := fmt.Sprintf("%s/recipes/findByIngredients?%s", c.baseURL, params.Encode())

	var recipes []Recipe
	if err := c.get(ctx, endpoint, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Information fetches the full details for a single recipe and cleans the
// instruction markup for plain-text display.
func (c *Client) Information(ctx context.Context, recipeID int) (*Details, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)

	endpoint := fmt.Sprintf("%s/recipes/%d/information?%s", c.baseURL, recipeID, params.Encode())

	details := &Details{}
	if err := c.get(ctx, endpoint, details); err != nil {
		return nil, err
	}

	details.Instructions = stripHTML(details.Instructions)
	return details, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// stripHTML unescapes entities and replaces tags with spaces, collapsing
// the result to single-spaced text.
func stripHTML(s string) string {
	s = html.UnescapeString(s)
	s = htmlTagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
