package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"recipegrip/internal/domain"
	"recipegrip/internal/paging"
)

const (
	// DefaultBaseURL is the public Edamam recipe search endpoint
	DefaultBaseURL = "https://api.edamam.com"
	searchPath     = "/search"

	defaultTimeout = 10 * time.Second
	// logBodyLimit caps the number of response bytes logged for debugging
	logBodyLimit = 2048
)

// ErrMissingCredentials means no app id or key has been configured
var ErrMissingCredentials = errors.New("edamam app_id and app_key are not configured")

// EdamamConfig holds the credentials and limits for the recipe API
type EdamamConfig struct {
	BaseURL string
	AppID   string
	AppKey  string
	Timeout time.Duration
	// RequestsPerMinute throttles outgoing requests; 0 disables throttling
	RequestsPerMinute int
}

// Edamam fetches recipe pages from the Edamam search API
type Edamam struct {
	baseURL string
	appID   string
	appKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewEdamam creates an Edamam page source. A nil client gets a default one
// using cfg.Timeout.
func NewEdamam(cfg EdamamConfig, client *http.Client, logger *zap.Logger) *Edamam {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	e := &Edamam{
		baseURL: baseURL,
		appID:   strings.TrimSpace(cfg.AppID),
		appKey:  strings.TrimSpace(cfg.AppKey),
		client:  client,
		logger:  logger.Named("edamam"),
	}
	if cfg.RequestsPerMinute > 0 {
		// Allow a short burst so a quick double keypress is not delayed
		burst := min(cfg.RequestsPerMinute, 3)
		e.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), burst)
	}
	return e
}

// searchResponse models the JSON payload returned by the search endpoint
type searchResponse struct {
	Q     string `json:"q"`
	From  int    `json:"from"`
	To    int    `json:"to"`
	More  bool   `json:"more"`
	Count int    `json:"count"`
	Hits  *[]hit `json:"hits"` // nil when the field is absent
}

type hit struct {
	Recipe *recipePayload `json:"recipe"`
}

type recipePayload struct {
	URI             string              `json:"uri"`
	Label           string              `json:"label"`
	Image           string              `json:"image"`
	Source          string              `json:"source"`
	URL             string              `json:"url"`
	Yield           float64             `json:"yield"`
	Calories        float64             `json:"calories"`
	TotalTime       float64             `json:"totalTime"`
	DietLabels      []string            `json:"dietLabels"`
	HealthLabels    []string            `json:"healthLabels"`
	IngredientLines []string            `json:"ingredientLines"`
	Ingredients     []ingredientPayload `json:"ingredients"`
}

type ingredientPayload struct {
	Text     string  `json:"text"`
	Quantity float64 `json:"quantity"`
	Measure  string  `json:"measure"`
	Food     string  `json:"food"`
	Weight   float64 `json:"weight"`
}

// FetchPage requests hits offset..offset+limit for query
func (e *Edamam) FetchPage(ctx context.Context, query string, offset, limit int) ([]domain.Recipe, error) {
	if offset < 0 || limit < 1 {
		return nil, &paging.TransportError{
			Op:  "edamam search",
			Err: errors.Errorf("invalid range offset=%d limit=%d", offset, limit),
		}
	}
	if e.appID == "" || e.appKey == "" {
		return nil, &paging.TransportError{Op: "edamam search", Err: ErrMissingCredentials}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, &paging.TransportError{Op: "edamam rate limit", Err: err}
		}
	}

	op := "GET " + searchPath
	req, err := e.newRequest(ctx, query, offset, limit)
	if err != nil {
		return nil, &paging.TransportError{Op: op, Err: err}
	}

	e.logger.Debug("outgoing http request",
		zap.String("query", query),
		zap.Int("from", offset),
		zap.Int("to", offset+limit))

	startAt := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &paging.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &paging.TransportError{Op: op, Err: errors.Wrap(err, "read response body")}
	}

	truncatedBody, truncated := truncateForLog(body, logBodyLimit)
	e.logger.Debug("incoming http response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Bool("body_truncated", truncated),
		zap.Duration("cost", time.Since(startAt)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e.logger.Warn("edamam returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncatedBody))
		return nil, &paging.TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	return decodeHits(body, limit)
}

func (e *Edamam) newRequest(ctx context.Context, query string, offset, limit int) (*http.Request, error) {
	u, err := url.Parse(e.baseURL + searchPath)
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %q", e.baseURL)
	}
	params := url.Values{}
	params.Set("app_id", e.appID)
	params.Set("app_key", e.appKey)
	params.Set("q", query)
	params.Set("from", strconv.Itoa(offset))
	params.Set("to", strconv.Itoa(offset+limit))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "create request to %s", searchPath)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func decodeHits(body []byte, limit int) ([]domain.Recipe, error) {
	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &paging.MalformedResponseError{Reason: "invalid json", Err: err}
	}
	if payload.Hits == nil {
		return nil, &paging.MalformedResponseError{Reason: "missing hits"}
	}

	hits := *payload.Hits
	if len(hits) > limit {
		hits = hits[:limit]
	}
	recipes := make([]domain.Recipe, 0, len(hits))
	for i, h := range hits {
		if h.Recipe == nil {
			return nil, &paging.MalformedResponseError{Reason: fmt.Sprintf("hit %d has no recipe", i)}
		}
		recipes = append(recipes, h.Recipe.toDomain())
	}
	return recipes, nil
}

func (p *recipePayload) toDomain() domain.Recipe {
	r := domain.Recipe{
		URI:             p.URI,
		Label:           p.Label,
		Image:           p.Image,
		Source:          p.Source,
		URL:             p.URL,
		Yield:           p.Yield,
		Calories:        p.Calories,
		TotalTime:       p.TotalTime,
		DietLabels:      p.DietLabels,
		HealthLabels:    p.HealthLabels,
		IngredientLines: p.IngredientLines,
	}
	if len(p.Ingredients) > 0 {
		r.Ingredients = make([]domain.Ingredient, len(p.Ingredients))
		for i, ing := range p.Ingredients {
			r.Ingredients[i] = domain.Ingredient(ing)
		}
	}
	return r
}

func truncateForLog(body []byte, limit int) (string, bool) {
	if len(body) <= limit {
		return string(body), false
	}
	return string(body[:limit]), true
}
