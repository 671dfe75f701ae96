package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipegrip/internal/paging"
)

const samplePayload = `{
  "q": "chicken",
  "from": 0,
  "to": 2,
  "more": true,
  "count": 7000,
  "hits": [
    {"recipe": {
      "uri": "http://www.edamam.com/ontologies/edamam.owl#recipe_b79327d05b8e5b838ad6cfd9576b30b6",
      "label": "Chicken Vesuvio",
      "image": "https://example.com/vesuvio.jpg",
      "source": "Serious Eats",
      "url": "http://www.seriouseats.com/recipes/2011/12/chicken-vesuvio-recipe.html",
      "yield": 4,
      "calories": 4228.043058200812,
      "totalTime": 60,
      "dietLabels": ["Low-Carb"],
      "healthLabels": ["Sugar-Conscious", "Peanut-Free"],
      "ingredientLines": ["1/2 cup olive oil", "5 cloves garlic, peeled", "2 large russet potatoes"],
      "ingredients": [
        {"text": "1/2 cup olive oil", "quantity": 0.5, "measure": "cup", "food": "olive oil", "weight": 108},
        {"text": "5 cloves garlic, peeled", "quantity": 5, "measure": "clove", "food": "garlic", "weight": 15}
      ]
    }},
    {"recipe": {
      "uri": "http://www.edamam.com/ontologies/edamam.owl#recipe_8275bb28647abcedef0baaf2dcf34f8b",
      "label": "Chicken Paprikash",
      "source": "No Recipes",
      "calories": 3033.2012500008163,
      "ingredientLines": ["640 grams chicken", "1 onion", "2 tomatoes", "1 tbsp paprika"]
    }}
  ]
}`

type recordedRequest struct {
	mu    sync.Mutex
	query []url.Values
	path  []string
}

func (r *recordedRequest) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.query = append(r.query, req.URL.Query())
	r.path = append(r.path, req.URL.Path)
}

func (r *recordedRequest) last() (string, url.Values) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path[len(r.path)-1], r.query[len(r.query)-1]
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestEdamam(baseURL string) *Edamam {
	return NewEdamam(EdamamConfig{
		BaseURL: baseURL,
		AppID:   "test-id",
		AppKey:  "test-key",
		Timeout: 2 * time.Second,
	}, nil, nil)
}

func TestEdamamFetchPage(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, samplePayload)
	e := newTestEdamam(srv.URL + "/")

	recipes, err := e.FetchPage(context.Background(), "chicken", 20, 10)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	path, q := rec.last()
	assert.Equal(t, "/search", path)
	assert.Equal(t, "test-id", q.Get("app_id"))
	assert.Equal(t, "test-key", q.Get("app_key"))
	assert.Equal(t, "chicken", q.Get("q"))
	assert.Equal(t, "20", q.Get("from"))
	assert.Equal(t, "30", q.Get("to"), "to is exclusive")

	v := recipes[0]
	assert.Equal(t, "Chicken Vesuvio", v.Label)
	assert.Equal(t, "b79327d05b8e5b838ad6cfd9576b30b6", v.ID())
	assert.Equal(t, "Serious Eats", v.Source)
	assert.InDelta(t, 4228.04, v.Calories, 0.01)
	assert.Equal(t, 60.0, v.TotalTime)
	assert.Equal(t, []string{"Low-Carb"}, v.DietLabels)
	require.Len(t, v.Ingredients, 2)
	assert.Equal(t, "garlic", v.Ingredients[1].Food)
	assert.Equal(t, 2, v.IngredientCount())

	p := recipes[1]
	assert.Empty(t, p.Ingredients)
	assert.Equal(t, 4, p.IngredientCount(), "falls back to ingredient lines")
}

func TestEdamamTruncatesOversizedPage(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, samplePayload)
	e := newTestEdamam(srv.URL)

	recipes, err := e.FetchPage(context.Background(), "chicken", 0, 1)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Chicken Vesuvio", recipes[0].Label)
}

func TestEdamamEmptyHits(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"q":"zzz","from":0,"to":0,"count":0,"hits":[]}`)
	recipes, err := newTestEdamam(srv.URL).FetchPage(context.Background(), "zzz", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestEdamamErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		transport bool
		malformed bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"status":"error"}`, transport: true},
		{name: "throttled", status: http.StatusTooManyRequests, body: `Too many requests`, transport: true},
		{name: "server error", status: http.StatusInternalServerError, body: ``, transport: true},
		{name: "invalid json", status: http.StatusOK, body: `{"hits": [`, malformed: true},
		{name: "missing hits", status: http.StatusOK, body: `{"q":"x","count":3}`, malformed: true},
		{name: "hit without recipe", status: http.StatusOK, body: `{"hits":[{"recipe":null}]}`, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			_, err := newTestEdamam(srv.URL).FetchPage(context.Background(), "x", 0, 10)
			require.Error(t, err)
			assert.Equal(t, tt.transport, paging.IsTransport(err), err.Error())
			assert.Equal(t, tt.malformed, paging.IsMalformed(err), err.Error())

			if tt.transport {
				var te *paging.TransportError
				require.True(t, errors.As(err, &te))
				assert.Equal(t, tt.status, te.StatusCode)
			}
		})
	}
}

func TestEdamamNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	_, err := newTestEdamam(baseURL).FetchPage(context.Background(), "x", 0, 10)
	require.Error(t, err)
	var te *paging.TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
}

func TestEdamamRequestErrorsAreTransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		offset  int
		limit   int
	}{
		{name: "negative offset", baseURL: "http://localhost", offset: -1, limit: 10},
		{name: "zero limit", baseURL: "http://localhost", offset: 0, limit: 0},
		{name: "unparseable base url", baseURL: "http://[::1", offset: 0, limit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestEdamam(tt.baseURL).FetchPage(context.Background(), "x", tt.offset, tt.limit)
			require.Error(t, err)
			assert.True(t, paging.IsTransport(err), "got %T: %v", err, err)
			assert.False(t, paging.IsMalformed(err))
		})
	}
}

func TestEdamamMissingCredentials(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, samplePayload)
	e := NewEdamam(EdamamConfig{BaseURL: srv.URL}, nil, nil)

	_, err := e.FetchPage(context.Background(), "x", 0, 10)
	assert.True(t, errors.Is(err, ErrMissingCredentials))
	assert.Empty(t, rec.path, "no request without credentials")
}

func TestEdamamHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := newTestEdamam(srv.URL).FetchPage(ctx, "x", 0, 10)
		errCh <- err
	}()
	cancel()

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
		assert.True(t, paging.IsTransport(err))
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not return after cancel")
	}
}

func TestEdamamRateLimitWaitRespectsContext(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, samplePayload)
	e := NewEdamam(EdamamConfig{
		BaseURL:           srv.URL,
		AppID:             "id",
		AppKey:            "key",
		RequestsPerMinute: 1,
	}, nil, nil)

	_, err := e.FetchPage(context.Background(), "x", 0, 10)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = e.FetchPage(ctx, "x", 10, 10)
	require.Error(t, err)
	assert.True(t, paging.IsTransport(err))
}

func TestEdamamPayloadShape(t *testing.T) {
	// Guards the hand-written fixture against typos
	var payload searchResponse
	require.NoError(t, json.Unmarshal([]byte(samplePayload), &payload))
	require.NotNil(t, payload.Hits)
	assert.Len(t, *payload.Hits, 2)
	assert.True(t, payload.More)
}
