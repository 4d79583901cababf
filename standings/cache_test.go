package standings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/apdarank/models"
)

func TestSiteCacheRequests(t *testing.T) {
	type hit struct {
		method string
		path   string
		query  string
	}
	var hits []hit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, hit{r.Method, r.URL.Path, r.URL.RawQuery})
	}))
	defer srv.Close()

	c := NewSiteCache(srv.URL + "/")
	ctx := context.Background()
	require.NoError(t, c.Invalidate(ctx, models.TOTY, "2024"))
	require.NoError(t, c.Warm(ctx, "2024"))

	require.Len(t, hits, 2)
	assert.Equal(t, hit{http.MethodPost, "/cache/invalidate", "type=toty&season=2024"}, hits[0])
	assert.Equal(t, hit{http.MethodGet, "/standings/2024", ""}, hits[1])
}

func TestSiteCacheErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSiteCache(srv.URL)
	err := c.Warm(context.Background(), "2024")
	assert.Error(t, err)
}
