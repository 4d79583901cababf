package standings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/padraicbc/apdarank/models"
)

// PageCache is the rendered-standings cache of the public site. The
// engine busts the season/category entry after every ranking pass and
// synchronously re-warms it so readers never see a cold page. Both calls
// are best-effort from the engine's point of view.
type PageCache interface {
	Invalidate(ctx context.Context, category models.Category, season string) error
	Warm(ctx context.Context, season string) error
}

// SiteCache talks to the public standings site over HTTP.
type SiteCache struct {
	base   string
	client *http.Client
}

// NewSiteCache returns a SiteCache rooted at base, e.g.
// "https://standings.apda.online".
func NewSiteCache(base string) *SiteCache {
	return &SiteCache{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Invalidate busts the cached rendering of one season/category table.
func (c *SiteCache) Invalidate(ctx context.Context, category models.Category, season string) error {
	u := fmt.Sprintf("%s/cache/invalidate?type=%s&season=%s",
		c.base, url.QueryEscape(string(category)), url.QueryEscape(season))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

// Warm fetches the public standings page for the season so the next
// reader hits a warm cache.
func (c *SiteCache) Warm(ctx context.Context, season string) error {
	u := fmt.Sprintf("%s/standings/%s", c.base, url.PathEscape(season))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

func (c *SiteCache) do(req *http.Request) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	return nil
}
