package routes

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/any-hub/static-hub/internal/cache"
	"github.com/any-hub/static-hub/internal/config"
	"github.com/any-hub/static-hub/internal/server"
)

type fakeStats map[string]cache.Stats

func (f fakeStats) SiteStats(name string) (cache.Stats, bool) {
	s, ok := f[name]
	return s, ok
}

func newSitesApp(t *testing.T, stats StatsProvider) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		Global: config.GlobalConfig{ListenPort: 5000, Gzip: true},
		Sites: []config.SiteConfig{
			{Name: "web", Domain: "Static.Local", Mount: "/", Type: config.SiteTypeDirectory, Path: "/srv/web"},
			{Name: "favicon", Domain: "static.local", Mount: "/favicon.ico", Type: config.SiteTypeFile, Path: "/srv/favicon.ico"},
		},
	}
	registry, err := server.NewSiteRegistry(cfg)
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}

	app := fiber.New()
	RegisterSiteRoutes(app, registry, stats)
	return app
}

func TestSitesEndpointListsSitesWithStats(t *testing.T) {
	app := newSitesApp(t, fakeStats{"web": {Entries: 2, Hits: 7, Refreshes: 2}})

	resp, err := app.Test(httptest.NewRequest("GET", "/-/sites", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Sites []sitePayload `json:"sites"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(body.Sites) != 2 {
		t.Fatalf("expected 2 sites, got %d", len(body.Sites))
	}
	if body.Sites[0].Name != "favicon" || body.Sites[1].Name != "web" {
		t.Fatalf("expected sites sorted by name, got %s,%s", body.Sites[0].Name, body.Sites[1].Name)
	}
	if body.Sites[0].Stats != nil {
		t.Fatalf("favicon has no stats in provider")
	}
	web := body.Sites[1]
	if web.Stats == nil || web.Stats.Hits != 7 || web.Stats.Entries != 2 {
		t.Fatalf("unexpected web stats: %+v", web.Stats)
	}
	if web.Domain != "static.local" || !web.Gzip || web.Port != 5000 {
		t.Fatalf("unexpected web payload: %+v", web)
	}
}

func TestSiteDetailEndpoint(t *testing.T) {
	app := newSitesApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/-/sites/favicon", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var site sitePayload
	if err := json.NewDecoder(resp.Body).Decode(&site); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if site.Type != config.SiteTypeFile || site.Mount != "/favicon.ico" {
		t.Fatalf("unexpected site payload: %+v", site)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/-/sites/missing", nil))
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown site, got %d", resp.StatusCode)
	}
}
