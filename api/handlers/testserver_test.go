package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"hostgenie-api/core/draft"
	"hostgenie-api/core/editor"
	"hostgenie-api/core/footer"
	"hostgenie-api/core/interfaces"
	"hostgenie-api/core/patch"
	"hostgenie-api/core/site"
	memcache "hostgenie-api/infrastructure/cache/memory"
	memstore "hostgenie-api/infrastructure/storage/memory"
	"hostgenie-api/pkg/featureflags"
)

const (
	testAppURL = "https://hostgenie.test"
	testDoc    = `<html><head><title>Bakery</title></head><body><h1 id="title">Hello</h1><p>one</p></body></html>`
)

type stubGenerator struct {
	html string
	err  error
}

func (g stubGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	return g.html, g.err
}

type testServer struct {
	router http.Handler
	store  *editor.Store
	sites  *memstore.SiteStore
	flags  *featureflags.StaticManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	sites := memstore.NewSiteStore()
	deps := interfaces.Dependencies{
		Cache:  memcache.NewMemoryCache(),
		Sites:  sites,
		Logger: interfaces.NopLogger{},
	}
	siteSvc := site.NewService(deps, footer.New(testAppURL, "", ""))
	store := editor.NewStore(time.Hour, nil)
	t.Cleanup(store.Close)
	flags := featureflags.NewStaticManager(featureflags.Defaults())

	edeps := editor.Deps{
		Engine:        patch.NewEngine(patch.DefaultFontCatalog(), nil),
		Sites:         siteSvc,
		Drafts:        draft.NewService(deps, time.Hour),
		Generator:     stubGenerator{html: "<html><head><title>Generated</title></head><body><p>new</p></body></html>"},
		AutosaveDelay: 10 * time.Millisecond,
	}

	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("HostGenie API", "1.0.0"))
	NewSessionHandler(store, edeps, flags, testAppURL).RegisterRoutes(api)
	siteHandler := NewSiteHandler(siteSvc, flags, testAppURL, nil)
	siteHandler.RegisterRoutes(api)
	siteHandler.RegisterPublicRoutes(router)
	NewPreviewHandler(store, flags, nil).RegisterRoutes(router)

	return &testServer{router: router, store: store, sites: sites, flags: flags}
}

func (ts *testServer) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.([]byte); ok {
			buf.Write(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// openSession creates a session for user-1 over testDoc
func (ts *testServer) openSession(t *testing.T) editor.State {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/sessions", "user-1", map[string]string{"document": testDoc})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[editor.State](t, rec)
}
