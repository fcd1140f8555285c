package routes_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/cookie"
	"github.com/dukerupert/addressbook/internal/form"
	"github.com/dukerupert/addressbook/internal/handler"
	"github.com/dukerupert/addressbook/internal/handler/api"
	"github.com/dukerupert/addressbook/internal/handler/page"
	"github.com/dukerupert/addressbook/internal/middleware"
	"github.com/dukerupert/addressbook/internal/router"
	"github.com/dukerupert/addressbook/internal/routes"
	"github.com/dukerupert/addressbook/internal/session"
	"github.com/dukerupert/addressbook/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// HELPERS
// =============================================================================

type testApp struct {
	server   *httptest.Server
	client   *http.Client
	sessions *session.Registry
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	renderer, err := handler.NewRenderer("../../web/templates")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	bm := telemetry.NewBusinessMetrics("test", reg)
	httpMetrics := middleware.NewMetrics("test", reg)
	finder := address.NewService(0, nil, bm)
	sessions := session.NewRegistry(time.Hour, bm)
	cookies := cookie.NewConfig("", false, time.Hour)

	r := router.New(
		middleware.RequestID,
		httpMetrics.Middleware,
	)
	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		Metrics:   httpMetrics.Handler(),
		StaticDir: "../../web/static",
	})

	routes.RegisterLookupRoutes(r, routes.APIDeps{
		LookupHandler: api.NewLookupHandler(finder, nil),
	})

	app := r.Group(
		middleware.Session(middleware.SessionConfig{Registry: sessions, Cookies: cookies}),
		middleware.CSRF(middleware.DefaultCSRFConfig()),
	)
	routes.RegisterPageRoutes(app, routes.PageDeps{
		Handler: page.NewHandler(finder, renderer, bm, nil),
	})
	routes.RegisterAPIRoutes(app)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		server:   srv,
		client:   &http.Client{Jar: jar},
		sessions: sessions,
	}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, path string, values url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, values)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

var csrfField = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// csrfToken loads the page and returns the token embedded in its forms.
func (a *testApp) csrfToken(t *testing.T) string {
	t.Helper()
	_, body := a.get(t, "/")
	m := csrfField.FindStringSubmatch(body)
	require.Len(t, m, 2, "no csrf field in page")
	return m[1]
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// =============================================================================
// TESTS
// =============================================================================

func TestFormFlow(t *testing.T) {
	app := newTestApp(t)
	candidates := address.Synthesize("1234", "10")

	resp, body := app.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Find an address")
	assert.Equal(t, 1, app.sessions.Len())

	token := app.csrfToken(t)

	// The redirect after each post is followed back to the page.
	resp, body = app.post(t, "/find", url.Values{
		form.PostCode:                {"1234"},
		form.HouseNumber:             {"10"},
		middleware.CSRFFormFieldName: {token},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	for _, c := range candidates {
		assert.Contains(t, body, c.Street)
	}

	resp, body = app.post(t, "/addressbook", url.Values{
		form.SelectedAddress:         {candidates[0].ID},
		form.FirstName:               {"Ada"},
		form.LastName:                {"Lovelace"},
		middleware.CSRFFormFieldName: {token},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ada Lovelace")

	resp, body = app.get(t, "/api/addressbook")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var book api.AddressBookResponse
	require.NoError(t, json.Unmarshal([]byte(body), &book))
	require.Len(t, book.Entries, 1)
	assert.Equal(t, candidates[0], book.Entries[0].Address)

	resp, body = app.post(t, "/clear", url.Values{middleware.CSRFFormFieldName: {token}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, candidates[1].Street, "results are cleared")
	assert.Contains(t, body, "Ada Lovelace", "the book survives a clear")

	assert.Equal(t, 1, app.sessions.Len(), "one browser keeps one session")
}

func TestFormFlow_RejectsMissingCSRFToken(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.post(t, "/find", url.Values{
		form.PostCode:    {"1234"},
		form.HouseNumber: {"10"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSessionsAreIsolated(t *testing.T) {
	app := newTestApp(t)
	candidates := address.Synthesize("1234", "10")

	app.get(t, "/")
	token := app.csrfToken(t)
	app.post(t, "/find", url.Values{
		form.PostCode:                {"1234"},
		form.HouseNumber:             {"10"},
		middleware.CSRFFormFieldName: {token},
	})
	app.post(t, "/addressbook", url.Values{
		form.SelectedAddress:         {candidates[0].ID},
		form.FirstName:               {"Ada"},
		form.LastName:                {"Lovelace"},
		middleware.CSRFFormFieldName: {token},
	})

	// A second browser with its own cookie jar.
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	other := &http.Client{Jar: jar}

	resp, err := other.Get(app.server.URL + "/api/addressbook")
	require.NoError(t, err)
	assert.JSONEq(t, `{"entries":[]}`, readBody(t, resp))
	assert.Equal(t, 2, app.sessions.Len())
}

func TestGetAddressesRoute(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		query      string
		wantStatus int
		wantBody   string
	}{
		{"postcode=1234&streetnumber=10", http.StatusOK, `"status":"ok"`},
		{"postcode=&streetnumber=10", http.StatusBadRequest, "Postcode and street number fields mandatory!"},
		{"postcode=0000&streetnumber=10", http.StatusNotFound, "No results found!"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := app.get(t, address.LookupPath+"?"+tt.query)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Contains(t, body, tt.wantBody)
		})
	}
}

func TestGetAddressesRoute_DoesNotCreateSessions(t *testing.T) {
	app := newTestApp(t)
	plain := &http.Client{}

	for range 50 {
		resp, err := plain.Get(app.server.URL + address.LookupPath + "?postcode=1234&streetnumber=10")
		require.NoError(t, err)
		readBody(t, resp)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Values("Set-Cookie"))
	}

	assert.Equal(t, 0, app.sessions.Len())
}

func TestGetAddressesRoute_MethodNotAllowed(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.client.Post(app.server.URL+address.LookupPath, "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestOpsRoutes(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)

	app.get(t, "/")
	resp, body = app.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "test_")

	resp, _ = app.get(t, "/static/app.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.get(t, "/static/")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = app.get(t, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
