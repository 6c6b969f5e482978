package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/laneadvisory/lanesite/internal/config"
	"github.com/laneadvisory/lanesite/internal/content"
	"github.com/laneadvisory/lanesite/internal/enquiry"
	"github.com/laneadvisory/lanesite/internal/mail"
	"github.com/laneadvisory/lanesite/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*mail.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg *mail.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeStore struct {
	err error
}

func (f *fakeStore) Query(ctx context.Context, query string, params map[string]any, out any) error {
	if f.err != nil {
		return f.err
	}
	var result string
	switch {
	case strings.Contains(query, `"jobPosting"`):
		result = `[
		  {"id":"j1","title":"Analyst","site":"lane","status":"open","publishedAt":"2026-08-01T00:00:00Z"},
		  {"id":"j2","title":"Filled","site":"lane","status":"closed","publishedAt":"2026-09-01T00:00:00Z"}
		]`
	case strings.Contains(query, "$slug"):
		result = `null`
		if params["slug"] == "hello" {
			result = `{"id":"p1","slug":"hello","title":"Hello","site":"lane","publishedAt":"2026-10-01T00:00:00Z"}`
		}
	default:
		result = `[
		  {"id":"p1","slug":"hello","site":"lane","publishedAt":"2026-10-01T00:00:00Z"},
		  {"id":"p2","slug":"guide","site":"lane","categories":[{"title":"Guides"}],"publishedAt":"2026-09-01T00:00:00Z"},
		  {"id":"p3","slug":"elsewhere","site":"involv","publishedAt":"2026-09-01T00:00:00Z"}
		]`
	}
	return json.Unmarshal([]byte(result), out)
}

func testConfig() *config.Config {
	return &config.Config{
		SiteTag:     "lane",
		AdminAPIKey: "admin-secret",
	}
}

func newTestApp(t *testing.T, cfg *config.Config, sender mail.Sender) *fiber.App {
	t.Helper()
	intake := enquiry.NewService(sender, enquiry.Options{DefaultSite: cfg.SiteTag, PhoneRegion: "AU"})
	posts := content.NewService(&fakeStore{}, nil, 0)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRoutes(app, NewHandlers(cfg, intake, posts))
	return app
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

const contactBody = `{
  "name": "Jane Citizen",
  "email": "jane@example.com",
  "subject": "Tranche 2 readiness",
  "message": "Can you help?",
  "urgency": "medium",
  "site": "lane",
  "to": "enquiries@lane.com.au"
}`

func TestContactAccepted(t *testing.T) {
	sender := &fakeSender{}
	app := newTestApp(t, testConfig(), sender)

	status, body := doJSON(t, app, postJSON("/api/contact", contactBody))

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Contact form submitted successfully", body["message"])
	assert.Equal(t, "medium", body["urgency"])
	assert.NotEmpty(t, body["reference"])
	assert.NotEmpty(t, body["timestamp"])

	require.Len(t, sender.sent, 2)
	assert.Equal(t, []string{"enquiries@lane.com.au"}, sender.sent[0].To)
	assert.Equal(t, []string{"jane@example.com"}, sender.sent[1].To)
	assert.Contains(t, sender.sent[1].Text, "within 1 business day")
}

func TestContactMethodNotAllowed(t *testing.T) {
	app := newTestApp(t, testConfig(), &fakeSender{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		resp, err := app.Test(httptest.NewRequest(method, "/api/careers-enquiry", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
		assert.Equal(t, "POST", resp.Header.Get("Allow"))
		resp.Body.Close()
	}

	status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "Method not allowed", body["message"])
}

func TestContactInvalidBody(t *testing.T) {
	sender := &fakeSender{}
	app := newTestApp(t, testConfig(), sender)

	status, body := doJSON(t, app, postJSON("/api/contact", `{"name":`))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body["message"])
	assert.Empty(t, sender.sent)
}

func TestContactMissingFields(t *testing.T) {
	sender := &fakeSender{}
	app := newTestApp(t, testConfig(), sender)

	status, body := doJSON(t, app, postJSON("/api/contact", `{"name":"Jane","email":"jane@example.com","to":"x@lane.com.au"}`))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required fields", body["message"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "required", fields["subject"])
	assert.Equal(t, "required", fields["message"])
	assert.Empty(t, sender.sent)
}

func TestContactDeliveryFailure(t *testing.T) {
	for _, debug := range []bool{false, true} {
		cfg := testConfig()
		cfg.DebugErrors = debug
		app := newTestApp(t, cfg, &fakeSender{err: errors.New("535 authentication failed")})

		status, body := doJSON(t, app, postJSON("/api/contact", contactBody))

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "Error processing your inquiry. Please try again or contact us directly.", body["message"])
		if debug {
			assert.Contains(t, body["error"], "535")
		} else {
			assert.NotContains(t, body, "error")
		}
	}
}

func TestCareersEnquiryForm(t *testing.T) {
	sender := &fakeSender{}
	app := newTestApp(t, testConfig(), sender)

	form := url.Values{
		"name":             {"Sam Analyst"},
		"email":            {"sam@example.com"},
		"to":               {"careers@lane.com.au"},
		"preferredContact": {"phone"},
		"newsletter":       {"on"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/careers-enquiry", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	status, body := doJSON(t, app, req)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Career enquiry submitted successfully", body["message"])
	assert.NotContains(t, body, "urgency")
	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[0].Text, "Newsletter Subscription: Yes")
	assert.Contains(t, sender.sent[1].Text, "5-7 business days")
}

func TestFormRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitInterval = 1 << 40
	app := newTestApp(t, cfg, &fakeSender{})

	status, _ := doJSON(t, app, postJSON("/api/contact", contactBody))
	assert.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, postJSON("/api/contact", contactBody))
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.NotEmpty(t, body["message"])
}

func TestFormRateLimitIgnoresOtherMethods(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitInterval = 1 << 40
	app := newTestApp(t, cfg, &fakeSender{})

	for _, method := range []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodGet} {
		resp, err := app.Test(httptest.NewRequest(method, "/api/careers-enquiry", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
		resp.Body.Close()
	}

	form := url.Values{"name": {"Sam"}, "email": {"sam@example.com"}, "to": {"careers@lane.com.au"}}
	req := httptest.NewRequest(http.MethodPost, "/api/careers-enquiry", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	status, _ := doJSON(t, app, req)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, postJSON("/api/careers-enquiry", `{"name":"Sam","email":"sam@example.com","to":"careers@lane.com.au"}`))
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestListPosts(t *testing.T) {
	app := newTestApp(t, testConfig(), &fakeSender{})

	status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/posts?limit=10", nil))
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])
	assert.Equal(t, "lane", body["site"])

	status, body = doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/posts?type=whitepaper", nil))
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "guide", data[0].(map[string]any)["slug"])
}

func TestContentSiteAllowList(t *testing.T) {
	app := newTestApp(t, testConfig(), &fakeSender{})

	for _, path := range []string{
		"/api/v1/posts?site=involv",
		"/api/v1/posts/hello?site=involv",
		"/api/v1/jobs?site=involv",
	} {
		status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, "Site not found", body["error"], path)
	}

	status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/posts?site=lane", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])

	cfg := testConfig()
	cfg.AllowedSites = []string{"involv"}
	app = newTestApp(t, cfg, &fakeSender{})

	status, body = doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/posts?site=involv", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "involv", body["site"])
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "elsewhere", data[0].(map[string]any)["slug"])
}

func TestListPostsInvalidQuery(t *testing.T) {
	app := newTestApp(t, testConfig(), &fakeSender{})

	for _, q := range []string{"limit=5000", "type=podcast", "limit=abc"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/posts?"+q, nil), -1)
		require.NoError(t, err)
		assert.Contains(t, []int{http.StatusBadRequest, http.StatusUnprocessableEntity}, resp.StatusCode, q)
		resp.Body.Close()
	}
}

func TestContentOutageReturnsEmpty(t *testing.T) {
	cfg := testConfig()
	intake := enquiry.NewService(&fakeSender{}, enquiry.Options{})
	posts := content.NewService(&fakeStore{err: errors.New("503")}, nil, 0)
	app := fiber.New()
	SetupRoutes(app, NewHandlers(cfg, intake, posts))

	status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["data"])
}

func TestGetPost(t *testing.T) {
	app := newTestApp(t, testConfig(), &fakeSender{})

	status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/posts/hello", nil))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello", body["title"])
	assert.EqualValues(t, 1, body["readingTime"])

	status, _ = doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/posts/missing", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListJobs(t *testing.T) {
	app := newTestApp(t, testConfig(), &fakeSender{})

	status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/jobs?status=open", nil))
	require.Equal(t, http.StatusOK, status)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "j1", data[0].(map[string]any)["id"])

	status, _ = doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/jobs?status=archived", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestRevalidate(t *testing.T) {
	app := newTestApp(t, testConfig(), &fakeSender{})

	status, _ := doJSON(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/admin/revalidate", nil))
	assert.Equal(t, http.StatusUnauthorized, status)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/revalidate", nil)
	req.Header.Set("X-API-Key", "wrong")
	status, _ = doJSON(t, app, req)
	assert.Equal(t, http.StatusForbidden, status)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/revalidate", nil)
	req.Header.Set("Authorization", "Bearer admin-secret")
	status, body := doJSON(t, app, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["revalidated"])
}

func TestHealthAndNotFound(t *testing.T) {
	app := newTestApp(t, testConfig(), &fakeSender{})

	status, body := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = doJSON(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Endpoint not found", body["error"])
}
