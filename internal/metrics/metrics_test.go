package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	Enquiries.WithLabelValues("contact", OutcomeAccepted).Inc()
	ContentFetchFailures.WithLabelValues("posts").Inc()
	RelayFailures.Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `lanesite_enquiries_total{kind="contact",outcome="accepted"}`)
	assert.Contains(t, string(body), `lanesite_content_fetch_failures_total{kind="posts"}`)
	assert.Contains(t, string(body), "lanesite_form_relay_failures_total 1")
}
