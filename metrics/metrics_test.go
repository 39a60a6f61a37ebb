package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HSouheill/admarket_backend/workflow"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReason(t *testing.T) {
	tests := map[error]string{
		workflow.ErrInvalidDecision:                       "validation",
		fmt.Errorf("%w: x", workflow.ErrReferentNotFound): "not_found",
		fmt.Errorf("%w: x", workflow.ErrNotAuthorized):    "not_authorized",
		workflow.ErrInvalidTransition:                     "invalid_transition",
		fmt.Errorf("wrapped: %w", workflow.ErrStaleState): "stale_state",
		errors.New("connection reset"):                    "internal",
	}
	for err, want := range tests {
		assert.Equal(t, want, Reason(err), err.Error())
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	RecordTransition(workflow.ActionEmployeeReview, "employee_review", "client_review")
	RecordRejection(workflow.ActionClientReview, workflow.ErrStaleState)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `admarket_applications_transitions_total{action="employee_review_decision",from="employee_review",to="client_review"}`)
	assert.Contains(t, body, `admarket_applications_rejected_transitions_total{action="client_review_decision",reason="stale_state"}`)
}

func TestMiddlewareRecordsRenderedStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	families, err := Registry.Gather()
	require.NoError(t, err)
	found := false
	for _, family := range families {
		if family.GetName() != "admarket_http_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["path"] == "/teapot" && labels["status"] == "418" {
				found = true
			}
		}
	}
	assert.True(t, found, "request counted with the rendered status")
}
