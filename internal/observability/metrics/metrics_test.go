package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveWorkflow(t *testing.T) {
	before := testutil.ToFloat64(workflowOutcomes.WithLabelValues("allocation_delete", "not_found"))
	ObserveWorkflow("allocation_delete", "not_found")
	after := testutil.ToFloat64(workflowOutcomes.WithLabelValues("allocation_delete", "not_found"))
	assert.Equal(t, before+1, after)
}

func TestHTTPMetricsMiddlewareRecordsStatus(t *testing.T) {
	h := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/brew", "418"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/brew", "418")))
}

func TestObserveGatewayCall(t *testing.T) {
	before := testutil.ToFloat64(gatewayCalls.WithLabelValues("allocation", "add", "ok"))
	ObserveGatewayCall("allocation", "add", "ok", 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(gatewayCalls.WithLabelValues("allocation", "add", "ok")))
}
