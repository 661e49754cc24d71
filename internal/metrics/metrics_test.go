package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))

	RecordHTTPRequest("get", "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecordStoreOperationOutcome(t *testing.T) {
	ok := testutil.ToFloat64(storeOperations.WithLabelValues("people", "find", "success"))
	failed := testutil.ToFloat64(storeOperations.WithLabelValues("people", "find", "error"))

	RecordStoreOperation("people", "find", time.Millisecond, nil)
	RecordStoreOperation("people", "find", time.Millisecond, errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(storeOperations.WithLabelValues("people", "find", "success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(storeOperations.WithLabelValues("people", "find", "error")))
}

func TestTrackInFlight(t *testing.T) {
	done := TrackInFlight()
	assert.Equal(t, float64(1), testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordPersonCreated()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "people_created_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
