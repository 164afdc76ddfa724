package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannybechar/allocation-tracker/schema"
)

func TestRecordRun(t *testing.T) {
	runsBefore := testutil.ToFloat64(RunsTotal)
	overBefore := testutil.ToFloat64(ExceptionsTotal.WithLabelValues("OVER"))

	RecordRun([]schema.Exception{
		{Kind: schema.OverKind},
		{Kind: schema.OverKind},
		{Kind: schema.VacationKind},
	}, 5, 20*time.Millisecond)

	assert.Equal(t, runsBefore+1, testutil.ToFloat64(RunsTotal))
	assert.Equal(t, overBefore+2, testutil.ToFloat64(ExceptionsTotal.WithLabelValues("OVER")))
	assert.Equal(t, 2.0, testutil.ToFloat64(ExceptionsLastRun.WithLabelValues("OVER")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ExceptionsLastRun.WithLabelValues("VACATION")))
	assert.Equal(t, 0.0, testutil.ToFloat64(ExceptionsLastRun.WithLabelValues("UNDER")))
	assert.Equal(t, 5.0, testutil.ToFloat64(EmployeesAnalyzed))

	// A second run replaces the last-run gauges.
	RecordRun(nil, 3, time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(ExceptionsLastRun.WithLabelValues("OVER")))
	assert.Equal(t, 3.0, testutil.ToFloat64(EmployeesAnalyzed))
}

func TestHandler(t *testing.T) {
	RecordRun(nil, 1, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "alloctrack_analysis_runs_total")
	assert.Contains(t, body, "alloctrack_employees_analyzed")
}

func TestPush(t *testing.T) {
	var gotPath string
	var gotBody string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	RecordRun(nil, 2, time.Millisecond)
	require.NoError(t, Push(context.Background(), gateway.URL, "alloctrack"))
	assert.Equal(t, "/metrics/job/alloctrack", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPushFailure(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gateway.Close()

	err := Push(context.Background(), gateway.URL, "alloctrack")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), gateway.URL))
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
