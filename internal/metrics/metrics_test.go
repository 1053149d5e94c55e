package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordRequest_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))

	RequestStarted()
	RecordRequest("get", "", 404, 3*time.Millisecond)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordRequest_BalancesInFlight(t *testing.T) {
	before := testutil.ToFloat64(httpInFlight)
	RequestStarted()
	assert.Equal(t, before+1, testutil.ToFloat64(httpInFlight))
	RecordRequest("POST", "/api/v1/jobs/:jobId/applications", 201, time.Millisecond)
	assert.Equal(t, before, testutil.ToFloat64(httpInFlight))
}

func TestApplicationCounters(t *testing.T) {
	newBefore := testutil.ToFloat64(applicationsSubmitted.WithLabelValues("new"))
	reapplyBefore := testutil.ToFloat64(applicationsSubmitted.WithLabelValues("reapply"))

	RecordApplicationSubmitted(false)
	RecordApplicationSubmitted(true)
	RecordApplicationSubmitted(true)

	assert.Equal(t, newBefore+1, testutil.ToFloat64(applicationsSubmitted.WithLabelValues("new")))
	assert.Equal(t, reapplyBefore+2, testutil.ToFloat64(applicationsSubmitted.WithLabelValues("reapply")))
}

func TestCacheLookups(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
}

func TestSetLiveClients(t *testing.T) {
	SetLiveClients(7)
	assert.Equal(t, float64(7), testutil.ToFloat64(liveClients))
}
