package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestClipsRemovedByReason(t *testing.T) {
	before := testutil.ToFloat64(ClipsRemoved.WithLabelValues("cascade"))
	ClipsRemoved.WithLabelValues("cascade").Add(3)
	assert.Equal(t, before+3, testutil.ToFloat64(ClipsRemoved.WithLabelValues("cascade")))
}

func TestRequestsLabels(t *testing.T) {
	Requests.WithLabelValues("/login", "401").Inc()
	assert.GreaterOrEqual(t, testutil.ToFloat64(Requests.WithLabelValues("/login", "401")), 1.0)
}
