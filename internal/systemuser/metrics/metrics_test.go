package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	t.Run("problem counter is labelled by operation and code", func(t *testing.T) {
		before := testutil.ToFloat64(problems.WithLabelValues("create", "AUTH-00007"))
		RecordProblem("create", "AUTH-00007")
		assert.Equal(t, before+1, testutil.ToFloat64(problems.WithLabelValues("create", "AUTH-00007")))
	})

	t.Run("delegation checks split by result", func(t *testing.T) {
		before := testutil.ToFloat64(delegationChecks.WithLabelValues("not_delegable"))
		RecordDelegationCheck(false)
		assert.Equal(t, before+1, testutil.ToFloat64(delegationChecks.WithLabelValues("not_delegable")))
	})

	t.Run("created counter increments", func(t *testing.T) {
		before := testutil.ToFloat64(requestsCreated)
		RecordRequestCreated()
		assert.Equal(t, before+1, testutil.ToFloat64(requestsCreated))
	})

	t.Run("latency histogram accepts observations", func(t *testing.T) {
		RecordAPILatency("/api/v1/systemuser/request/vendor", "POST", "201", 15*time.Millisecond)
		assert.Equal(t, 1, testutil.CollectAndCount(apiLatency, "systemuser_api_latency_seconds"))
	})
}
