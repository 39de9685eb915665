package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnLimiterAllowsUpToBurstThenThrottles(t *testing.T) {
	cl := newConnLimiter(0, 2) // zero refill rate: burst is the whole budget
	c := &connection{}

	assert.True(t, cl.allow(c))
	assert.True(t, cl.allow(c))
	assert.False(t, cl.allow(c))
}

func TestConnLimiterTracksConnectionsIndependently(t *testing.T) {
	cl := newConnLimiter(0, 1)
	a := &connection{}
	b := &connection{}

	assert.True(t, cl.allow(a))
	assert.False(t, cl.allow(a))
	assert.True(t, cl.allow(b))
}

func TestConnLimiterForgetResetsBudget(t *testing.T) {
	cl := newConnLimiter(0, 1)
	c := &connection{}

	assert.True(t, cl.allow(c))
	assert.False(t, cl.allow(c))

	cl.forget(c)

	assert.True(t, cl.allow(c))
}
