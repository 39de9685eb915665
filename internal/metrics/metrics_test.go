package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, name string, labels map[string]string) (float64, bool) {
	t.Helper()
	families, err := Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) && m.GetGauge() != nil {
				return m.GetGauge().GetValue(), true
			}
		}
	}
	return 0, false
}

func histogramCount(t *testing.T, name string, labels map[string]string) (uint64, bool) {
	t.Helper()
	families, err := Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsMatch(m, labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount(), true
			}
		}
	}
	return 0, false
}

func labelsMatch(m *io_prometheus_client.Metric, labels map[string]string) bool {
	if len(labels) == 0 {
		return len(m.GetLabel()) == 0
	}
	matched := 0
	for _, lbl := range m.GetLabel() {
		if v, ok := labels[lbl.GetName()]; ok && v == lbl.GetValue() {
			matched++
		}
	}
	return matched == len(labels)
}

func TestRecordLiveEntitiesSetsPerClassGauge(t *testing.T) {
	RecordLiveEntities(ClassEnemy, 7)
	v, ok := gaugeValue(t, "taisei_sim_live_entities", map[string]string{"class": "enemy"})
	require.True(t, ok)
	assert.Equal(t, 7.0, v)

	RecordLiveEntities(ClassEnemy, 3)
	v, ok = gaugeValue(t, "taisei_sim_live_entities", map[string]string{"class": "enemy"})
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestRecordLiveTasksSetsGauge(t *testing.T) {
	RecordLiveTasks(42)
	v, ok := gaugeValue(t, "taisei_sim_live_tasks", nil)
	require.True(t, ok)
	assert.Equal(t, 42.0, v)
}

func TestObserveFrameDurationRecordsHistogramSample(t *testing.T) {
	before, _ := histogramCount(t, "taisei_sim_frame_duration_seconds", nil)
	ObserveFrameDuration(0.0016)
	after, ok := histogramCount(t, "taisei_sim_frame_duration_seconds", nil)
	require.True(t, ok)
	assert.Equal(t, before+1, after)
}

func TestObserveSchedulerPassRecordsBothHistograms(t *testing.T) {
	beforePass, _ := histogramCount(t, "taisei_sim_scheduler_pass_duration_seconds", nil)
	beforeResumed, _ := histogramCount(t, "taisei_sim_scheduler_tasks_resumed", nil)

	ObserveSchedulerPass(0.0002, 5)

	afterPass, ok := histogramCount(t, "taisei_sim_scheduler_pass_duration_seconds", nil)
	require.True(t, ok)
	afterResumed, ok := histogramCount(t, "taisei_sim_scheduler_tasks_resumed", nil)
	require.True(t, ok)

	assert.Equal(t, beforePass+1, afterPass)
	assert.Equal(t, beforeResumed+1, afterResumed)
}

func TestHandlerServesMetrics(t *testing.T) {
	RecordLiveTasks(1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "taisei_sim_live_tasks")
}
