package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chabad360/obs-osc/obs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Received(16)
	c.Received(24)
	c.Dropped(obs.ReasonNoMatch)
	c.Applied(obs.SceneGo)
	c.Applied(obs.SceneGo)
	c.StateChanged(obs.State{Preview: 2, Transition: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.received))
	assert.Equal(t, 40.0, testutil.ToFloat64(c.bytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dropped.WithLabelValues("no_match")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.applied.WithLabelValues("scene_go")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.preview))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transition))
}

func TestCollector_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.Applied(obs.Go)

	h := NewHandler(reg, func() obs.State { return obs.State{Preview: 3, Transition: 1} })

	t.Run("healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("state", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var got obs.State
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, obs.State{Preview: 3, Transition: 1}, got)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), `obs_osc_actions_applied_total{kind="go"} 1`))
	})

	t.Run("wrong_method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
