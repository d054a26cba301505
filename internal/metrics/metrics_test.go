package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/campus-poster/backend/internal/copygen"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveGeneration(copygen.SourceModel)
	m.ObserveGeneration(copygen.SourceTemplate)
	m.ObserveGeneration(copygen.SourceTemplate)
	m.ObserveModelCall(time.Second, fmt.Errorf("%w: status 500", copygen.ErrUpstream))
	m.ObserveModelCall(time.Second, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("model")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.generations.WithLabelValues("template")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modelFailures.WithLabelValues(copygen.KindUpstream)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveGeneration(copygen.SourceTemplate)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `copy_generations_total{source="template"} 1`)
}
