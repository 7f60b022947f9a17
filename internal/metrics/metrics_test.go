package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/ekatra-normalizer/internal/models"
	"github.com/maltedev/ekatra-normalizer/internal/response"
	"github.com/maltedev/ekatra-normalizer/internal/structure"
)

func TestObserve(t *testing.T) {
	r := NewRecorder()
	b := response.NewBuilder("")

	r.Observe("flexible", b.Success(&models.Product{}, map[string]any{"dataType": structure.SimpleSingleVariant}, ""), time.Now())
	r.Observe("flexible", b.ValidationFailure(
		models.NewValidationResult([]string{"a", "b"}, nil), nil, ""), time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(r.TransformTotal.WithLabelValues("flexible", "success", "SIMPLE_SINGLE_VARIANT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.TransformTotal.WithLabelValues("flexible", "error", "unknown")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.ValidationErrors.WithLabelValues("flexible")))
}

func TestHandler(t *testing.T) {
	r := NewRecorder()
	r.Published(nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `ekatra_publish_total{status="ok"} 1`))
}
