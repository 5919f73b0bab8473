package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"page-hits/pkg/security/csp"
)

func TestHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, csp.DashboardPolicy().Build(), rr.Header().Get(csp.HeaderName))
	assert.Contains(t, rr.Body.String(), "<title>page-hits</title>")
	assert.Contains(t, rr.Body.String(), `src="/static/app.js"`)
	assert.NotContains(t, rr.Body.String(), "<script>", "inline scripts would violate the policy")
}

func TestAssets(t *testing.T) {
	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{path: "/static/app.js", contentType: "javascript", contains: "/api/pages"},
		{path: "/static/style.css", contentType: "text/css", contains: "border-collapse"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Assets().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Header().Get("Content-Type"), tt.contentType)
			assert.Contains(t, rr.Body.String(), tt.contains)
			assert.NotEmpty(t, rr.Header().Get(csp.HeaderName))
		})
	}
}

func TestAssets_Missing(t *testing.T) {
	rr := httptest.NewRecorder()
	Assets().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/nope.js", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
