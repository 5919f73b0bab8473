// Package dashboard serves the embedded single-page view of all pages and
// their hit counts. The page reads the JSON API; it has no server-side state.
package dashboard

import (
	"embed"
	"io/fs"
	"net/http"

	"page-hits/pkg/security/csp"
)

// AssetPrefix is the URL prefix the static assets are served under.
const AssetPrefix = "/static/"

//go:embed static
var staticFS embed.FS

var policy = csp.DashboardPolicy().Build()

// Handler returns the dashboard page.
func Handler() http.Handler {
	index, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		// embed 済みなので起動時にしか起こらない
		panic(err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		setHeaders(w)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(index)
	})
}

// Assets serves the dashboard's script and stylesheet under AssetPrefix.
func Assets() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix(AssetPrefix, http.FileServerFS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setHeaders(w)
		files.ServeHTTP(w, r)
	})
}

func setHeaders(w http.ResponseWriter) {
	w.Header().Set(csp.HeaderName, policy)
	w.Header().Set("Cache-Control", "no-cache")
}
