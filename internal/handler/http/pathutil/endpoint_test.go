package pathutil

import "testing"

func TestEndpointLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/api/pages/5/hit", want: "api"},
		{path: "/api/pages/999/hits", want: "api"},
		{path: "/api/pages", want: "api"},
		{path: "/health", want: "health"},
		{path: "/metrics", want: "metrics"},
		{path: "/metrics?name=x", want: "metrics"},
		{path: "/", want: RootEndpoint},
		{path: "", want: RootEndpoint},
		{path: "/static/app.js", want: "static"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := EndpointLabel(tt.path); got != tt.want {
				t.Errorf("EndpointLabel(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
