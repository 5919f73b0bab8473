// Package csp builds Content-Security-Policy header values.
package csp

import (
	"fmt"
	"strings"
)

// HeaderName is the CSP response header.
const HeaderName = "Content-Security-Policy"

// directiveOrder fixes the output order so built policies are stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
}

// CSPBuilder provides a fluent interface for constructing Content-Security-Policy headers.
//
// Example Usage:
//
//	policy := NewCSPBuilder().
//	    DefaultSrc("'none'").
//	    ScriptSrc("'self'").
//	    Build()
//	// Returns: "default-src 'none'; script-src 'self'"
//
// Thread Safety: CSPBuilder is not thread-safe. Build once and share the string.
type CSPBuilder struct {
	directives map[string][]string
}

// NewCSPBuilder creates a new CSPBuilder with no directives.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{directives: make(map[string][]string)}
}

func (b *CSPBuilder) set(directive string, sources []string) *CSPBuilder {
	b.directives[directive] = sources
	return b
}

// DefaultSrc sets the fallback for every fetch directive not given explicitly.
func (b *CSPBuilder) DefaultSrc(sources ...string) *CSPBuilder { return b.set("default-src", sources) }

// ScriptSrc sets the script-src directive.
func (b *CSPBuilder) ScriptSrc(sources ...string) *CSPBuilder { return b.set("script-src", sources) }

// StyleSrc sets the style-src directive.
func (b *CSPBuilder) StyleSrc(sources ...string) *CSPBuilder { return b.set("style-src", sources) }

// ImgSrc sets the img-src directive.
func (b *CSPBuilder) ImgSrc(sources ...string) *CSPBuilder { return b.set("img-src", sources) }

// ConnectSrc sets the connect-src directive (fetch, XHR, WebSocket).
func (b *CSPBuilder) ConnectSrc(sources ...string) *CSPBuilder { return b.set("connect-src", sources) }

// FrameAncestors sets who may embed the page; "'none'" blocks clickjacking.
func (b *CSPBuilder) FrameAncestors(sources ...string) *CSPBuilder {
	return b.set("frame-ancestors", sources)
}

// FormAction sets the form-action directive.
func (b *CSPBuilder) FormAction(sources ...string) *CSPBuilder { return b.set("form-action", sources) }

// BaseURI sets the base-uri directive.
func (b *CSPBuilder) BaseURI(sources ...string) *CSPBuilder { return b.set("base-uri", sources) }

// ObjectSrc sets the object-src directive.
func (b *CSPBuilder) ObjectSrc(sources ...string) *CSPBuilder { return b.set("object-src", sources) }

// Build returns the header value. Directives with no sources are omitted.
func (b *CSPBuilder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, directive := range directiveOrder {
		if sources := b.directives[directive]; len(sources) > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", directive, strings.Join(sources, " ")))
		}
	}
	return strings.Join(parts, "; ")
}

// StrictPolicy returns a strict CSP policy for JSON endpoints.
// Nothing may be loaded and the response may not be framed.
func StrictPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}

// DashboardPolicy returns the policy for the HTML dashboard: same-origin
// scripts, styles and API calls only, no inline code, no framing.
func DashboardPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		ScriptSrc("'self'").
		StyleSrc("'self'").
		ImgSrc("'self'").
		ConnectSrc("'self'").
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseURI("'none'").
		ObjectSrc("'none'")
}
