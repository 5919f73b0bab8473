package metrics

import "sync"

// OverflowLabel replaces page names seen after the label limit is reached.
const OverflowLabel = "__other__"

// labelLimiter hands out at most limit distinct label values.
type labelLimiter struct {
	mu    sync.Mutex
	limit int
	seen  map[string]struct{}
}

func newLabelLimiter(limit int) *labelLimiter {
	return &labelLimiter{
		limit: limit,
		seen:  make(map[string]struct{}, limit),
	}
}

func (l *labelLimiter) value(v string) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[v]; ok {
		return v
	}
	if len(l.seen) >= l.limit {
		return OverflowLabel
	}
	l.seen[v] = struct{}{}
	return v
}
