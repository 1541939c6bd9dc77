package store

import "sync"

// RequestTokens discards stale asynchronous completions. The caller issues a
// token before firing a request and checks it when the response lands; a
// completion whose token is no longer the latest issued for its key is
// dropped, because a newer request for the same logical resource has
// superseded it. The network call itself is never aborted.
type RequestTokens struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func NewRequestTokens() *RequestTokens {
	return &RequestTokens{latest: make(map[string]uint64)}
}

// Issue registers a new in-flight request for a key and returns its token.
func (t *RequestTokens) Issue(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[key]++
	return t.latest[key]
}

// Current reports whether a completion is still the latest issued request for
// its key.
func (t *RequestTokens) Current(key string, token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[key] == token
}
