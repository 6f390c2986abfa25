// Package session holds the transient, per-login state that has no place
// in the database: who is logged in on a given browser session and their
// shopping list. A Context lives exactly as long as its cookie session:
// created on login or registration, discarded on logout.
package session

import (
	"sync"
	"time"
)

// Context is the in-memory companion of one sessions row.
type Context struct {
	Username string

	// lastSeen is read and written only under the owning Manager's lock.
	lastSeen time.Time

	mu           sync.Mutex
	shoppingList []string
}

// AddMissing appends ingredient names to the shopping list. Duplicates are
// kept here and collapsed on read, matching the list's display semantics.
func (c *Context) AddMissing(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shoppingList = append(c.shoppingList, names...)
}

// Entries returns the shopping list deduplicated, in first-seen order.
func (c *Context) Entries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]bool, len(c.shoppingList))
	var entries []string
	for _, name := range c.shoppingList {
		if !seen[name] {
			seen[name] = true
			entries = append(entries, name)
		}
	}
	return entries
}

// MarkBought removes every occurrence of the name from the shopping list.
// It reports whether the name was present.
func (c *Context) MarkBought(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	found := false
	kept := c.shoppingList[:0]
	for _, entry := range c.shoppingList {
		if entry == name {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	c.shoppingList = kept
	return found
}

// Clear empties the shopping list.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shoppingList = nil
}

// Manager maps live session IDs to their Contexts. Contexts for sessions
// that end without a logout (expired server-side, or whose cookie simply
// lapsed) are swept out once they have gone maxAge without a request.
type Manager struct {
	mu       sync.Mutex
	maxAge   time.Duration
	contexts map[string]*Context
}

// NewManager returns a manager whose idle contexts outlive their last
// request by maxAge, which should be the session duration.
func NewManager(maxAge time.Duration) *Manager {
	return &Manager{
		maxAge:   maxAge,
		contexts: make(map[string]*Context),
	}
}

// Attach creates (or replaces) the context for a session ID. Called when a
// login or registration issues a fresh session cookie.
func (m *Manager) Attach(sessionID, username string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx := &Context{Username: username, lastSeen: time.Now()}
	m.contexts[sessionID] = ctx
	m.sweepStale()
	return ctx
}

// Get returns the context for a session ID. When the server restarted and
// the cookie session is still valid, the context is recreated empty: the
// shopping list is transient and does not survive the process.
func (m *Manager) Get(sessionID, username string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctx, ok := m.contexts[sessionID]; ok && ctx.Username == username {
		ctx.lastSeen = time.Now()
		return ctx
	}

	ctx := &Context{Username: username, lastSeen: time.Now()}
	m.contexts[sessionID] = ctx
	m.sweepStale()
	return ctx
}

// sweepStale drops contexts idle longer than maxAge. Caller holds m.mu.
func (m *Manager) sweepStale() {
	for id, ctx := range m.contexts {
		if time.Since(ctx.lastSeen) > m.maxAge {
			ctx.Clear()
			delete(m.contexts, id)
		}
	}
}

// Discard tears down the context on logout, clearing the username and the
// shopping list together.
func (m *Manager) Discard(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctx, ok := m.contexts[sessionID]; ok {
		ctx.Clear()
		ctx.Username = ""
		delete(m.contexts, sessionID)
	}
}
