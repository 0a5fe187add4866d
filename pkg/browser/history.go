package browser

import "sync"

// traversal is the kind of navigation the page was last asked to perform.
type traversal int

const (
	traverseNone traversal = iota
	traverseBack
	traverseForward
	traverseReload
)

// History tracks the back/forward list of one page.
//
// Playwright does not expose the session history of a page, so it is
// rebuilt from main-frame navigations. Back, Forward and Reload announce
// the traversal before it is started; the next committed navigation is then
// applied as a move within the list instead of a new entry.
type History struct {
	mu      sync.Mutex
	entries []string
	index   int
	pending traversal
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{index: -1}
}

// Expect announces the traversal that the next navigation belongs to.
func (h *History) Expect(t traversal) {
	h.mu.Lock()
	h.pending = t
	h.mu.Unlock()
}

// Navigated records a committed main-frame navigation to url.
func (h *History) Navigated(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pending := h.pending
	h.pending = traverseNone

	switch {
	case pending == traverseBack && h.index > 0 && h.entries[h.index-1] == url:
		h.index--
		return
	case pending == traverseForward && h.index < len(h.entries)-1 && h.entries[h.index+1] == url:
		h.index++
		return
	case h.index >= 0 && h.entries[h.index] == url:
		// Reload or same-document commit.
		return
	}

	h.entries = append(h.entries[:h.index+1], url)
	h.index = len(h.entries) - 1
}

// CanGoBack reports whether an entry exists before the current one.
func (h *History) CanGoBack() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

// CanGoForward reports whether an entry exists after the current one.
func (h *History) CanGoForward() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index >= 0 && h.index < len(h.entries)-1
}

// Current returns the current entry, or "" before the first navigation.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index < 0 {
		return ""
	}
	return h.entries[h.index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
