// Package session provides the in-process cache of recent session histories.
//
// The cache is a bounded LRU keyed by session id. Message lists are truncated
// to the most recent maxMessages entries on append, matching the persisted
// read window.
package session

import (
	"container/list"
	"sync"

	"github.com/cantorix/aide/domain"
)

// maxMessages is the per-session message window kept in memory.
const maxMessages = 50

// DefaultCapacity is the default number of sessions kept in the cache.
const DefaultCapacity = 256

type entry struct {
	sessionID string
	messages  []domain.Message
}

// Cache is a bounded LRU cache of session message histories.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

// NewCache creates a cache holding at most capacity sessions.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns a copy of the cached messages for a session and whether the
// session is cached at all.
func (c *Cache) Get(sessionID string) ([]domain.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[sessionID]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)

	msgs := el.Value.(*entry).messages
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, true
}

// Put replaces the cached messages for a session, truncating to the window.
func (c *Cache) Put(sessionID string, messages []domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	}
	msgs := make([]domain.Message, len(messages))
	copy(msgs, messages)

	if el, ok := c.items[sessionID]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*entry).messages = msgs
		return
	}

	el := c.ll.PushFront(&entry{sessionID: sessionID, messages: msgs})
	c.items[sessionID] = el
	c.evict()
}

// Append adds a message to a session's cached history, creating the entry if
// needed, and truncates to the window.
func (c *Cache) Append(sessionID string, msg domain.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[sessionID]
	if !ok {
		el = c.ll.PushFront(&entry{sessionID: sessionID})
		c.items[sessionID] = el
		c.evict()
	} else {
		c.ll.MoveToFront(el)
	}

	e := el.Value.(*entry)
	e.messages = append(e.messages, msg)
	if len(e.messages) > maxMessages {
		e.messages = e.messages[len(e.messages)-maxMessages:]
	}
}

// Delete removes a session from the cache.
func (c *Cache) Delete(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[sessionID]; ok {
		c.ll.Remove(el)
		delete(c.items, sessionID)
	}
}

// Len returns the number of cached sessions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// evict drops least-recently-used sessions until the cache fits. Callers must
// hold c.mu.
func (c *Cache) evict() {
	for c.ll.Len() > c.capacity {
		el := c.ll.Back()
		if el == nil {
			return
		}
		c.ll.Remove(el)
		delete(c.items, el.Value.(*entry).sessionID)
	}
}
