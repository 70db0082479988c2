// Package state implements the State Store: the single in-memory
// aggregate of conversations, search indexes, the stateless per-model
// response cache, and the global config snapshot, guarded by one
// write-preferred lock. Handlers borrow records under that lock and must
// release it before any network call; the async bridge re-acquires it to
// commit a completion.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// Turn is one message in a Conversation's history.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Conversation is the full record for one conversation id.
type Conversation struct {
	ID             string
	History        []Turn
	Context        string
	LatestResponse string
	Config         ConversationConfig
	InFlight       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Seq            int
}

// SearchIndex is the full record for one semantic-search index id.
type SearchIndex struct {
	ID                string
	Corpus            map[string]struct{}
	CorpusOrder       []string
	LatestQueryResult string
	CreatedAt         time.Time
	Seq               int
}

// Store is the single locked aggregate described by the package doc.
type Store struct {
	mu sync.RWMutex

	conversations map[string]*Conversation
	convOrder     []string
	latestConvID  string

	indexes    map[string]*SearchIndex
	indexOrder []string

	modelCache map[string]string // stateless last response per model

	global GlobalConfig

	seq int
}

// New builds an empty Store seeded with the given global config.
func New(global GlobalConfig) *Store {
	return &Store{
		conversations: make(map[string]*Conversation),
		indexes:       make(map[string]*SearchIndex),
		modelCache:    make(map[string]string),
		global:        global,
	}
}

func (s *Store) nextSeq() int {
	s.seq++
	return s.seq
}

// --- Conversations ---------------------------------------------------

// CreateConversation registers a new, empty conversation under id. Fails
// if one already exists.
func (s *Store) CreateConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; ok {
		return vfserr.InvalidInputf("conversation %q already exists", id)
	}
	now := time.Now()
	s.conversations[id] = &Conversation{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Seq:       s.nextSeq(),
	}
	s.convOrder = append(s.convOrder, id)
	s.latestConvID = id
	return nil
}

// DropConversation removes a conversation. Fails with Busy if a request
// is in flight for it.
func (s *Store) DropConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return vfserr.NotFoundf("conversation %q not found", id)
	}
	if c.InFlight {
		return vfserr.Busyf("conversation %q has a request in flight", id)
	}
	delete(s.conversations, id)
	s.convOrder = removeString(s.convOrder, id)
	if s.latestConvID == id {
		s.latestConvID = ""
		if n := len(s.convOrder); n > 0 {
			s.latestConvID = s.convOrder[n-1]
		}
	}
	return nil
}

// GetConversation returns a copy of the conversation's current state for
// read-only rendering. The returned value is detached from the store and
// safe to use without holding any lock.
func (s *Store) GetConversation(id string) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	if !ok {
		return Conversation{}, vfserr.NotFoundf("conversation %q not found", id)
	}
	return *c, nil
}

// HasConversation reports whether id names a live conversation.
func (s *Store) HasConversation(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.conversations[id]
	return ok
}

// ConversationIDs returns conversation ids in insertion order.
func (s *Store) ConversationIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.convOrder))
	copy(out, s.convOrder)
	return out
}

// LatestConversationID returns the id of the conversation most recently
// created or sent a prompt (BeginRequest), or "" if none exists. Context,
// config, reply and clear updates do not change it.
func (s *Store) LatestConversationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestConvID
}

// BeginRequest marks a conversation in-flight, appending the user turn
// that triggered the request. Fails with Busy if a request is already in
// flight for this conversation, satisfying the at-most-one-in-flight
// invariant.
func (s *Store) BeginRequest(id, userMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return vfserr.NotFoundf("conversation %q not found", id)
	}
	if c.InFlight {
		return vfserr.Busyf("conversation %q already has a request in flight", id)
	}
	c.History = append(c.History, Turn{Role: "user", Content: userMsg})
	c.InFlight = true
	c.UpdatedAt = time.Now()
	s.latestConvID = id
	return nil
}

// EndRequest commits the outcome of an in-flight request: on success it
// appends the assistant turn and updates LatestResponse; on failure it
// records the error text as the visible LatestResponse marker instead.
// Either way InFlight is cleared.
func (s *Store) EndRequest(id string, assistantMsg string, requestErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return
	}
	c.InFlight = false
	c.UpdatedAt = time.Now()
	if requestErr != nil {
		c.LatestResponse = fmt.Sprintf("error: %s", requestErr.Error())
		return
	}
	c.History = append(c.History, Turn{Role: "assistant", Content: assistantMsg})
	c.LatestResponse = assistantMsg
}

// ClearLatestResponse resets a conversation's LatestResponse, the effect
// of treating unlink(prompt) as "clear". Fails with Busy if a request is
// currently in flight.
func (s *Store) ClearLatestResponse(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return vfserr.NotFoundf("conversation %q not found", id)
	}
	if c.InFlight {
		return vfserr.Busyf("conversation %q has a request in flight", id)
	}
	c.LatestResponse = ""
	c.UpdatedAt = time.Now()
	return nil
}

// SetContext replaces a conversation's scratchpad context atomically.
func (s *Store) SetContext(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return vfserr.NotFoundf("conversation %q not found", id)
	}
	c.Context = text
	c.UpdatedAt = time.Now()
	return nil
}

// TakeContext returns a conversation's context and clears it, since the
// context is a one-shot leading fragment prepended to the next prompt
// only: once a release consumes it via TakeContext, later prompts go
// out without it until SetContext stores a fresh value. A read of
// `context` after that point returns empty, matching what was actually
// consumed.
func (s *Store) TakeContext(id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return "", vfserr.NotFoundf("conversation %q not found", id)
	}
	text := c.Context
	c.Context = ""
	return text, nil
}

// SetConversationConfig replaces a conversation's config overlay.
func (s *Store) SetConversationConfig(id string, cfg ConversationConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return vfserr.NotFoundf("conversation %q not found", id)
	}
	c.Config = cfg
	c.UpdatedAt = time.Now()
	return nil
}

// EffectiveConfigFor computes the merged config a chat call for id should
// use, per the global/model/conversation overlay rule.
func (s *Store) EffectiveConfigFor(id string) (EffectiveConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	if !ok {
		return EffectiveConfig{}, vfserr.NotFoundf("conversation %q not found", id)
	}
	model := c.Config.Model
	if model == "" {
		model = s.global.DefaultModel
	}
	return s.global.Merge(model, c.Config), nil
}

// --- Search indexes ----------------------------------------------------

// CreateIndex registers a new, empty index under id. Fails if present.
func (s *Store) CreateIndex(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[id]; ok {
		return vfserr.InvalidInputf("search index %q already exists", id)
	}
	s.indexes[id] = &SearchIndex{
		ID:        id,
		Corpus:    make(map[string]struct{}),
		CreatedAt: time.Now(),
		Seq:       s.nextSeq(),
	}
	s.indexOrder = append(s.indexOrder, id)
	return nil
}

// DropIndex removes an index record. Callers must have already obtained
// remote acknowledgement of deletion before calling this, per the
// transactional create/delete rule.
func (s *Store) DropIndex(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[id]; !ok {
		return vfserr.NotFoundf("search index %q not found", id)
	}
	delete(s.indexes, id)
	s.indexOrder = removeString(s.indexOrder, id)
	return nil
}

// HasIndex reports whether id names a live index.
func (s *Store) HasIndex(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexes[id]
	return ok
}

// IndexIDs returns index ids in insertion order.
func (s *Store) IndexIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.indexOrder))
	copy(out, s.indexOrder)
	return out
}

// DefaultIndexID returns the first index by insertion order, or "".
func (s *Store) DefaultIndexID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.indexOrder) == 0 {
		return ""
	}
	return s.indexOrder[0]
}

// GetIndex returns a copy of an index's current record.
func (s *Store) GetIndex(id string) (SearchIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indexes[id]
	if !ok {
		return SearchIndex{}, vfserr.NotFoundf("search index %q not found", id)
	}
	cp := *idx
	cp.CorpusOrder = append([]string(nil), idx.CorpusOrder...)
	return cp, nil
}

// AddCorpusFile records that name has been committed to index id's
// corpus, after the search port has acknowledged the add. Idempotent.
func (s *Store) AddCorpusFile(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[id]
	if !ok {
		return vfserr.NotFoundf("search index %q not found", id)
	}
	if _, exists := idx.Corpus[name]; !exists {
		idx.Corpus[name] = struct{}{}
		idx.CorpusOrder = append(idx.CorpusOrder, name)
	}
	return nil
}

// RemoveCorpusFile withdraws name from index id's corpus, after the
// search port has acknowledged the removal.
func (s *Store) RemoveCorpusFile(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[id]
	if !ok {
		return vfserr.NotFoundf("search index %q not found", id)
	}
	delete(idx.Corpus, name)
	idx.CorpusOrder = removeString(idx.CorpusOrder, name)
	return nil
}

// HasCorpusFile reports whether name is currently in index id's corpus.
func (s *Store) HasCorpusFile(id, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indexes[id]
	if !ok {
		return false
	}
	_, exists := idx.Corpus[name]
	return exists
}

// SetQueryResult records the latest query reply for an index.
func (s *Store) SetQueryResult(id, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[id]
	if !ok {
		return vfserr.NotFoundf("search index %q not found", id)
	}
	idx.LatestQueryResult = result
	return nil
}

// --- Model cache & global config ---------------------------------------

// SetModelResponse records the stateless last response for a model.
func (s *Store) SetModelResponse(model, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelCache[model] = response
}

// ModelResponse returns the stateless last response for a model, or ""
// if the model has never been queried.
func (s *Store) ModelResponse(model string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modelCache[model]
}

// GlobalConfigSnapshot returns a copy of the current global config.
func (s *Store) GlobalConfigSnapshot() GlobalConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global
}

// ReplaceGlobalConfig installs a new global config snapshot, produced
// under the state lock.
func (s *Store) ReplaceGlobalConfig(cfg GlobalConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = cfg
}

// DefaultModel returns the configured default model name.
func (s *Store) DefaultModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global.DefaultModel
}

func removeString(xs []string, target string) []string {
	out := xs[:0]
	for _, x := range xs {
		if x != target {
			out = append(out, x)
		}
	}
	return out
}
