// Package transcript keeps the chat history of the signed-in identity and
// writes every change through to durable storage before anyone is notified.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"nonprofit-assistant/attachment"
	"nonprofit-assistant/db"
	"nonprofit-assistant/llm"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/utils"
)

const keyPrefix = "chatHistory_"

var (
	ErrNoIdentity       = errors.New("no identity signed in")
	ErrEmptyMessage     = errors.New("message has no text and no attachment")
	ErrBusy             = errors.New("a message is already being answered")
	ErrIdentityMismatch = errors.New("identity is not the active one")
)

// Responder is the part of the gateway the chat needs
type Responder interface {
	ChatRespond(ctx context.Context, prior []llm.Message, msg llm.Message, loc locale.Locale) (string, error)
}

// Key returns the storage key holding identity's transcript
func Key(identity string) string {
	return keyPrefix + identity
}

// Load reads identity's transcript. A missing key is an empty transcript.
func Load(kv db.Store, identity string) ([]llm.Message, error) {
	raw, err := kv.Get(Key(identity))
	if errors.Is(err, db.ErrNotFound) {
		return []llm.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var messages []llm.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	if messages == nil {
		messages = []llm.Message{}
	}
	return messages, nil
}

func save(kv db.Store, identity string, messages []llm.Message) error {
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	if err := kv.Set(Key(identity), string(raw)); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// Store is the in-memory transcript of the current identity plus the chat
// composition state (pending attachment, busy flag).
type Store struct {
	mu        sync.Mutex
	kv        db.Store
	responder Responder
	logger    *utils.Logger

	identity  string
	messages  []llm.Message
	busy      bool
	pending   attachment.Slot
	listeners []func()
}

// NewStore creates a store with no identity
func NewStore(kv db.Store, responder Responder, logger *utils.Logger) *Store {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Store{
		kv:        kv,
		responder: responder,
		logger:    logger,
		messages:  []llm.Message{},
	}
}

// Subscribe registers fn to be called after every change
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// SetIdentity swaps in identity's persisted transcript, replacing the
// in-memory one. An empty identity clears everything, including the pending
// attachment. On a read error the transcript starts empty and the error is returned.
func (s *Store) SetIdentity(identity string) error {
	var (
		messages = []llm.Message{}
		loadErr  error
	)
	if identity != "" {
		loaded, err := Load(s.kv, identity)
		if err != nil {
			s.logger.Error("Failed to load transcript for %s: %v", identity, err)
			loadErr = err
		} else {
			messages = loaded
		}
	}

	s.mu.Lock()
	if identity != s.identity {
		s.pending.Clear()
	}
	s.identity = identity
	s.messages = messages
	s.mu.Unlock()

	s.notify()
	return loadErr
}

// Identity returns the active identity, "" when signed out
func (s *Store) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Messages returns a copy of the transcript
func (s *Store) Messages() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message{}, s.messages...)
}

// Busy reports whether a send is waiting for its reply
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// CanCompose reports whether the composer should accept input
func (s *Store) CanCompose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != "" && !s.busy
}

// Attach makes a the pending attachment, replacing any previous one
func (s *Store) Attach(a attachment.Attachment) error {
	s.mu.Lock()
	if s.identity == "" {
		s.mu.Unlock()
		return ErrNoIdentity
	}
	s.pending.Set(a)
	s.mu.Unlock()

	s.notify()
	return nil
}

// PendingAttachment returns the attachment that the next send will carry
func (s *Store) PendingAttachment() (attachment.Attachment, bool) {
	return s.pending.Pending()
}

// DiscardAttachment drops the pending attachment
func (s *Store) DiscardAttachment() {
	s.pending.Clear()
	s.notify()
}

// AppendAndPersist appends msg to identity's transcript, writes it and only
// then updates memory. identity must be the active one.
func (s *Store) AppendAndPersist(identity string, msg llm.Message) ([]llm.Message, error) {
	s.mu.Lock()
	if identity == "" {
		s.mu.Unlock()
		return nil, ErrNoIdentity
	}
	if identity != s.identity {
		s.mu.Unlock()
		return nil, ErrIdentityMismatch
	}
	next, err := s.appendLocked(msg)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.notify()
	return next, nil
}

// appendLocked must be called with mu held
func (s *Store) appendLocked(msg llm.Message) ([]llm.Message, error) {
	next := make([]llm.Message, 0, len(s.messages)+1)
	next = append(next, s.messages...)
	next = append(next, msg)
	if err := save(s.kv, s.identity, next); err != nil {
		return nil, err
	}
	s.messages = next
	return append([]llm.Message{}, next...), nil
}

// Send appends the user's message with the pending attachment, asks the
// gateway for a reply and appends it, or a localized failure notice when the
// gateway fails. It blocks until the reply is settled. Rejected sends change nothing.
func (s *Store) Send(ctx context.Context, text string, loc locale.Locale) error {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if s.identity == "" {
		s.mu.Unlock()
		return ErrNoIdentity
	}
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	att, hasAttachment := s.pending.Pending()
	if text == "" && !hasAttachment {
		s.mu.Unlock()
		return ErrEmptyMessage
	}

	msg := llm.Message{Role: llm.RoleUser, Text: text}
	if hasAttachment {
		msg.Attachments = []llm.Attachment{att}
	}
	prior := append([]llm.Message{}, s.messages...)
	if _, err := s.appendLocked(msg); err != nil {
		s.mu.Unlock()
		return err
	}
	s.pending.Clear()
	s.busy = true
	identity := s.identity
	s.mu.Unlock()
	s.notify()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
		s.notify()
	}()

	replyText, err := s.responder.ChatRespond(ctx, prior, msg, loc)
	if err != nil {
		s.logger.Error("Chat request failed: %v", err)
		replyText = locale.T(loc, locale.ChatFailure)
	}
	reply := llm.Message{Role: llm.RoleModel, Text: replyText}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == identity {
		_, err := s.appendLocked(reply)
		return err
	}

	// The sender signed out while waiting; the reply still belongs to their
	// transcript and must never reach the new identity's one.
	s.logger.Warn("Identity changed during chat request, storing reply for %s only", identity)
	stored, err := Load(s.kv, identity)
	if err != nil {
		return err
	}
	return save(s.kv, identity, append(stored, reply))
}
