package transcript

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonprofit-assistant/attachment"
	"nonprofit-assistant/db"
	"nonprofit-assistant/llm"
	"nonprofit-assistant/locale"
)

type call struct {
	prior []llm.Message
	msg   llm.Message
	loc   locale.Locale
}

type fakeResponder struct {
	mu      sync.Mutex
	calls   []call
	reply   string
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeResponder) ChatRespond(ctx context.Context, prior []llm.Message, msg llm.Message, loc locale.Locale) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{prior: prior, msg: msg, loc: loc})
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.reply, f.err
}

func (f *fakeResponder) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call{}, f.calls...)
}

func newKV(t *testing.T) db.Store {
	t.Helper()
	kv, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func assertPersisted(t *testing.T, kv db.Store, s *Store) {
	t.Helper()
	stored, err := Load(kv, s.Identity())
	require.NoError(t, err)
	assert.Equal(t, s.Messages(), stored)
}

func TestLoad_MissingKeyIsEmpty(t *testing.T) {
	messages, err := Load(newKV(t), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.NotNil(t, messages)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "chatHistory_a@b.com", Key("a@b.com"))
}

func TestSend_EndToEnd(t *testing.T) {
	kv := newKV(t)
	responder := &fakeResponder{reply: "Bonjour! Comment puis-je vous aider?"}
	s := NewStore(kv, responder, nil)

	require.NoError(t, s.SetIdentity("a@b.com"))
	require.NoError(t, s.Send(context.Background(), "Bonjour", locale.French))

	want := []llm.Message{
		{Role: llm.RoleUser, Text: "Bonjour"},
		{Role: llm.RoleModel, Text: "Bonjour! Comment puis-je vous aider?"},
	}
	assert.Equal(t, want, s.Messages())
	assertPersisted(t, kv, s)
	assert.False(t, s.Busy())

	calls := responder.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].prior)
	assert.Equal(t, "Bonjour", calls[0].msg.Text)
	assert.Equal(t, locale.French, calls[0].loc)

	require.NoError(t, s.SetIdentity(""))
	assert.Empty(t, s.Messages())

	require.NoError(t, s.SetIdentity("a@b.com"))
	assert.Equal(t, want, s.Messages())

	require.NoError(t, s.SetIdentity("c@d.com"))
	assert.Empty(t, s.Messages())
}

func TestSend_EachSettledSendAddsTwo(t *testing.T) {
	kv := newKV(t)
	responder := &fakeResponder{reply: "ok"}
	s := NewStore(kv, responder, nil)
	require.NoError(t, s.SetIdentity("a@b.com"))

	for i, fail := range []bool{false, true, false} {
		if fail {
			responder.err = errors.New("network down")
		} else {
			responder.err = nil
		}
		require.NoError(t, s.Send(context.Background(), "question", locale.Arabic))
		assert.Len(t, s.Messages(), 2*(i+1))
		assertPersisted(t, kv, s)
	}

	messages := s.Messages()
	assert.Equal(t, locale.T(locale.Arabic, locale.ChatFailure), messages[3].Text)
	assert.Equal(t, llm.RoleModel, messages[3].Role)

	calls := responder.Calls()
	require.Len(t, calls, 3)
	assert.Len(t, calls[2].prior, 4)
}

func TestSend_Rejections(t *testing.T) {
	kv := newKV(t)
	responder := &fakeResponder{reply: "ok"}
	s := NewStore(kv, responder, nil)

	assert.ErrorIs(t, s.Send(context.Background(), "Bonjour", locale.French), ErrNoIdentity)
	assert.ErrorIs(t, s.Attach(attachment.FromBytes("text/plain", []byte("x"))), ErrNoIdentity)
	assert.False(t, s.CanCompose())

	require.NoError(t, s.SetIdentity("a@b.com"))
	assert.True(t, s.CanCompose())
	assert.ErrorIs(t, s.Send(context.Background(), "   ", locale.French), ErrEmptyMessage)

	assert.Empty(t, responder.Calls())
	assert.Empty(t, s.Messages())
	_, err := kv.Get(Key("a@b.com"))
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestSend_BusyGatesSecondSend(t *testing.T) {
	kv := newKV(t)
	responder := &fakeResponder{reply: "first", entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewStore(kv, responder, nil)
	require.NoError(t, s.SetIdentity("a@b.com"))

	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), "one", locale.French) }()
	<-responder.entered

	assert.True(t, s.Busy())
	assert.False(t, s.CanCompose())
	assert.Len(t, s.Messages(), 1)
	assertPersisted(t, kv, s)

	assert.ErrorIs(t, s.Send(context.Background(), "two", locale.French), ErrBusy)
	assert.Len(t, s.Messages(), 1)

	close(responder.release)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
	assert.Len(t, s.Messages(), 2)
	assert.Len(t, responder.Calls(), 1)
}

func TestSend_AttachmentOnly(t *testing.T) {
	kv := newKV(t)
	responder := &fakeResponder{reply: "Il s'agit d'une facture."}
	s := NewStore(kv, responder, nil)
	require.NoError(t, s.SetIdentity("a@b.com"))

	first := attachment.FromBytes("image/png", []byte{1})
	second := attachment.FromBytes("image/jpeg", []byte{2})
	require.NoError(t, s.Attach(first))
	require.NoError(t, s.Attach(second))

	require.NoError(t, s.Send(context.Background(), "", locale.French))

	messages := s.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, []llm.Attachment{second}, messages[0].Attachments)
	_, pending := s.PendingAttachment()
	assert.False(t, pending)
	assertPersisted(t, kv, s)
}

func TestSetIdentity_SwapRestoresExactly(t *testing.T) {
	kv := newKV(t)
	responder := &fakeResponder{reply: "ok"}
	s := NewStore(kv, responder, nil)

	require.NoError(t, s.SetIdentity("a@b.com"))
	require.NoError(t, s.Send(context.Background(), "from A", locale.French))
	before := s.Messages()

	require.NoError(t, s.Attach(attachment.FromBytes("text/plain", []byte("draft"))))
	require.NoError(t, s.SetIdentity("b@c.com"))
	_, pending := s.PendingAttachment()
	assert.False(t, pending)
	require.NoError(t, s.Send(context.Background(), "from B", locale.French))

	require.NoError(t, s.SetIdentity("a@b.com"))
	assert.Equal(t, before, s.Messages())
	for _, m := range s.Messages() {
		assert.NotEqual(t, "from B", m.Text)
	}
}

func TestSend_IdentityChangeWhileWaiting(t *testing.T) {
	kv := newKV(t)
	responder := &fakeResponder{reply: "late reply", entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewStore(kv, responder, nil)
	require.NoError(t, s.SetIdentity("a@b.com"))

	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), "question", locale.French) }()
	<-responder.entered

	require.NoError(t, s.SetIdentity("c@d.com"))
	close(responder.release)
	require.NoError(t, <-done)

	assert.Empty(t, s.Messages())
	assertPersisted(t, kv, s)

	stored, err := Load(kv, "a@b.com")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "late reply", stored[1].Text)
}

func TestSetIdentity_CorruptTranscript(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.Set(Key("a@b.com"), "{not json"))

	s := NewStore(kv, &fakeResponder{}, nil)
	assert.Error(t, s.SetIdentity("a@b.com"))
	assert.Equal(t, "a@b.com", s.Identity())
	assert.Empty(t, s.Messages())
}

func TestAppendAndPersist(t *testing.T) {
	kv := newKV(t)
	s := NewStore(kv, &fakeResponder{}, nil)

	_, err := s.AppendAndPersist("a@b.com", llm.Message{Role: llm.RoleUser, Text: "x"})
	assert.ErrorIs(t, err, ErrIdentityMismatch)

	require.NoError(t, s.SetIdentity("a@b.com"))
	notified := 0
	s.Subscribe(func() { notified++ })

	got, err := s.AppendAndPersist("a@b.com", llm.Message{Role: llm.RoleUser, Text: "x"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, notified)
	assertPersisted(t, kv, s)
}

func TestSubscribe_NotifiedAroundSend(t *testing.T) {
	s := NewStore(newKV(t), &fakeResponder{reply: "ok"}, nil)
	require.NoError(t, s.SetIdentity("a@b.com"))

	var mu sync.Mutex
	var busyStates []bool
	s.Subscribe(func() {
		mu.Lock()
		busyStates = append(busyStates, s.Busy())
		mu.Unlock()
	})

	require.NoError(t, s.Send(context.Background(), "Bonjour", locale.French))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, busyStates)
}
