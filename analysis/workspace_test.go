package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonprofit-assistant/attachment"
	"nonprofit-assistant/llm"
	"nonprofit-assistant/locale"
)

type fakeAnalyzer struct {
	att      llm.Attachment
	question string
	answer   string
	err      error
	calls    int
}

func (f *fakeAnalyzer) AnalyzeDocument(ctx context.Context, att llm.Attachment, question string, loc locale.Locale) (string, error) {
	f.calls++
	f.att, f.question = att, question
	return f.answer, f.err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyze_RequiresDocumentAndQuestion(t *testing.T) {
	w := NewWorkspace(nil, nil)
	a := &fakeAnalyzer{answer: "ok"}

	assert.ErrorIs(t, w.Analyze(context.Background(), a, locale.French), ErrNoDocument)

	require.NoError(t, w.LoadFile(writeFile(t, "bail.txt", "Article 1")))
	assert.False(t, w.CanAnalyze())
	w.SetQuestion("   ")
	assert.ErrorIs(t, w.Analyze(context.Background(), a, locale.French), ErrNoQuestion)
	assert.Zero(t, a.calls)
}

func TestAnalyze_Success(t *testing.T) {
	w := NewWorkspace(nil, nil)
	a := &fakeAnalyzer{answer: "Le bail dure 3 ans."}

	require.NoError(t, w.LoadFile(writeFile(t, "bail.txt", "Durée: 3 ans")))
	assert.Equal(t, "bail.txt", w.FileName(locale.French))
	w.SetQuestion(" Quelle est la durée ? ")
	assert.True(t, w.CanAnalyze())

	require.NoError(t, w.Analyze(context.Background(), a, locale.French))
	assert.Equal(t, "Le bail dure 3 ans.", w.Result())
	assert.Equal(t, "Quelle est la durée ?", a.question)
	assert.Equal(t, "text/plain", a.att.MimeType)
	assert.False(t, w.Loading())
	assert.Empty(t, w.Error(locale.French))
}

func TestAnalyze_FailureSetsInlineError(t *testing.T) {
	w := NewWorkspace(nil, nil)
	a := &fakeAnalyzer{answer: "first"}

	require.NoError(t, w.LoadFile(writeFile(t, "doc.txt", "x")))
	w.SetQuestion("?")
	require.NoError(t, w.Analyze(context.Background(), a, locale.French))

	a.err = errors.New("timeout")
	assert.Error(t, w.Analyze(context.Background(), a, locale.Arabic))
	assert.Empty(t, w.Result())
	assert.False(t, w.Loading())
	assert.Equal(t, locale.T(locale.Arabic, locale.AnalysisFailure), w.Error(locale.Arabic))
	assert.Equal(t, locale.T(locale.French, locale.AnalysisFailure), w.Error(locale.French))
}

func TestLoadFile_FailureKeepsState(t *testing.T) {
	w := NewWorkspace(nil, nil)
	require.NoError(t, w.LoadFile(writeFile(t, "doc.txt", "x")))
	w.SetQuestion("Quoi ?")

	err := w.LoadFile(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, attachment.ErrUnreadable)
	assert.Equal(t, locale.T(locale.French, locale.FileReadError), w.Error(locale.French))

	doc, ok := w.Document()
	require.True(t, ok)
	assert.Equal(t, "text/plain", doc.MimeType)
	assert.Equal(t, "doc.txt", w.FileName(locale.French))
	assert.Equal(t, "Quoi ?", w.Question())

	require.NoError(t, w.LoadFile(writeFile(t, "other.txt", "y")))
	assert.Empty(t, w.Error(locale.French))
}

func TestAcceptCapture(t *testing.T) {
	w := NewWorkspace(nil, nil)
	scan := attachment.FromBytes("image/jpeg", []byte{0xff, 0xd8})

	require.NoError(t, w.AcceptCapture(scan.DataURL()))
	doc, ok := w.Document()
	require.True(t, ok)
	assert.Equal(t, scan, doc)
	assert.Equal(t, "Document scanné", w.FileName(locale.French))
	assert.Equal(t, "مستند ممسوح ضوئيا", w.FileName(locale.Arabic))

	assert.Error(t, w.AcceptCapture("not a data url"))
	doc, _ = w.Document()
	assert.Equal(t, scan, doc)
}
