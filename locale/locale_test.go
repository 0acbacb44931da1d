package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	l, err := Parse(" AR ")
	require.NoError(t, err)
	assert.Equal(t, Arabic, l)

	_, err = Parse("en")
	assert.Error(t, err)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, LTR, French.Direction())
	assert.Equal(t, RTL, Arabic.Direction())
}

func TestMirror(t *testing.T) {
	items := []string{"attach", "scan", "input", "send"}

	assert.Equal(t, items, Mirror(LTR, items))
	assert.Equal(t, []string{"send", "input", "scan", "attach"}, Mirror(RTL, items))
	assert.Equal(t, "attach", items[0], "input must not be reordered in place")
	assert.Empty(t, Mirror(RTL, []int{}))
}

func TestT(t *testing.T) {
	assert.Equal(t, "Copier", T(French, CopyButton))
	assert.Equal(t, "نسخ", T(Arabic, CopyButton))
	assert.Equal(t, "Copier", T(Locale("xx"), CopyButton))
	assert.Equal(t, "NoSuchMessage", T(French, "NoSuchMessage"))
}

func TestEveryMessageTranslated(t *testing.T) {
	seen := make(map[string]bool)
	for _, tr := range translations {
		assert.False(t, seen[tr.id], "duplicate id %s", tr.id)
		seen[tr.id] = true
		assert.NotEmpty(t, tr.fr, tr.id)
		assert.NotEmpty(t, tr.ar, tr.id)
	}
}
