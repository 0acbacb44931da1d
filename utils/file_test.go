package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatFileSize(-5))
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KiB", FormatFileSize(1536))
	assert.Equal(t, "20 MiB", FormatFileSize(20*1024*1024))
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "", ExpandPath(""))

	home, err := os.UserHomeDir()
	if err == nil {
		assert.Equal(t, filepath.Join(home, "data"), ExpandPath("~/data"))
	}

	abs, err := filepath.Abs("data/assistant.db")
	assert.NoError(t, err)
	assert.Equal(t, abs, ExpandPath("data/assistant.db"))
}
