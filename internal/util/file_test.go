package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFileAtomic(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "report.json")
	_ = os.WriteFile(path, []byte("old"), 0644)

	// WHEN
	err := WriteFileAtomic(path, []byte("new"))

	// THEN
	assert.NoError(t, err)
	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "new", string(content))
}
