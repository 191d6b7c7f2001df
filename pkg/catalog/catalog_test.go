package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `torch==2.1.0+rocm5.6
TorchVision == 0.16.0

# pip freeze header
pytorch-triton-rocm==2.1.0
numpy @ file:///tmp/numpy
`)

	c, err := Load(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.Ignored())
	assert.Equal(t, path, c.Path())

	v, ok := c.Lookup("torch")
	assert.True(t, ok)
	assert.Equal(t, "2.1.0+rocm5.6", v)

	v, ok = c.Lookup("torchvision")
	assert.True(t, ok)
	assert.Equal(t, " 0.16.0", v, "version is taken verbatim after the separator")

	_, ok = c.Lookup("numpy")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	var warnings []string
	opts := Options{Logger: func(msg string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(msg, args...))
	}}

	path := filepath.Join(t.TempDir(), "nope.txt")
	c, err := Load(path, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "nope.txt")
}

func TestLoadMissingFileNilLogger(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.txt"), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestParseLastWriteWins(t *testing.T) {
	c, err := Parse(strings.NewReader("torch==2.0.0\nTORCH==2.1.0\nnumpy==1.26.0\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	v, _ := c.Lookup("torch")
	assert.Equal(t, "2.1.0", v)
}

func TestParseSplitsAtFirstSeparator(t *testing.T) {
	c, err := Parse(strings.NewReader("weird==1.0==2.0\n==3.0\n"))
	require.NoError(t, err)

	v, ok := c.Lookup("weird")
	assert.True(t, ok)
	assert.Equal(t, "1.0==2.0", v)
	assert.Equal(t, 1, c.Len(), "line with empty name is ignored")
	assert.Equal(t, 1, c.Ignored())
}

func TestNames(t *testing.T) {
	c := New(map[string]string{"Torch": "2.1.0", "numpy": "1.26.0", "amdsmi": "6.0"})
	assert.Equal(t, []string{"amdsmi", "numpy", "torch"}, c.Names())
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	_, ok := c.Lookup("torch")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Names())
	assert.Equal(t, "", c.Path())
	assert.Equal(t, 0, c.Ignored())
}
