package native

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCString(t *testing.T) {
	buf := cString("u_mvpMatrix")
	require.Len(t, buf, 12)
	assert.Equal(t, byte(0), buf[11])
	assert.Equal(t, "u_mvpMatrix", goString(buf))
}

func TestGoString(t *testing.T) {
	assert.Equal(t, "", goString(nil))
	assert.Equal(t, "abc", goString([]byte("abc\x00def")))
	assert.Equal(t, "no terminator", goString([]byte("no terminator")))
}

func TestSymbolsCoverDriver(t *testing.T) {
	d := &Driver{}
	syms := d.symbols()
	assert.Len(t, syms, 16)
	assert.Contains(t, syms, "glUniformMatrix4fv")
}

func TestLoad(t *testing.T) {
	d, err := Load()
	if err != nil {
		t.Skipf("libGLESv2 not available: %s", err)
	}
	// Without a current context only the bindings can be checked.
	assert.NotNil(t, d.createShader)
	assert.NotNil(t, d.uniformMatrix4fv)
}

func TestLoadCurrentWithoutContext(t *testing.T) {
	// Test processes never make a context current.
	d, err := LoadCurrent()
	assert.Error(t, err)
	assert.Nil(t, d)
}
