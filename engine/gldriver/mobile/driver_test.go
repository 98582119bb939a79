package mobile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mobile/gl"

	"github.com/spaghettifunk/esutil/engine/shader"
)

// fakeContext records the calls the adapter makes. Methods it does not
// override panic through the nil embedded interface.
type fakeContext struct {
	gl.Context

	calls    []string
	compiled map[uint32]bool
	next     uint32
	uploaded []float32
}

func newFakeContext() *fakeContext {
	return &fakeContext{compiled: make(map[uint32]bool), next: 1}
}

func (c *fakeContext) CreateShader(ty gl.Enum) gl.Shader {
	c.calls = append(c.calls, "CreateShader")
	c.next++
	return gl.Shader{Value: c.next}
}

func (c *fakeContext) ShaderSource(s gl.Shader, src string) {
	c.calls = append(c.calls, "ShaderSource")
	c.compiled[s.Value] = src != "bad"
}

func (c *fakeContext) CompileShader(s gl.Shader) { c.calls = append(c.calls, "CompileShader") }

func (c *fakeContext) GetShaderi(s gl.Shader, pname gl.Enum) int {
	switch pname {
	case gl.COMPILE_STATUS:
		if c.compiled[s.Value] {
			return 1
		}
		return 0
	case gl.INFO_LOG_LENGTH:
		return 6
	}
	return 0
}

func (c *fakeContext) GetShaderInfoLog(s gl.Shader) string { return "oops!" }

func (c *fakeContext) DeleteShader(s gl.Shader) { c.calls = append(c.calls, "DeleteShader") }

func (c *fakeContext) CreateProgram() gl.Program {
	c.calls = append(c.calls, "CreateProgram")
	c.next++
	return gl.Program{Init: true, Value: c.next}
}

func (c *fakeContext) AttachShader(p gl.Program, s gl.Shader) {
	c.calls = append(c.calls, "AttachShader")
}

func (c *fakeContext) LinkProgram(p gl.Program) { c.calls = append(c.calls, "LinkProgram") }

func (c *fakeContext) GetProgrami(p gl.Program, pname gl.Enum) int {
	if pname == gl.LINK_STATUS {
		return 1
	}
	return 0
}

func (c *fakeContext) UseProgram(p gl.Program) {
	c.calls = append(c.calls, "UseProgram")
}

func (c *fakeContext) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	return gl.Uniform{Value: 3}
}

func (c *fakeContext) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	return gl.Attrib{Value: ^uint(0)}
}

func (c *fakeContext) UniformMatrix4fv(dst gl.Uniform, src []float32) {
	c.uploaded = src
}

func TestEnumsMatchMobileGL(t *testing.T) {
	assert.Equal(t, uint32(gl.VERTEX_SHADER), uint32(shader.VertexShader))
	assert.Equal(t, uint32(gl.FRAGMENT_SHADER), uint32(shader.FragmentShader))
	assert.Equal(t, uint32(gl.COMPILE_STATUS), uint32(shader.CompileStatus))
	assert.Equal(t, uint32(gl.LINK_STATUS), uint32(shader.LinkStatus))
	assert.Equal(t, uint32(gl.INFO_LOG_LENGTH), uint32(shader.InfoLogLength))
}

func TestLoadProgramThroughMobile(t *testing.T) {
	ctx := newFakeContext()
	d := New(ctx)

	p, err := shader.LoadProgram(d, "vs", "fs")
	require.NoError(t, err)
	assert.NotZero(t, p)
	assert.Equal(t, []string{
		"CreateShader", "ShaderSource", "CompileShader",
		"CreateShader", "ShaderSource", "CompileShader",
		"CreateProgram", "AttachShader", "AttachShader", "LinkProgram",
		"DeleteShader", "DeleteShader",
	}, ctx.calls)

	d.UseProgram(p)
	loc := d.GetUniformLocation(p, "u_mvpMatrix")
	assert.Equal(t, shader.Uniform(3), loc)
	d.UniformMatrix4fv(loc, make([]float32, 16))
	assert.Len(t, ctx.uploaded, 16)
	assert.Equal(t, shader.Attrib(-1), d.GetAttribLocation(p, "a_missing"))
}

func TestCompileFailureThroughMobile(t *testing.T) {
	ctx := newFakeContext()
	p, err := shader.LoadProgram(New(ctx), "bad", "fs")
	assert.Zero(t, p)
	var shaderErr *shader.ShaderError
	require.ErrorAs(t, err, &shaderErr)
	assert.Equal(t, "oops!", shaderErr.Log)
	assert.Equal(t, []string{"CreateShader", "ShaderSource", "CompileShader", "DeleteShader"}, ctx.calls)
}
