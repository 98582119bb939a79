package shader_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/gldriver/headless"
	"github.com/spaghettifunk/esutil/engine/shader"
)

const passThroughVS = `#version 300 es
layout(location = 0) in vec4 vPosition;
void main()
{
   gl_Position = vPosition;
}
`

const passThroughFS = `#version 300 es
precision mediump float;
out vec4 fragColor;
void main()
{
   fragColor = vec4 ( 1.0, 0.0, 0.0, 1.0 );
}
`

const brokenFS = `#version 300 es
precision mediump float;
out vec4 fragColor;
void main()
{
   fragColor = vec4 ( 1.0, 0.0, 0.0, 1.0 )
`

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	core.SetLogOutput(&buf)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })
	return &buf
}

func TestLoadProgram(t *testing.T) {
	d := headless.New()
	p, err := shader.LoadProgram(d, passThroughVS, passThroughFS)
	require.NoError(t, err)
	assert.NotZero(t, p)
	assert.Equal(t, 1, d.GetProgrami(p, shader.LinkStatus))

	// Only the program is left alive; the stages die with it.
	d.DeleteProgram(p)
	assert.Equal(t, 0, d.Live())
}

func TestLoadProgramInvalidFragment(t *testing.T) {
	buf := captureLog(t)
	d := headless.New()

	p, err := shader.LoadProgram(d, passThroughVS, brokenFS)
	assert.Zero(t, p)
	require.Error(t, err)

	var shaderErr *shader.ShaderError
	require.True(t, errors.As(err, &shaderErr))
	assert.Equal(t, shader.StageFragment, shaderErr.Stage)
	assert.NotEmpty(t, shaderErr.Log)
	assert.ErrorIs(t, err, shader.ErrCompile)
	assert.NotErrorIs(t, err, shader.ErrLink)

	assert.Contains(t, buf.String(), "Error compiling shader:")
	assert.Equal(t, 0, d.Live(), "the vertex stage must be released")
}

func TestLoadProgramInvalidVertex(t *testing.T) {
	captureLog(t)
	d := headless.New()

	p, err := shader.LoadProgram(d, "void main() {", passThroughFS)
	assert.Zero(t, p)
	var shaderErr *shader.ShaderError
	require.ErrorAs(t, err, &shaderErr)
	assert.Equal(t, shader.StageVertex, shaderErr.Stage)
	assert.Contains(t, err.Error(), "vertex stage")
	assert.Equal(t, 0, d.Live())
}

func TestLoadProgramLinkFailure(t *testing.T) {
	buf := captureLog(t)
	d := headless.New()

	fs := `#version 300 es
precision mediump float;
in vec3 vNormal;
out vec4 fragColor;
void main() { fragColor = vec4(vNormal, 1.0); }
`
	p, err := shader.LoadProgram(d, passThroughVS, fs)
	assert.Zero(t, p)
	var shaderErr *shader.ShaderError
	require.ErrorAs(t, err, &shaderErr)
	assert.Equal(t, shader.StageLink, shaderErr.Stage)
	assert.Contains(t, shaderErr.Log, "vNormal")
	assert.ErrorIs(t, err, shader.ErrLink)

	assert.Contains(t, buf.String(), "Error linking program:")
	assert.Equal(t, 0, d.Live())
}

func TestLoadShader(t *testing.T) {
	d := headless.New()

	s, err := shader.LoadShader(d, shader.StageVertex, passThroughVS)
	require.NoError(t, err)
	assert.NotZero(t, s)
	assert.Equal(t, int(shader.VertexShader), d.GetShaderi(s, shader.ShaderType))

	_, err = shader.LoadShader(d, shader.StageLink, passThroughVS)
	assert.Error(t, err)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "vertex", shader.StageVertex.String())
	assert.Equal(t, "fragment", shader.StageFragment.String())
	assert.Equal(t, "link", shader.StageLink.String())
	assert.Equal(t, shader.FragmentShader, shader.StageFragment.Enum())
	assert.Zero(t, shader.StageLink.Enum())
}

func writeSources(t *testing.T, dir, vs, fs string) (string, string) {
	t.Helper()
	vsPath := filepath.Join(dir, "simple.vert")
	fsPath := filepath.Join(dir, "simple.frag")
	require.NoError(t, os.WriteFile(vsPath, []byte(vs), 0o644))
	require.NoError(t, os.WriteFile(fsPath, []byte(fs), 0o644))
	return vsPath, fsPath
}

func TestLoadProgramFiles(t *testing.T) {
	dir := t.TempDir()
	vsPath, fsPath := writeSources(t, dir, passThroughVS, passThroughFS)

	d := headless.New()
	p, err := shader.LoadProgramFiles(d, vsPath, fsPath)
	require.NoError(t, err)
	assert.NotZero(t, p)

	_, err = shader.LoadProgramFiles(d, filepath.Join(dir, "missing.vert"), fsPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
