// Package headless implements shader.Driver without a GPU. Shaders are
// checked structurally by a small GLSL ES front end, programs are linked by
// matching stage interfaces, and uniform uploads are recorded so callers
// can inspect them.
package headless

import (
	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/shader"
)

var _ shader.Driver = (*Driver)(nil)

type shaderObject struct {
	ty            shader.Enum
	source        string
	compiled      bool
	infoLog       string
	unit          *unit
	deleteFlagged bool
	attachments   int
}

type programObject struct {
	shaders  []shader.Shader
	linked   bool
	infoLog  string
	uniforms []decl
	attribs  []decl
	values   map[shader.Uniform][]float32
}

// Driver is a software shader.Driver. It is not safe for concurrent use,
// like the GL context it stands in for.
type Driver struct {
	ids     core.Identifiers
	current shader.Program
}

func New() *Driver {
	return &Driver{}
}

func (d *Driver) shader(s shader.Shader) (*shaderObject, bool) {
	owner, ok := d.ids.Owner(uint32(s))
	if !ok {
		return nil, false
	}
	obj, ok := owner.(*shaderObject)
	return obj, ok
}

func (d *Driver) program(p shader.Program) (*programObject, bool) {
	owner, ok := d.ids.Owner(uint32(p))
	if !ok {
		return nil, false
	}
	obj, ok := owner.(*programObject)
	return obj, ok
}

func (d *Driver) release(id uint32) {
	if err := d.ids.Release(id); err != nil {
		core.LogWarn("headless: %s", err)
	}
}

func (d *Driver) CreateShader(ty shader.Enum) shader.Shader {
	if ty != shader.VertexShader && ty != shader.FragmentShader {
		return 0
	}
	return shader.Shader(d.ids.Acquire(&shaderObject{ty: ty}))
}

func (d *Driver) ShaderSource(s shader.Shader, src string) {
	if obj, ok := d.shader(s); ok {
		obj.source = src
	}
}

func (d *Driver) CompileShader(s shader.Shader) {
	obj, ok := d.shader(s)
	if !ok {
		return
	}
	obj.unit, obj.infoLog = compile(obj.ty, obj.source)
	obj.compiled = obj.unit != nil
}

func (d *Driver) GetShaderi(s shader.Shader, pname shader.Enum) int {
	obj, ok := d.shader(s)
	if !ok {
		return 0
	}
	switch pname {
	case shader.CompileStatus:
		return boolToInt(obj.compiled)
	case shader.InfoLogLength:
		return logLength(obj.infoLog)
	case shader.ShaderType:
		return int(obj.ty)
	case shader.DeleteStatus:
		return boolToInt(obj.deleteFlagged)
	}
	return 0
}

func (d *Driver) GetShaderInfoLog(s shader.Shader) string {
	if obj, ok := d.shader(s); ok {
		return obj.infoLog
	}
	return ""
}

// DeleteShader frees s, or flags it for deletion while a program still
// has it attached.
func (d *Driver) DeleteShader(s shader.Shader) {
	obj, ok := d.shader(s)
	if !ok {
		return
	}
	if obj.attachments > 0 {
		obj.deleteFlagged = true
		return
	}
	d.release(uint32(s))
}

func (d *Driver) CreateProgram() shader.Program {
	return shader.Program(d.ids.Acquire(&programObject{}))
}

func (d *Driver) AttachShader(p shader.Program, s shader.Shader) {
	prog, ok := d.program(p)
	if !ok {
		return
	}
	obj, ok := d.shader(s)
	if !ok {
		return
	}
	for _, attached := range prog.shaders {
		if attached == s {
			return
		}
	}
	prog.shaders = append(prog.shaders, s)
	obj.attachments++
}

func (d *Driver) LinkProgram(p shader.Program) {
	prog, ok := d.program(p)
	if !ok {
		return
	}
	prog.linked = false
	prog.uniforms, prog.attribs = nil, nil
	prog.values = make(map[shader.Uniform][]float32)

	var vs, fs *unit
	for _, s := range prog.shaders {
		obj, ok := d.shader(s)
		if !ok {
			continue
		}
		if !obj.compiled {
			prog.infoLog = "ERROR: Linking with uncompiled shader."
			return
		}
		switch obj.ty {
		case shader.VertexShader:
			vs = obj.unit
		case shader.FragmentShader:
			fs = obj.unit
		}
	}
	switch {
	case vs == nil && fs == nil:
		prog.infoLog = "ERROR: No compiled shaders attached."
		return
	case vs == nil:
		prog.infoLog = "ERROR: Missing vertex shader."
		return
	case fs == nil:
		prog.infoLog = "ERROR: Missing fragment shader."
		return
	}

	prog.infoLog, prog.uniforms, prog.attribs = link(vs, fs)
	prog.linked = prog.infoLog == ""
}

func (d *Driver) GetProgrami(p shader.Program, pname shader.Enum) int {
	prog, ok := d.program(p)
	if !ok {
		return 0
	}
	switch pname {
	case shader.LinkStatus:
		return boolToInt(prog.linked)
	case shader.InfoLogLength:
		return logLength(prog.infoLog)
	}
	return 0
}

func (d *Driver) GetProgramInfoLog(p shader.Program) string {
	if prog, ok := d.program(p); ok {
		return prog.infoLog
	}
	return ""
}

// DeleteProgram frees p and every attached shader that was flagged for deletion.
func (d *Driver) DeleteProgram(p shader.Program) {
	prog, ok := d.program(p)
	if !ok {
		return
	}
	for _, s := range prog.shaders {
		obj, ok := d.shader(s)
		if !ok {
			continue
		}
		obj.attachments--
		if obj.deleteFlagged && obj.attachments == 0 {
			d.release(uint32(s))
		}
	}
	if d.current == p {
		d.current = 0
	}
	d.release(uint32(p))
}

func (d *Driver) UseProgram(p shader.Program) {
	if p == 0 {
		d.current = 0
		return
	}
	if prog, ok := d.program(p); ok && prog.linked {
		d.current = p
	}
}

func (d *Driver) GetUniformLocation(p shader.Program, name string) shader.Uniform {
	prog, ok := d.program(p)
	if !ok || !prog.linked {
		return -1
	}
	for i, u := range prog.uniforms {
		if u.Name == name {
			return shader.Uniform(i)
		}
	}
	return -1
}

func (d *Driver) GetAttribLocation(p shader.Program, name string) shader.Attrib {
	prog, ok := d.program(p)
	if !ok || !prog.linked {
		return -1
	}
	for i, a := range prog.attribs {
		if a.Name == name {
			return shader.Attrib(i)
		}
	}
	return -1
}

// UniformMatrix4fv stores src for dst on the current program. Uploads to
// location -1 are ignored, as GL does.
func (d *Driver) UniformMatrix4fv(dst shader.Uniform, src []float32) {
	if dst < 0 || len(src) == 0 || len(src)%16 != 0 {
		return
	}
	prog, ok := d.program(d.current)
	if !ok || int(dst) >= len(prog.uniforms) {
		return
	}
	prog.values[dst] = append([]float32(nil), src...)
}

// CurrentProgram returns the program selected by UseProgram.
func (d *Driver) CurrentProgram() shader.Program {
	return d.current
}

// UniformValue returns the last value uploaded to the named uniform of p.
func (d *Driver) UniformValue(p shader.Program, name string) ([]float32, bool) {
	prog, ok := d.program(p)
	if !ok {
		return nil, false
	}
	loc := d.GetUniformLocation(p, name)
	v, ok := prog.values[loc]
	return v, ok
}

// Live returns the number of shader and program objects not yet freed.
func (d *Driver) Live() int {
	return d.ids.Live()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// logLength counts the terminating NUL like glGet*iv(GL_INFO_LOG_LENGTH).
func logLength(log string) int {
	if log == "" {
		return 0
	}
	return len(log) + 1
}
