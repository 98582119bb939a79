// Package native binds the system libGLESv2 with purego, without cgo.
// The caller owns context creation: a GLES context must be current on the
// calling thread before any Driver method runs.
package native

import (
	"bytes"
	"errors"
	"runtime"

	"github.com/spaghettifunk/esutil/engine/shader"
)

var (
	ErrUnsupported = errors.New("native GLES driver is not supported on this platform")
	ErrNoContext   = errors.New("no EGL context is current on this thread")
)

var _ shader.Driver = (*Driver)(nil)

type Driver struct {
	createShader       func(uint32) uint32
	shaderSource       func(uint32, int32, **byte, *int32)
	compileShader      func(uint32)
	getShaderiv        func(uint32, uint32, *int32)
	getShaderInfoLog   func(uint32, int32, *int32, *byte)
	deleteShader       func(uint32)
	createProgram      func() uint32
	attachShader       func(uint32, uint32)
	linkProgram        func(uint32)
	getProgramiv       func(uint32, uint32, *int32)
	getProgramInfoLog  func(uint32, int32, *int32, *byte)
	deleteProgram      func(uint32)
	useProgram         func(uint32)
	getUniformLocation func(uint32, *byte) int32
	getAttribLocation  func(uint32, *byte) int32
	uniformMatrix4fv   func(int32, int32, uint8, *float32)
}

// symbols lists every entry point Load resolves.
func (d *Driver) symbols() map[string]interface{} {
	return map[string]interface{}{
		"glCreateShader":       &d.createShader,
		"glShaderSource":       &d.shaderSource,
		"glCompileShader":      &d.compileShader,
		"glGetShaderiv":        &d.getShaderiv,
		"glGetShaderInfoLog":   &d.getShaderInfoLog,
		"glDeleteShader":       &d.deleteShader,
		"glCreateProgram":      &d.createProgram,
		"glAttachShader":       &d.attachShader,
		"glLinkProgram":        &d.linkProgram,
		"glGetProgramiv":       &d.getProgramiv,
		"glGetProgramInfoLog":  &d.getProgramInfoLog,
		"glDeleteProgram":      &d.deleteProgram,
		"glUseProgram":         &d.useProgram,
		"glGetUniformLocation": &d.getUniformLocation,
		"glGetAttribLocation":  &d.getAttribLocation,
		"glUniformMatrix4fv":   &d.uniformMatrix4fv,
	}
}

func (d *Driver) CreateShader(ty shader.Enum) shader.Shader {
	return shader.Shader(d.createShader(uint32(ty)))
}

func (d *Driver) ShaderSource(s shader.Shader, src string) {
	buf := cString(src)
	ptr := &buf[0]
	length := int32(len(src))
	d.shaderSource(uint32(s), 1, &ptr, &length)
	runtime.KeepAlive(buf)
}

func (d *Driver) CompileShader(s shader.Shader) {
	d.compileShader(uint32(s))
}

func (d *Driver) GetShaderi(s shader.Shader, pname shader.Enum) int {
	var v int32
	d.getShaderiv(uint32(s), uint32(pname), &v)
	return int(v)
}

func (d *Driver) GetShaderInfoLog(s shader.Shader) string {
	n := d.GetShaderi(s, shader.InfoLogLength)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	d.getShaderInfoLog(uint32(s), int32(n), &written, &buf[0])
	return goString(buf[:written])
}

func (d *Driver) DeleteShader(s shader.Shader) {
	d.deleteShader(uint32(s))
}

func (d *Driver) CreateProgram() shader.Program {
	return shader.Program(d.createProgram())
}

func (d *Driver) AttachShader(p shader.Program, s shader.Shader) {
	d.attachShader(uint32(p), uint32(s))
}

func (d *Driver) LinkProgram(p shader.Program) {
	d.linkProgram(uint32(p))
}

func (d *Driver) GetProgrami(p shader.Program, pname shader.Enum) int {
	var v int32
	d.getProgramiv(uint32(p), uint32(pname), &v)
	return int(v)
}

func (d *Driver) GetProgramInfoLog(p shader.Program) string {
	n := d.GetProgrami(p, shader.InfoLogLength)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	d.getProgramInfoLog(uint32(p), int32(n), &written, &buf[0])
	return goString(buf[:written])
}

func (d *Driver) DeleteProgram(p shader.Program) {
	d.deleteProgram(uint32(p))
}

func (d *Driver) UseProgram(p shader.Program) {
	d.useProgram(uint32(p))
}

func (d *Driver) GetUniformLocation(p shader.Program, name string) shader.Uniform {
	buf := cString(name)
	loc := d.getUniformLocation(uint32(p), &buf[0])
	runtime.KeepAlive(buf)
	return shader.Uniform(loc)
}

func (d *Driver) GetAttribLocation(p shader.Program, name string) shader.Attrib {
	buf := cString(name)
	loc := d.getAttribLocation(uint32(p), &buf[0])
	runtime.KeepAlive(buf)
	return shader.Attrib(loc)
}

func (d *Driver) UniformMatrix4fv(dst shader.Uniform, src []float32) {
	if len(src) < 16 {
		return
	}
	d.uniformMatrix4fv(int32(dst), int32(len(src)/16), 0, &src[0])
}

// cString returns s as a NUL terminated byte slice.
func cString(s string) []byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf
}

func goString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}
