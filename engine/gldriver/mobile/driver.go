// Package mobile adapts a golang.org/x/mobile/gl context to shader.Driver,
// for hosts that already run an x/mobile app loop.
package mobile

import (
	"golang.org/x/mobile/gl"

	"github.com/spaghettifunk/esutil/engine/shader"
)

var _ shader.Driver = (*Driver)(nil)

type Driver struct {
	ctx gl.Context
}

// New wraps ctx. The context must be used from the goroutine x/mobile
// hands it to, usually inside the paint event handler.
func New(ctx gl.Context) *Driver {
	return &Driver{ctx: ctx}
}

func glShader(s shader.Shader) gl.Shader {
	return gl.Shader{Value: uint32(s)}
}

func glProgram(p shader.Program) gl.Program {
	return gl.Program{Init: p != 0, Value: uint32(p)}
}

func (d *Driver) CreateShader(ty shader.Enum) shader.Shader {
	return shader.Shader(d.ctx.CreateShader(gl.Enum(ty)).Value)
}

func (d *Driver) ShaderSource(s shader.Shader, src string) {
	d.ctx.ShaderSource(glShader(s), src)
}

func (d *Driver) CompileShader(s shader.Shader) {
	d.ctx.CompileShader(glShader(s))
}

func (d *Driver) GetShaderi(s shader.Shader, pname shader.Enum) int {
	return d.ctx.GetShaderi(glShader(s), gl.Enum(pname))
}

func (d *Driver) GetShaderInfoLog(s shader.Shader) string {
	return d.ctx.GetShaderInfoLog(glShader(s))
}

func (d *Driver) DeleteShader(s shader.Shader) {
	d.ctx.DeleteShader(glShader(s))
}

func (d *Driver) CreateProgram() shader.Program {
	return shader.Program(d.ctx.CreateProgram().Value)
}

func (d *Driver) AttachShader(p shader.Program, s shader.Shader) {
	d.ctx.AttachShader(glProgram(p), glShader(s))
}

func (d *Driver) LinkProgram(p shader.Program) {
	d.ctx.LinkProgram(glProgram(p))
}

func (d *Driver) GetProgrami(p shader.Program, pname shader.Enum) int {
	return d.ctx.GetProgrami(glProgram(p), gl.Enum(pname))
}

func (d *Driver) GetProgramInfoLog(p shader.Program) string {
	return d.ctx.GetProgramInfoLog(glProgram(p))
}

func (d *Driver) DeleteProgram(p shader.Program) {
	d.ctx.DeleteProgram(glProgram(p))
}

func (d *Driver) UseProgram(p shader.Program) {
	d.ctx.UseProgram(glProgram(p))
}

func (d *Driver) GetUniformLocation(p shader.Program, name string) shader.Uniform {
	return shader.Uniform(d.ctx.GetUniformLocation(glProgram(p), name).Value)
}

func (d *Driver) GetAttribLocation(p shader.Program, name string) shader.Attrib {
	a := d.ctx.GetAttribLocation(glProgram(p), name)
	// x/mobile reports a missing attribute as the unsigned form of -1.
	return shader.Attrib(int32(a.Value))
}

func (d *Driver) UniformMatrix4fv(dst shader.Uniform, src []float32) {
	d.ctx.UniformMatrix4fv(gl.Uniform{Value: int32(dst)}, src)
}
