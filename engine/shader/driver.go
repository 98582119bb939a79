// Package shader compiles and links GLSL ES programs through a Driver and
// keeps named programs in sync with their source files.
package shader

import "fmt"

// Enum mirrors GLenum.
type Enum uint32

const (
	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31
	CompileStatus  Enum = 0x8B81
	LinkStatus     Enum = 0x8B82
	InfoLogLength  Enum = 0x8B84
	ShaderType     Enum = 0x8B4F
	DeleteStatus   Enum = 0x8B80
)

// Shader is a shader object name. Zero is never a valid shader.
type Shader uint32

// Program is a program object name. Zero is never a valid program.
type Program uint32

// Uniform is a uniform location; -1 means the uniform does not exist.
type Uniform int32

// Attrib is a vertex attribute location; -1 means the attribute does not exist.
type Attrib int32

// Stage identifies where a build failed.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageLink
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Enum returns the shader type a compile stage maps to, or zero for StageLink.
func (s Stage) Enum() Enum {
	switch s {
	case StageVertex:
		return VertexShader
	case StageFragment:
		return FragmentShader
	default:
		return 0
	}
}

// Driver is the part of the GLES 2.0 API the shader bootstrap and the
// per-frame uniform upload need. Implementations must be called from the
// goroutine that owns the GL context.
type Driver interface {
	CreateShader(ty Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	DeleteProgram(p Program)

	UseProgram(p Program)
	GetUniformLocation(p Program, name string) Uniform
	GetAttribLocation(p Program, name string) Attrib
	UniformMatrix4fv(dst Uniform, src []float32)
}
