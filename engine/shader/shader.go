package shader

import (
	"errors"
	"fmt"
	"os"

	"github.com/spaghettifunk/esutil/engine/core"
)

var (
	ErrCompile = errors.New("shader compilation failed")
	ErrLink    = errors.New("program link failed")
)

// ShaderError carries the driver diagnostic of a failed compile or link.
// It matches ErrCompile or ErrLink depending on Stage.
type ShaderError struct {
	Stage Stage
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("%s stage: %s", e.Stage, e.sentinel())
	}
	return fmt.Sprintf("%s stage: %s: %s", e.Stage, e.sentinel(), e.Log)
}

func (e *ShaderError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *ShaderError) sentinel() error {
	if e.Stage == StageLink {
		return ErrLink
	}
	return ErrCompile
}

/**
 * @brief Creates a shader object of the given stage, loads src into it and
 * compiles it.
 *
 * On failure the diagnostic is logged, the shader object is deleted and a
 * zero Shader is returned together with a *ShaderError.
 */
func LoadShader(d Driver, stage Stage, src string) (Shader, error) {
	ty := stage.Enum()
	if ty == 0 {
		return 0, fmt.Errorf("cannot compile a shader for the %s stage", stage)
	}

	s := d.CreateShader(ty)
	if s == 0 {
		return 0, &ShaderError{Stage: stage, Log: "glCreateShader failed"}
	}

	d.ShaderSource(s, src)
	d.CompileShader(s)

	if d.GetShaderi(s, CompileStatus) == 0 {
		var infoLog string
		if d.GetShaderi(s, InfoLogLength) > 1 {
			infoLog = d.GetShaderInfoLog(s)
			core.LogError("Error compiling shader:\n%s", infoLog)
		}
		d.DeleteShader(s)
		return 0, &ShaderError{Stage: stage, Log: infoLog}
	}
	return s, nil
}

/**
 * @brief Compiles vsSrc and fsSrc and links them into a program.
 *
 * The intermediate shader objects are deleted whether or not the link
 * succeeds. A zero Program is returned with a *ShaderError on failure.
 */
func LoadProgram(d Driver, vsSrc, fsSrc string) (Program, error) {
	vs, err := LoadShader(d, StageVertex, vsSrc)
	if err != nil {
		return 0, err
	}

	fs, err := LoadShader(d, StageFragment, fsSrc)
	if err != nil {
		d.DeleteShader(vs)
		return 0, err
	}

	p := d.CreateProgram()
	if p == 0 {
		d.DeleteShader(vs)
		d.DeleteShader(fs)
		return 0, &ShaderError{Stage: StageLink, Log: "glCreateProgram failed"}
	}

	d.AttachShader(p, vs)
	d.AttachShader(p, fs)
	d.LinkProgram(p)

	// Linked or not, the program no longer needs its own references.
	d.DeleteShader(vs)
	d.DeleteShader(fs)

	if d.GetProgrami(p, LinkStatus) == 0 {
		var infoLog string
		if d.GetProgrami(p, InfoLogLength) > 1 {
			infoLog = d.GetProgramInfoLog(p)
			core.LogError("Error linking program:\n%s", infoLog)
		}
		d.DeleteProgram(p)
		return 0, &ShaderError{Stage: StageLink, Log: infoLog}
	}
	return p, nil
}

// LoadProgramFiles reads both sources from disk and calls LoadProgram.
func LoadProgramFiles(d Driver, vsPath, fsPath string) (Program, error) {
	vsSrc, err := os.ReadFile(vsPath)
	if err != nil {
		return 0, fmt.Errorf("reading vertex shader: %w", err)
	}
	fsSrc, err := os.ReadFile(fsPath)
	if err != nil {
		return 0, fmt.Errorf("reading fragment shader: %w", err)
	}
	return LoadProgram(d, string(vsSrc), string(fsSrc))
}
