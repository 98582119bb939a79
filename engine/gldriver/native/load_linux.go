//go:build linux

package native

import (
	"fmt"

	"github.com/ebitengine/purego"

	"github.com/spaghettifunk/esutil/engine/core"
)

var (
	libraryNames = []string{"libGLESv2.so.2", "libGLESv2.so"}
	eglNames     = []string{"libEGL.so.1", "libEGL.so"}
)

func dlopenFirst(names []string) (uintptr, error) {
	var (
		handle uintptr
		err    error
	)
	for _, name := range names {
		handle, err = purego.Dlopen(name, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err == nil {
			core.LogDebug("Loaded %s.", name)
			return handle, nil
		}
	}
	return 0, err
}

// Load opens libGLESv2 and resolves the shader entry points.
func Load() (*Driver, error) {
	handle, err := dlopenFirst(libraryNames)
	if err != nil {
		return nil, fmt.Errorf("opening libGLESv2: %w", err)
	}

	d := &Driver{}
	for name, dst := range d.symbols() {
		sym, err := purego.Dlsym(handle, name)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", name, err)
		}
		purego.RegisterFunc(dst, sym)
	}
	return d, nil
}

/**
 * @brief Loads the driver and checks through libEGL that a context is
 * current on the calling thread. The caller must have locked its OS thread.
 */
func LoadCurrent() (*Driver, error) {
	handle, err := dlopenFirst(eglNames)
	if err != nil {
		return nil, fmt.Errorf("opening libEGL: %w", err)
	}
	sym, err := purego.Dlsym(handle, "eglGetCurrentContext")
	if err != nil {
		return nil, fmt.Errorf("resolving eglGetCurrentContext: %w", err)
	}
	var getCurrentContext func() uintptr
	purego.RegisterFunc(&getCurrentContext, sym)
	if getCurrentContext() == 0 {
		return nil, ErrNoContext
	}
	return Load()
}
