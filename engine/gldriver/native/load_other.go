//go:build !linux

package native

// Load reports ErrUnsupported outside linux.
func Load() (*Driver, error) {
	return nil, ErrUnsupported
}

func LoadCurrent() (*Driver, error) {
	return nil, ErrUnsupported
}
