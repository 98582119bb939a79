package shapes

import "fmt"

// GenSquareGrid generates size*size vertices spread over the unit square
// in the z=0 plane, row-major, and (size-1)^2*2 triangles connecting them.
// Only positions and indices are produced.
func GenSquareGrid(size int) (*Mesh, error) {
	if size < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGridSize, size)
	}

	numIndices := (size - 1) * (size - 1) * 2 * 3
	numVertices := size * size
	stepSize := float32(size - 1)

	mesh := &Mesh{
		Positions:  make([]float32, 3*numVertices),
		Indices:    make([]uint32, numIndices),
		IndexCount: numIndices,
	}

	for i := 0; i < size; i++ { // row
		for j := 0; j < size; j++ { // column
			mesh.Positions[3*(j+i*size)+0] = float32(i) / stepSize
			mesh.Positions[3*(j+i*size)+1] = float32(j) / stepSize
			mesh.Positions[3*(j+i*size)+2] = 0.0
		}
	}

	// two triangles per quad
	for i := 0; i < size-1; i++ {
		for j := 0; j < size-1; j++ {
			quad := 6 * (j + i*(size-1))
			mesh.Indices[quad+0] = uint32(j + i*size)
			mesh.Indices[quad+1] = uint32(j + i*size + 1)
			mesh.Indices[quad+2] = uint32(j + (i+1)*size + 1)

			mesh.Indices[quad+3] = uint32(j + i*size)
			mesh.Indices[quad+4] = uint32(j + (i+1)*size + 1)
			mesh.Indices[quad+5] = uint32(j + (i+1)*size)
		}
	}

	return mesh, nil
}
