package shapes

import (
	"fmt"

	"github.com/chewxy/math32"
)

// GenSphere generates a UV sphere centred on the origin with numSlices
// longitude segments and numSlices/2 latitude rings. The seam and pole
// vertices are duplicated so every vertex gets its own texture coordinate,
// giving (numSlices/2+1)*(numSlices+1) vertices and numSlices/2*numSlices*6
// indices.
//
// numSlices must be even and at least 4.
func GenSphere(numSlices int, radius float32) (*Mesh, error) {
	if numSlices < 4 || numSlices%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSlices, numSlices)
	}
	if radius == 0 {
		return nil, ErrInvalidRadius
	}

	numParallels := numSlices / 2
	numVertices := (numParallels + 1) * (numSlices + 1)
	numIndices := numParallels * numSlices * 6
	angleStep := (2.0 * math32.Pi) / float32(numSlices)

	mesh := &Mesh{
		Positions:  make([]float32, 3*numVertices),
		Normals:    make([]float32, 3*numVertices),
		TexCoords:  make([]float32, 2*numVertices),
		Indices:    make([]uint32, 0, numIndices),
		IndexCount: numIndices,
	}

	for i := 0; i < numParallels+1; i++ {
		sinI, cosI := math32.Sincos(angleStep * float32(i))
		for j := 0; j < numSlices+1; j++ {
			sinJ, cosJ := math32.Sincos(angleStep * float32(j))
			vertex := (i*(numSlices+1) + j) * 3

			mesh.Positions[vertex+0] = radius * sinI * sinJ
			mesh.Positions[vertex+1] = radius * cosI
			mesh.Positions[vertex+2] = radius * sinI * cosJ

			mesh.Normals[vertex+0] = mesh.Positions[vertex+0] / radius
			mesh.Normals[vertex+1] = mesh.Positions[vertex+1] / radius
			mesh.Normals[vertex+2] = mesh.Positions[vertex+2] / radius

			texIndex := (i*(numSlices+1) + j) * 2
			mesh.TexCoords[texIndex+0] = float32(j) / float32(numSlices)
			mesh.TexCoords[texIndex+1] = (1.0 - float32(i)) / float32(numParallels-1)
		}
	}

	stride := uint32(numSlices + 1)
	for i := uint32(0); i < uint32(numParallels); i++ {
		for j := uint32(0); j < uint32(numSlices); j++ {
			mesh.Indices = append(mesh.Indices,
				i*stride+j,
				(i+1)*stride+j,
				(i+1)*stride+(j+1),

				i*stride+j,
				(i+1)*stride+(j+1),
				i*stride+(j+1),
			)
		}
	}

	return mesh, nil
}
