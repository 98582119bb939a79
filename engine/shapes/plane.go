package shapes

import "github.com/spaghettifunk/esutil/engine/core"

// GenPlane generates a plane in the XY plane centred on the origin, facing +Z,
// split into xSegmentCount*ySegmentCount quads with four vertices each.
// Texture coordinates repeat tileX and tileY times across the plane.
// Zero sizes, counts or tiling fall back to one with a warning.
func GenPlane(width, height float32, xSegmentCount, ySegmentCount uint32, tileX, tileY float32) *Mesh {
	if width == 0 {
		core.LogWarn("Width must be nonzero. Defaulting to one.")
		width = 1.0
	}
	if height == 0 {
		core.LogWarn("Height must be nonzero. Defaulting to one.")
		height = 1.0
	}
	if xSegmentCount < 1 {
		core.LogWarn("xSegmentCount must be a positive number. Defaulting to one.")
		xSegmentCount = 1
	}
	if ySegmentCount < 1 {
		core.LogWarn("ySegmentCount must be a positive number. Defaulting to one.")
		ySegmentCount = 1
	}
	if tileX == 0 {
		core.LogWarn("tileX must be nonzero. Defaulting to one.")
		tileX = 1.0
	}
	if tileY == 0 {
		core.LogWarn("tileY must be nonzero. Defaulting to one.")
		tileY = 1.0
	}

	quads := xSegmentCount * ySegmentCount
	mesh := &Mesh{
		Positions:  make([]float32, quads*4*3),
		Normals:    make([]float32, quads*4*3),
		TexCoords:  make([]float32, quads*4*2),
		Indices:    make([]uint32, quads*6),
		IndexCount: int(quads * 6),
	}

	segWidth := width / float32(xSegmentCount)
	segHeight := height / float32(ySegmentCount)
	halfWidth := width * 0.5
	halfHeight := height * 0.5
	for y := uint32(0); y < ySegmentCount; y++ {
		for x := uint32(0); x < xSegmentCount; x++ {
			minX := (float32(x) * segWidth) - halfWidth
			minY := (float32(y) * segHeight) - halfHeight
			maxX := minX + segWidth
			maxY := minY + segHeight
			minUVX := (float32(x) / float32(xSegmentCount)) * tileX
			minUVY := (float32(y) / float32(ySegmentCount)) * tileY
			maxUVX := (float32(x+1) / float32(xSegmentCount)) * tileX
			maxUVY := (float32(y+1) / float32(ySegmentCount)) * tileY

			// 0    3     v0 min/min, v1 max/max, v2 min/max, v3 max/min
			// 2    1
			vOffset := ((y * xSegmentCount) + x) * 4
			corners := [4][4]float32{
				{minX, minY, minUVX, minUVY},
				{maxX, maxY, maxUVX, maxUVY},
				{minX, maxY, minUVX, maxUVY},
				{maxX, minY, maxUVX, minUVY},
			}
			for k, c := range corners {
				v := vOffset + uint32(k)
				mesh.Positions[v*3+0] = c[0]
				mesh.Positions[v*3+1] = c[1]
				mesh.Normals[v*3+2] = 1.0
				mesh.TexCoords[v*2+0] = c[2]
				mesh.TexCoords[v*2+1] = c[3]
			}

			iOffset := ((y * xSegmentCount) + x) * 6
			mesh.Indices[iOffset+0] = vOffset + 0
			mesh.Indices[iOffset+1] = vOffset + 3
			mesh.Indices[iOffset+2] = vOffset + 1
			mesh.Indices[iOffset+3] = vOffset + 0
			mesh.Indices[iOffset+4] = vOffset + 1
			mesh.Indices[iOffset+5] = vOffset + 2
		}
	}

	return mesh
}
