package scene

import (
	"fmt"
	"math"

	"learngl/geometry"
	"learngl/gpu"
)

// Shape returns a generated unit-sized mesh by name: "sphere", "plane"
// or "grid". Use an instance scale to resize it.
func Shape(name string) (MeshData, error) {
	switch name {
	case "sphere":
		return CreateSphere(0.5, 32, 16), nil
	case "plane":
		return CreatePlane(1, 1, 1), nil
	case "grid":
		return CreateGrid(10, 10), nil
	}
	return MeshData{}, fmt.Errorf("unknown shape %q", name)
}

// CreateSphere generates an indexed UV sphere with the position+texcoord
// layout.
func CreateSphere(radius float32, segments, rings int) MeshData {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var vertices []float32
	var indices []uint32

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * math.Pi / float64(rings)
		sinPhi := float32(math.Sin(phi))
		cosPhi := float32(math.Cos(phi))

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * math.Pi / float64(segments)
			sinTheta := float32(math.Sin(theta))
			cosTheta := float32(math.Cos(theta))

			vertices = append(vertices,
				radius*sinPhi*cosTheta, radius*cosPhi, radius*sinPhi*sinTheta,
				float32(seg)/float32(segments), float32(ring)/float32(rings),
			)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return MeshData{
		Name:      "sphere",
		Layout:    geometry.PositionTexCoord,
		Primitive: gpu.Triangles,
		Vertices:  vertices,
		Indices:   indices,
	}
}

// CreatePlane generates a flat plane in the XZ plane centred on the origin,
// with the position+texcoord layout.
func CreatePlane(width, depth float32, subdivisions int) MeshData {
	if subdivisions < 1 {
		subdivisions = 1
	}

	var vertices []float32
	var indices []uint32

	halfW := width / 2.0
	halfD := depth / 2.0

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			vertices = append(vertices, -halfW+u*width, 0, -halfD+v*depth, u, v)
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := uint32(z*(subdivisions+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(subdivisions+1)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return MeshData{
		Name:      "plane",
		Layout:    geometry.PositionTexCoord,
		Primitive: gpu.Triangles,
		Vertices:  vertices,
		Indices:   indices,
	}
}

// CreateGrid builds a flat XZ grid drawn as lines with the position+color
// layout.
//
//	size      total extent (the grid spans -size/2 to +size/2)
//	divisions number of cells along each axis
//
// The X-axis centre line is red, the Z-axis centre line is blue and the
// other lines are dark gray.
func CreateGrid(size float32, divisions int) MeshData {
	if divisions < 1 {
		divisions = 1
	}

	half := size / 2.0
	step := size / float32(divisions)

	gray := [3]float32{0.35, 0.35, 0.35}
	red := [3]float32{0.8, 0.15, 0.15}  // X axis
	blue := [3]float32{0.15, 0.35, 0.9} // Z axis

	var vertices []float32
	addLine := func(ax, az, bx, bz float32, c [3]float32) {
		vertices = append(vertices,
			ax, 0, az, c[0], c[1], c[2],
			bx, 0, bz, c[0], c[1], c[2],
		)
	}

	// Lines parallel to Z (vary X)
	for i := 0; i <= divisions; i++ {
		x := -half + float32(i)*step
		c := gray
		if i == divisions/2 {
			c = blue
		}
		addLine(x, -half, x, half, c)
	}

	// Lines parallel to X (vary Z)
	for i := 0; i <= divisions; i++ {
		z := -half + float32(i)*step
		c := gray
		if i == divisions/2 {
			c = red
		}
		addLine(-half, z, half, z, c)
	}

	return MeshData{
		Name:      "grid",
		Layout:    geometry.PositionColor,
		Primitive: gpu.Lines,
		Vertices:  vertices,
	}
}
