package scene

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"learngl/geometry"
	"learngl/gpu"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx [3]int // 0-based position / UV indices (-1 = absent)
}

// LoadOBJ parses a Wavefront .obj file and returns one MeshData per
// object/group. Polygons are fan-triangulated and identical position/UV
// pairs share a vertex. Normals and materials are ignored.
func LoadOBJ(path string) ([]MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	var positions [][3]float32
	var uvs [][2]float32

	type objObject struct {
		name  string
		faces []objFace
	}
	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			positions = append(positions, [3]float32{p[0], p[1], p[2]})

		case "vt":
			t, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
			}
			uvs = append(uvs, [2]float32{t[0], t[1]})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name}

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: face needs at least 3 vertices", path, lineNo)
			}
			var fverts []faceVertex
			for _, tok := range fields[1:] {
				fv, err := parseFaceVertex(tok, len(positions), len(uvs))
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
				}
				fverts = append(fverts, fv)
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}

	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}

	meshes := make([]MeshData, 0, len(objects))
	for _, obj := range objects {
		meshes = append(meshes, buildMeshFromOBJ(obj.name, obj.faces, positions, uvs))
	}
	return meshes, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

type faceVertex struct{ v, vt int }

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn" or
// "v/vt/vn". OBJ indices are 1-based, negative ones count back from the
// last element read so far; the result is 0-based with -1 for absent.
func parseFaceVertex(tok string, nPos, nUV int) (faceVertex, error) {
	parseIdx := func(s string, n int) (int, error) {
		if s == "" {
			return -1, nil
		}
		i, err := strconv.Atoi(s)
		switch {
		case err != nil:
			return 0, fmt.Errorf("bad index %q", s)
		case i > 0:
			i--
		case i < 0:
			i += n
		default:
			return 0, fmt.Errorf("index 0 in %q", tok)
		}
		if i < 0 || i >= n {
			return 0, fmt.Errorf("index %s out of range in %q", s, tok)
		}
		return i, nil
	}

	parts := strings.Split(tok, "/")
	res := faceVertex{v: -1, vt: -1}
	var err error
	if res.v, err = parseIdx(parts[0], nPos); err != nil {
		return res, err
	}
	if res.v < 0 {
		return res, fmt.Errorf("missing position in %q", tok)
	}
	if len(parts) > 1 {
		if res.vt, err = parseIdx(parts[1], nUV); err != nil {
			return res, err
		}
	}
	return res, nil
}

// buildMeshFromOBJ converts parsed faces into deduplicated, indexed
// MeshData. The mesh uses the position+texcoord layout when any face
// vertex references a UV.
func buildMeshFromOBJ(name string, faces []objFace, positions [][3]float32, uvs [][2]float32) MeshData {
	layout := geometry.Position
	for _, face := range faces {
		if face.vtIdx[0] >= 0 || face.vtIdx[1] >= 0 || face.vtIdx[2] >= 0 {
			layout = geometry.PositionTexCoord
			break
		}
	}

	type key struct{ v, vt int }
	vertMap := map[key]uint32{}
	var vertices []float32
	var indices []uint32
	var next uint32

	for _, face := range faces {
		for c := 0; c < 3; c++ {
			k := key{face.vIdx[c], face.vtIdx[c]}
			idx, ok := vertMap[k]
			if !ok {
				p := positions[k.v]
				vertices = append(vertices, p[0], p[1], p[2])
				if layout == geometry.PositionTexCoord {
					var uv [2]float32
					if k.vt >= 0 {
						uv = uvs[k.vt]
					}
					vertices = append(vertices, uv[0], uv[1])
				}
				idx = next
				next++
				vertMap[k] = idx
			}
			indices = append(indices, idx)
		}
	}

	return MeshData{
		Name:      name,
		Layout:    layout,
		Primitive: gpu.Triangles,
		Vertices:  vertices,
		Indices:   indices,
	}
}
