package geometry

import (
	"fmt"
	"strings"
)

// Layout selects how a flat float32 buffer is split into vertex attributes.
type Layout int

const (
	Position              Layout = iota // 0: vec3
	PositionColor                       // 0: vec3, 1: vec3
	PositionTexCoord                    // 0: vec3, 1: vec2
	PositionColorTexCoord               // 0: vec3, 1: vec3, 2: vec2
)

// Attribute is one vertex attribute slot within a layout. Offset is counted
// in floats from the start of the vertex.
type Attribute struct {
	Location   uint32
	Components int32
	Offset     int
}

var layouts = [...]struct {
	name   string
	stride int
	attrs  []Attribute
}{
	Position: {"position", 3, []Attribute{
		{Location: 0, Components: 3, Offset: 0},
	}},
	PositionColor: {"position+color", 6, []Attribute{
		{Location: 0, Components: 3, Offset: 0},
		{Location: 1, Components: 3, Offset: 3},
	}},
	PositionTexCoord: {"position+texcoord", 5, []Attribute{
		{Location: 0, Components: 3, Offset: 0},
		{Location: 1, Components: 2, Offset: 3},
	}},
	PositionColorTexCoord: {"position+color+texcoord", 8, []Attribute{
		{Location: 0, Components: 3, Offset: 0},
		{Location: 1, Components: 3, Offset: 3},
		{Location: 2, Components: 2, Offset: 6},
	}},
}

func (l Layout) valid() bool { return l >= 0 && int(l) < len(layouts) }

// Stride returns the number of floats per vertex.
func (l Layout) Stride() int {
	if !l.valid() {
		return 0
	}
	return layouts[l].stride
}

// Attributes returns the attribute slots of the layout in location order.
func (l Layout) Attributes() []Attribute {
	if !l.valid() {
		return nil
	}
	return append([]Attribute(nil), layouts[l].attrs...)
}

func (l Layout) String() string {
	if !l.valid() {
		return fmt.Sprintf("Layout(%d)", int(l))
	}
	return layouts[l].name
}

// ParseLayout maps a layout name such as "position+texcoord" to its Layout.
// "uv" is accepted as an alias of "texcoord".
func ParseLayout(s string) (Layout, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "uv", "texcoord")
	for i, l := range layouts {
		if l.name == name {
			return Layout(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown vertex layout %q", ErrInvalidInput, s)
}
