package glrender

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// objModel is a Wavefront OBJ model flattened into per-vertex streams.
// Vertices that share the same position/uv/normal triple are emitted once.
type objModel struct {
	positions []float32 // 3 per vertex
	texcoords []float32 // 2 per vertex
	normals   []float32 // 3 per vertex
	indices   []uint32

	hasTexcoords bool
	hasNormals   bool
}

func (m *objModel) vertexCount() int { return len(m.positions) / 3 }

// objVertexKey identifies a face vertex by its zero-based v/vt/vn indices;
// -1 marks a missing component.
type objVertexKey [3]int

type objParser struct {
	vertexList []float32
	uvList     []float32
	normalList []float32

	model  *objModel
	lookup map[objVertexKey]uint32
}

// parseOBJ reads the geometry subset of a Wavefront OBJ file: v, vt, vn
// and f records. Faces with more than three vertices are triangulated as
// fans. Other records (materials, groups, smoothing) are ignored.
func parseOBJ(r io.Reader) (*objModel, error) {
	p := &objParser{
		model:  &objModel{},
		lookup: make(map[objVertexKey]uint32),
	}

	lineNum := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "v":
			p.vertexList, err = appendFloats(p.vertexList, lineTokens, 3)
		case "vt":
			p.uvList, err = appendFloats(p.uvList, lineTokens, 2)
		case "vn":
			p.normalList, err = appendFloats(p.normalList, lineTokens, 3)
		case "f":
			err = p.parseFace(lineTokens)
		}
		if err != nil {
			return nil, fmt.Errorf("glrender: obj line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("glrender: obj: %w", err)
	}
	if len(p.model.indices) == 0 {
		return nil, fmt.Errorf("%w: obj has no faces", ErrInvalidVertexData)
	}
	return p.model, nil
}

// appendFloats parses the first n arguments of a record. Extra arguments
// (such as the optional w of "v") are ignored.
func appendFloats(dst []float32, lineTokens []string, n int) ([]float32, error) {
	if len(lineTokens) < n+1 {
		return dst, fmt.Errorf("unsupported syntax for '%s'; expected %d arguments; got %d", lineTokens[0], n, len(lineTokens)-1)
	}
	for _, tok := range lineTokens[1 : n+1] {
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return dst, fmt.Errorf("could not parse '%s' argument %q: %w", lineTokens[0], tok, err)
		}
		dst = append(dst, float32(v))
	}
	return dst, nil
}

func (p *objParser) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf("unsupported syntax for 'f'; expected at least 3 arguments; got %d", len(lineTokens)-1)
	}

	corners := make([]uint32, 0, len(lineTokens)-1)
	expIndices := 0
	for arg, tok := range lineTokens[1:] {
		vTokens := strings.Split(tok, "/")

		// The first argument defines the format of the rest.
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d", expIndices, arg, len(vTokens))
		}
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		key := objVertexKey{-1, -1, -1}
		lists := [3]int{len(p.vertexList) / 3, len(p.uvList) / 2, len(p.normalList) / 3}
		for i := 0; i < len(vTokens) && i < 3; i++ {
			if vTokens[i] == "" {
				continue
			}
			idx, err := selectFaceCoordIndex(vTokens[i], lists[i])
			if err != nil {
				return fmt.Errorf("face argument %d: %w", arg, err)
			}
			key[i] = idx
		}
		corners = append(corners, p.vertex(key))
	}

	for i := 1; i+1 < len(corners); i++ {
		p.model.indices = append(p.model.indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// vertex returns the output index for key, emitting a new vertex on first use.
func (p *objParser) vertex(key objVertexKey) uint32 {
	if idx, ok := p.lookup[key]; ok {
		return idx
	}
	m := p.model
	idx := uint32(m.vertexCount())

	m.positions = append(m.positions, p.vertexList[key[0]*3:key[0]*3+3]...)
	if key[1] >= 0 {
		m.texcoords = append(m.texcoords, p.uvList[key[1]*2:key[1]*2+2]...)
		m.hasTexcoords = true
	} else {
		m.texcoords = append(m.texcoords, 0, 0)
	}
	if key[2] >= 0 {
		m.normals = append(m.normals, p.normalList[key[2]*3:key[2]*3+3]...)
		m.hasNormals = true
	} else {
		m.normals = append(m.normals, 0, 0, 0)
	}

	p.lookup[key] = idx
	return idx
}

// selectFaceCoordIndex converts a one-based (or negative, relative to the
// end of the list) OBJ index into a zero-based one.
func selectFaceCoordIndex(token string, listLen int) (int, error) {
	index, err := strconv.Atoi(token)
	if err != nil {
		return 0, err
	}
	switch {
	case index < 0:
		index += listLen
	case index > 0:
		index--
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
	if index < 0 || index >= listLen {
		return 0, fmt.Errorf("index %s out of range (%d entries)", token, listLen)
	}
	return index, nil
}
