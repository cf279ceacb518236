package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/softrast"
)

const stlTriangleSize = 50

// WriteSTL writes the vertices, three per triangle, to w in binary STL format.
// Normals are calculated from the vertex winding.
func WriteSTL(w io.Writer, vertices []softrast.Vertex) (int, error) {
	if len(vertices) < 3 {
		return 0, ErrEmptyMesh
	}
	nt := int64(len(vertices) / 3) // int64 cast so that next line works correctly on 32bit machines.
	if nt > math.MaxUint32 {
		return 0, errors.New("amount of triangles in model exceeds STL design limits")
	}
	header := stlHeader{Count: uint32(nt)}

	var buf [84]byte
	header.put(buf[:])
	n, err := w.Write(buf[:84])
	if err != nil {
		return n, err
	} else if n != len(buf) {
		return n, io.ErrShortWrite
	}
	var d stlTriangle
	for i := 0; i+2 < len(vertices); i += 3 {
		tri := ms3.Triangle{vertices[i].Position, vertices[i+1].Position, vertices[i+2].Position}
		d.Normal = arrayFromVec(normalOf(tri))
		d.Vertex1 = arrayFromVec(tri[0])
		d.Vertex2 = arrayFromVec(tri[1])
		d.Vertex3 = arrayFromVec(tri[2])
		d.put(buf[:])
		ngot, err := w.Write(buf[:stlTriangleSize])
		n += ngot
		if err != nil {
			return n, err
		} else if ngot != stlTriangleSize {
			return n, io.ErrShortWrite
		}
	}
	return n, nil
}

// ReadSTL reads a binary STL model. Degenerate triangles are kept; triangles with
// non-finite values are rejected. The stored facet normal is used as the vertex
// normal unless it is zero, in which case it is calculated from the vertices.
func ReadSTL(r io.Reader) (output []softrast.Vertex, readErr error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, errors.New("STL header read failed: " + err.Error())
	}
	if header.Count == 0 {
		return nil, ErrEmptyMesh
	}
	var (
		buf [stlTriangleSize]byte
		d   stlTriangle
		i   int
	)
	defer func() {
		if readErr != nil {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, header.Count, readErr)
		}
	}()
	for i = 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			return nil, err
		}
		tri := d.Triangle()
		n := vecFromArray(d.Normal)
		if n == (ms3.Vec{}) {
			n = normalOf(tri)
		}
		for _, p := range tri {
			output = append(output, softrast.Vertex{Position: p, Normal: n})
		}
	}
	return output, nil
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

func (h stlHeader) put(b []byte) {
	_ = b[83] //early bounds check
	binary.LittleEndian.PutUint32(b[80:], h.Count)
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0) // Zero out attributes.
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
	// no attributes supported yet.
}

func (t stlTriangle) validate() error {
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	return nil
}

func (t stlTriangle) Triangle() ms3.Triangle {
	return ms3.Triangle{vecFromArray(t.Vertex1), vecFromArray(t.Vertex2), vecFromArray(t.Vertex3)}
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

func vecFromArray(f [3]float32) ms3.Vec {
	return ms3.Vec{X: f[0], Y: f[1], Z: f[2]}
}

func arrayFromVec(v ms3.Vec) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// normalOf returns the unit normal of the triangle, or the zero vector if it is degenerate.
func normalOf(t ms3.Triangle) ms3.Vec {
	n := ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
	if ms3.Norm(n) == 0 {
		return ms3.Vec{}
	}
	return ms3.Unit(n)
}
