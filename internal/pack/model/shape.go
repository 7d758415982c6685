// Package model хранит геометрию форм паков, физические рамки и вырезанные иконки граней.
package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Center центр блока, относительно которого выполняются повороты и масштаб
var Center = mgl64.Vec3{0.5, 0.5, 0.5}

// Vertex вершина грани
type Vertex struct {
	Pos   mgl64.Vec3
	U, V  float64
	Color int
}

// NewVertex вершина белого цвета
func NewVertex(x, y, z float64) Vertex {
	return Vertex{Pos: mgl64.Vec3{x, y, z}, Color: 0xFFFFFF}
}

// Face грань формы
type Face struct {
	TextureID int
	Vertices  []Vertex
	// Side сторона текстуры, заданная при загрузке
	Side Direction
	// Mirrored грань получена отражением при достройке формы
	Mirrored bool
}

var standardUV = [4][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// SetStandardUV назначает вершинам стандартные UV по кругу
func (f *Face) SetStandardUV() {
	for i := range f.Vertices {
		uv := standardUV[i%4]
		f.Vertices[i].U, f.Vertices[i].V = uv[0], uv[1]
	}
}

// Normal нормаль по первым трём вершинам, (v1-v0) x (v2-v0)
func (f *Face) Normal() mgl64.Vec3 {
	if len(f.Vertices) < 3 {
		return mgl64.Vec3{}
	}
	a := f.Vertices[1].Pos.Sub(f.Vertices[0].Pos)
	b := f.Vertices[2].Pos.Sub(f.Vertices[0].Pos)
	n := a.Cross(b)
	if n.Len() < 1e-12 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

// Direction сторона, в которую смотрит грань. Вырожденные грани используют сторону текстуры.
func (f *Face) Direction() Direction {
	if d := DirectionFromNormal(f.Normal()); d != Unknown {
		return d
	}
	return f.Side
}

func (f Face) clone() Face {
	f.Vertices = append([]Vertex(nil), f.Vertices...)
	return f
}

// Shape набор граней. Базовые формы не изменяются после построения:
// все преобразования пишут результат в отдельную форму.
type Shape struct {
	Faces []Face
	// Model true для форм из пака, false для стандартного куба
	Model bool
}

// Clone глубокая копия формы
func (s *Shape) Clone() *Shape {
	out := &Shape{Faces: make([]Face, len(s.Faces)), Model: s.Model}
	for i, f := range s.Faces {
		out.Faces[i] = f.clone()
	}
	return out
}

// TransformInto записывает в dst копию s, преобразованную матрицей m.
// Срезы dst переиспользуются, поэтому dst принадлежит вызывающему.
func (s *Shape) TransformInto(dst *Shape, m mgl64.Mat4) {
	dst.Model = s.Model
	if cap(dst.Faces) < len(s.Faces) {
		dst.Faces = make([]Face, len(s.Faces))
	}
	dst.Faces = dst.Faces[:len(s.Faces)]
	for i := range s.Faces {
		src := &s.Faces[i]
		out := &dst.Faces[i]
		verts := out.Vertices
		if cap(verts) < len(src.Vertices) {
			verts = make([]Vertex, len(src.Vertices))
		}
		verts = verts[:len(src.Vertices)]
		for j, v := range src.Vertices {
			v.Pos = m.Mul4x1(v.Pos.Vec4(1)).Vec3()
			verts[j] = v
		}
		*out = Face{TextureID: src.TextureID, Vertices: verts, Side: src.Side, Mirrored: src.Mirrored}
	}
}

// Transformed новая форма, преобразованная матрицей m
func (s *Shape) Transformed(m mgl64.Mat4) *Shape {
	out := &Shape{}
	s.TransformInto(out, m)
	return out
}

// RotationAbout поворот на angle градусов вокруг оси через точку c.
// Нулевая ось даёт единичную матрицу.
func RotationAbout(angle float64, axis, c mgl64.Vec3) mgl64.Mat4 {
	if axis.Len() < 1e-12 || angle == 0 {
		return mgl64.Ident4()
	}
	rot := mgl64.HomogRotate3D(mgl64.DegToRad(angle), axis.Normalize())
	return mgl64.Translate3D(c[0], c[1], c[2]).Mul4(rot).Mul4(mgl64.Translate3D(-c[0], -c[1], -c[2]))
}

// ScaleAbout масштаб относительно точки c
func ScaleAbout(x, y, z float64, c mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(c[0], c[1], c[2]).Mul4(mgl64.Scale3D(x, y, z)).Mul4(mgl64.Translate3D(-c[0], -c[1], -c[2]))
}

// MaxCoordinate наибольший модуль координаты среди всех вершин
func (s *Shape) MaxCoordinate() float64 {
	max := 0.0
	for _, f := range s.Faces {
		for _, v := range f.Vertices {
			for _, c := range v.Pos {
				max = math.Max(max, math.Abs(c))
			}
		}
	}
	return max
}

// Complete достраивает форму до minFaces граней отражёнными копиями (масштаб -1 по X и Z
// относительно центра блока). Берётся отражение грани i, а когда исходных граней не хватает,
// отражение последней.
func (s *Shape) Complete(minFaces int) {
	n := len(s.Faces)
	if n == 0 || n >= minFaces {
		return
	}
	mirror := s.Transformed(ScaleAbout(-1, 1, -1, Center))
	for i := 0; i < minFaces-n; i++ {
		idx := i
		if idx >= len(mirror.Faces) {
			idx = len(mirror.Faces) - 1
		}
		face := mirror.Faces[idx].clone()
		face.Mirrored = true
		s.Faces = append(s.Faces, face)
	}
}

// Cube стандартный единичный куб с гранями в порядке Direction
func Cube() *Shape {
	quads := [6][4][3]float64{
		Down:  {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
		Up:    {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
		North: {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		South: {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
		West:  {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
		East:  {{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	}
	s := &Shape{Faces: make([]Face, 0, 6)}
	for d, q := range quads {
		f := Face{TextureID: d, Side: Direction(d)}
		for _, p := range q {
			f.Vertices = append(f.Vertices, NewVertex(p[0], p[1], p[2]))
		}
		f.SetStandardUV()
		s.Faces = append(s.Faces, f)
	}
	return s
}
