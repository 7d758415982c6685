package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction сторона блока; идентификаторы совпадают с индексами текстур граней 0-5
type Direction int

const (
	Down Direction = iota
	Up
	North
	South
	West
	East
	Unknown
)

var directionNames = [...]string{"DOWN", "UP", "NORTH", "SOUTH", "WEST", "EAST", "UNKNOWN"}

func (d Direction) String() string {
	if d < 0 || d > Unknown {
		return "UNKNOWN"
	}
	return directionNames[d]
}

// DirectionOf направление по индексу текстуры грани
func DirectionOf(id int) Direction {
	if id < 0 || id >= int(Unknown) {
		return Unknown
	}
	return Direction(id)
}

// Offset смещение к соседнему блоку
func (d Direction) Offset() (int, int, int) {
	switch d {
	case Down:
		return 0, -1, 0
	case Up:
		return 0, 1, 0
	case North:
		return 0, 0, -1
	case South:
		return 0, 0, 1
	case West:
		return -1, 0, 0
	case East:
		return 1, 0, 0
	}
	return 0, 0, 0
}

// Shade множитель освещённости грани
func (d Direction) Shade() float64 {
	switch d {
	case Up:
		return 1
	case Down:
		return 0.5
	case North, South:
		return 0.8
	case West, East:
		return 0.6
	}
	return 1
}

// DirectionFromNormal сторона по наибольшей компоненте нормали
func DirectionFromNormal(n mgl64.Vec3) Direction {
	ax, ay, az := math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])
	if ax < 1e-9 && ay < 1e-9 && az < 1e-9 {
		return Unknown
	}
	switch {
	case ay >= ax && ay >= az:
		if n[1] > 0 {
			return Up
		}
		return Down
	case ax >= az:
		if n[0] > 0 {
			return East
		}
		return West
	default:
		if n[2] > 0 {
			return South
		}
		return North
	}
}
