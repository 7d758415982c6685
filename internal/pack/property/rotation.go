package property

import "strings"

// Rotation состояние размещения блока, хранится в metadata
type Rotation int

const (
	North Rotation = iota
	South
	West
	East
	DownNorth
	DownSouth
	DownWest
	DownEast
	UpNorth
	UpSouth
	UpWest
	UpEast
	// NoRotation неизвестное состояние
	NoRotation Rotation = -1
)

var rotationNames = [...]string{
	"NORTH", "SOUTH", "WEST", "EAST",
	"DOWN_NORTH", "DOWN_SOUTH", "DOWN_WEST", "DOWN_EAST",
	"UP_NORTH", "UP_SOUTH", "UP_WEST", "UP_EAST",
}

func (r Rotation) String() string {
	if r < 0 || int(r) >= len(rotationNames) {
		return "NONE"
	}
	return rotationNames[r]
}

// Rotations все состояния в порядке идентификаторов
func Rotations() []Rotation {
	out := make([]Rotation, len(rotationNames))
	for i := range out {
		out[i] = Rotation(i)
	}
	return out
}

// RotationState состояние по metadata; неизвестное значение даёт NoRotation
func RotationState(meta int) Rotation {
	if meta < 0 || meta >= len(rotationNames) {
		return NoRotation
	}
	return Rotation(meta)
}

// RotationFromName состояние по имени ключа конфигурации ("DOWN-NORTH" и "down_north" допустимы)
func RotationFromName(name string) (Rotation, bool) {
	n := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for i, rn := range rotationNames {
		if rn == n {
			return Rotation(i), true
		}
	}
	return NoRotation, false
}

// Facing горизонтальное направление взгляда игрока
type Facing int

const (
	FacingSouth Facing = iota
	FacingWest
	FacingNorth
	FacingEast
)

// Pitch вертикальная составляющая взгляда камеры
type Pitch int

const (
	PitchLevel Pitch = iota
	PitchUp
	PitchDown
)

// PlacementRotation состояние блока при размещении игроком.
// Блок поворачивается лицевой стороной к игроку.
func PlacementRotation(pitch Pitch, facing Facing) Rotation {
	var base Rotation
	switch facing {
	case FacingSouth:
		base = North
	case FacingNorth:
		base = South
	case FacingWest:
		base = East
	default:
		base = West
	}
	switch pitch {
	case PitchUp:
		return base + UpNorth
	case PitchDown:
		return base + DownNorth
	default:
		return base
	}
}

// Direction направление оси поворота
type Direction int

const (
	DirNone     Direction = 0
	DirPositive Direction = 1
	DirNegative Direction = -1
)

// DirectionFromName "positive", "negative" или "none"; прочие значения дают DirNone
func DirectionFromName(name string) Direction {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "positive":
		return DirPositive
	case "negative":
		return DirNegative
	default:
		return DirNone
	}
}

// RotationProperty явный поворот для одного состояния
type RotationProperty struct {
	Enabled bool
	State   Rotation
	Angle   float64
	X, Y, Z Direction
}

// Axis ось поворота; нулевая ось означает отсутствие поворота
func (p RotationProperty) Axis() (float64, float64, float64) {
	return float64(p.X), float64(p.Y), float64(p.Z)
}
