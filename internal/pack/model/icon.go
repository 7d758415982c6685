package model

// Icon область атласа текстур
type Icon struct {
	Name   string
	MinU   float64
	MaxU   float64
	MinV   float64
	MaxV   float64
	Width  int
	Height int
}

// ClippedIcon часть иконки, назначенная одной грани
type ClippedIcon struct {
	Parent Icon
	MinU   float64
	MaxU   float64
	MinV   float64
	MaxV   float64
}

// UV переводит локальные координаты грани [0,1] в координаты атласа
func (c *ClippedIcon) UV(u, v float64, flipU, flipV bool) (float64, float64) {
	if flipU {
		u = 1 - u
	}
	if flipV {
		v = 1 - v
	}
	return c.MinU + (c.MaxU-c.MinU)*u, c.MinV + (c.MaxV-c.MinV)*v
}

// FullClip иконка целиком
func FullClip(icon Icon) *ClippedIcon {
	return &ClippedIcon{Parent: icon, MinU: icon.MinU, MaxU: icon.MaxU, MinV: icon.MinV, MaxV: icon.MaxV}
}

// ClipIcons нарезает иконку по координатам "x y w h" в пикселях текстуры.
// Индекс результата равен ключу координат; пропущенные индексы остаются nil.
func ClipIcons(icon Icon, coords map[int][4]int) []*ClippedIcon {
	if len(coords) == 0 || icon.Width <= 0 || icon.Height <= 0 {
		return nil
	}
	size := 0
	for idx := range coords {
		if idx+1 > size {
			size = idx + 1
		}
	}
	out := make([]*ClippedIcon, size)
	du := icon.MaxU - icon.MinU
	dv := icon.MaxV - icon.MinV
	w, h := float64(icon.Width), float64(icon.Height)
	for idx, c := range coords {
		if idx < 0 {
			continue
		}
		x, y, cw, ch := float64(c[0]), float64(c[1]), float64(c[2]), float64(c[3])
		out[idx] = &ClippedIcon{
			Parent: icon,
			MinU:   icon.MinU + du*x/w,
			MaxU:   icon.MinU + du*(x+cw)/w,
			MinV:   icon.MinV + dv*y/h,
			MaxV:   icon.MinV + dv*(y+ch)/h,
		}
	}
	return out
}

// IsEmptyClip true, если в массиве нет ни одной иконки
func IsEmptyClip(icons []*ClippedIcon) bool {
	for _, i := range icons {
		if i != nil {
			return false
		}
	}
	return true
}

// SelectClip иконка для индекса текстуры грани; вне диапазона или nil даёт первую доступную иконку
func SelectClip(icons []*ClippedIcon, textureID int) *ClippedIcon {
	if textureID >= 0 && textureID < len(icons) && icons[textureID] != nil {
		return icons[textureID]
	}
	for _, i := range icons {
		if i != nil {
			return i
		}
	}
	return nil
}
