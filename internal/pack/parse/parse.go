// Package parse разбирает числовые значения, диапазоны и списки координат из текста конфигурации паков.
package parse

import (
	"strconv"
	"strings"

	"github.com/annel0/blockpacks/internal/pack/packerr"
)

// Number числовые типы, для которых поддерживается разбор диапазонов
type Number interface {
	~int | ~float32 | ~float64
}

// Value разбирает одно число типа T
func Value[T Number](raw string) (T, error) {
	var zero T
	s := strings.TrimSpace(raw)
	if s == "" {
		return zero, packerr.Parse("empty numeric value")
	}

	switch any(zero).(type) {
	case int:
		v, err := strconv.Atoi(s)
		if err != nil {
			return zero, packerr.Parse("invalid integer %q", raw)
		}
		return T(v), nil
	case float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, packerr.Parse("invalid number %q", raw)
		}
		return T(v), nil
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, packerr.Parse("invalid number %q", raw)
		}
		return T(v), nil
	}
}

// Range разбирает "N" или "N-M". Разделителем считается первый '-' после начала строки,
// поэтому отрицательные границы ("-3--1") допустимы. Частичный результат при ошибке не возвращается.
func Range[T Number](raw string) (T, T, error) {
	var zero T
	s := strings.TrimSpace(raw)
	if s == "" {
		return zero, zero, packerr.Parse("empty range")
	}

	sep := strings.Index(s[1:], "-")
	if sep < 0 {
		v, err := Value[T](s)
		if err != nil {
			return zero, zero, err
		}
		return v, v, nil
	}
	sep++

	min, err := Value[T](s[:sep])
	if err != nil {
		return zero, zero, packerr.Parse("invalid range %q", raw)
	}
	max, err := Value[T](s[sep+1:])
	if err != nil {
		return zero, zero, packerr.Parse("invalid range %q", raw)
	}
	if min > max {
		return zero, zero, packerr.Parse("invalid range %q: min is greater than max", raw)
	}
	return min, max, nil
}

// RangeOr как Range, но пустая строка даёт (fallback, fallback) без ошибки
func RangeOr[T Number](raw string, fallback T) (T, T, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, fallback, nil
	}
	return Range[T](raw)
}

// List разбирает значения, разделённые пробелами, требуя ровно arity элементов
func List[T Number](raw string, arity int) ([]T, error) {
	fields := strings.Fields(raw)
	if len(fields) != arity {
		return nil, packerr.Parse("expected %d values but found %d in %q", arity, len(fields), raw)
	}
	out := make([]T, 0, arity)
	for _, f := range fields {
		v, err := Value[T](f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// TextureCoordinates разбирает строки "x y w h". Ключом служит индекс строки.
func TextureCoordinates(lines []string) (map[int][4]int, error) {
	coords := make(map[int][4]int, len(lines))
	for i, line := range lines {
		values, err := List[int](line, 4)
		if err != nil {
			return nil, packerr.Parse("texture coordinate %d: %v", i, err)
		}
		coords[i] = [4]int{values[0], values[1], values[2], values[3]}
	}
	return coords, nil
}

// Lines разбивает многострочное значение, отбрасывая пустые строки
func Lines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Title возвращает отображаемое имя и строки подсказки.
// Подсказка заполняется остальными строками, только если заголовок многострочный.
func Title(raw string) (string, []string) {
	lines := Lines(raw)
	if len(lines) == 0 {
		return "", nil
	}
	if len(lines) == 1 {
		return lines[0], nil
	}
	return lines[0], lines[1:]
}

// StripExt отрезает расширение и всё, что после него ("apple.png" -> "apple")
func StripExt(raw, ext string) string {
	if i := strings.Index(raw, ext); i >= 0 {
		return raw[:i]
	}
	return raw
}
