// Package property содержит типизированные значения внутри узлов: диапазоны, дропы, бонусы, состояния.
package property

import (
	"math"
	"math/rand/v2"

	"github.com/annel0/blockpacks/internal/pack/parse"
)

// Source источник случайности для розыгрыша значений
type Source interface {
	IntN(n int) int
	Float64() float64
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource источник на глобальном генераторе math/rand/v2
func DefaultSource() Source { return globalSource{} }

// NewSource детерминированный источник для воспроизводимых розыгрышей
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Range замкнутый интервал [Min, Max]. Draw возвращает новое равномерное значение при каждом вызове.
type Range[T parse.Number] struct {
	Enabled bool
	Min     T
	Max     T
}

// Fixed диапазон из одного значения
func Fixed[T parse.Number](v T) Range[T] {
	return Range[T]{Enabled: true, Min: v, Max: v}
}

// NewRange диапазон из разобранной строки; ошибка разбора возвращается как есть
func NewRange[T parse.Number](enabled bool, raw string, fallback T) (Range[T], error) {
	min, max, err := parse.RangeOr(raw, fallback)
	if err != nil {
		return Range[T]{Enabled: enabled, Min: fallback, Max: fallback}, err
	}
	return Range[T]{Enabled: enabled, Min: min, Max: max}, nil
}

// Draw разыгрывает значение в диапазоне
func (r Range[T]) Draw(src Source) T {
	if r.Max <= r.Min {
		return r.Min
	}
	var zero T
	switch any(zero).(type) {
	case int:
		span := uint64(r.Max) - uint64(r.Min)
		if span < math.MaxInt {
			return r.Min + T(src.IntN(int(span)+1))
		}
		// Ширина не помещается в int: смещение считается в uint64 с переносом
		off := min(uint64(src.Float64()*float64(span)), span)
		return T(uint64(r.Min) + off)
	default:
		return r.Min + T(src.Float64()*float64(r.Max-r.Min))
	}
}

// Contains проверяет попадание значения в интервал
func (r Range[T]) Contains(v T) bool {
	return v >= r.Min && v <= r.Max
}
