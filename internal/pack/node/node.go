// Package node описывает узлы возможностей, прикрепляемые к объектам паков.
// Набор видов фиксирован; объект хранит не более одного узла каждого вида.
package node

import (
	"sync"
)

// Kind вид узла
type Kind int

const (
	KindRotation Kind = iota
	KindLight
	KindRender
	KindBreak
	KindCollision
	KindConsumption
	KindGrowth
	KindFuel
	KindFertilizer
	KindSoil
	KindContainer
	KindRecipe
	KindGrass
	kindCount
)

var kindNames = [kindCount]string{
	"rotation", "light", "render", "break", "collision", "consumption",
	"growth", "fuel", "fertilizer", "soil", "container", "recipe", "grass",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds все виды узлов
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Node узел возможности. Kind должен работать и на nil-указателе.
type Node interface {
	Kind() Kind
}

// AttachHook вызывается после прикрепления узла
type AttachHook func(owner string, n Node)

// Set слоты узлов объекта. Прикрепление возможно и после компиляции, поэтому доступ защищён мьютексом.
type Set struct {
	mu    sync.RWMutex
	owner string
	slots [kindCount]Node
	hook  AttachHook
}

// NewSet создаёт набор узлов владельца owner
func NewSet(owner string, hook AttachHook) *Set {
	return &Set{owner: owner, hook: hook}
}

// Owner идентификатор объекта-владельца
func (s *Set) Owner() string { return s.owner }

// Attach кладёт узел в слот его вида, заменяя прежний. Возвращает заменённый узел.
func (s *Set) Attach(n Node) Node {
	if n == nil {
		return nil
	}
	k := n.Kind()
	if k < 0 || k >= kindCount {
		return nil
	}
	s.mu.Lock()
	prev := s.slots[k]
	s.slots[k] = n
	hook := s.hook
	s.mu.Unlock()

	if hook != nil {
		hook(s.owner, n)
	}
	return prev
}

// Get узел вида k или nil
func (s *Set) Get(k Kind) Node {
	if s == nil || k < 0 || k >= kindCount {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[k]
}

// Has true, если слот вида k занят
func (s *Set) Has(k Kind) bool {
	return s.Get(k) != nil
}

// Attached виды занятых слотов
func (s *Set) Attached() []Kind {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Kind
	for k, n := range s.slots {
		if n != nil {
			out = append(out, Kind(k))
		}
	}
	return out
}

// Lookup типизированный доступ к узлу: node.Lookup[*node.LightNode](set)
func Lookup[T Node](s *Set) (T, bool) {
	var zero T
	t, ok := s.Get(zero.Kind()).(T)
	return t, ok
}
