package model

import (
	"sort"
	"strings"
)

// Physics физические рамки модели
type Physics struct {
	UseVanillaCollision bool
	UseVanillaWireframe bool
	Collision           *AABB
	Wireframe           *AABB
}

// CollisionBox рамка столкновений в мировых координатах. Без собственной рамки используется vanilla.
func (p Physics) CollisionBox(vanilla AABB, x, y, z int) AABB {
	if p.UseVanillaCollision || p.Collision == nil {
		return vanilla
	}
	return p.Collision.Offset(float64(x), float64(y), float64(z))
}

// WireframeBox рамка выделения в мировых координатах
func (p Physics) WireframeBox(vanilla AABB, x, y, z int) AABB {
	if p.UseVanillaWireframe || p.Wireframe == nil {
		return vanilla
	}
	return p.Wireframe.Offset(float64(x), float64(y), float64(z))
}

// Container именованная модель: физика и, если форма загрузилась, геометрия
type Container struct {
	Name    string
	Physics Physics
	Shape   *Shape
}

// HasShape true, если геометрия модели загружена
func (c *Container) HasShape() bool {
	return c != nil && c.Shape != nil && len(c.Shape.Faces) > 0
}

// Library неизменяемая после загрузки таблица моделей без учёта регистра имени
type Library struct {
	containers map[string]*Container
}

func NewLibrary() *Library {
	return &Library{containers: make(map[string]*Container)}
}

// Add регистрирует модель. Возвращает false, если имя уже занято (существующая запись остаётся).
func (l *Library) Add(c *Container) bool {
	k := strings.ToLower(c.Name)
	if _, exists := l.containers[k]; exists {
		return false
	}
	l.containers[k] = c
	return true
}

// Get ищет модель по имени
func (l *Library) Get(name string) (*Container, bool) {
	if l == nil || name == "" {
		return nil, false
	}
	c, ok := l.containers[strings.ToLower(name)]
	return c, ok
}

func (l *Library) Len() int { return len(l.containers) }

// Names отсортированные имена моделей
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.containers))
	for _, c := range l.containers {
		out = append(out, c.Name)
	}
	sort.Strings(out)
	return out
}
