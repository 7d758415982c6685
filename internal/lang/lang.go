// Package lang хранит локализованные имена объектов паков.
package lang

import (
	"sort"
	"sync"
)

// Default язык, в котором регистрируются заголовки паков
const Default = "en_US"

// Registrar внешний API локализации
type Registrar interface {
	Put(language, key, value string)
}

// Registry таблица строк по языкам
type Registry struct {
	mu     sync.RWMutex
	tables map[string]map[string]string
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]map[string]string)}
}

// Put регистрирует строку, заменяя прежнее значение
func (r *Registry) Put(language, key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[language]
	if !ok {
		t = make(map[string]string)
		r.tables[language] = t
	}
	t[key] = value
}

// Get строка для языка
func (r *Registry) Get(language, key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.tables[language][key]
	return v, ok
}

// Len число строк языка
func (r *Registry) Len(language string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables[language])
}

// Keys отсортированные ключи языка
func (r *Registry) Keys(language string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.tables[language]))
	for k := range r.tables[language] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
