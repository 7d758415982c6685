// Package tree даёт иерархический доступ к YAML-конфигурации паков.
// Отсутствующий ключ не ошибка: Get возвращает виртуальный узел, который отдаёт значения по умолчанию.
package tree

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Node узел конфигурации
type Node struct {
	key  string
	path []string
	raw  *yaml.Node
}

// Entry пара ключ/узел дочернего элемента отображения
type Entry struct {
	Key  string
	Node *Node
}

// Parse разбирает YAML-документ. Дублирующиеся ключи сохраняются в порядке объявления.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "yaml")
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return &Node{}, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 {
		return &Node{}, nil
	}
	return &Node{raw: root}, nil
}

// ReadFile читает и разбирает файл конфигурации
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	n, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return n, nil
}

// Key имя узла в родительском отображении
func (n *Node) Key() string { return n.key }

// Path полный путь к узлу через точку
func (n *Node) Path() string { return strings.Join(n.path, ".") }

// Virtual true, если узел отсутствует в документе
func (n *Node) Virtual() bool {
	return n == nil || n.raw == nil || (n.raw.Kind == yaml.ScalarNode && n.raw.Tag == "!!null")
}

// Get спускается по пути. Каждый элемент может содержать точки ("bounds.collision-box").
func (n *Node) Get(path ...string) *Node {
	cur := n
	for _, p := range path {
		for _, part := range strings.Split(p, ".") {
			cur = cur.child(part)
		}
	}
	return cur
}

func (n *Node) child(key string) *Node {
	childPath := append(append([]string(nil), n.path...), key)
	if n.raw == nil || n.raw.Kind != yaml.MappingNode {
		return &Node{key: key, path: childPath}
	}
	for i := 0; i+1 < len(n.raw.Content); i += 2 {
		if strings.EqualFold(n.raw.Content[i].Value, key) {
			return &Node{key: key, path: childPath, raw: n.raw.Content[i+1]}
		}
	}
	return &Node{key: key, path: childPath}
}

func (n *Node) scalar() (string, bool) {
	if n.Virtual() || n.raw.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.raw.Value, true
}

// String значение скаляра или def
func (n *Node) String(def string) string {
	if v, ok := n.scalar(); ok {
		return v
	}
	if !n.Virtual() && n.raw.Kind == yaml.SequenceNode {
		return strings.Join(n.StringList(), "\n")
	}
	return def
}

// Int целое значение или def, если значение отсутствует или не разбирается
func (n *Node) Int(def int) int {
	v, ok := n.scalar()
	if !ok {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if ferr != nil {
			return def
		}
		return int(f)
	}
	return i
}

// Float значение с плавающей точкой или def
func (n *Node) Float(def float64) float64 {
	v, ok := n.scalar()
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// Bool логическое значение или def
func (n *Node) Bool(def bool) bool {
	v, ok := n.scalar()
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

// StringList элементы последовательности как строки. Скаляр даёт список из одного элемента.
func (n *Node) StringList() []string {
	if n.Virtual() {
		return nil
	}
	switch n.raw.Kind {
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.raw.Content))
		for _, c := range n.raw.Content {
			if c.Kind == yaml.ScalarNode {
				out = append(out, c.Value)
			}
		}
		return out
	case yaml.ScalarNode:
		return []string{n.raw.Value}
	}
	return nil
}

// Children дочерние элементы отображения в порядке объявления, включая дубликаты ключей
func (n *Node) Children() []Entry {
	if n.Virtual() || n.raw.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]Entry, 0, len(n.raw.Content)/2)
	for i := 0; i+1 < len(n.raw.Content); i += 2 {
		key := n.raw.Content[i].Value
		out = append(out, Entry{
			Key:  key,
			Node: &Node{key: key, path: append(append([]string(nil), n.path...), key), raw: n.raw.Content[i+1]},
		})
	}
	return out
}

// List элементы последовательности как узлы
func (n *Node) List() []*Node {
	if n.Virtual() || n.raw.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]*Node, 0, len(n.raw.Content))
	for i, c := range n.raw.Content {
		key := strconv.Itoa(i)
		out = append(out, &Node{key: key, path: append(append([]string(nil), n.path...), key), raw: c})
	}
	return out
}
