// Package recipe регистрирует рецепты крафта и плавки, объявленные в паках.
package recipe

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/packerr"
	"github.com/annel0/blockpacks/internal/pack/property"
)

// Kind вид рецепта
type Kind int

const (
	Shaped Kind = iota + 1
	Shapeless
	Smelt
)

func (k Kind) String() string {
	switch k {
	case Shaped:
		return "shaped"
	case Shapeless:
		return "shapeless"
	case Smelt:
		return "smelt"
	default:
		return "unknown"
	}
}

// KindFromName разбирает значение ключа type
func KindFromName(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shaped":
		return Shaped, nil
	case "shapeless":
		return Shapeless, nil
	case "smelt", "smelting", "furnace":
		return Smelt, nil
	default:
		return 0, packerr.UnknownRecipeType("unknown recipe type %q", name)
	}
}

// Ingredient ингредиент рецепта. Air обозначает пустую клетку сетки.
type Ingredient struct {
	Object mapper.GameObject
	Amount int
	Air    bool
}

func (i Ingredient) key() string {
	return fmt.Sprintf("%s|%d|%d", strings.ToLower(i.Object.Identifier()), i.Object.Data, i.Amount)
}

func (i Ingredient) String() string {
	if i.Air {
		return "_"
	}
	return fmt.Sprintf("%s:%d@%d", i.Object.Identifier(), i.Object.Data, i.Amount)
}

// Recipe зарегистрированный рецепт
type Recipe struct {
	Pack       string
	Name       string
	ID         int
	Kind       Kind
	Result     property.Stack
	Params     []any
	Experience float64
}

// Registrar внешний API регистрации рецептов
type Registrar interface {
	Register(pack, name string, id int, kind Kind, result property.Stack, params []any) (*Recipe, error)
}

type recipeKey struct {
	pack string
	name string
	id   int
}

// Manager хранилище рецептов в памяти
type Manager struct {
	mu      sync.RWMutex
	recipes map[recipeKey]*Recipe
}

func NewManager() *Manager {
	return &Manager{recipes: make(map[recipeKey]*Recipe)}
}

// Register проверяет параметры и сохраняет рецепт
func (m *Manager) Register(pack, name string, id int, kind Kind, result property.Stack, params []any) (*Recipe, error) {
	var experience float64
	switch kind {
	case Shaped:
		if err := validateShaped(params); err != nil {
			return nil, err
		}
	case Shapeless:
		if err := validateIngredients(params, 1, 9); err != nil {
			return nil, err
		}
	case Smelt:
		// Вход плавки и необязательный опыт
		if len(params) == 2 {
			xp, ok := params[1].(float64)
			if !ok {
				return nil, packerr.InvalidRecipe("smelt experience must be a number, got %v", params[1])
			}
			experience = xp
			params = params[:1]
		}
		if err := validateIngredients(params, 1, 1); err != nil {
			return nil, err
		}
	default:
		return nil, packerr.UnknownRecipeType("unknown recipe type %d", int(kind))
	}

	k := recipeKey{pack: strings.ToLower(pack), name: strings.ToLower(name), id: id}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.recipes[k]; exists {
		return nil, packerr.DuplicateRecipe("recipe %d of %s in pack %s is already registered", id, name, pack)
	}
	r := &Recipe{Pack: pack, Name: name, ID: id, Kind: kind, Result: result, Params: params, Experience: experience}
	m.recipes[k] = r
	return r, nil
}

// Get возвращает рецепт по ключу
func (m *Manager) Get(pack, name string, id int) (*Recipe, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recipes[recipeKey{pack: strings.ToLower(pack), name: strings.ToLower(name), id: id}]
	return r, ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recipes)
}

// All рецепты, упорядоченные по паку, объекту и идентификатору
func (m *Manager) All() []*Recipe {
	m.mu.RLock()
	out := make([]*Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		out = append(out, r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Pack != out[j].Pack {
			return out[i].Pack < out[j].Pack
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func validateIngredients(params []any, min, max int) error {
	if len(params) < min || len(params) > max {
		return packerr.InvalidRecipe("expected %d-%d ingredients but found %d", min, max, len(params))
	}
	for _, p := range params {
		ing, ok := p.(Ingredient)
		if !ok || ing.Air {
			return packerr.InvalidRecipe("invalid ingredient %v", p)
		}
	}
	return nil
}

func validateShaped(params []any) error {
	var rows []string
	i := 0
	for ; i < len(params); i++ {
		row, ok := params[i].(string)
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 || len(rows) > 3 {
		return packerr.InvalidRecipe("shaped recipe must have 1-3 rows, found %d", len(rows))
	}
	width := len(rows[0])
	for _, row := range rows {
		if len(row) == 0 || len(row) > 3 || len(row) != width {
			return packerr.InvalidRecipe("shaped recipe rows must share a width of 1-3: %q", rows)
		}
	}

	bound := make(map[rune]bool)
	rest := params[i:]
	if len(rest)%2 != 0 {
		return packerr.InvalidRecipe("placeholder list is not made of pairs")
	}
	for j := 0; j < len(rest); j += 2 {
		ch, ok := rest[j].(rune)
		if !ok {
			return packerr.InvalidRecipe("expected placeholder at %d, got %v", i+j, rest[j])
		}
		if _, ok := rest[j+1].(Ingredient); !ok {
			return packerr.InvalidRecipe("expected ingredient for %q", ch)
		}
		bound[ch] = true
	}

	empty := true
	for _, row := range rows {
		for _, ch := range row {
			if ch == ' ' {
				continue
			}
			empty = false
			if !bound[ch] {
				return packerr.InvalidRecipe("placeholder %q has no ingredient", ch)
			}
		}
	}
	if empty {
		return packerr.InvalidRecipe("shaped recipe has no ingredients")
	}
	return nil
}
