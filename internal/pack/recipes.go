package pack

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/node"
	"github.com/annel0/blockpacks/internal/pack/packerr"
	"github.com/annel0/blockpacks/internal/pack/property"
	"github.com/annel0/blockpacks/internal/pack/tree"
	"github.com/annel0/blockpacks/internal/recipe"
)

// airToken пустая клетка сетки
const airToken = "_"

// shapedWidth ширина ряда сетки формованного рецепта
const shapedWidth = 3

// ingredient разбирает токен вида [modid:]name[:data][@amount]
func ingredient(s *scope, token string) (recipe.Ingredient, error) {
	if token == airToken {
		return recipe.Ingredient{Air: true}, nil
	}
	raw, amount := token, 1
	if i := strings.LastIndex(token, "@"); i >= 0 {
		v, err := strconv.Atoi(token[i+1:])
		if err != nil || v < 1 {
			return recipe.Ingredient{}, packerr.InvalidRecipe("ingredient [%s] has an invalid amount", token)
		}
		raw, amount = token[:i], v
	}
	obj, err := s.resolver.Resolve(raw)
	if err != nil {
		return recipe.Ingredient{}, packerr.InvalidRecipe("ingredient [%s] is not a registered block or item", token)
	}
	if obj.Air {
		return recipe.Ingredient{Object: obj, Air: true}, nil
	}
	return recipe.Ingredient{Object: obj, Amount: amount}, nil
}

// ingredientRows строки ингредиентов, каждая строка разбивается по пробелам
func ingredientRows(s *scope, n *tree.Node) ([][]recipe.Ingredient, error) {
	var rows [][]recipe.Ingredient
	for _, line := range n.StringList() {
		var row []recipe.Ingredient
		for _, token := range strings.Fields(line) {
			ing, err := ingredient(s, token)
			if err != nil {
				return nil, err
			}
			row = append(row, ing)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// shapedRows выкладывает ингредиенты в сетку по три в ряд независимо от того, как они записаны по строкам
func shapedRows(rows [][]recipe.Ingredient) [][]recipe.Ingredient {
	var flat []recipe.Ingredient
	for _, row := range rows {
		flat = append(flat, row...)
	}
	var grid [][]recipe.Ingredient
	for len(flat) > 0 {
		n := min(len(flat), shapedWidth)
		grid = append(grid, flat[:n])
		flat = flat[n:]
	}
	return grid
}

// recipeParams параметры регистрации для вида рецепта
func recipeParams(s *scope, kind recipe.Kind, n *tree.Node) ([]any, error) {
	switch kind {
	case recipe.Shaped:
		rows, err := ingredientRows(s, n.Get(KeyIngredients))
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, packerr.InvalidRecipe("recipe has no parameters")
		}
		return recipe.EncodeShaped(shapedRows(rows)), nil
	case recipe.Shapeless:
		rows, err := ingredientRows(s, n.Get(KeyIngredients))
		if err != nil {
			return nil, err
		}
		var params []any
		for _, row := range rows {
			for _, ing := range row {
				if !ing.Air {
					params = append(params, ing)
				}
			}
		}
		if len(params) == 0 {
			return nil, packerr.InvalidRecipe("recipe has no parameters")
		}
		return params, nil
	default:
		input, err := ingredient(s, n.Get(KeyInput).String(""))
		if err != nil {
			return nil, err
		}
		return []any{input, n.Get(KeyExperience).Float(0)}, nil
	}
}

// recipeNode регистрирует рецепты объекта. Ошибочный рецепт пропускается, остальные регистрируются.
func recipeNode(s *scope, n *tree.Node, result mapper.GameObject, registrar recipe.Registrar) *node.RecipeNode {
	rn := &node.RecipeNode{Recipes: make(map[int]*recipe.Recipe)}
	for _, e := range n.Children() {
		id, err := strconv.Atoi(strings.TrimSpace(e.Key))
		if err != nil {
			s.failAt(e.Node, packerr.Parse("recipe id [%s] is not a valid number", e.Key))
			continue
		}
		kind, err := recipe.KindFromName(e.Node.Get(KeyType).String(""))
		if err != nil {
			s.failAt(e.Node, err)
			continue
		}
		params, err := recipeParams(s, kind, e.Node)
		if err != nil {
			s.failAt(e.Node, errors.WithMessagef(err, "recipe [%d] of type [%s]", id, kind))
			continue
		}
		stack := property.Stack{
			Object: result,
			Amount: e.Node.Get(KeyAmount).Int(1),
			Data:   e.Node.Get(KeyData).Int(0),
		}
		r, err := registrar.Register(s.pack, s.object, id, kind, stack, params)
		if err != nil {
			s.failAt(e.Node, errors.WithMessagef(err, "recipe [%d] of type [%s]", id, kind))
			continue
		}
		rn.Recipes[id] = r
	}
	return rn
}
