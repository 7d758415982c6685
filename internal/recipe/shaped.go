package recipe

var placeholders = [...]rune{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i'}

// EncodeShaped кодирует сетку ингредиентов в строки-ряды и пары символ/ингредиент.
// Символы назначаются различным ингредиентам в порядке первого появления, воздух кодируется пробелом.
func EncodeShaped(rows [][]Ingredient) []any {
	assigned := make(map[string]rune)
	var order []Ingredient
	params := make([]any, 0, len(rows)+2*len(placeholders))

	for _, row := range rows {
		line := make([]rune, 0, len(row))
		for _, ing := range row {
			if ing.Air {
				line = append(line, ' ')
				continue
			}
			k := ing.key()
			ch, ok := assigned[k]
			if !ok {
				if len(order) >= len(placeholders) {
					// Лишние ингредиенты не помещаются в сетку 3x3; Register отклонит рецепт
					ch = '?'
				} else {
					ch = placeholders[len(order)]
					assigned[k] = ch
					order = append(order, ing)
				}
			}
			line = append(line, ch)
		}
		params = append(params, string(line))
	}

	for i, ing := range order {
		params = append(params, placeholders[i], ing)
	}
	return params
}
