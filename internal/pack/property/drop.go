package property

import (
	"github.com/annel0/blockpacks/internal/pack/mapper"
	"github.com/annel0/blockpacks/internal/pack/parse"
)

// Bonus дополнительное количество, выпадающее с вероятностью Chance процентов
type Bonus[T parse.Number] struct {
	Enabled bool
	Amount  Range[T]
	Chance  Range[float64]
}

// Roll возвращает бонус или 0. Шанс сначала разыгрывается в своём диапазоне,
// затем бонус применяется, только если случайное значение попало в этот шанс.
func (b Bonus[T]) Roll(src Source) T {
	var zero T
	if !b.Enabled {
		return zero
	}
	chance := b.Chance.Draw(src)
	if chance <= 0 {
		return zero
	}
	if src.Float64() <= chance/100 {
		return b.Amount.Draw(src)
	}
	return zero
}

// Stack результат розыгрыша дропа
type Stack struct {
	Object mapper.GameObject
	Amount int
	Data   int
}

// Drop запись таблицы дропа
type Drop struct {
	Source mapper.GameObject
	Amount Range[int]
	Data   int
	Bonus  Bonus[int]
}

// Roll разыгрывает количество с учётом бонуса
func (d Drop) Roll(src Source) Stack {
	amount := d.Amount.Draw(src) + d.Bonus.Roll(src)
	return Stack{Object: d.Source, Amount: amount, Data: d.Data}
}

// GameObject ссылка на объект с переменным количеством (удобрения, семена из травы)
type GameObject struct {
	Source mapper.GameObject
	Amount Range[int]
}

// Biome требования к биому
type Biome struct {
	Biome       mapper.Biome
	Temperature Range[float64]
	Humidity    Range[float64]
}

// Allows проверяет биом на соответствие требованиям. Выключенные диапазоны не проверяются.
func (b Biome) Allows(biome mapper.Biome) bool {
	if b.Temperature.Enabled && !b.Temperature.Contains(biome.Temperature) {
		return false
	}
	if b.Humidity.Enabled && !b.Humidity.Contains(biome.Humidity) {
		return false
	}
	return true
}

// Collision изменение здоровья сущности при столкновении
type Collision struct {
	Enabled      bool
	Entity       mapper.Entity
	HealthChange Range[float32]
}

// State альтернативное визуальное состояние контейнера
type State struct {
	Enabled            bool
	ID                 string
	TextureName        string
	TextureCoordinates map[int][4]int
	ModelName          string
}
