// Package mapper сопоставляет строковые идентификаторы зарегистрированным блокам, предметам,
// сущностям и биомам. Таблицы собираются один раз через Builder и далее неизменяемы.
package mapper

import (
	"strings"

	"github.com/annel0/blockpacks/internal/pack/packerr"
)

// Kind вид игрового объекта
type Kind int

const (
	KindBlock Kind = iota + 1
	KindItem
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// GameObject ссылка на зарегистрированный блок или предмет с необязательным значением data.
// Value не владеет объектом: единственный владелец - реестр.
type GameObject struct {
	ModID    string
	Name     string
	Data     int
	Kind     Kind
	Air      bool
	ItemForm bool
	Value    any
}

func (g GameObject) IsBlock() bool { return g.Kind == KindBlock }

// Identifier каноническое имя modid:name
func (g GameObject) Identifier() string { return g.ModID + ":" + g.Name }

// WithData копия с другим значением data
func (g GameObject) WithData(data int) GameObject {
	g.Data = data
	return g
}

// Same true, если обе ссылки указывают на один зарегистрированный объект (data не учитывается)
func (g GameObject) Same(other GameObject) bool {
	return g.Kind == other.Kind && strings.EqualFold(g.Identifier(), other.Identifier())
}

// Entity зарегистрированный тип сущности
type Entity struct {
	ModID string
	Name  string
}

func (e Entity) Identifier() string { return e.ModID + ":" + e.Name }

// Biome зарегистрированный биом
type Biome struct {
	Name        string
	Temperature float64
	Humidity    float64
}

// Builder накапливает объекты до заморозки реестра
type Builder struct {
	defaultModID string
	blocks       map[string]GameObject
	items        map[string]GameObject
	entities     map[string]Entity
	biomes       map[string]Biome
}

// NewBuilder создаёт построитель. Блок воздуха регистрируется автоматически.
func NewBuilder(defaultModID string) *Builder {
	b := &Builder{
		defaultModID: defaultModID,
		blocks:       make(map[string]GameObject),
		items:        make(map[string]GameObject),
		entities:     make(map[string]Entity),
		biomes:       make(map[string]Biome),
	}
	b.blocks[key(defaultModID, "air")] = GameObject{ModID: defaultModID, Name: "air", Kind: KindBlock, Air: true}
	return b
}

// DefaultModID модификатор ванильных объектов
func (b *Builder) DefaultModID() string { return b.defaultModID }

// Has true, если блок или предмет с таким именем уже добавлен
func (b *Builder) Has(modID, name string) bool {
	k := key(modID, name)
	_, isBlock := b.blocks[k]
	_, isItem := b.items[k]
	return isBlock || isItem
}

// AddBlock регистрирует блок. Повторная регистрация заменяет запись.
func (b *Builder) AddBlock(modID, name string, value any, itemForm bool) GameObject {
	obj := GameObject{ModID: modID, Name: name, Kind: KindBlock, ItemForm: itemForm, Value: value}
	b.blocks[key(modID, name)] = obj
	return obj
}

// AddItem регистрирует предмет
func (b *Builder) AddItem(modID, name string, value any) GameObject {
	obj := GameObject{ModID: modID, Name: name, Kind: KindItem, ItemForm: true, Value: value}
	b.items[key(modID, name)] = obj
	return obj
}

func (b *Builder) AddEntity(modID, name string) Entity {
	e := Entity{ModID: modID, Name: name}
	b.entities[key(modID, name)] = e
	return e
}

func (b *Builder) AddBiome(biome Biome) {
	b.biomes[strings.ToLower(biome.Name)] = biome
}

// Build замораживает таблицы. Builder после этого можно продолжать использовать,
// изменения не затронут выданный реестр.
func (b *Builder) Build() *Registry {
	r := &Registry{
		defaultModID: b.defaultModID,
		blocks:       make(map[string]GameObject, len(b.blocks)),
		items:        make(map[string]GameObject, len(b.items)),
		entities:     make(map[string]Entity, len(b.entities)),
		biomes:       make(map[string]Biome, len(b.biomes)),
	}
	for k, v := range b.blocks {
		r.blocks[k] = v
	}
	for k, v := range b.items {
		r.items[k] = v
	}
	for k, v := range b.entities {
		r.entities[k] = v
	}
	for k, v := range b.biomes {
		r.biomes[k] = v
	}
	return r
}

// Registry неизменяемые таблицы поиска
type Registry struct {
	defaultModID string
	blocks       map[string]GameObject
	items        map[string]GameObject
	entities     map[string]Entity
	biomes       map[string]Biome
}

// DefaultModID модификатор, подставляемый в ссылки без modid
func (r *Registry) DefaultModID() string { return r.defaultModID }

// Len число зарегистрированных блоков и предметов
func (r *Registry) Len() int { return len(r.blocks) + len(r.items) }

// Lookup ищет объект по полному имени. Блоки имеют приоритет над предметами.
func (r *Registry) Lookup(modID, name string) (GameObject, bool) {
	k := key(modID, name)
	if obj, ok := r.blocks[k]; ok {
		return obj, true
	}
	obj, ok := r.items[k]
	return obj, ok
}

// LookupBlock ищет только среди блоков
func (r *Registry) LookupBlock(modID, name string) (GameObject, bool) {
	obj, ok := r.blocks[key(modID, name)]
	return obj, ok
}

// Resolver создаёт резолвер в контексте пака: ссылки без modid сначала ищутся среди объектов пака
func (r *Registry) Resolver(modID, pack string) *Resolver {
	return &Resolver{reg: r, modID: modID, pack: pack}
}

// Resolver разрешает ссылки из конфигурации одного пака
type Resolver struct {
	reg   *Registry
	modID string
	pack  string
}

// Registry реестр, на котором построен резолвер
func (r *Resolver) Registry() *Registry { return r.reg }

// PackObjectName внутреннее имя объекта пака
func PackObjectName(pack, name string) string {
	return pack + "\\" + name
}

func (r *Resolver) candidates(id Identifier) [][2]string {
	if id.HasModID() {
		return [][2]string{{id.ModID, id.Name}}
	}
	out := [][2]string{{r.modID, PackObjectName(r.pack, id.Name)}}
	if strings.Contains(id.Name, "\\") {
		out = append(out, [2]string{r.modID, id.Name})
	}
	return append(out, [2]string{r.reg.defaultModID, id.Name})
}

// Resolve разрешает идентификатор в блок или предмет
func (r *Resolver) Resolve(raw string) (GameObject, error) {
	id, err := ParseIdentifier(raw)
	if err != nil {
		return GameObject{}, err
	}
	for _, c := range r.candidates(id) {
		if obj, ok := r.reg.Lookup(c[0], c[1]); ok {
			return obj.WithData(id.Data), nil
		}
	}
	return GameObject{}, packerr.Unresolved("no block or item registered as %q", raw)
}

// ResolveBlock строгий вариант: объект обязан быть блоком
func (r *Resolver) ResolveBlock(raw string) (GameObject, error) {
	id, err := ParseIdentifier(raw)
	if err != nil {
		return GameObject{}, err
	}
	for _, c := range r.candidates(id) {
		if obj, ok := r.reg.LookupBlock(c[0], c[1]); ok {
			return obj.WithData(id.Data), nil
		}
	}
	return GameObject{}, packerr.Unresolved("no block registered as %q", raw)
}

// Entity разрешает тип сущности, по умолчанию в пространстве defaultModID
func (r *Resolver) Entity(raw string) (Entity, error) {
	id, err := ParseIdentifier(raw)
	if err != nil {
		return Entity{}, err
	}
	modID := id.ModID
	if modID == "" {
		modID = r.reg.defaultModID
	}
	if e, ok := r.reg.entities[key(modID, id.Name)]; ok {
		return e, nil
	}
	return Entity{}, packerr.Unresolved("no entity registered as %q", raw)
}

// Biome разрешает биом по имени без учёта регистра
func (r *Resolver) Biome(raw string) (Biome, error) {
	if b, ok := r.reg.biomes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return b, nil
	}
	return Biome{}, packerr.Unresolved("no biome registered as %q", raw)
}
