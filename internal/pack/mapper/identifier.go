package mapper

import (
	"strconv"
	"strings"

	"github.com/annel0/blockpacks/internal/pack/packerr"
)

// Identifier разобранная ссылка вида [modid:]name[:data]
type Identifier struct {
	ModID string
	Name  string
	Data  int
}

// HasModID true, если модификатор указан явно
func (id Identifier) HasModID() bool { return id.ModID != "" }

func (id Identifier) String() string {
	s := id.Name
	if id.ModID != "" {
		s = id.ModID + ":" + s
	}
	if id.Data != 0 {
		s += ":" + strconv.Itoa(id.Data)
	}
	return s
}

// ParseIdentifier разбирает идентификатор. Для двух частей вторая трактуется как data, если это число.
func ParseIdentifier(raw string) (Identifier, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Identifier{}, packerr.Parse("empty identifier")
	}

	parts := strings.Split(s, ":")
	for _, p := range parts {
		if p == "" {
			return Identifier{}, packerr.Parse("malformed identifier %q", raw)
		}
	}

	switch len(parts) {
	case 1:
		return Identifier{Name: parts[0]}, nil
	case 2:
		if data, err := strconv.Atoi(parts[1]); err == nil {
			return Identifier{Name: parts[0], Data: data}, nil
		}
		return Identifier{ModID: parts[0], Name: parts[1]}, nil
	case 3:
		data, err := strconv.Atoi(parts[2])
		if err != nil {
			return Identifier{}, packerr.Parse("invalid data value in identifier %q", raw)
		}
		return Identifier{ModID: parts[0], Name: parts[1], Data: data}, nil
	default:
		return Identifier{}, packerr.Parse("malformed identifier %q", raw)
	}
}

func key(modID, name string) string {
	return strings.ToLower(modID + ":" + name)
}
