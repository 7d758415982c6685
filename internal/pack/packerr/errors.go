// Package packerr описывает таксономию ошибок компилятора паков.
// Ни одна из этих ошибок не выходит за пределы компилируемого объекта:
// вызывающий код логирует её и подставляет значение по умолчанию или пропускает запись.
package packerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind вид ошибки компиляции
type Kind int

const (
	KindParse Kind = iota + 1
	KindUnresolved
	KindInvalidRecipe
	KindUnknownRecipeType
	KindDuplicateRecipe
	KindStructural
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindUnresolved:
		return "unresolved-reference"
	case KindInvalidRecipe:
		return "invalid-recipe"
	case KindUnknownRecipeType:
		return "unknown-recipe-type"
	case KindDuplicateRecipe:
		return "duplicate-recipe"
	case KindStructural:
		return "structural"
	default:
		return "unknown"
	}
}

// Error ошибка компиляции пака
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String() + " error"
	}
	return e.Message
}

// Is сравнивает по виду, если цель является сентинелом без сообщения
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t == e
}

var (
	ErrParse             = &Error{Kind: KindParse}
	ErrUnresolved        = &Error{Kind: KindUnresolved}
	ErrInvalidRecipe     = &Error{Kind: KindInvalidRecipe}
	ErrUnknownRecipeType = &Error{Kind: KindUnknownRecipeType}
	ErrDuplicateRecipe   = &Error{Kind: KindDuplicateRecipe}
	ErrStructural        = &Error{Kind: KindStructural}
)

// New создаёт ошибку указанного вида со стеком вызовов
func New(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

func Parse(format string, args ...interface{}) error {
	return New(KindParse, format, args...)
}

func Unresolved(format string, args ...interface{}) error {
	return New(KindUnresolved, format, args...)
}

func InvalidRecipe(format string, args ...interface{}) error {
	return New(KindInvalidRecipe, format, args...)
}

func UnknownRecipeType(format string, args ...interface{}) error {
	return New(KindUnknownRecipeType, format, args...)
}

func DuplicateRecipe(format string, args ...interface{}) error {
	return New(KindDuplicateRecipe, format, args...)
}

func Structural(format string, args ...interface{}) error {
	return New(KindStructural, format, args...)
}

// KindOf возвращает вид ошибки или 0, если это не ошибка компиляции
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

func IsParse(err error) bool             { return errors.Is(err, ErrParse) }
func IsUnresolved(err error) bool        { return errors.Is(err, ErrUnresolved) }
func IsInvalidRecipe(err error) bool     { return errors.Is(err, ErrInvalidRecipe) }
func IsUnknownRecipeType(err error) bool { return errors.Is(err, ErrUnknownRecipeType) }
func IsDuplicateRecipe(err error) bool   { return errors.Is(err, ErrDuplicateRecipe) }
func IsStructural(err error) bool        { return errors.Is(err, ErrStructural) }
