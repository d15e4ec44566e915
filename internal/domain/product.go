package domain

import (
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/ordered"
)

const (
	fieldID     = "id"
	fieldColors = "colors"
	fieldGender = "gender"
	fieldColor  = "color"
)

// Product описывает товар каталога. Все поля документа сохраняются как есть,
// отдельно разобраны только id и первый кандидат цвета.
type Product struct {
	fields       *ordered.Object
	id           string
	candidate    string
	hasCandidate bool
}

// NewProductFromJSON разбирает товар и проверяет его форму.
func NewProductFromJSON(raw json.RawMessage) (*Product, error) {
	fields := ordered.NewObject()
	if err := fields.UnmarshalJSON(raw); err != nil {
		if errors.Is(err, e.ErrNotAnObject) {
			return nil, e.ErrProductNotObject
		}
		return nil, err
	}

	p := &Product{
		fields: fields,
		id:     parseID(fields),
	}

	candidate, ok, err := firstCandidate(fields)
	if err != nil {
		return nil, err
	}
	p.candidate = candidate
	p.hasCandidate = ok

	return p, nil
}

// ID возвращает идентификатор товара строкой. Пустая строка, если id нет.
func (p *Product) ID() string {
	return p.id
}

// Candidate возвращает первый элемент colors, если он есть.
func (p *Product) Candidate() (string, bool) {
	return p.candidate, p.hasCandidate
}

// ResolveColor определяет цвет товара по первому кандидату.
func (p *Product) ResolveColor() Color {
	if !p.hasCandidate {
		return ResolveColor(nil)
	}
	return ResolveColor([]string{p.candidate})
}

// Annotate проставляет gender и color. Поле colors не трогается.
func (p *Product) Annotate(g Gender, c Color) error {
	if err := p.fields.Set(fieldGender, g); err != nil {
		return err
	}
	return p.fields.Set(fieldColor, c)
}

// Field возвращает сырое значение поля.
func (p *Product) Field(key string) (json.RawMessage, bool) {
	return p.fields.Get(key)
}

func (p *Product) MarshalJSON() ([]byte, error) {
	return p.fields.MarshalJSON()
}

// parseID понимает строковый и числовой id, остальное игнорирует.
func parseID(fields *ordered.Object) string {
	raw, ok := fields.Get(fieldID)
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

// firstCandidate достает первый элемент colors.
// Отсутствующее поле и null считаются пустым списком.
func firstCandidate(fields *ordered.Object) (string, bool, error) {
	raw, ok := fields.Get(fieldColors)
	if !ok || string(raw) == "null" {
		return "", false, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", false, e.ErrColorsNotArray
	}
	if len(list) == 0 {
		return "", false, nil
	}

	var first string
	if string(list[0]) == "null" {
		return "", false, e.ErrColorNotString
	}
	if err := json.Unmarshal(list[0], &first); err != nil {
		return "", false, e.ErrColorNotString
	}

	return first, true, nil
}
