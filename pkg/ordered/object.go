// Package ordered предоставляет JSON-объект, сохраняющий порядок ключей документа.
// Значения хранятся как json.RawMessage, поэтому поля, которые никто не трогал,
// выводятся обратно без изменений (с точностью до пробелов).
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/catalog-enricher/pkg/e"
)

// Object — JSON-объект с порядком ключей как во входном документе.
type Object struct {
	keys   []string
	values map[string]json.RawMessage
}

func NewObject() *Object {
	return &Object{
		values: make(map[string]json.RawMessage),
	}
}

// Keys возвращает ключи в порядке документа.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

// Get возвращает сырое значение поля.
func (o *Object) Get(key string) (json.RawMessage, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set заменяет значение существующего ключа на месте или добавляет ключ в конец.
func (o *Object) Set(key string, value any) error {
	raw, err := marshalNoEscape(value)
	if err != nil {
		return e.Wrap(fmt.Sprintf("ordered.Set %q", key), err)
	}

	o.setRaw(key, raw)
	return nil
}

func (o *Object) setRaw(key string, raw json.RawMessage) {
	if o.values == nil {
		o.values = make(map[string]json.RawMessage)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

// UnmarshalJSON разбирает объект верхнего уровня. Для любого другого значения,
// включая null, возвращается e.ErrNotAnObject.
// Повторяющийся ключ остается на позиции первого вхождения со значением последнего.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return e.ErrNotAnObject
	}

	o.keys = nil
	o.values = make(map[string]json.RawMessage)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key token %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return e.Wrap(fmt.Sprintf("field %q", key), err)
		}
		o.setRaw(key, raw)
	}

	// закрывающая '}'
	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}

// MarshalJSON выводит поля в сохраненном порядке.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalNoEscape(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(o.values[key])
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// marshalNoEscape кодирует значение без экранирования <, > и &.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
