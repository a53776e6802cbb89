// Package serializer converts flat storage rows into typed domain structs and
// back, one field at a time.
//
// A Serializer is an immutable registry of per-column Strategy values.
// Columns without a strategy are copied unchanged. Registration follows a
// builder pattern: every WithStrategy call returns a new Serializer, so a base
// serializer can be shared and specialised without affecting other users.
//
//	users := serializer.New().
//		WithStrategy("id", serializer.IntegerStrategy{}).
//		WithStrategy("date_created", serializer.DateTimeStrategy{})
//
//	var u model.User
//	err := users.Deserialize(record, &u)
package serializer

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// Record is one storage row: column name to raw value, as returned by a row
// fetch in associative form.
type Record map[string]any

// Serializer maps Records onto structs using per-column strategies. The zero
// value is ready to use and has no strategies registered.
type Serializer struct {
	strategies map[string]Strategy
	strict     bool
}

// New returns a Serializer with no strategies.
func New() Serializer {
	return Serializer{}
}

// WithStrategy returns a copy of s with strategy registered for field. A later
// registration for the same field replaces the earlier one. s is unchanged.
// A nil strategy registers IdentityStrategy.
func (s Serializer) WithStrategy(field string, strategy Strategy) Serializer {
	if strategy == nil {
		strategy = IdentityStrategy{}
	}

	next := make(map[string]Strategy, len(s.strategies)+1)
	maps.Copy(next, s.strategies)
	next[field] = strategy

	return Serializer{strategies: next, strict: s.strict}
}

// Strict returns a copy of s that rejects record columns with no matching
// struct field, whether or not a strategy is registered for them.
func (s Serializer) Strict() Serializer {
	return Serializer{strategies: s.strategies, strict: true}
}

// Strategy returns the strategy registered for field, or IdentityStrategy.
func (s Serializer) Strategy(field string) Strategy {
	if strategy, ok := s.strategies[field]; ok {
		return strategy
	}
	return IdentityStrategy{}
}

// Deserialize decodes record onto the struct target points to.
//
// Each column is decoded with its registered strategy (or copied unchanged)
// and assigned to the field whose column name matches. A registered column
// with no matching field is a *MappingError; unregistered unknown columns are
// ignored unless the serializer is Strict. Decode failures are
// *ConversionError values.
//
// target is only written when every column succeeds. record is not modified.
func (s Serializer) Deserialize(record Record, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil pointer to a struct, got %T", ErrMapping, target)
	}

	typ := rv.Elem().Type()
	layout := layoutOf(typ)

	scratch := reflect.New(typ).Elem()
	scratch.Set(rv.Elem())

	columns := slices.Sorted(maps.Keys(record))
	for _, column := range columns {
		strategy, registered := s.strategies[column]

		value := record[column]
		if registered {
			decoded, err := decodeField(column, strategy, value)
			if err != nil {
				return err
			}
			value = decoded
		}

		pos, ok := layout.byColumn[column]
		if !ok {
			if registered || s.strict {
				return &MappingError{Field: column, Target: typ.String(), Reason: "no matching field"}
			}
			continue
		}

		field := layout.fields[pos]
		if err := assign(scratch.Field(field.index), value); err != nil {
			return &MappingError{
				Field:  column,
				Target: typ.String() + "." + field.name,
				Reason: err.Error(),
			}
		}
	}

	rv.Elem().Set(scratch)
	return nil
}

// Serialize encodes the storage fields of obj (a struct or pointer to one)
// into a Record. Nil pointers become nil, other pointers are dereferenced,
// then the column's strategy Encode is applied.
func (s Serializer) Serialize(obj any) (Record, error) {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: cannot serialize nil %T", ErrMapping, obj)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: cannot serialize %T, want a struct", ErrMapping, obj)
	}

	layout := layoutOf(rv.Type())
	record := make(Record, len(layout.fields))

	for _, field := range layout.fields {
		value := plainValue(rv.Field(field.index))

		if strategy, ok := s.strategies[field.column]; ok {
			encoded, err := strategy.Encode(value)
			if err != nil {
				return nil, withField(field.column, strategy, value, err)
			}
			value = encoded
		}

		record[field.column] = value
	}

	return record, nil
}

// Decode deserializes record into a new T.
func Decode[T any](s Serializer, record Record) (T, error) {
	var out T
	if err := s.Deserialize(record, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Columns returns the storage column names of obj's struct type, in field
// declaration order.
func Columns(obj any) []string {
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	layout := layoutOf(t)
	columns := make([]string, len(layout.fields))
	for i, f := range layout.fields {
		columns[i] = f.column
	}
	return columns
}

func decodeField(column string, strategy Strategy, raw any) (any, error) {
	value, err := strategy.Decode(raw)
	if err != nil {
		return nil, withField(column, strategy, raw, err)
	}

	if value != nil {
		if want := strategy.DomainType(); want != nil && reflect.TypeOf(value) != want {
			return nil, &ConversionError{
				Field:    column,
				Strategy: strategy.Name(),
				Raw:      raw,
				Err:      fmt.Errorf("strategy produced %T, declared %s", value, want),
			}
		}
	}
	return value, nil
}

func withField(column string, strategy Strategy, raw any, err error) error {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		out := *convErr
		out.Field = column
		return &out
	}
	return &ConversionError{Field: column, Strategy: strategy.Name(), Raw: raw, Err: err}
}

func plainValue(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		return v.Elem().Interface()
	}
	return v.Interface()
}

func assign(field reflect.Value, value any) error {
	ft := field.Type()
	if value == nil {
		field.Set(reflect.Zero(ft))
		return nil
	}

	v := reflect.ValueOf(value)
	if ft.Kind() == reflect.Pointer && v.Type() != ft {
		elem, err := convert(v, ft.Elem())
		if err != nil {
			return err
		}
		ptr := reflect.New(ft.Elem())
		ptr.Elem().Set(elem)
		field.Set(ptr)
		return nil
	}

	converted, err := convert(v, ft)
	if err != nil {
		return err
	}
	field.Set(converted)
	return nil
}

func convert(v reflect.Value, to reflect.Type) (reflect.Value, error) {
	from := v.Type()
	switch {
	case from.AssignableTo(to):
		return v, nil
	case from.Kind() == to.Kind() && from.ConvertibleTo(to) && !isIntKind(to.Kind()):
		return v.Convert(to), nil
	case from.Kind() == reflect.Slice && from.Elem().Kind() == reflect.Uint8 && to.Kind() == reflect.String:
		return v.Convert(to), nil
	case isIntKind(from.Kind()) && isIntKind(to.Kind()):
		n := v.Int()
		out := reflect.New(to).Elem()
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("value %d overflows %s", n, to)
		}
		out.SetInt(n)
		return out, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot assign %s to %s", from, to)
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}
