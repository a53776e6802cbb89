package serializer

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var int64Type = reflect.TypeOf(int64(0))

// IntegerStrategy decodes numeric storage values (native integers, integral
// floats, and base-10 numeric strings, "42.0" included) into int64.
type IntegerStrategy struct{}

var _ Strategy = IntegerStrategy{}

func (IntegerStrategy) Name() string { return "integer" }

func (IntegerStrategy) DomainType() reflect.Type { return int64Type }

func (s IntegerStrategy) Decode(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return s.parse(raw, v)
	case []byte:
		return s.parse(raw, string(v))
	case bool:
		return nil, newConversionError(s.Name(), raw, errors.New("boolean is not numeric"))
	case float32:
		return s.fromFloat(raw, float64(v))
	case float64:
		return s.fromFloat(raw, v)
	case uint64:
		if v > math.MaxInt64 {
			return nil, newConversionError(s.Name(), raw, errors.New("value overflows int64"))
		}
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, newConversionError(s.Name(), raw, errors.New("value overflows int64"))
		}
	}

	n, err := cast.ToInt64E(raw)
	if err != nil {
		return nil, newConversionError(s.Name(), raw, err)
	}
	return n, nil
}

func (s IntegerStrategy) Encode(value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return nil, newConversionError(s.Name(), value, errors.New("value overflows int64"))
		}
		return int64(rv.Uint()), nil
	default:
		return nil, newConversionError(s.Name(), value, fmt.Errorf("%T is not an integer", value))
	}
}

func (s IntegerStrategy) parse(raw any, text string) (any, error) {
	text = strings.TrimSpace(text)

	n, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		return n, nil
	}

	// "42.0" is numeric too; it decodes when integral.
	if f, ferr := strconv.ParseFloat(text, 64); ferr == nil {
		return s.fromFloat(raw, f)
	}
	return nil, newConversionError(s.Name(), raw, err)
}

func (s IntegerStrategy) fromFloat(raw any, f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, newConversionError(s.Name(), raw, errors.New("not an integral number"))
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, newConversionError(s.Name(), raw, errors.New("value overflows int64"))
	}
	return int64(f), nil
}
