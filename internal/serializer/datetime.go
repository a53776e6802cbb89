package serializer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// DateTimeLayout is the storage format of timestamp columns. It has second
// resolution: encoding drops sub-second components.
const DateTimeLayout = "2006-01-02 15:04:05"

var timeType = reflect.TypeOf(time.Time{})

// DateTimeStrategy converts between timestamp strings in a fixed layout and
// time.Time. A nil raw value (or an empty string) decodes to nil, the unset
// timestamp, and encoding nil or the zero time yields nil.
//
// The zero value uses DateTimeLayout in UTC.
type DateTimeStrategy struct {
	layout string
	loc    *time.Location
}

var _ Strategy = DateTimeStrategy{}

// NewDateTimeStrategy returns a strategy for a custom layout and location.
// Empty layout and nil location fall back to DateTimeLayout and UTC.
func NewDateTimeStrategy(layout string, loc *time.Location) DateTimeStrategy {
	return DateTimeStrategy{layout: layout, loc: loc}
}

func (DateTimeStrategy) Name() string { return "datetime" }

func (DateTimeStrategy) DomainType() reflect.Type { return timeType }

func (s DateTimeStrategy) Decode(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return s.parse(raw, v)
	case []byte:
		return s.parse(raw, string(v))
	case time.Time:
		if v.IsZero() {
			return nil, nil
		}
		return v.In(s.location()).Truncate(time.Second), nil
	default:
		return nil, newConversionError(s.Name(), raw, fmt.Errorf("unsupported storage type %T", raw))
	}
}

func (s DateTimeStrategy) Encode(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if v.IsZero() {
			return nil, nil
		}
		return v.In(s.location()).Format(s.layoutOrDefault()), nil
	default:
		return nil, newConversionError(s.Name(), value, fmt.Errorf("%T is not a time.Time", value))
	}
}

func (s DateTimeStrategy) parse(raw any, text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(s.layoutOrDefault(), text, s.location())
	if err != nil {
		var perr *time.ParseError
		if errors.As(err, &perr) {
			err = fmt.Errorf("expected layout %q: %w", s.layoutOrDefault(), err)
		}
		return nil, newConversionError(s.Name(), raw, err)
	}
	return t, nil
}

func (s DateTimeStrategy) layoutOrDefault() string {
	if s.layout == "" {
		return DateTimeLayout
	}
	return s.layout
}

func (s DateTimeStrategy) location() *time.Location {
	if s.loc == nil {
		return time.UTC
	}
	return s.loc
}
