package serializer

import (
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// TagName is the struct tag naming a field's storage column. `db:"-"` keeps a
// field out of storage; without a tag the column is the snake_case field name
// (DateCreated → date_created, ID → id, PublicKey → public_key).
const TagName = "db"

type structField struct {
	column string
	index  int
	name   string
}

type structLayout struct {
	fields   []structField
	byColumn map[string]int
}

var layouts sync.Map // reflect.Type -> *structLayout

func layoutOf(t reflect.Type) *structLayout {
	if cached, ok := layouts.Load(t); ok {
		return cached.(*structLayout)
	}

	layout := &structLayout{byColumn: make(map[string]int)}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		column, ok := columnName(f)
		if !ok {
			continue
		}
		if _, dup := layout.byColumn[column]; dup {
			continue
		}
		layout.byColumn[column] = len(layout.fields)
		layout.fields = append(layout.fields, structField{column: column, index: i, name: f.Name})
	}

	actual, _ := layouts.LoadOrStore(t, layout)
	return actual.(*structLayout)
}

func columnName(f reflect.StructField) (string, bool) {
	tag, _, _ := strings.Cut(f.Tag.Get(TagName), ",")
	switch tag {
	case "-":
		return "", false
	case "":
		return SnakeCase(f.Name), true
	default:
		return tag, true
	}
}

// SnakeCase converts a Go identifier to snake_case, keeping initialisms
// together: "UserID" → "user_id", "HTTPServer" → "http_server".
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
