package rpcx

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

// Fields reads typed values out of a Struct. The first decoding error is
// kept in Err and later reads return zero values.
type Fields struct {
	s   *structpb.Struct
	Err error
}

func NewFields(s *structpb.Struct) *Fields {
	if s == nil {
		s = &structpb.Struct{}
	}
	return &Fields{s: s}
}

func (f *Fields) value(key string) *structpb.Value {
	if f.Err != nil {
		return nil
	}
	return f.s.GetFields()[key]
}

func (f *Fields) fail(key, want string) {
	if f.Err == nil {
		f.Err = fmt.Errorf("field %q: expected %s", key, want)
	}
}

func (f *Fields) String(key string) string {
	v := f.value(key)
	if v == nil {
		return ""
	}
	if _, ok := v.GetKind().(*structpb.Value_StringValue); !ok {
		f.fail(key, "string")
		return ""
	}
	return v.GetStringValue()
}

func (f *Fields) Int(key string) int {
	v := f.value(key)
	if v == nil {
		return 0
	}
	if _, ok := v.GetKind().(*structpb.Value_NumberValue); !ok {
		f.fail(key, "number")
		return 0
	}
	n := v.GetNumberValue()
	if n != float64(int(n)) {
		f.fail(key, "integer")
		return 0
	}
	return int(n)
}

func (f *Fields) Bool(key string) bool {
	v := f.value(key)
	if v == nil {
		return false
	}
	if _, ok := v.GetKind().(*structpb.Value_BoolValue); !ok {
		f.fail(key, "bool")
		return false
	}
	return v.GetBoolValue()
}

// Money reads a decimal string. An absent key reads as zero.
func (f *Fields) Money(key string) models.Money {
	s := f.String(key)
	if s == "" || f.Err != nil {
		return models.Zero
	}
	m, err := models.ParseMoney(s)
	if err != nil {
		f.fail(key, "decimal")
		return models.Zero
	}
	return m
}

func (f *Fields) Time(key string) time.Time {
	s := f.String(key)
	if s == "" || f.Err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		f.fail(key, "RFC 3339 time")
		return time.Time{}
	}
	return t
}

// List returns the structs of a list field.
func (f *Fields) List(key string) []*structpb.Struct {
	v := f.value(key)
	if v == nil {
		return nil
	}
	if _, ok := v.GetKind().(*structpb.Value_ListValue); !ok {
		f.fail(key, "list")
		return nil
	}
	var out []*structpb.Struct
	for _, item := range v.GetListValue().GetValues() {
		s := item.GetStructValue()
		if s == nil {
			f.fail(key, "list of objects")
			return nil
		}
		out = append(out, s)
	}
	return out
}

// Struct returns a nested struct field, or nil when absent or null.
func (f *Fields) Struct(key string) *structpb.Struct {
	v := f.value(key)
	if v == nil {
		return nil
	}
	if _, ok := v.GetKind().(*structpb.Value_NullValue); ok {
		return nil
	}
	s := v.GetStructValue()
	if s == nil {
		f.fail(key, "object")
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Encode builds a Struct from plain values; see structpb.NewStruct for the
// accepted types.
func Encode(m map[string]any) (*structpb.Struct, error) {
	return structpb.NewStruct(m)
}

// List encodes items under key.
func List[T any](key string, items []T, enc func(T) map[string]any) (*structpb.Struct, error) {
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, enc(it))
	}
	return structpb.NewStruct(map[string]any{key: out})
}

// Decode decodes every struct of a list field.
func Decode[T any](s *structpb.Struct, key string, dec func(*structpb.Struct) (T, error)) ([]T, error) {
	f := NewFields(s)
	items := f.List(key)
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		v, err := dec(it)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
