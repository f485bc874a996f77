package label

import "reflect"

// Shape is the result of fingerprinting an untyped stored value.
type Shape int

const (
	// ShapeScalar is any non-compound value, nil included.
	ShapeScalar Shape = iota
	// ShapeTerm is a typed term handle.
	ShapeTerm
	// ShapeImageMeta is a record carrying an "image_meta" entry.
	ShapeImageMeta
	// ShapeURLRecord is a record carrying a "url" entry.
	ShapeURLRecord
	// ShapeUnknown is any other compound value.
	ShapeUnknown
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeTerm:
		return "term"
	case ShapeImageMeta:
		return "image_meta"
	case ShapeURLRecord:
		return "url_record"
	default:
		return "unknown"
	}
}

// TermHandle is implemented by typed term handles of the content model.
type TermHandle interface {
	TermRecord() map[string]any
}

// Fingerprint classifies v. The checks run in a fixed order and the first
// match wins:
//
//  1. non-compound values (nil, bools, numbers, strings)
//  2. term handles
//  3. any other typed handle (struct or pointer)
//  4. records with a non-nil "image_meta" entry
//  5. records with a non-nil "url" entry
//  6. anything else
func Fingerprint(v any) Shape {
	if !isCompound(v) {
		return ShapeScalar
	}
	if _, ok := v.(TermHandle); ok {
		return ShapeTerm
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return ShapeUnknown
	}
	if rec["image_meta"] != nil {
		return ShapeImageMeta
	}
	if rec["url"] != nil {
		return ShapeURLRecord
	}
	return ShapeUnknown
}

func isCompound(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer, reflect.Interface:
		return true
	default:
		return false
	}
}
