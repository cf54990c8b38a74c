package field

import (
	"encoding/json"
	"math"
	"reflect"
	"time"
)

type numberKind int

const (
	notNumber numberKind = iota
	signedNumber
	unsignedNumber
	floatNumber
)

type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

// Equal reports whether a and b are equal under the package comparison rule.
func Equal(a, b any) bool {
	a, b = indirect(a), indirect(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if na, ok := toNumber(a); ok {
		nb, ok := toNumber(b)
		return ok && numbersEqual(na, nb)
	}
	if _, ok := toNumber(b); ok {
		return false
	}

	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case va.Kind() == reflect.String || vb.Kind() == reflect.String:
		return va.Kind() == vb.Kind() && va.String() == vb.String()
	case va.Kind() == reflect.Bool || vb.Kind() == reflect.Bool:
		return va.Kind() == vb.Kind() && va.Bool() == vb.Bool()
	}

	// Comparable on the value, not the type: a struct with an interface
	// field holding a slice panics under ==.
	if va.Type() == vb.Type() && va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// indirect unwraps pointers and maps typed nils to nil.
func indirect(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
		case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if rv.IsNil() {
				return nil
			}
			return rv.Interface()
		default:
			return rv.Interface()
		}
	}
}

func toNumber(v any) (number, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return number{kind: signedNumber, i: i}, true
		}
		if f, err := n.Float64(); err == nil {
			return number{kind: floatNumber, f: f}, true
		}
		return number{}, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: signedNumber, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: unsignedNumber, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: floatNumber, f: rv.Float()}, true
	default:
		return number{}, false
	}
}

func numbersEqual(a, b number) bool {
	if a.kind == floatNumber || b.kind == floatNumber {
		return a.float() == b.float()
	}
	if a.kind == b.kind {
		return a.i == b.i && a.u == b.u
	}

	// one signed, one unsigned
	s, u := a, b
	if a.kind == unsignedNumber {
		s, u = b, a
	}
	return s.i >= 0 && uint64(s.i) == u.u
}

func (n number) float() float64 {
	switch n.kind {
	case signedNumber:
		return float64(n.i)
	case unsignedNumber:
		return float64(n.u)
	case floatNumber:
		return n.f
	default:
		return math.NaN()
	}
}
