package field

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Accessor is implemented by records that resolve their own fields.
type Accessor interface {
	// Field returns the value of the named field and whether it exists.
	Field(name string) (any, bool)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[reflect.Type]func(any, string) (any, bool))
)

// Register installs an accessor for records of type T. It takes precedence
// over map and struct lookup for that type. Records are matched by their
// dynamic type, so T must be concrete; Register panics for an interface T.
// Types that need one accessor across many concrete types should implement
// Accessor instead.
func Register[T any](fn func(T, string) (any, bool)) {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		panic(fmt.Sprintf("field: Register called with interface type %s", t))
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if fn == nil {
		delete(registry, t)
		return
	}
	registry[t] = func(rec any, name string) (any, bool) {
		return fn(rec.(T), name)
	}
}

func registered(rec any) (func(any, string) (any, bool), bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[reflect.TypeOf(rec)]
	return fn, ok
}

// Lookup returns the value of the named field on rec.
func Lookup(rec any, name string) (any, bool) {
	if rec == nil || name == "" {
		return nil, false
	}

	if a, ok := rec.(Accessor); ok {
		return a.Field(name)
	}
	if fn, ok := registered(rec); ok {
		return fn(rec, name)
	}
	if m, ok := rec.(map[string]any); ok {
		return lookupMap(m, name)
	}

	v := reflect.ValueOf(rec)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		return lookupReflectMap(v, name)
	case reflect.Struct:
		return lookupStruct(v, name)
	default:
		return nil, false
	}
}

// lookupMap prefers the exact key. Otherwise, among keys equal to name under
// case folding, the lexically smallest wins so the result does not depend on
// map iteration order.
func lookupMap(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}

	var (
		best  string
		found bool
	)
	for k := range m {
		if strings.EqualFold(k, name) && (!found || k < best) {
			best, found = k, true
		}
	}
	if !found {
		return nil, false
	}
	return m[best], true
}

func lookupReflectMap(v reflect.Value, name string) (any, bool) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	var (
		best  reflect.Value
		found bool
	)
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		if k == name {
			return iter.Value().Interface(), true
		}
		if strings.EqualFold(k, name) && (!found || k < best.String()) {
			best, found = iter.Key(), true
		}
	}
	if !found {
		return nil, false
	}
	return v.MapIndex(best).Interface(), true
}

func lookupStruct(v reflect.Value, name string) (any, bool) {
	for _, f := range reflect.VisibleFields(v.Type()) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if !strings.EqualFold(f.Name, name) && !strings.EqualFold(jsonName(f), name) {
			continue
		}

		fv, err := v.FieldByIndexErr(f.Index)
		if err != nil {
			// promoted through a nil embedded pointer
			return nil, false
		}
		return fv.Interface(), true
	}
	return nil, false
}

func jsonName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// Matches reports whether rec has the named field and its value equals want.
// Records without the field never match, even when want is nil.
func Matches(rec any, name string, want any) bool {
	got, ok := Lookup(rec, name)
	if !ok {
		return false
	}
	return Equal(got, want)
}
