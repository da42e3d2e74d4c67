package testutil

import "reflect"

// DeepEqual is like reflect.DeepEqual, but a nil slice or map
// equals an empty one, and a nil interface equals either. Modules
// decoded from bytes and modules built in code differ in exactly
// that way.
func DeepEqual(x, y interface{}) bool {
	return equal(reflect.ValueOf(x), reflect.ValueOf(y), make(map[[2]uintptr]bool))
}

func empty(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	}
	return false
}

// equal compares x and y. seen holds pointer pairs already under
// comparison, so cyclic values terminate.
func equal(x, y reflect.Value, seen map[[2]uintptr]bool) bool {
	if empty(x) && empty(y) {
		return true
	}
	if !x.IsValid() || !y.IsValid() {
		return false
	}
	if x.Type() != y.Type() {
		return false
	}

	switch x.Kind() {
	case reflect.Ptr:
		if x.Pointer() == y.Pointer() {
			return true
		}
		if x.IsNil() || y.IsNil() {
			return false
		}
		pair := [2]uintptr{x.Pointer(), y.Pointer()}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		return equal(x.Elem(), y.Elem(), seen)
	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		return equal(x.Elem(), y.Elem(), seen)
	case reflect.Array, reflect.Slice:
		if x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if !equal(x.Index(i), y.Index(i), seen) {
				return false
			}
		}
		return true
	case reflect.Map:
		if x.Len() != y.Len() {
			return false
		}
		for _, k := range x.MapKeys() {
			v := y.MapIndex(k)
			if !v.IsValid() || !equal(x.MapIndex(k), v, seen) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < x.NumField(); i++ {
			if !equal(x.Field(i), y.Field(i), seen) {
				return false
			}
		}
		return true
	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return x.Uint() == y.Uint()
	case reflect.Float32, reflect.Float64:
		return x.Float() == y.Float()
	case reflect.Complex64, reflect.Complex128:
		return x.Complex() == y.Complex()
	case reflect.String:
		return x.String() == y.String()
	case reflect.Func:
		// only nil funcs are equal, as in reflect.DeepEqual
		return x.IsNil() && y.IsNil()
	}
	// chan and unsafe.Pointer
	return x.Pointer() == y.Pointer()
}
