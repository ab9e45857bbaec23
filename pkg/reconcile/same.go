package reconcile

import (
	"math"
	"reflect"
	"unsafe"
)

// Same reports whether two values are identical under identity semantics:
// comparable values compare with ==, except that NaN equals NaN and +0 and
// -0 differ; functions, maps, slices, channels and pointers compare by
// reference. Values are never compared deeply.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		fa, fb := va.Float(), vb.Float()
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb && math.Signbit(fa) == math.Signbit(fb)
	case reflect.Func:
		return funcValue(a) == funcValue(b)
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if !va.Type().Comparable() {
		return false
	}
	return safeEqual(a, b)
}

// funcValue returns the closure pointer stored in an interface holding a
// func. reflect.Value.Pointer only yields the code pointer, which closures
// created from the same literal share.
func funcValue(v any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&v))[1]
}

// safeEqual guards against structs or arrays that hold non-comparable
// values behind interface fields.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// SameSlice applies Same element-wise. Slices of different length differ.
func SameSlice(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Same(a[i], b[i]) {
			return false
		}
	}
	return true
}
