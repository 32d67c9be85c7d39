package value

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip[T int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64](t *testing.T, values ...T) {
	t.Helper()
	for _, v := range values {
		r, err := Of(v)
		require.NoError(t, err)
		require.Equal(t, KindNumber, r.Kind())
		back, err := As[T](r)
		require.NoError(t, err, "converting %v back", v)
		require.Equal(t, v, back)
	}
}

func TestConversionRoundTrip(t *testing.T) {
	t.Run("int8", func(t *testing.T) {
		for i := math.MinInt8; i <= math.MaxInt8; i++ {
			roundTrip(t, int8(i))
		}
	})
	t.Run("uint8", func(t *testing.T) {
		for i := 0; i <= math.MaxUint8; i++ {
			roundTrip(t, uint8(i))
		}
	})
	t.Run("int16", func(t *testing.T) {
		roundTrip[int16](t, math.MinInt16, -1, 0, 1, math.MaxInt16)
	})
	t.Run("uint16", func(t *testing.T) {
		roundTrip[uint16](t, 0, 1, math.MaxUint16)
	})
	t.Run("int32", func(t *testing.T) {
		roundTrip[int32](t, math.MinInt32, -12345, 0, 98765, math.MaxInt32)
	})
	t.Run("uint32", func(t *testing.T) {
		roundTrip[uint32](t, 0, 7, math.MaxUint32)
	})
	t.Run("int64", func(t *testing.T) {
		roundTrip[int64](t, -(1 << 53), -1, 0, 1, 1<<53)
	})
	t.Run("uint64", func(t *testing.T) {
		roundTrip[uint64](t, 0, 1<<53)
	})
	t.Run("int", func(t *testing.T) {
		roundTrip[int](t, -42, 0, 42)
	})
	t.Run("uint", func(t *testing.T) {
		roundTrip[uint](t, 0, 42)
	})
}

func TestConversionRejectsNonIntegral(t *testing.T) {
	r := Num(1.5)
	_, err := As[int](r)
	assert.ErrorIs(t, err, ErrConversion)
	_, err = As[uint8](r)
	assert.ErrorIs(t, err, ErrConversion)
	_, err = As[int64](Num(math.Inf(1)))
	assert.ErrorIs(t, err, ErrConversion)
	_, err = As[int32](Num(nanValue()))
	assert.ErrorIs(t, err, ErrConversion)
}

func TestConversionRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		f    float64
		typ  reflect.Type
	}{
		{"int8 high", 128, reflect.TypeFor[int8]()},
		{"int8 low", -129, reflect.TypeFor[int8]()},
		{"uint8 negative", -1, reflect.TypeFor[uint8]()},
		{"uint8 high", 256, reflect.TypeFor[uint8]()},
		{"int64 high", math.Ldexp(1, 63), reflect.TypeFor[int64]()},
		{"uint64 high", math.Ldexp(1, 64), reflect.TypeFor[uint64]()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(Num(tt.f), tt.typ)
			require.ErrorIs(t, err, ErrConversion)
		})
	}
}

func TestConversionBounds(t *testing.T) {
	v, err := As[int8](Num(-128))
	require.NoError(t, err)
	assert.Equal(t, int8(-128), v)

	u, err := As[uint8](Num(255))
	require.NoError(t, err)
	assert.Equal(t, uint8(255), u)

	i, err := As[int64](Num(-math.Ldexp(1, 63)))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i)
}

func TestConversionFloats(t *testing.T) {
	f, err := As[float64](Num(0.1))
	require.NoError(t, err)
	assert.Equal(t, 0.1, f)

	f32, err := As[float32](Num(0.5))
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), f32)

	_, err = As[float32](Num(0.1))
	assert.ErrorIs(t, err, ErrConversion)

	r, err := Of(float32(2.5))
	require.NoError(t, err)
	assert.True(t, r.Equal(Num(2.5)))
}

func TestConversionKinds(t *testing.T) {
	s, err := As[string](Str("hi"))
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = As[string](Num(1))
	assert.ErrorIs(t, err, ErrConversion)
	_, err = As[int](Str("1"))
	assert.ErrorIs(t, err, ErrConversion)

	l, err := As[List](ListOf(Num(1)))
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
	_, err = As[Map](ListOf())
	assert.ErrorIs(t, err, ErrConversion)

	ref := ListOf()
	same, err := As[*Ref](ref)
	require.NoError(t, err)
	assert.True(t, same.Same(ref))

	v, err := As[Value](Str("x"))
	require.NoError(t, err)
	assert.Equal(t, String("x"), v)

	b, err := As[bool](Num(1))
	require.NoError(t, err)
	assert.True(t, b)
	_, err = As[bool](Num(2))
	assert.ErrorIs(t, err, ErrConversion)
}

func TestOf(t *testing.T) {
	r, err := Of(true)
	require.NoError(t, err)
	assert.True(t, r.Equal(Num(1)))

	r, err = Of([]*Ref{Num(1), Num(2)})
	require.NoError(t, err)
	assert.Equal(t, KindList, r.Kind())

	existing := Str("same")
	r, err = Of(existing)
	require.NoError(t, err)
	assert.True(t, r.Same(existing))

	_, err = Of(struct{}{})
	assert.ErrorIs(t, err, ErrConversion)
	_, err = Of(nil)
	assert.ErrorIs(t, err, ErrConversion)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		kind Kind
		ok   bool
	}{
		{reflect.TypeFor[float64](), KindNumber, true},
		{reflect.TypeFor[uint16](), KindNumber, true},
		{reflect.TypeFor[string](), KindString, true},
		{reflect.TypeFor[List](), KindList, true},
		{reflect.TypeFor[Map](), KindMap, true},
		{reflect.TypeFor[*Ref](), KindAny, true},
		{reflect.TypeFor[Value](), KindAny, true},
		{reflect.TypeFor[[]int](), KindAny, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			kind, ok := KindOf(tt.typ)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}
