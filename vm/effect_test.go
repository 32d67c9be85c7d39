package vm

import (
	"testing"

	"github.com/odra-lang/odra/value"
	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	num := value.KindNumber
	str := value.KindString
	for _, tc := range []struct {
		name    string
		effects []StackEffect
		want    string
	}{
		{
			name: "empty",
			want: "( -- )",
		},
		{
			name: "one two add",
			effects: []StackEffect{
				Static(nil, []value.Kind{num}),
				Static(nil, []value.Kind{num}),
				Static([]value.Kind{num, num}, []value.Kind{num}),
			},
			want: "( -- Number )",
		},
		{
			name: "add add",
			effects: []StackEffect{
				Static([]value.Kind{num, num}, []value.Kind{num}),
				Static([]value.Kind{num, num}, []value.Kind{num}),
			},
			want: "( Number Number Number -- Number )",
		},
		{
			name: "concat strlen",
			effects: []StackEffect{
				Static([]value.Kind{str, str}, []value.Kind{str}),
				Static([]value.Kind{str}, []value.Kind{num}),
			},
			want: "( String String -- Number )",
		},
		{
			name: "partly supplied",
			effects: []StackEffect{
				Static(nil, []value.Kind{str}),
				Static([]value.Kind{num, str}, []value.Kind{num}),
			},
			want: "( Number -- Number )",
		},
		{
			name: "dynamic",
			effects: []StackEffect{
				Static(nil, []value.Kind{num}),
				Dynamic,
			},
			want: "( ? )",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Compose(tc.effects...)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestPushThunkEffect(t *testing.T) {
	th := PushThunk(value.Str("hi"))
	assert.Equal(t, "( -- String )", th.StackEffect().String())
	assert.Equal(t, `"hi"`, th.Name())
}
