package ballast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce_Numbers(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{"42", IntValue(42)},
		{"0", IntValue(0)},
		{"-7", IntValue(-7)},
		{"+13", IntValue(13)},
		{"3.14", FloatValue(3.14)},
		{"-0.5", FloatValue(-0.5)},
		{".25", FloatValue(0.25)},
		{"1e3", FloatValue(1000)},
		{"  42  ", IntValue(42)}, // trimmed before matching
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Coerce(tt.raw)
			assert.True(t, got.Equal(tt.want), "Coerce(%q) = %s, want %s", tt.raw, got, tt.want)
		})
	}
}

func TestCoerce_Keywords(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{"true", BoolValue(true)},
		{"Enable", BoolValue(true)}, // case-insensitive
		{"ENABLE", BoolValue(true)},
		{"false", BoolValue(false)},
		{"disable", BoolValue(false)},
		{"Disable", BoolValue(false)},
		{"null", NullValue()},
		{"NULL", NullValue()},
		{"blank", StringValue("")},
		{"Blank", StringValue("")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Coerce(tt.raw)
			assert.True(t, got.Equal(tt.want), "Coerce(%q) = %s, want %s", tt.raw, got, tt.want)
		})
	}
}

func TestCoerce_Lists(t *testing.T) {
	t.Run("empty brackets", func(t *testing.T) {
		got := Coerce("[]")
		assert.True(t, got.Equal(ListValue()))
	})

	t.Run("mixed scalars", func(t *testing.T) {
		got := Coerce("[1,2,true,foo]")
		want := ListValue(IntValue(1), IntValue(2), BoolValue(true), StringValue("foo"))
		assert.True(t, got.Equal(want), "got %s", got)
	})

	t.Run("quoted and spaced items", func(t *testing.T) {
		got := Coerce(`[ "a" , 'b' , 3.5 , null ]`)
		want := ListValue(StringValue("a"), StringValue("b"), FloatValue(3.5), NullValue())
		assert.True(t, got.Equal(want), "got %s", got)
	})

	t.Run("list items skip the wide keyword set", func(t *testing.T) {
		// enable/disable/blank are not list-item literals; they stay strings.
		got := Coerce("[enable,blank]")
		want := ListValue(StringValue("enable"), StringValue("blank"))
		assert.True(t, got.Equal(want), "got %s", got)
	})
}

func TestCoerce_Strings(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"hello world", "hello world"},
		{"  padded  ", "padded"},
		{"42abc", "42abc"},
		{"true-ish", "true-ish"},
		{"[unclosed", "[unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Coerce(tt.raw)
			str, ok := got.AsString()
			assert.True(t, ok, "Coerce(%q) should be a string, got %s", tt.raw, got.Kind())
			assert.Equal(t, tt.want, str)
		})
	}
}

func TestCoerce_IntOverflowFallsBackToFloat(t *testing.T) {
	got := Coerce("92233720368547758080") // > max int64
	f, ok := got.AsFloat()
	assert.True(t, ok)
	assert.InEpsilon(t, 9.223372036854776e19, f, 1e-10)
}
