package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToExternalAndToInternal(t *testing.T) {
	assert.Equal(t, "com.example.Service", ToExternal("com/example/Service"))
	assert.Equal(t, "com/example/Service", ToInternal("com.example.Service"))
	assert.Equal(t, "NoPackage", ToExternal("NoPackage"))
}

func TestParseMethodRoundTripGrammar(t *testing.T) {
	cases := []struct {
		raw    string
		params []string
		ret    string
	}{
		{"()V", nil, "V"},
		{"(I)V", []string{"I"}, "V"},
		{"(Ljava/lang/String;I)Ljava/lang/Object;", []string{"Ljava/lang/String;", "I"}, "Ljava/lang/Object;"},
		{"([I[[Ljava/lang/String;)Z", []string{"[I", "[[Ljava/lang/String;"}, "Z"},
		{"(BCDFIJSZ)V", []string{"B", "C", "D", "F", "I", "J", "S", "Z"}, "V"},
	}
	for _, tc := range cases {
		m, err := ParseMethod(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.params, m.Params, tc.raw)
		assert.Equal(t, tc.ret, m.Return, tc.raw)
	}
}

func TestParseMethodMalformed(t *testing.T) {
	cases := []string{
		"",
		"V",
		"(I",
		"(Q)V",
		"(Ljava/lang/String)V", // missing ';'
	}
	for _, raw := range cases {
		_, err := ParseMethod(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseField(t *testing.T) {
	valid := []string{"I", "Ljava/util/Map;", "[I", "[[Ljava/lang/String;"}
	for _, d := range valid {
		out, err := ParseField(d)
		require.NoError(t, err, d)
		assert.Equal(t, d, out)
	}

	invalid := []string{"", "Q", "Ljava/util/Map", "IX"}
	for _, d := range invalid {
		_, err := ParseField(d)
		assert.Error(t, err, d)
	}
}

func TestIsArrayAndElementType(t *testing.T) {
	assert.True(t, IsArray("[I"))
	assert.True(t, IsArray("[[Ljava/lang/String;"))
	assert.False(t, IsArray("Ljava/lang/String;"))

	assert.Equal(t, "I", ElementType("[I"))
	assert.Equal(t, "Ljava/lang/String;", ElementType("[[Ljava/lang/String;"))
	assert.Equal(t, "I", ElementType("I"))
}

func TestIsPrimitive(t *testing.T) {
	for _, d := range []string{"B", "C", "D", "F", "I", "J", "S", "Z", "V"} {
		assert.True(t, IsPrimitive(d), d)
	}
	assert.False(t, IsPrimitive("Ljava/lang/String;"))
	assert.False(t, IsPrimitive("[I"))
}

func TestFQN(t *testing.T) {
	assert.Equal(t, "java.util.HashMap", FQN("Ljava/util/HashMap;"))
	assert.Equal(t, "java.lang.String", FQN("[[Ljava/lang/String;"))
	assert.Equal(t, "", FQN("I"))
	assert.Equal(t, "", FQN("[I"))
}
