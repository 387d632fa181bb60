package modtext

import (
	"testing"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Text
	}{
		{name: "lower-case", in: "Increased Physical Damage", want: "increased physical damage"},
		{name: "leading plus", in: "+# to maximum Life", want: "# to maximum life"},
		{name: "leading minus", in: "-5% to Fire Resistance", want: "#% to fire resistance"},
		{name: "numbers become placeholders", in: "+25 to maximum Life", want: "# to maximum life"},
		{name: "range collapses", in: "(10-19)% increased Physical Damage", want: "#% increased physical damage"},
		{name: "en dash range", in: "(10–19)% increased Physical Damage", want: "#% increased physical damage"},
		{name: "bracket pipe", in: "[Of the Boar|Grants 20% increased Physical Damage]", want: "grants #% increased physical damage"},
		{name: "bracket without pipe", in: "#% increased [Physical] Damage", want: "#% increased physical damage"},
		{name: "nested brackets", in: "[a|[Cold|Cold] Damage]", want: "cold damage"},
		{name: "whitespace collapse", in: "  Adds   #  to #\tCold  Damage ", want: "adds # to # cold damage"},
		{name: "decimal", in: "1.5% of Damage Leeched", want: "#% of damage leeched"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"+# to maximum Life",
		"+ -5 to Strength",
		"--3 to Dexterity",
		"[Of the Boar|Grants 20% increased Physical Damage]",
		"[[a]",
		"(5 to 9) Added Fire Damage",
		"  MIXED Case  ",
		"#% increased [Physical|Physical] Damage",
		"((1-2)-3)",
		"(1 - (2-3))",
		"x ((1-2) - 3) y",
	}

	for _, in := range inputs {
		once, err := Normalize(in)
		require.NoError(t, err, in)

		twice, err := Normalize(string(once))
		require.NoError(t, err, in)

		assert.Equal(t, once, twice, "normalize must be idempotent for %q", in)
	}
}

func TestNormalize_NestedRangesCollapseInOnePass(t *testing.T) {
	tests := []struct {
		in   string
		want Text
	}{
		{in: "((1-2)-3)", want: "#"},
		{in: "(1 - (2-3))", want: "#"},
		{in: "x ((1-2) - 3) y", want: "x # y"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_BracketPipeKeepsDisplayedHalf(t *testing.T) {
	got, err := Normalize("[Of the Boar|Grants 20% increased Physical Damage]")
	require.NoError(t, err)

	assert.NotContains(t, string(got), "boar")
	assert.Equal(t, MustNormalize("Grants 20% increased Physical Damage"), got)
}

func TestNormalize_EmptyIsDataError(t *testing.T) {
	for _, in := range []string{"", "   ", "+", "[a|]", "+ -"} {
		_, err := Normalize(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, crafterr.IsDataError(err), "input %q", in)
	}
}

func TestNormalize_SameTemplateDifferentNumbers(t *testing.T) {
	a := MustNormalize("+25 to maximum Life")
	b := MustNormalize("+40 to maximum Life")
	c := MustNormalize("+# to maximum Life")

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestValues(t *testing.T) {
	assert.Equal(t, []int{10, 19}, Values("(10-19)% increased Physical Damage"))
	assert.Equal(t, []int{20}, Values("[Of the Boar 5|Grants 20% increased Physical Damage]"))
	assert.Nil(t, Values("increased physical damage"))
}

func TestMustNormalize_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNormalize("  ") })
}
