package fbr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	cases := map[string]string{
		"18%":     "18",
		" 17.5 %": "17.5",
		"0":       "0",
		"5%":      "5",
	}
	for in, want := range cases {
		got, err := ParseRate(in)
		require.NoError(t, err, in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s => %s", in, got)
	}

	for _, bad := range []string{"", "%", "abc", "-1%", "101%"} {
		_, err := ParseRate(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "18%", FormatRate(decimal.NewFromInt(18)))
}

func TestValidateNTN(t *testing.T) {
	assert.NoError(t, ValidateNTN("1234567"))
	assert.NoError(t, ValidateNTN("1234567-8"))
	assert.NoError(t, ValidateNTN("3520212345671"))
	assert.NoError(t, ValidateNTN("  1234567  "))
	assert.Error(t, ValidateNTN("123456"))
	assert.Error(t, ValidateNTN("35202123456712"))
	assert.Error(t, ValidateNTN(""))
}

func TestNormalizeNTN_FullWidthDigits(t *testing.T) {
	assert.Equal(t, "1234567", NormalizeNTN("１２３４５６７"))
}

func TestCanonicalProvince(t *testing.T) {
	assert.Equal(t, ProvincePunjab, CanonicalProvince("PUNJAB"))
	assert.Equal(t, ProvinceSindh, CanonicalProvince("  sindh "))
	assert.Equal(t, ProvinceKPK, CanonicalProvince("KPK"))
	assert.Equal(t, ProvinceICT, CanonicalProvince("Federal"))
	assert.Equal(t, ProvinceGB, CanonicalProvince("gilgit-baltistan"))
	assert.Equal(t, "", CanonicalProvince("   "))

	assert.True(t, IsKnownProvince("khyber pakhtunkhwa"))
	assert.False(t, IsKnownProvince("Texas"))
}
