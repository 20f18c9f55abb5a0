package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/orbita/internal/config"
)

func TestLookupPhoneLocation(t *testing.T) {
	tests := []struct {
		name        string
		phone       string
		wantOK      bool
		wantCountry string
		wantPrefix  string
	}{
		{"German with plus", "+49 30 1234567", true, "Germany", "49"},
		{"Punctuation stripped", "+1 (202) 555-0143", true, "United States", "1"},
		{"Dots stripped", "+33.1.23.45.67.89", true, "France", "33"},
		{"Three digit code", "+966 11 123 4567", true, "Saudi Arabia", "966"},
		{"Three digit beats two digit", "+351 21 123 4567", true, "Portugal", "351"},
		{"International access code", "0044 20 7946 0958", true, "United Kingdom", "44"},
		{"Ten digits without plus", "4930123456", true, "Germany", "49"},
		{"Short national number rejected", "030 12345", false, "", ""},
		{"Trunk prefix has no code", "030 1234567", false, "", ""},
		{"Letters rejected", "+49 30 CALL-NOW", false, "", ""},
		{"Empty", "", false, "", ""},
		{"Plus only", "+", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := LookupPhoneLocation(tt.phone)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCountry, loc.Country)
			assert.Equal(t, tt.wantPrefix, loc.Prefix)
		})
	}
}

func TestLookupPhoneLocation_SaudiCoordinates(t *testing.T) {
	loc, ok := LookupPhoneLocation("+966501234567")
	require.True(t, ok)
	assert.InDelta(t, 24.7136, loc.Lat, 1e-9)
	assert.InDelta(t, 46.6753, loc.Lng, 1e-9)
}

// TestCallingCodes_Ordering guards the longest-prefix-first scan.
func TestCallingCodes_Ordering(t *testing.T) {
	seen := map[string]bool{}
	for i, code := range callingCodes {
		assert.False(t, seen[code.prefix], "duplicate prefix %s", code.prefix)
		seen[code.prefix] = true

		assert.NotEmpty(t, code.country)
		assert.True(t, validLat(code.lat) && validLng(code.lng), "bad coordinates for %s", code.prefix)
		assert.True(t, allDigits(code.prefix))
		assert.LessOrEqual(t, len(code.prefix), config.PhoneMaxPrefixLen)

		if i > 0 {
			assert.GreaterOrEqual(t, len(callingCodes[i-1].prefix), len(code.prefix), "table must be sorted by prefix length")
		}
	}
}
