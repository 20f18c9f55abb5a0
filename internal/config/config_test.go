package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/orbita/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"LabelSeparator", config.LabelSeparator},
		{"ListSeparator", config.ListSeparator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestImportBounds_Sanity checks that validation bounds are consistent.
func TestImportBounds_Sanity(t *testing.T) {
	assert.Less(t, config.BirthYearMin, config.BirthYearMax)
	assert.Equal(t, -90.0, config.LatMin)
	assert.Equal(t, 180.0, config.LngMax)
	assert.Equal(t, 2, config.MinCSVRows, "A header and one data row are required")
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Orbita-Import/"))
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, int64(config.HTTPTimeout), int64(0))
	assert.Greater(t, int64(config.ShutdownTimeout), int64(0))
	assert.Greater(t, config.MaxUploadSize, 0)
	assert.LessOrEqual(t, config.MaxUploadSize, config.MaxHTTPResponseSize, "Uploads should not exceed the fetch cap")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORBITA_LISTEN_ADDR", "")
	_ = os.Unsetenv("ORBITA_LISTEN_ADDR")

	opts, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultListenAddr, opts.ListenAddr)
	assert.Equal(t, config.DefaultLanguage, opts.Language)
}

func TestLoad_DefaultsOnlyFillUnsetFields(t *testing.T) {
	t.Setenv("ORBITA_LISTEN_ADDR", "0.0.0.0:9000")
	t.Setenv("ORBITA_LANG", "")
	_ = os.Unsetenv("ORBITA_LANG")

	opts, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", opts.ListenAddr)
	assert.Equal(t, config.DefaultLanguage, opts.Language)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ORBITA_LANG", "fr")
	t.Setenv("ORBITA_DB_PATH", "/tmp/contacts.db")
	t.Setenv("ORBITA_DEBUG", "true")

	opts, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "fr", opts.Language)
	assert.Equal(t, "/tmp/contacts.db", opts.DatabasePath)
	assert.True(t, opts.Debug)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ORBITA_PHOTO_BASE_URL=https://cdn.example.com/photos/\n"), 0o600))

	// godotenv never overrides variables that are already set.
	t.Setenv("ORBITA_PHOTO_BASE_URL", "")
	_ = os.Unsetenv("ORBITA_PHOTO_BASE_URL")
	t.Cleanup(func() { _ = os.Unsetenv("ORBITA_PHOTO_BASE_URL") })

	opts, err := config.Load([]string{envFile, filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/photos/", opts.PhotoBaseURL)
}
