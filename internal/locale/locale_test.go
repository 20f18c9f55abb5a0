package locale

import (
	"encoding/json"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocales_Integrity ensures every embedded locale translates every diagnostic
// and carries no stale keys.
func TestLocales_Integrity(t *testing.T) {
	entries, err := localeFS.ReadDir(localeDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	wanted := make(map[string]bool, len(Messages))
	for _, m := range Messages {
		wanted[m.ID] = true
	}

	for _, entry := range entries {
		t.Run(entry.Name(), func(t *testing.T) {
			raw, err := localeFS.ReadFile(path.Join(localeDir, entry.Name()))
			require.NoError(t, err)

			var translations map[string]string
			require.NoError(t, json.Unmarshal(raw, &translations))

			for id := range wanted {
				assert.NotEmpty(t, translations[id], "missing translation for %s", id)
			}
			for id := range translations {
				assert.True(t, wanted[id], "unknown key %s", id)
			}
		})
	}
}

func TestLanguages_Detected(t *testing.T) {
	assert.ElementsMatch(t, []string{"en", "fr"}, Languages())
}

func TestFormat_English(t *testing.T) {
	c := New("en")
	got := c.Format(MsgJSONFieldRequired, map[string]any{"Index": 3, "Field": "firstName"})
	assert.Equal(t, "Contact 3: firstName is required", got)
}

func TestFormat_NilCatalogIsEnglish(t *testing.T) {
	var c *Catalog
	assert.Equal(t, "CSV must have a header row and at least one data row", c.Format(MsgCSVTooFewRows, nil))
	assert.Equal(t, "en", c.Language())
}

func TestFormat_French(t *testing.T) {
	c := New("fr")
	got := c.Format(MsgJSONFailedSummary, map[string]any{"Count": 2})
	assert.Equal(t, "2 contact(s) invalide(s)", got)
}

func TestFormat_UnknownLanguageFallsBack(t *testing.T) {
	c := New("xx")
	got := c.Format(MsgCSVRowSkipped, map[string]any{"Row": 4})
	assert.Equal(t, "Row 4 skipped due to missing required fields", got)
}
