// Package locale renders import diagnostics in the caller's language.
package locale

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/orbita/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

type catalogBundle struct {
	bundle    *i18n.Bundle
	languages []string
}

// loadBundle reads every embedded locale file once per process.
var loadBundle = sync.OnceValue(func() catalogBundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return catalogBundle{bundle: bundle}
	}

	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		langs = append(langs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	return catalogBundle{bundle: bundle, languages: langs}
})

// Catalog formats diagnostics for one language. A nil *Catalog renders English.
type Catalog struct {
	lang      string
	localizer *i18n.Localizer
}

// New returns a catalog for lang. Accept-Language style lists ("fr-CA,fr;q=0.9")
// are accepted; unknown languages fall back to English.
func New(lang string) *Catalog {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	b := loadBundle()
	return &Catalog{
		lang:      lang,
		localizer: i18n.NewLocalizer(b.bundle, lang, config.DefaultLanguage),
	}
}

// Languages returns the language codes that have an embedded locale file.
func Languages() []string {
	return append([]string(nil), loadBundle().languages...)
}

// Language reports the language the catalog was created for.
func (c *Catalog) Language() string {
	if c == nil {
		return config.DefaultLanguage
	}
	return c.lang
}

// Format renders msg with data. It never fails: a missing translation falls back
// to the English text, and a broken template falls back to the message ID.
func (c *Catalog) Format(msg *i18n.Message, data map[string]any) string {
	if c == nil {
		c = english()
	}

	out, err := c.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		TemplateData:   data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, msg.ID,
			config.LogKeyLang, c.lang,
			config.LogKeyError, err,
		)
	}
	if out == "" {
		return msg.ID
	}
	return out
}

var english = sync.OnceValue(func() *Catalog {
	return New(config.DefaultLanguage)
})
