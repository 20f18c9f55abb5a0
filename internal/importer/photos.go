package importer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tartampluch/orbita/internal/config"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName reduces a name to a comparison key: lowercase, diacritics
// removed, and only ASCII letters and digits kept. "José García",
// "jose-garcia" and "JoseGarcia" share the key "josegarcia".
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		stripped = strings.ToLower(name)
	}

	var b strings.Builder
	for _, r := range stripped {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeFilename drops the trailing extension and normalizes the rest.
func NormalizeFilename(filename string) string {
	base := filepath.Base(filename)
	return NormalizeName(strings.TrimSuffix(base, filepath.Ext(base)))
}

// MatchPhoto reports whether filename names the contact, either as
// first+last, last+first or first name alone. Empty keys never match.
func MatchPhoto(filename, firstName, lastName string) bool {
	key := NormalizeFilename(filename)
	if key == "" {
		return false
	}
	return key == NormalizeName(firstName+lastName) ||
		key == NormalizeName(lastName+firstName) ||
		key == NormalizeName(firstName)
}

// MapPhotos returns a copy of contacts where every contact without a photo
// receives the URL of the first matching photo. Contacts that already have a
// photo are never changed, so calling it twice is harmless.
func MapPhotos(contacts []Contact, photos []Photo) []Contact {
	out := make([]Contact, len(contacts))
	matched := 0

	for i, c := range contacts {
		out[i] = c
		if c.PhotoURL != "" {
			continue
		}
		for _, p := range photos {
			if MatchPhoto(p.Name, c.FirstName, c.LastName) {
				out[i].PhotoURL = p.URL
				matched++
				break
			}
		}
	}

	slog.Debug(config.MsgPhotosMatched,
		config.LogKeyComponent, config.CompPhotos,
		config.LogKeyContacts, len(contacts),
		config.LogKeyMatched, matched,
	)
	return out
}

// ScanPhotoDir lists the image files of dir as photo candidates. File content,
// not the extension, decides what counts as an image. A non-empty baseURL is
// joined with the filename; otherwise a file:// URL is used.
func ScanPhotoDir(dir, baseURL string) ([]Photo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrPhotoDir, err)
	}

	var photos []Photo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		mtype, err := mimetype.DetectFile(path)
		if err != nil || !strings.HasPrefix(mtype.String(), config.MimeImagePrefix) {
			slog.Debug(config.MsgPhotoSkipped,
				config.LogKeyComponent, config.CompPhotos,
				config.LogKeyFile, entry.Name(),
			)
			continue
		}

		photos = append(photos, Photo{Name: entry.Name(), URL: photoURL(baseURL, path, entry.Name())})
	}
	return photos, nil
}

func photoURL(baseURL, path, name string) string {
	if baseURL != "" {
		return strings.TrimSuffix(baseURL, "/") + "/" + name
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return config.FileURLScheme + filepath.ToSlash(path)
}
