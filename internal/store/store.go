// Package store persists imported contacts in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tartampluch/orbita/internal/config"
	"github.com/tartampluch/orbita/internal/importer"

	_ "modernc.org/sqlite"
)

// Clock abstracts time.Now() so import timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id           TEXT PRIMARY KEY,
	first_name   TEXT NOT NULL,
	last_name    TEXT NOT NULL DEFAULT '',
	photo_url    TEXT NOT NULL DEFAULT '',
	lat          REAL NOT NULL DEFAULT 0,
	lng          REAL NOT NULL DEFAULT 0,
	city         TEXT NOT NULL DEFAULT '',
	country      TEXT NOT NULL DEFAULT '',
	birth_year   INTEGER NOT NULL DEFAULT 0,
	bio          TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	tags         TEXT NOT NULL DEFAULT '[]',
	languages    TEXT NOT NULL DEFAULT '[]',
	social_links TEXT NOT NULL DEFAULT '[]',
	attributes   TEXT NOT NULL DEFAULT '{}',
	imported_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_country ON contacts(country);
`

const upsertContact = `
INSERT INTO contacts (
	id, first_name, last_name, photo_url, lat, lng, city, country, birth_year,
	bio, email, tags, languages, social_links, attributes, imported_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	first_name   = excluded.first_name,
	last_name    = excluded.last_name,
	photo_url    = excluded.photo_url,
	lat          = excluded.lat,
	lng          = excluded.lng,
	city         = excluded.city,
	country      = excluded.country,
	birth_year   = excluded.birth_year,
	bio          = excluded.bio,
	email        = excluded.email,
	tags         = excluded.tags,
	languages    = excluded.languages,
	social_links = excluded.social_links,
	attributes   = excluded.attributes,
	imported_at  = excluded.imported_at`

const selectContacts = `
SELECT id, first_name, last_name, photo_url, lat, lng, city, country, birth_year,
	bio, email, tags, languages, social_links, attributes
FROM contacts
ORDER BY rowid`

// Store is a SQLite-backed contact sink. It is safe for concurrent use.
type Store struct {
	db    *sql.DB
	clock Clock
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp imported_at.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// Open creates (or reuses) the database at path and applies the schema.
// Missing parent directories are created.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
		}
	}

	db, err := sql.Open(config.SQLiteDriver, path+config.SQLitePragmas)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}

	s := &Store{db: db, clock: RealClock{}}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrDBMigrate, err)
	}

	slog.Debug(config.MsgStoreOpened,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyPath, path,
	)
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts contacts by ID in a single transaction. Either every contact
// is written or none is.
func (s *Store) Save(ctx context.Context, contacts []importer.Contact) (err error) {
	if len(contacts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBSave, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertContact)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBSave, err)
	}
	defer func() { _ = stmt.Close() }()

	importedAt := s.clock.Now().UTC().Format(time.RFC3339)
	for _, c := range contacts {
		args, err := contactArgs(c)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, append(args, importedAt)...); err != nil {
			return fmt.Errorf("%s: %s: %w", config.ErrDBSave, c.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDBSave, err)
	}

	slog.Info(config.MsgContactsSaved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyCount, len(contacts),
	)
	return nil
}

// List returns every stored contact in first-insertion order.
func (s *Store) List(ctx context.Context) ([]importer.Contact, error) {
	rows, err := s.db.QueryContext(ctx, selectContacts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBList, err)
	}
	defer func() { _ = rows.Close() }()

	contacts := []importer.Contact{}
	for rows.Next() {
		var c importer.Contact
		var tags, languages, links, attributes string
		if err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.PhotoURL,
			&c.Location.Lat, &c.Location.Lng, &c.Location.City, &c.Location.Country,
			&c.BirthYear, &c.Bio, &c.Email,
			&tags, &languages, &links, &attributes,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrDBList, err)
		}

		if err := decodeColumns(&c, tags, languages, links, attributes); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBList, err)
	}
	return contacts, nil
}

// contactArgs flattens c into upsert arguments, minus imported_at.
func contactArgs(c importer.Contact) ([]any, error) {
	tags, err := encodeColumn(nonNil(c.Tags))
	if err != nil {
		return nil, err
	}
	languages, err := encodeColumn(nonNil(c.Languages))
	if err != nil {
		return nil, err
	}
	links := c.SocialLinks
	if links == nil {
		links = []importer.SocialLink{}
	}
	socialLinks, err := encodeColumn(links)
	if err != nil {
		return nil, err
	}
	attrs := c.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	attributes, err := encodeColumn(attrs)
	if err != nil {
		return nil, err
	}

	return []any{
		c.ID, c.FirstName, c.LastName, c.PhotoURL,
		c.Location.Lat, c.Location.Lng, c.Location.City, c.Location.Country,
		c.BirthYear, c.Bio, c.Email,
		tags, languages, socialLinks, attributes,
	}, nil
}

func encodeColumn(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrDBEncode, err)
	}
	return string(b), nil
}

func decodeColumns(c *importer.Contact, tags, languages, links, attributes string) error {
	c.Tags = []string{}
	c.Languages = []string{}
	c.SocialLinks = []importer.SocialLink{}
	c.Attributes = map[string]any{}

	for _, col := range []struct {
		raw string
		dst any
	}{
		{tags, &c.Tags},
		{languages, &c.Languages},
		{links, &c.SocialLinks},
		{attributes, &c.Attributes},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return fmt.Errorf("%s: %w", config.ErrDBList, err)
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
