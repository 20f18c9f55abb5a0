package importer

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/orbita/internal/config"
	"github.com/tartampluch/orbita/internal/locale"
)

// ImportVCard maps each card of a vCard stream through the same rules as a
// CSV row. Malformed cards and cards without a name are skipped with a
// warning. A read error on the stream fails the whole import.
func (imp *Importer) ImportVCard(r io.Reader) (res Result) {
	defer imp.recoverInto(&res, config.FormatVCard, locale.MsgVCardReadFailed)

	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyFormat, config.FormatVCard,
	)

	res = Result{Contacts: []Contact{}, Errors: []string{}, Warnings: []string{}}
	cards := &cardSplitter{r: bufio.NewReader(r)}
	cardNum := 0

	for {
		raw, err := cards.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Error(config.MsgVCardReadFailed, config.LogKeyRow, cardNum+1, config.LogKeyError, err)
			return failed(imp.Catalog.Format(locale.MsgVCardReadFailed, map[string]any{"Reason": err.Error()}))
		}

		card, err := vcard.NewDecoder(strings.NewReader(raw)).Decode()
		if errors.Is(err, io.EOF) {
			// Stray text without a single property.
			continue
		}
		cardNum++
		if err != nil {
			log.Warn(config.MsgCardSkipped, config.LogKeyRow, cardNum, config.LogKeyError, err)
			res.Warnings = append(res.Warnings, imp.Catalog.Format(locale.MsgVCardCardSkipped, map[string]any{"Row": cardNum, "Reason": err.Error()}))
			continue
		}

		row, cols := cardToRow(card)
		c, ok := imp.MapRow(row, cols, cardNum)
		if !ok {
			res.Warnings = append(res.Warnings, imp.Catalog.Format(locale.MsgCSVRowSkipped, map[string]any{"Row": cardNum}))
			continue
		}
		res.Contacts = append(res.Contacts, c)
	}

	if cardNum == 0 {
		return failed(imp.Catalog.Format(locale.MsgVCardEmpty, nil))
	}

	res.Success = len(res.Contacts) > 0
	imp.logFinished(log, res, start)
	return res
}

// cardSplitter cuts a vCard stream into the raw text of each card, from a
// BEGIN line to the matching END line. Each card is decoded on its own so a
// broken one cannot swallow or misnumber the cards after it.
type cardSplitter struct {
	r       *bufio.Reader
	pending string
	held    bool
}

// next returns the next card, io.EOF once the stream is exhausted, or the
// underlying read error. Every call consumes at least one line.
func (s *cardSplitter) next() (string, error) {
	var b strings.Builder
	for {
		line, err := s.readLine()
		if errors.Is(err, io.EOF) {
			if b.Len() == 0 {
				return "", io.EOF
			}
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		key := propertyName(line)
		if key == config.VCardBegin && b.Len() > 0 {
			// A card left open: hand it over and start the next one from here.
			s.pending, s.held = line, true
			return b.String(), nil
		}

		b.WriteString(line)
		b.WriteString("\r\n")
		if key == config.VCardEnd {
			return b.String(), nil
		}
	}
}

func (s *cardSplitter) readLine() (string, error) {
	if s.held {
		s.held = false
		return s.pending, nil
	}
	line, err := s.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// propertyName returns the upper-cased name of a content line, without
// parameters or group. Folded continuation lines have none.
func propertyName(line string) string {
	if line == "" || line[0] == ' ' || line[0] == '\t' {
		return ""
	}
	name, _, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	name, _, _ = strings.Cut(name, ";")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(strings.TrimSpace(name))
}

// cardRow builds a synthetic row and its column map one field at a time.
type cardRow struct {
	row  []string
	cols ColumnMap
}

func (cr *cardRow) set(f Field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	cr.cols[f] = len(cr.row)
	cr.row = append(cr.row, value)
}

// cardToRow projects a card onto the address-book column vocabulary.
func cardToRow(card vcard.Card) ([]string, ColumnMap) {
	cr := &cardRow{cols: ColumnMap{}}

	cr.set(FieldName, card.PreferredValue(vcard.FieldFormattedName))
	if n := card.Name(); n != nil {
		cr.set(FieldFirstName, n.GivenName)
		cr.set(FieldLastName, n.FamilyName)
		cr.set(FieldMiddleName, n.AdditionalName)
	}
	cr.set(FieldNickname, card.PreferredValue(vcard.FieldNickname))

	if addrs := card.Addresses(); len(addrs) > 0 {
		cr.set(FieldAddress1City, addrs[0].Locality)
		cr.set(FieldAddress1Country, addrs[0].Country)
	}

	phones := card.Values(vcard.FieldTelephone)
	if len(phones) > 0 {
		cr.set(FieldPhone1, phones[0])
	}
	if len(phones) > 1 {
		cr.set(FieldPhone2, phones[1])
	}

	if lat, lng, ok := parseGeo(card.PreferredValue(vcard.FieldGeolocation)); ok {
		cr.set(FieldLat, lat)
		cr.set(FieldLng, lng)
	}

	cr.set(FieldEmail, card.PreferredValue(vcard.FieldEmail))
	org, _, _ := strings.Cut(card.PreferredValue(vcard.FieldOrganization), config.VCardOrgSeparator)
	cr.set(FieldOrganization, org)
	cr.set(FieldTitle, card.PreferredValue(vcard.FieldTitle))
	cr.set(FieldBirthday, card.PreferredValue(vcard.FieldBirthday))
	cr.set(FieldBio, card.PreferredValue(vcard.FieldNote))
	cr.set(FieldPhoto, card.PreferredValue(vcard.FieldPhoto))
	cr.set(FieldRoles, strings.Join(card.Categories(), config.ListSeparator))
	cr.set(FieldWebsite, card.PreferredValue(vcard.FieldURL))

	return cr.row, cr.cols
}

// parseGeo accepts vCard 4 "geo:lat,lng" URIs and vCard 3 "lat;lng" pairs.
func parseGeo(value string) (string, string, bool) {
	value = strings.TrimPrefix(strings.TrimSpace(value), config.GeoURIPrefix)
	if value == "" {
		return "", "", false
	}

	sep := ","
	if !strings.Contains(value, sep) {
		sep = ";"
	}
	lat, lng, ok := strings.Cut(value, sep)
	if !ok {
		return "", "", false
	}
	// Drop URI parameters such as ";u=35".
	lng, _, _ = strings.Cut(lng, ";")

	if _, err := strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return "", "", false
	}
	return strings.TrimSpace(lat), strings.TrimSpace(lng), true
}
