package importer

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tartampluch/orbita/internal/config"
)

// birthdayYear finds a plausible four digit year inside free-text birthdays.
var birthdayYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// socialColumns lists the platforms emitted as social links, in output order.
var socialColumns = []struct {
	platform string
	fields   []Field
}{
	{config.PlatformLinkedIn, []Field{FieldLinkedIn}},
	{config.PlatformInstagram, []Field{FieldInstagram}},
	{config.PlatformTwitter, []Field{FieldTwitter}},
	{config.PlatformGitHub, []Field{FieldGitHub}},
	{config.PlatformWebsite, []Field{FieldWebsite, FieldWebsite1}},
}

// attributeColumns copies address-book cells into attributes under fixed keys.
var attributeColumns = []struct {
	key   string
	field Field
}{
	{config.AttrPhone, FieldPhone1},
	{config.AttrPhone2, FieldPhone2},
	{config.AttrCompany, FieldOrganization},
	{config.AttrRole, FieldTitle},
}

// MapRow converts one data row into a contact. rowNum is the 1-based line
// position used in diagnostics. It returns false when the row has no first
// name, which is the only reason a row is rejected.
func (imp *Importer) MapRow(row []string, cols ColumnMap, rowNum int) (Contact, bool) {
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyRow, rowNum,
	)

	first, last := splitName(cols.Cell(row, FieldName))
	firstName := firstNonEmpty(cols.Cell(row, FieldFirstName), first)
	lastName := firstNonEmpty(cols.Cell(row, FieldLastName), last)
	if middle := cols.Cell(row, FieldMiddleName); middle != "" {
		lastName = strings.TrimSpace(middle + " " + lastName)
	}

	if firstName == "" {
		log.Warn(config.MsgRowSkipped)
		return Contact{}, false
	}

	c := newContact()
	c.ID = imp.newID()
	c.FirstName = firstName
	c.LastName = lastName
	c.Location.City = firstNonEmpty(cols.Cell(row, FieldCity), cols.Cell(row, FieldAddress1City))
	c.Location.Country = firstNonEmpty(cols.Cell(row, FieldCountry), cols.Cell(row, FieldAddress1Country))

	if lat, lng, ok := rowCoordinates(row, cols, log); ok {
		c.Location.Lat, c.Location.Lng = lat, lng
	}

	if c.Location.Lat == 0 && c.Location.Lng == 0 {
		applyPhoneFallback(&c.Location, log,
			cols.Cell(row, FieldPhone1),
			cols.Cell(row, FieldPhone2),
		)
	}

	c.Tags = append(parseLabels(cols.Cell(row, FieldLabels)), parseList(cols.Cell(row, FieldRoles))...)
	c.Languages = parseList(cols.Cell(row, FieldLanguages))
	c.BirthYear = rowBirthYear(row, cols)
	c.Email = cols.Cell(row, FieldEmail)
	c.Bio = cols.Cell(row, FieldBio)

	for _, sc := range socialColumns {
		var url string
		for _, f := range sc.fields {
			url = firstNonEmpty(url, cols.Cell(row, f))
		}
		if url != "" {
			c.SocialLinks = append(c.SocialLinks, SocialLink{Platform: sc.platform, URL: url})
		}
	}

	for _, ac := range attributeColumns {
		if v := cols.Cell(row, ac.field); v != "" {
			c.Attributes[ac.key] = v
		}
	}

	if photo := cols.Cell(row, FieldPhoto); strings.HasPrefix(photo, config.PhotoURLPrefix) {
		c.PhotoURL = photo
	}

	return c, true
}

// firstNonEmpty returns the first non-empty value in priority order.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// splitName splits a combined name into the first token and the remainder.
func splitName(full string) (first, rest string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// rowCoordinates parses the lat/lng pair. It reports false when either cell
// is empty, and logs a warning when the pair is present but unusable.
func rowCoordinates(row []string, cols ColumnMap, log *slog.Logger) (float64, float64, bool) {
	if !cols.Has(FieldLat) || !cols.Has(FieldLng) {
		return 0, 0, false
	}
	latStr, lngStr := cols.Cell(row, FieldLat), cols.Cell(row, FieldLng)
	if latStr == "" || lngStr == "" {
		return 0, 0, false
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil || !validLat(lat) || !validLng(lng) {
		log.Warn(config.MsgRowBadCoords,
			config.LogKeyValue, latStr+","+lngStr,
		)
		return 0, 0, false
	}
	return lat, lng, true
}

func validLat(v float64) bool {
	return !math.IsNaN(v) && v >= config.LatMin && v <= config.LatMax
}

func validLng(v float64) bool {
	return !math.IsNaN(v) && v >= config.LngMin && v <= config.LngMax
}

// applyPhoneFallback fills in coordinates from the first phone with a known
// calling code. Country is adopted only when still empty; city is left alone.
func applyPhoneFallback(loc *Location, log *slog.Logger, phones ...string) {
	for _, phone := range phones {
		if phone == "" {
			continue
		}
		pl, ok := LookupPhoneLocation(phone)
		if !ok {
			continue
		}

		loc.Lat, loc.Lng = pl.Lat, pl.Lng
		if loc.Country == "" {
			loc.Country = pl.Country
		}
		log.Debug(config.MsgPhoneFallback,
			config.LogKeyPrefix, pl.Prefix,
			config.LogKeyCountry, pl.Country,
		)
		return
	}
}

// parseList splits a semicolon list, trimming entries and dropping empties.
func parseList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, config.ListSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseLabels splits Google Contacts labels and drops system labels such as
// "* myContacts" and "* starred".
func parseLabels(value string) []string {
	out := []string{}
	if value == "" {
		return out
	}
	for _, label := range strings.Split(value, config.LabelSeparator) {
		label = strings.TrimSpace(label)
		if label == "" || label == config.LabelMyContacts || strings.HasPrefix(label, config.LabelSystemPrefix) {
			continue
		}
		out = append(out, label)
	}
	return out
}

// rowBirthYear prefers the explicit year column and falls back to the first
// plausible year found in the birthday text.
func rowBirthYear(row []string, cols ColumnMap) int {
	if y, err := strconv.Atoi(cols.Cell(row, FieldBirthYear)); err == nil && validBirthYear(y) {
		return y
	}
	if m := birthdayYear.FindString(cols.Cell(row, FieldBirthday)); m != "" {
		if y, err := strconv.Atoi(m); err == nil && validBirthYear(y) {
			return y
		}
	}
	return 0
}

func validBirthYear(y int) bool {
	return y > config.BirthYearMin && y < config.BirthYearMax
}
