package importer

import (
	"slices"
	"strings"
)

// Field is a semantic column recognized in an import header.
type Field string

// Simple schema fields.
const (
	FieldName      Field = "name"
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldCity      Field = "city"
	FieldCountry   Field = "country"
	FieldLat       Field = "lat"
	FieldLng       Field = "lng"
	FieldRoles     Field = "roles"
	FieldLanguages Field = "languages"
	FieldBirthYear Field = "birthYear"
	FieldEmail     Field = "email"
	FieldBio       Field = "bio"
	FieldLinkedIn  Field = "linkedin"
	FieldInstagram Field = "instagram"
	FieldTwitter   Field = "twitter"
	FieldGitHub    Field = "github"
	FieldWebsite   Field = "website"
)

// Address-book export fields.
const (
	FieldMiddleName      Field = "middleName"
	FieldNickname        Field = "nickname"
	FieldOrganization    Field = "organization"
	FieldTitle           Field = "title"
	FieldBirthday        Field = "birthday"
	FieldPhoto           Field = "photo"
	FieldLabels          Field = "labels"
	FieldPhone1          Field = "phone1"
	FieldPhone2          Field = "phone2"
	FieldAddress1City    Field = "address1City"
	FieldAddress1Country Field = "address1Country"
	FieldWebsite1        Field = "website1"
)

// ColumnMap resolves a field to its zero-based cell index.
type ColumnMap map[Field]int

// Has reports whether the header contained a column for f.
func (m ColumnMap) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

// Cell returns the trimmed value of f in row, or "" when the column is
// absent or the row is too short.
func (m ColumnMap) Cell(row []string, f Field) string {
	i, ok := m[f]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// HasName reports whether rows can yield a first name at all.
func (m ColumnMap) HasName() bool {
	return m.Has(FieldName) || m.Has(FieldFirstName)
}

// columnRule assigns field to any header accepted by match.
type columnRule struct {
	match func(header string) bool
	field Field
}

// oneOf matches headers equal to any synonym after normalization.
func oneOf(synonyms ...string) func(string) bool {
	keys := make([]string, len(synonyms))
	for i, s := range synonyms {
		keys[i] = normalizeHeader(s)
	}
	return func(h string) bool {
		return slices.Contains(keys, h)
	}
}

// columnRules is evaluated in order for every header; the first match wins.
// New export vocabularies are supported by appending rules.
var columnRules = []columnRule{
	// Simple schema
	{oneOf("name", "fullname", "full name"), FieldName},
	{oneOf("first name", "firstname", "first", "given name"), FieldFirstName},
	{oneOf("last name", "lastname", "last", "family name", "surname"), FieldLastName},
	{oneOf("middle name", "middlename", "additional name"), FieldMiddleName},
	{oneOf("nickname"), FieldNickname},
	{oneOf("city"), FieldCity},
	{oneOf("country"), FieldCountry},
	{oneOf("lat", "latitude"), FieldLat},
	{oneOf("lng", "lon", "long", "longitude"), FieldLng},
	{oneOf("roles", "role", "tags", "tag"), FieldRoles},
	{oneOf("languages", "language", "langs"), FieldLanguages},
	{oneOf("birthyear", "birth year", "year", "born"), FieldBirthYear},
	{oneOf("email", "mail", "e-mail", "e-mail 1 - value"), FieldEmail},
	{oneOf("bio", "about", "description", "notes"), FieldBio},
	{oneOf("linkedin"), FieldLinkedIn},
	{oneOf("instagram", "insta"), FieldInstagram},
	{oneOf("twitter", "x"), FieldTwitter},
	{oneOf("github"), FieldGitHub},
	{oneOf("website", "web", "url"), FieldWebsite},

	// Address-book export schema (Google Contacts)
	{oneOf("organization name", "organization 1 - name"), FieldOrganization},
	{oneOf("organization title", "organization 1 - title"), FieldTitle},
	{oneOf("birthday"), FieldBirthday},
	{oneOf("photo"), FieldPhoto},
	{oneOf("labels", "group membership"), FieldLabels},
	{oneOf("phone 1 - value"), FieldPhone1},
	{oneOf("phone 2 - value"), FieldPhone2},
	{oneOf("address 1 - city"), FieldAddress1City},
	{oneOf("address 1 - country"), FieldAddress1Country},
	{oneOf("website 1 - value"), FieldWebsite1},
}

// DetectColumns builds the column map for a header row. Matching ignores case,
// surrounding space and the difference between spaces and underscores.
// Unknown headers are ignored; when a field appears twice the first column wins.
func DetectColumns(headers []string) ColumnMap {
	cols := make(ColumnMap, len(headers))

	for i, header := range headers {
		h := normalizeHeader(header)
		if h == "" {
			continue
		}
		for _, rule := range columnRules {
			if !rule.match(h) {
				continue
			}
			if !cols.Has(rule.field) {
				cols[rule.field] = i
			}
			break
		}
	}

	return cols
}

// normalizeHeader lowercases h, treats underscores as spaces and collapses
// whitespace runs.
func normalizeHeader(h string) string {
	h = strings.ReplaceAll(strings.ToLower(h), "_", " ")
	h = strings.Trim(strings.TrimSpace(h), "\"'\ufeff")
	return strings.Join(strings.Fields(h), " ")
}
