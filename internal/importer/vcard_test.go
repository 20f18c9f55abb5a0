package importer_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/orbita/internal/importer"
)

// vcf joins card lines with CRLF as address books emit them.
func vcf(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

func TestImportVCard(t *testing.T) {
	data := vcf(
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Jane Smith",
		"N:Smith;Jane;;;",
		"TEL;TYPE=CELL:+44 20 7946 0958",
		"TEL;TYPE=WORK:+33 1 23 45 67 89",
		"EMAIL:jane@example.co.uk",
		"ORG:Acme Ltd;Research",
		"TITLE:Scientist",
		"ADR;TYPE=HOME:;;1 High St;London;;SW1A 1AA;United Kingdom",
		"CATEGORIES:friends,climbing",
		"BDAY:1979-04-02",
		"URL:https://jane.example.co.uk",
		"END:VCARD",
		"BEGIN:VCARD",
		"VERSION:4.0",
		"FN:Pierre Martin",
		"GEO:geo:45.764,4.8357",
		"END:VCARD",
	)

	res := newTestImporter().ImportVCard(strings.NewReader(data))

	require.True(t, res.Success)
	require.Len(t, res.Contacts, 2)
	assert.Empty(t, res.Warnings)

	jane := res.Contacts[0]
	assert.Equal(t, "Jane", jane.FirstName)
	assert.Equal(t, "Smith", jane.LastName)
	assert.Equal(t, "London", jane.Location.City)
	assert.Equal(t, "United Kingdom", jane.Location.Country)
	assert.Equal(t, 51.5074, jane.Location.Lat)
	assert.Equal(t, -0.1278, jane.Location.Lng)
	assert.Equal(t, []string{"friends", "climbing"}, jane.Tags)
	assert.Equal(t, 1979, jane.BirthYear)
	assert.Equal(t, "jane@example.co.uk", jane.Email)
	assert.Equal(t, map[string]any{
		"phone":   "+44 20 7946 0958",
		"phone2":  "+33 1 23 45 67 89",
		"company": "Acme Ltd",
		"role":    "Scientist",
	}, jane.Attributes)
	assert.Equal(t, []importer.SocialLink{{Platform: "website", URL: "https://jane.example.co.uk"}}, jane.SocialLinks)

	pierre := res.Contacts[1]
	assert.Equal(t, "Pierre", pierre.FirstName)
	assert.Equal(t, "Martin", pierre.LastName)
	assert.Equal(t, 45.764, pierre.Location.Lat)
	assert.Equal(t, 4.8357, pierre.Location.Lng)
}

func TestImportVCard_CardWithoutNameSkipped(t *testing.T) {
	data := vcf(
		"BEGIN:VCARD",
		"VERSION:3.0",
		"EMAIL:nobody@example.com",
		"END:VCARD",
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Ana Ruiz",
		"END:VCARD",
	)

	res := newTestImporter().ImportVCard(strings.NewReader(data))

	assert.True(t, res.Success)
	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "Ana", res.Contacts[0].FirstName)
	assert.Equal(t, []string{"Row 1 skipped due to missing required fields"}, res.Warnings)
}

func TestImportVCard_Empty(t *testing.T) {
	res := newTestImporter().ImportVCard(strings.NewReader(""))

	assert.False(t, res.Success)
	assert.Equal(t, []string{"vCard data contains no contacts"}, res.Errors)
}

func TestImportVCard_StructuredNameWins(t *testing.T) {
	data := vcf(
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:Dr. J. R. R. Tolkien",
		"N:Tolkien;John;Ronald Reuel;;",
		"END:VCARD",
	)

	res := newTestImporter().ImportVCard(strings.NewReader(data))

	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "John", res.Contacts[0].FirstName)
	assert.Equal(t, "Ronald Reuel Tolkien", res.Contacts[0].LastName)
}

func TestImportVCard_MalformedCards(t *testing.T) {
	jane := []string{"BEGIN:VCARD", "VERSION:3.0", "FN:Jane Doe", "END:VCARD"}
	ana := []string{"BEGIN:VCARD", "VERSION:3.0", "FN:Ana Ruiz", "END:VCARD"}

	tests := []struct {
		name        string
		lines       []string
		wantNames   []string
		wantSkipped string
	}{
		{
			name: "Wrong BEGIN value",
			lines: concat(jane,
				[]string{"BEGIN:VCALENDAR", "VERSION:2.0", "SUMMARY:Not a card", "END:VCALENDAR"},
				ana),
			wantNames:   []string{"Jane", "Ana"},
			wantSkipped: "Card 2 skipped: ",
		},
		{
			name:        "Card left open",
			lines:       concat(jane, []string{"BEGIN:VCARD", "VERSION:3.0", "FN:Lost Card"}, ana),
			wantNames:   []string{"Jane", "Ana"},
			wantSkipped: "Card 2 skipped: ",
		},
		{
			name:        "Unterminated last card",
			lines:       concat(jane, ana, []string{"BEGIN:VCARD", "FN:Tail"}),
			wantNames:   []string{"Jane", "Ana"},
			wantSkipped: "Card 3 skipped: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestImporter().ImportVCard(strings.NewReader(vcf(tt.lines...)))

			require.True(t, res.Success)
			var names []string
			for _, c := range res.Contacts {
				names = append(names, c.FirstName)
			}
			assert.Equal(t, tt.wantNames, names)
			require.Len(t, res.Warnings, 1, "one broken card yields one warning")
			assert.True(t, strings.HasPrefix(res.Warnings[0], tt.wantSkipped), res.Warnings[0])
		})
	}
}

func TestImportVCard_ReaderErrorFailsImport(t *testing.T) {
	tests := []struct {
		name string
		r    io.Reader
	}{
		{"Error on first read", iotest.ErrReader(errors.New("connection reset"))},
		{"Error after a valid card", io.MultiReader(
			strings.NewReader(vcf("BEGIN:VCARD", "VERSION:3.0", "FN:Jane Doe", "END:VCARD")),
			iotest.ErrReader(errors.New("connection reset")),
		)},
		{"Error mid card", io.MultiReader(
			strings.NewReader("BEGIN:VCARD\r\nFN:Ja"),
			iotest.ErrReader(errors.New("connection reset")),
		)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestImporter().ImportVCard(tt.r)

			assert.False(t, res.Success)
			assert.Empty(t, res.Contacts)
			assert.Equal(t, []string{"Failed to read vCard data: connection reset"}, res.Errors)
		})
	}
}

func TestImportVCard_StrayTextOnly(t *testing.T) {
	res := newTestImporter().ImportVCard(strings.NewReader("\r\n\r\n"))

	assert.False(t, res.Success)
	assert.Equal(t, []string{"vCard data contains no contacts"}, res.Errors)
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
