package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/orbita/internal/importer"
)

func TestParseRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "Plain cells are trimmed",
			input: "name, city \nJane , Berlin",
			want:  [][]string{{"name", "city"}, {"Jane", "Berlin"}},
		},
		{
			name:  "Quoted comma stays in cell",
			input: `"Doe, Jane",Berlin`,
			want:  [][]string{{"Doe, Jane", "Berlin"}},
		},
		{
			name:  "Doubled quote decodes to one",
			input: `"She said ""hi""",x`,
			want:  [][]string{{`She said "hi"`, "x"}},
		},
		{
			name:  "CRLF line endings",
			input: "a,b\r\nc,d\r\n",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "Trailing empty cell is kept",
			input: "a,b,",
			want:  [][]string{{"a", "b", ""}},
		},
		{
			name:  "Ragged rows are allowed",
			input: "a,b,c\nd",
			want:  [][]string{{"a", "b", "c"}, {"d"}},
		},
		{
			name:  "Unicode survives",
			input: "José,São Paulo",
			want:  [][]string{{"José", "São Paulo"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, importer.ParseRows(tt.input))
		})
	}
}

// TestParseRows_BlankLinesInvisible checks that blank and whitespace-only
// lines do not change the parse.
func TestParseRows_BlankLinesInvisible(t *testing.T) {
	compact := "name,city\nJane Doe,Berlin\nJohn Roe,Paris"
	spaced := "name,city\n\n   \nJane Doe,Berlin\r\n\t\r\n\nJohn Roe,Paris\n\n"

	assert.Equal(t, importer.ParseRows(compact), importer.ParseRows(spaced))
	assert.Len(t, importer.ParseRows(spaced), 3)
}

func TestParseRows_Empty(t *testing.T) {
	assert.Empty(t, importer.ParseRows(""))
	assert.Empty(t, importer.ParseRows("\n \r\n"))
}
