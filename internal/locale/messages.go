package locale

import "github.com/nicksnyder/go-i18n/v2/i18n"

// Import diagnostics returned to callers in Result.Errors and Result.Warnings.
// The Other field is the English source text; translations live in locales/.
var (
	MsgCSVTooFewRows = &i18n.Message{
		ID:    "import_csv_too_few_rows",
		Other: "CSV must have a header row and at least one data row",
	}
	MsgCSVNoNameColumn = &i18n.Message{
		ID:    "import_csv_no_name_column",
		Other: `CSV must have a "name" or "firstName" column`,
	}
	MsgCSVRowSkipped = &i18n.Message{
		ID:    "import_csv_row_skipped",
		Other: "Row {{.Row}} skipped due to missing required fields",
	}
	MsgCSVParseFailed = &i18n.Message{
		ID:    "import_csv_parse_failed",
		Other: "Failed to parse CSV: {{.Reason}}",
	}
	MsgJSONNotArray = &i18n.Message{
		ID:    "import_json_not_array",
		Other: "JSON data must be an array of contacts",
	}
	MsgJSONParseFailed = &i18n.Message{
		ID:    "import_json_parse_failed",
		Other: "Failed to parse JSON: {{.Reason}}",
	}
	MsgJSONNotObject = &i18n.Message{
		ID:    "import_json_not_object",
		Other: "Contact {{.Index}}: must be an object",
	}
	MsgJSONFieldRequired = &i18n.Message{
		ID:    "import_json_field_required",
		Other: "Contact {{.Index}}: {{.Field}} is required",
	}
	MsgJSONFieldNumber = &i18n.Message{
		ID:    "import_json_field_number",
		Other: "Contact {{.Index}}: {{.Field}} must be a number",
	}
	MsgJSONFieldRange = &i18n.Message{
		ID:    "import_json_field_range",
		Other: "Contact {{.Index}}: {{.Field}} must be between {{.Min}} and {{.Max}}",
	}
	MsgJSONFailedSummary = &i18n.Message{
		ID:    "import_json_failed_summary",
		Other: "{{.Count}} contact(s) failed validation",
	}
	MsgVCardCardSkipped = &i18n.Message{
		ID:    "import_vcard_card_skipped",
		Other: "Card {{.Row}} skipped: {{.Reason}}",
	}
	MsgVCardEmpty = &i18n.Message{
		ID:    "import_vcard_empty",
		Other: "vCard data contains no contacts",
	}
	MsgVCardReadFailed = &i18n.Message{
		ID:    "import_vcard_read_failed",
		Other: "Failed to read vCard data: {{.Reason}}",
	}
	MsgXLSXFailed = &i18n.Message{
		ID:    "import_xlsx_failed",
		Other: "Failed to read spreadsheet: {{.Reason}}",
	}
	MsgFormatUnsupported = &i18n.Message{
		ID:    "import_format_unsupported",
		Other: "Unsupported import format: {{.Format}}",
	}
)

// Messages lists every diagnostic so locale files can be checked for completeness.
var Messages = []*i18n.Message{
	MsgCSVTooFewRows,
	MsgCSVNoNameColumn,
	MsgCSVRowSkipped,
	MsgCSVParseFailed,
	MsgJSONNotArray,
	MsgJSONParseFailed,
	MsgJSONNotObject,
	MsgJSONFieldRequired,
	MsgJSONFieldNumber,
	MsgJSONFieldRange,
	MsgJSONFailedSummary,
	MsgVCardCardSkipped,
	MsgVCardEmpty,
	MsgVCardReadFailed,
	MsgXLSXFailed,
	MsgFormatUnsupported,
}
