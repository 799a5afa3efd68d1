package constants

import "strings"

// Format is the declared document format, derived from the file extension.
type Format string

const (
	FormatPDF               Format = "PDF"
	FormatWord              Format = "WORD"
	FormatLegacyWord        Format = "LEGACY_WORD"
	FormatSpreadsheet       Format = "SPREADSHEET"
	FormatLegacySpreadsheet Format = "LEGACY_SPREADSHEET"
	FormatUnsupported       Format = ""
)

// AllowedExtensions holds the extensions the pipeline can acquire text from.
var AllowedExtensions = map[string]Format{
	"pdf":  FormatPDF,
	"docx": FormatWord,
	"doc":  FormatLegacyWord,
	"xlsx": FormatSpreadsheet,
	"xlsm": FormatSpreadsheet,
	"xls":  FormatLegacySpreadsheet,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns FormatUnsupported for anything not in AllowedExtensions.
func MapExtToFormat(ext string) Format {
	if f, ok := AllowedExtensions[NormalizeExt(ext)]; ok {
		return f
	}
	return FormatUnsupported
}

// IsSpreadsheet reports whether documents of this format are read cell by cell.
func (f Format) IsSpreadsheet() bool {
	return f == FormatSpreadsheet || f == FormatLegacySpreadsheet
}

// IsWord reports whether documents of this format are read paragraph by paragraph.
func (f Format) IsWord() bool {
	return f == FormatWord || f == FormatLegacyWord
}
