package constants

// Method records how the text of a document was obtained.
type Method string

// Stable values, reported in logs and metrics.
const (
	MethodNative  Method = "native"  // embedded text layer
	MethodOptical Method = "optical" // rasterized and recognized
	MethodFailed  Method = "failed"  // nothing usable
)

// Parsing methods reported in envelope metadata.
const (
	ParsingNative      = "native"
	ParsingOCR         = "ocr"
	ParsingWord        = "docx"
	ParsingSpreadsheet = "xls"
	ParsingUnknown     = "unknown"
)

// Error codes carried by the response envelope.
const (
	CodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	CodeNoTextExtracted     = "NO_TEXT_EXTRACTED"
	CodeFileNotFound        = "FILE_NOT_FOUND"
	CodeParseError          = "PARSE_ERROR"
	CodeConfigError         = "CONFIG_ERROR"
)

// CodeInvalidArgument is used by the command line tools for bad flags.
const CodeInvalidArgument = "INVALID_ARGUMENT"

// Confidence levels assigned to a successful envelope.
const (
	ConfidenceClean     = 0.85
	ConfidenceAnomalous = 0.50
)
