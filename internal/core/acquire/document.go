// Package acquire obtains raw text from invoice documents.
package acquire

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

// Document is an input file read into memory. It is not modified after Open.
type Document struct {
	Filename string
	Path     string
	Content  []byte
	Format   constants.Format
}

// Open stats and reads path. A missing file yields FILE_NOT_FOUND and an
// unknown extension yields UNSUPPORTED_FILE_TYPE.
func Open(path string) (Document, error) {
	filename := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, common.NewAppError(constants.CodeFileNotFound,
				fmt.Sprintf("File not found: %s", path), common.ErrNotFound)
		}
		return Document{}, common.NewAppError(constants.CodeFileNotFound,
			fmt.Sprintf("File not accessible: %s", path), err)
	}
	if info.IsDir() {
		return Document{}, common.NewAppError(constants.CodeFileNotFound,
			fmt.Sprintf("Not a regular file: %s", path), common.ErrInvalidInput)
	}

	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == constants.FormatUnsupported {
		return Document{Filename: filename, Path: path}, common.NewAppError(constants.CodeUnsupportedFileType,
			fmt.Sprintf("File type not supported: %s", filename), common.ErrUnsupportedFormat)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, common.NewAppError(constants.CodeFileNotFound,
			fmt.Sprintf("File not readable: %s", path), err)
	}

	return Document{
		Filename: filename,
		Path:     path,
		Content:  content,
		Format:   format,
	}, nil
}

// ExtractedText is the single acquisition result for a document.
type ExtractedText struct {
	Text          string
	Method        constants.Method
	ParsingMethod string
	Pages         int
	Warnings      []string
	Cause         error // set when Method is failed
}

// OCRUsed reports whether the text came from optical recognition.
func (t ExtractedText) OCRUsed() bool {
	return t.Method == constants.MethodOptical
}

func failed(parsing string, cause error) ExtractedText {
	return ExtractedText{
		Method:        constants.MethodFailed,
		ParsingMethod: parsing,
		Cause:         cause,
	}
}
