package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// nativeText tries pdftotext first and the in-process reader second.
// Failures are reported as warnings only; an empty result means "use OCR".
func (e *Extractor) nativeText(ctx context.Context, path string, content []byte) (string, int, []string) {
	var warns []string

	text, pages, err := e.pdfToText(ctx, path)
	if err == nil {
		return text, pages, nil
	}
	warns = append(warns, fmt.Sprintf("pdftotext: %v", err))
	e.logger.Warn("pdftotext failed, trying in-process reader", "path", path, "error", err)

	if content == nil {
		content, err = os.ReadFile(path)
		if err != nil {
			return "", 0, append(warns, fmt.Sprintf("read: %v", err))
		}
	}
	text, pages, err = readPDFText(content)
	if err != nil {
		return "", 0, append(warns, fmt.Sprintf("pdf reader: %v", err))
	}
	return text, pages, warns
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, e.logger, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		if len(errb) > 0 {
			return "", 0, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(errb)))
		}
		return "", 0, err
	}
	text, pages = joinPages(string(out))
	return text, pages, nil
}

// readPDFText extracts the plain text of every page. The reader panics on
// some malformed streams, so that is turned into an error here.
func readPDFText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
	}
	return cleanText(b.String()), numPages, nil
}
