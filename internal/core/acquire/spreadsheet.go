package acquire

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

func acquireSpreadsheet(content []byte) ExtractedText {
	text, sheets, err := workbookText(content)
	if err != nil {
		return failed(constants.ParsingSpreadsheet, err)
	}
	if strings.TrimSpace(text) == "" {
		return failed(constants.ParsingSpreadsheet, common.ErrNoText)
	}
	return ExtractedText{
		Text:          text,
		Method:        constants.MethodNative,
		ParsingMethod: constants.ParsingSpreadsheet,
		Pages:         sheets,
	}
}

// workbookText emits every sheet row by row, cells tab-separated. Raw cell
// values are kept so date cells stay as serial numbers.
func workbookText(content []byte) (string, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", 0, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	sheets := f.GetSheetList()
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return "", 0, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			for i, cell := range row {
				if i > 0 {
					b.WriteByte('\t')
				}
				b.WriteString(strings.TrimSpace(cell))
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), len(sheets), nil
}
