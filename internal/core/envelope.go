package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/money"
	"github.com/joseph-ayodele/invoice-extractor/internal/record"
)

// Envelope is the response for one document. It is always produced, even
// when processing failed.
type Envelope struct {
	Success    bool               `json:"success"`
	Confidence float64            `json:"confidence"`
	Data       *record.Canonical  `json:"data"`
	Records    []record.Canonical `json:"records"`
	Errors     []ErrorDetail      `json:"errors"`
	Warnings   []string           `json:"warnings"`
	Metadata   Metadata           `json:"metadata"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type Metadata struct {
	Filename         string  `json:"filename"`
	ParsingMethod    string  `json:"parsing_method"`
	OCRUsed          bool    `json:"ocr_used"`
	SupplierDetected string  `json:"supplier_detected"`
	ProcessingTime   float64 `json:"processing_time"` // seconds
}

func newEnvelope(filename string) *Envelope {
	return &Envelope{
		Records:  []record.Canonical{},
		Errors:   []ErrorDetail{},
		Warnings: []string{},
		Metadata: Metadata{
			Filename:         filename,
			ParsingMethod:    constants.ParsingUnknown,
			SupplierDetected: string(constants.SupplierUnknown),
		},
	}
}

// fail marks the envelope unsuccessful and drops any partial records.
func (e *Envelope) fail(code, message, detail string) {
	e.Success = false
	e.Confidence = 0
	e.Data = nil
	e.Records = []record.Canonical{}
	e.Errors = append(e.Errors, ErrorDetail{Code: code, Message: message, Detail: detail})
}

// FirstErrorCode returns the code of the first error, or "".
func (e *Envelope) FirstErrorCode() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Code
}

// AsMap round-trips the envelope through JSON so it can be handed to
// consumers that expect plain maps.
func (e *Envelope) AsMap() (map[string]any, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return out, nil
}

// Summary renders the envelope for a terminal.
func (e *Envelope) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: ", e.Metadata.Filename)
	if e.Success {
		fmt.Fprintf(&b, "ok (confidence %.2f)\n", e.Confidence)
	} else {
		b.WriteString("failed\n")
	}
	fmt.Fprintf(&b, "  supplier: %s\n  method:   %s (ocr=%t)\n  time:     %.2fs\n",
		e.Metadata.SupplierDetected, e.Metadata.ParsingMethod, e.Metadata.OCRUsed, e.Metadata.ProcessingTime)

	for _, r := range e.Records {
		date := "not found"
		if r.InvoiceDate != nil {
			date = *r.InvoiceDate
		}
		fmt.Fprintf(&b, "  - %s  %s  total %s", r.Filename, date, money.Format(r.Total, r.Currency))
		for _, bucket := range r.Buckets {
			if !bucket.Net.IsZero() {
				fmt.Fprintf(&b, "  [%s %s]", bucket.Rate.Label, money.Format(bucket.Net, money.EUR))
			}
		}
		if r.TaxFree {
			b.WriteString("  tax-free")
		}
		if r.CreditNote {
			b.WriteString("  credit-note")
		}
		b.WriteString("\n")
	}
	for _, w := range e.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	for _, er := range e.Errors {
		fmt.Fprintf(&b, "  error: %s: %s\n", er.Code, er.Message)
	}
	return b.String()
}

// errorChain lists every error in err's chain, outermost first.
func errorChain(err error) string {
	var lines []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		lines = append(lines, fmt.Sprintf("%T: %v", e, e))
	}
	return strings.Join(lines, "\n")
}
