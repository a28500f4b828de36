// Package csvimport parses Shopee affiliate CSV exports into validated
// import rows. Parsing never fails the whole run: malformed lines degrade
// to line-addressed errors and the caller decides what to do with them.
package csvimport

import (
	"encoding/csv"
	"net/url"
	"strings"
)

// ExpectedHeader is the fixed column layout of a Shopee affiliate export.
// The header comparison is case-insensitive, column for column.
var ExpectedHeader = []string{
	"Item Id",
	"Item Name",
	"Price",
	"Sales",
	"Shop Name",
	"Commission Rate",
	"Commission",
	"Product Link",
	"Offer Link",
}

const expectedColumns = 9

// Column positions within an unpacked row. Sales, Commission Rate and
// Commission are read but discarded.
const (
	colItemID = iota
	colItemName
	colPrice
	colSales
	colShopName
	colCommissionRate
	colCommission
	colProductLink
	colOfferLink
)

// ImportRow is one validated export line, ready for reconciliation.
type ImportRow struct {
	Line         int
	ExternalID   string
	Title        string
	PriceText    string
	StoreName    string
	OriginURL    string
	AffiliateURL string
}

type sourceLine struct {
	number int
	text   string
}

// Parse tokenizes and validates raw Shopee CSV text. It strips a UTF-8 BOM,
// drops blank lines, checks the fixed header, unpacks over-quoted rows and
// validates each line in order, recording at most one error per line. The
// returned slices account for every non-blank line after the header.
func Parse(text string) ([]ImportRow, []ImportError) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, []ImportError{NewFileError(MsgEmptyFile)}
	}

	header, err := parseRecord(lines[0].text)
	if err != nil || !headerMatches(header) {
		return nil, []ImportError{NewFileError(headerError())}
	}

	var rows []ImportRow
	var errs []ImportError
	seen := make(map[string]struct{})

	for _, ln := range lines[1:] {
		cols, err := parseRecord(ln.text)
		if err != nil {
			errs = append(errs, NewImportError(ln.number, MsgInvalidColumnCount))
			continue
		}

		cols, ok := UnpackRow(cols)
		if !ok || len(cols) != expectedColumns {
			errs = append(errs, NewImportError(ln.number, MsgInvalidColumnCount))
			continue
		}

		row, rowErr := validateRow(ln.number, cols, seen)
		if rowErr != nil {
			errs = append(errs, *rowErr)
			continue
		}
		rows = append(rows, row)
	}

	return rows, errs
}

// UnpackRow applies the packed-row heuristic to already-tokenized columns.
// Spreadsheet exports sometimes re-encode an entire row into one over-quoted
// field; such lines surface as a single column, or as the expected count (or
// more) with everything after the first column empty. In those cases the
// first column is re-parsed as CSV, shedding one quote layer if needed.
// Anything that does not look packed is returned unchanged with ok true; a
// detected packed row whose first column cannot be re-parsed into the
// expected layout comes back unchanged with ok false, and counts as a
// column-count failure rather than a field error.
func UnpackRow(cols []string) ([]string, bool) {
	if len(cols) == 0 {
		return cols, true
	}

	packed := len(cols) == 1 ||
		(len(cols) >= expectedColumns && allEmptyAfterFirst(cols))
	if !packed {
		return cols, true
	}

	if inner, err := parseRecord(cols[0]); err == nil && len(inner) == expectedColumns {
		return inner, true
	}

	// One extra quote layer survived the first pass: strip it, un-double
	// the inner quotes and try again.
	stripped := cols[0]
	if len(stripped) >= 2 && stripped[0] == '"' && stripped[len(stripped)-1] == '"' {
		stripped = stripped[1 : len(stripped)-1]
	}
	stripped = strings.ReplaceAll(stripped, `""`, `"`)
	if inner, err := parseRecord(stripped); err == nil && len(inner) == expectedColumns {
		return inner, true
	}

	return cols, false
}

func validateRow(line int, cols []string, seen map[string]struct{}) (ImportRow, *ImportError) {
	fail := func(msg string) (ImportRow, *ImportError) {
		e := NewImportError(line, msg)
		return ImportRow{}, &e
	}

	itemID := cols[colItemID]
	if itemID == "" {
		return fail(MsgMissingItemID)
	}
	if cols[colItemName] == "" {
		return fail(MsgMissingItemName)
	}
	if cols[colPrice] == "" {
		return fail(MsgMissingPrice)
	}
	productLink := cols[colProductLink]
	if productLink == "" {
		return fail(MsgMissingProductLink)
	}
	if !isAbsoluteURL(productLink) {
		return fail(MsgInvalidProductLink)
	}
	offerLink := cols[colOfferLink]
	if offerLink != "" && !isAbsoluteURL(offerLink) {
		return fail(MsgInvalidOfferLink)
	}
	if _, dup := seen[itemID]; dup {
		return fail(MsgDuplicateItemID)
	}
	seen[itemID] = struct{}{}

	return ImportRow{
		Line:         line,
		ExternalID:   itemID,
		Title:        cols[colItemName],
		PriceText:    cols[colPrice],
		StoreName:    cols[colShopName],
		OriginURL:    productLink,
		AffiliateURL: offerLink,
	}, nil
}

// splitLines strips a leading BOM, splits on CR/LF and drops blank lines,
// keeping 1-based source line numbers for error reporting.
func splitLines(text string) []sourceLine {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []sourceLine
	for i, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		out = append(out, sourceLine{number: i + 1, text: raw})
	}
	return out
}

// parseRecord tokenizes a single CSV line, trimming whitespace per field.
func parseRecord(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	record, err := r.Read()
	if err != nil {
		return nil, err
	}
	for i, field := range record {
		record[i] = strings.TrimSpace(field)
	}
	return record, nil
}

func headerMatches(header []string) bool {
	if len(header) != len(ExpectedHeader) {
		return false
	}
	for i, h := range header {
		if !strings.EqualFold(h, ExpectedHeader[i]) {
			return false
		}
	}
	return true
}

func headerError() string {
	return "Cabecalho invalido. Esperado: " + strings.Join(ExpectedHeader, ", ")
}

func allEmptyAfterFirst(cols []string) bool {
	for _, c := range cols[1:] {
		if c != "" {
			return false
		}
	}
	return true
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
