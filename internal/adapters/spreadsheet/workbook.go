package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row from the workbook, keyed by header cell. Index is the
// position among parsed rows, so the spreadsheet row number is Index+2 (the
// header occupies row 1).
type Row struct {
	Index int
	Cells map[string]string
}

// Get returns the trimmed cell under the given header, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Cells[column])
}

// Parse reads the first sheet of an .xlsx workbook. The first row is treated
// as the header; rows with no non-empty cell are skipped.
func Parse(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []Row
	for _, cells := range raw[1:] {
		record := map[string]string{}
		empty := true
		for i, value := range cells {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			record[headers[i]] = value
		}
		if empty {
			continue
		}
		rows = append(rows, Row{Index: len(rows), Cells: record})
	}
	return rows, nil
}

// sampleColumns is the flattened column scheme: one group of address columns
// per location, suffixed _2, _3, ... beyond the first.
var sampleColumns = []string{
	"name", "brief", "description", "profilePhoto", "categories",
	"addressLine1", "addressLine2", "city", "mapLink",
	"phoneNumber1", "phoneCountryCode1", "phoneWhatsapp1",
	"phoneNumber2", "phoneCountryCode2", "phoneWhatsapp2",
	"email1", "email2",
	"addressLine1_2", "addressLine2_2", "city_2", "mapLink_2",
	"phoneNumber1_2", "phoneCountryCode1_2", "phoneWhatsapp1_2",
	"phoneNumber2_2", "phoneCountryCode2_2", "phoneWhatsapp2_2",
	"email1_2", "email2_2",
}

var sampleRows = []map[string]string{
	{
		"name":              "First Business Name",
		"brief":             "A brief description of the first business (min 10 chars)",
		"description":       "A detailed description of the first business that explains services and offerings (min 20 chars)",
		"profilePhoto":      "https://example.com/photo1.jpg",
		"categories":        "Restaurant, Cafe, Food",
		"addressLine1":      "123 Main St",
		"addressLine2":      "Suite 100",
		"city":              "New York",
		"mapLink":           "https://maps.google.com/location1",
		"phoneNumber1":      "1234567890",
		"phoneCountryCode1": "+1",
		"phoneWhatsapp1":    "true",
		"phoneNumber2":      "0987654321",
		"phoneCountryCode2": "+1",
		"phoneWhatsapp2":    "false",
		"email1":            "contact@business1.com",
		"email2":            "info@business1.com",
	},
	{
		"name":                "Second Business Name",
		"brief":               "A brief description of the second business (min 10 chars)",
		"description":         "A detailed description of the second business that explains services and offerings (min 20 chars)",
		"profilePhoto":        "https://example.com/photo2.jpg",
		"categories":          "Retail, Fashion, Accessories",
		"addressLine1":        "456 Oak Avenue",
		"addressLine2":        "Floor 2",
		"city":                "Los Angeles",
		"mapLink":             "https://maps.google.com/location2",
		"phoneNumber1":        "2345678901",
		"phoneCountryCode1":   "+1",
		"phoneWhatsapp1":      "true",
		"email1":              "la@business2.com",
		"addressLine1_2":      "789 Pine Street",
		"addressLine2_2":      "Shop 45",
		"city_2":              "San Francisco",
		"mapLink_2":           "https://maps.google.com/location3",
		"phoneNumber1_2":      "3456789012",
		"phoneCountryCode1_2": "+1",
		"phoneWhatsapp1_2":    "false",
		"phoneNumber2_2":      "4567890123",
		"phoneCountryCode2_2": "+1",
		"phoneWhatsapp2_2":    "true",
		"email1_2":            "sf@business2.com",
		"email2_2":            "info@business2.com",
	},
}

// WriteSample writes the downloadable example workbook: the full column
// scheme plus two rows, the second demonstrating a _2 address group.
func WriteSample(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sample"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sample sheet: %w", err)
	}

	header := make([]any, len(sampleColumns))
	for i, col := range sampleColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, sample := range sampleRows {
		row := make([]any, len(sampleColumns))
		for j, col := range sampleColumns {
			row[j] = sample[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write sample row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
