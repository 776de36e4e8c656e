// Package export writes scraped profiles as CSV or XLSX tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/khrees2412/contactscout/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Format is an output file format
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

const (
	noEmails  = "No emails found"
	noPhones  = "No phones found"
	separator = ", "
	sheetName = "Contacts"
)

// Columns is the header row shared by every format
var Columns = []string{"Title", "Link", "Source", "Emails", "Phones", "Email Count", "Phone Count", "Page"}

// ParseFormat accepts "csv" or "xlsx" (case-insensitive, leading dot allowed)
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")) {
	case CSV:
		return CSV, nil
	case XLSX, "excel":
		return XLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s. Available: csv, xlsx", s)
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName returns linkedin_contacts_<keyword>_<YYYYMMDD_HHMMSS>.<ext>
func FileName(keyword string, format Format, t time.Time) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(keyword), "_"), "_")
	if slug == "" {
		slug = "results"
	}
	return fmt.Sprintf("linkedin_contacts_%s_%s.%s", slug, t.Format("20060102_150405"), format)
}

// Row renders one profile in column order
func Row(p *models.Profile) []string {
	emails := strings.Join(p.Emails, separator)
	if emails == "" {
		emails = noEmails
	}
	phones := strings.Join(p.Phones, separator)
	if phones == "" {
		phones = noPhones
	}
	return []string{
		p.Title,
		p.URL,
		p.Source,
		emails,
		phones,
		strconv.Itoa(len(p.Emails)),
		strconv.Itoa(len(p.Phones)),
		strconv.Itoa(p.Page),
	}
}

// Write dispatches on format
func Write(w io.Writer, format Format, profiles []*models.Profile) error {
	switch format {
	case CSV:
		return WriteCSV(w, profiles)
	case XLSX:
		return WriteXLSX(w, profiles)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteCSV writes a header row and one row per profile
func WriteCSV(w io.Writer, profiles []*models.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range profiles {
		if err := cw.Write(Row(p)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook. Count and page columns are
// stored as numbers.
func WriteXLSX(w io.Writer, profiles []*models.Profile) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for r, p := range profiles {
		row := Row(p)
		values := []interface{}{row[0], row[1], row[2], row[3], row[4], len(p.Emails), len(p.Phones), p.Page}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	widths := []float64{40, 50, 12, 40, 30, 12, 12, 8}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheetName, col, col, width)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
