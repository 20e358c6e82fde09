// Package ingest parses lead rows from CSV and XLSX files for bulk import.
// The first row must be a header; columns are matched by name, so column
// order does not matter and unknown columns are ignored.
package ingest

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/outreach-sdk/internal/model"
)

// Row is one parsed lead seed: a company, optionally one contact, and
// registry bookkeeping fields.
type Row struct {
	Company model.Company
	Contact *model.Contact
	Source  string
	Tags    []string
}

// Recognized header names. All are optional except name.
const (
	colName          = "name"
	colDomain        = "domain"
	colWebsite       = "website"
	colIndustry      = "industry"
	colSize          = "size"
	colEmployeeCount = "employee_count"
	colCountry       = "country"
	colSource        = "source"
	colTags          = "tags"
	colContactName   = "contact_name"
	colContactEmail  = "contact_email"
	colContactRole   = "contact_role"
	colContactTitle  = "contact_title"
)

// ReadFile parses lead rows from path, dispatching on the file extension.
func ReadFile(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: open csv")
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// ReadCSV parses lead rows from CSV content.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv")
	}
	return parseRows(records)
}

// ReadXLSX parses lead rows from the first sheet of an XLSX workbook.
func ReadXLSX(path string) ([]Row, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("ingest: workbook has no sheets")
	}

	var records [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		records = append(records, cells)
	}
	return parseRows(records)
}

func parseRows(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, eris.New("ingest: file is empty")
	}

	columns := make(map[string]int, len(records[0]))
	for i, header := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	if _, ok := columns[colName]; !ok {
		return nil, eris.New("ingest: header row is missing the name column")
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		get := func(col string) string {
			idx, ok := columns[col]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		name := get(colName)
		if name == "" {
			continue
		}

		row := Row{
			Company: model.Company{
				Name:     name,
				Domain:   get(colDomain),
				Website:  get(colWebsite),
				Industry: model.Industry(strings.ToLower(get(colIndustry))),
				Size:     model.CompanySize(strings.ToLower(get(colSize))),
				Country:  get(colCountry),
			},
			Source: get(colSource),
		}

		if raw := get(colEmployeeCount); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
				row.Company.EmployeeCount = &n
			}
		}
		if raw := get(colTags); raw != "" {
			for _, tag := range strings.Split(raw, ";") {
				if tag = strings.TrimSpace(tag); tag != "" {
					row.Tags = append(row.Tags, tag)
				}
			}
		}

		if cn, ce := get(colContactName), get(colContactEmail); cn != "" || ce != "" {
			row.Contact = &model.Contact{
				FullName: cn,
				Email:    ce,
				Role:     model.ContactRole(strings.ToLower(get(colContactRole))),
				Title:    get(colContactTitle),
			}
		}

		rows = append(rows, row)
	}
	return rows, nil
}
