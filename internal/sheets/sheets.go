// Package sheets reads company and job rows straight from the master
// spreadsheet. It is an alternative data source to the Apps Script bridge
// for deployments where the engine holds its own API key; both sources
// produce the same entity records.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/saiyolab/lpengine/internal/entity"
)

// Sheet tab names inside the master spreadsheet.
const (
	companiesRange = "companies!A2:H"
	jobsRange      = "jobs!A2:R"
)

// Source reads entity rows from one spreadsheet.
type Source struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSource creates a spreadsheet-backed source.
func NewSource(ctx context.Context, apiKey, spreadsheetID string) (*Source, error) {
	svc, err := sheets.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Source{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Companies returns every company row.
func (s *Source) Companies(ctx context.Context) ([]entity.Company, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, companiesRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read companies sheet: %w", err)
	}
	companies := make([]entity.Company, 0, len(resp.Values))
	for _, row := range resp.Values {
		c := companyFromRow(row)
		if c.Domain == "" {
			continue
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// Jobs returns the job rows for one company domain.
func (s *Source) Jobs(ctx context.Context, companyDomain string) ([]entity.Job, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, jobsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs sheet: %w", err)
	}
	var jobs []entity.Job
	for _, row := range resp.Values {
		j := jobFromRow(row)
		if j.ID == "" || j.CompanyDomain != companyDomain {
			continue
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// Column layout of the companies tab:
// domain, name, logoUrl, description, address, phone, website, email.
func companyFromRow(row []any) entity.Company {
	return entity.Company{
		Domain:      cell(row, 0),
		Name:        cell(row, 1),
		LogoURL:     cell(row, 2),
		Description: cell(row, 3),
		Address:     cell(row, 4),
		Phone:       cell(row, 5),
		Website:     cell(row, 6),
		Email:       cell(row, 7),
	}
}

// Column layout of the jobs tab:
// id, companyDomain, title, location, employmentType, salaryType, salaryMin,
// salaryMax, salaryNote, workHours, holidays, features (comma separated),
// description, imageUrl, visible, publishStart, publishEnd, updatedAt.
func jobFromRow(row []any) entity.Job {
	return entity.Job{
		ID:             cell(row, 0),
		CompanyDomain:  cell(row, 1),
		Title:          cell(row, 2),
		Location:       cell(row, 3),
		EmploymentType: cell(row, 4),
		SalaryType:     cell(row, 5),
		SalaryMin:      cell(row, 6),
		SalaryMax:      cell(row, 7),
		SalaryNote:     cell(row, 8),
		WorkHours:      cell(row, 9),
		Holidays:       cell(row, 10),
		Features:       splitFeatures(cell(row, 11)),
		Description:    cell(row, 12),
		ImageURL:       cell(row, 13),
		Visible:        cellBool(row, 14),
		PublishStart:   cell(row, 15),
		PublishEnd:     cell(row, 16),
		UpdatedAt:      cell(row, 17),
	}
}

// cell reads a string cell, tolerating short rows. The Sheets API drops
// trailing empty cells from each row.
func cell(row []any, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return strings.TrimSpace(s)
}

// cellBool accepts the checkbox forms the sheet produces.
func cellBool(row []any, i int) bool {
	switch strings.ToLower(cell(row, i)) {
	case "true", "1", "yes", "公開":
		return true
	}
	if b, err := strconv.ParseBool(cell(row, i)); err == nil {
		return b
	}
	return false
}

func splitFeatures(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
