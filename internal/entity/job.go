// Package entity defines the read-only company and job records that the
// rendering engine consumes. Both are sourced from spreadsheet rows owned by
// the admin CRUD layer; this package never mutates them.
package entity

import (
	"sort"
	"strings"
	"time"
)

// Job is a single job posting row.
// Publish window fields are spreadsheet date strings ("2006-01-02" or
// "2006/01/02"); empty means unbounded on that side.
type Job struct {
	ID            string   `json:"id"`
	CompanyDomain string   `json:"companyDomain"`
	Title         string   `json:"title"`
	Location      string   `json:"location"`
	EmploymentType string  `json:"employmentType"`
	SalaryType    string   `json:"salaryType"`
	SalaryMin     string   `json:"salaryMin"`
	SalaryMax     string   `json:"salaryMax"`
	SalaryNote    string   `json:"salaryNote"`
	WorkHours     string   `json:"workHours"`
	Holidays      string   `json:"holidays"`
	Features      []string `json:"features"`
	Description   string   `json:"description"` // rich text, sanitized at render time
	ImageURL      string   `json:"imageUrl"`
	Visible       bool     `json:"visible"`
	PublishStart  string   `json:"publishStart"`
	PublishEnd    string   `json:"publishEnd"`
	UpdatedAt     string   `json:"updatedAt"`
}

// Key returns the public job identifier used in URLs: <companyDomain>_<jobId>.
func (j *Job) Key() string {
	return j.CompanyDomain + "_" + j.ID
}

// SalaryLabel formats the salary fields into a single display string.
// Missing bounds degrade to whatever is present; fully empty salary data
// yields an empty string.
func (j *Job) SalaryLabel() string {
	min := strings.TrimSpace(j.SalaryMin)
	max := strings.TrimSpace(j.SalaryMax)
	var label string
	switch {
	case min != "" && max != "":
		label = min + "円〜" + max + "円"
	case min != "":
		label = min + "円〜"
	case max != "":
		label = "〜" + max + "円"
	}
	if label != "" && j.SalaryType != "" {
		label = j.SalaryType + " " + label
	} else if label == "" {
		label = strings.TrimSpace(j.SalaryNote)
	}
	return label
}

// PublishedAt reports whether the job is publicly visible at the given time:
// the visibility flag is set and now falls inside the publish window.
// Unparseable dates are treated as unbounded rather than hiding the job.
func (j *Job) PublishedAt(now time.Time) bool {
	if !j.Visible {
		return false
	}
	if start, ok := parseSheetDate(j.PublishStart); ok && now.Before(start) {
		return false
	}
	if end, ok := parseSheetDate(j.PublishEnd); ok && now.After(end.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	return true
}

// parseSheetDate accepts the two date formats that appear in spreadsheet
// cells. The boolean is false for empty or malformed values.
func parseSheetDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ListRules are the jobs-list display rules carried by recruit settings.
type ListRules struct {
	Limit int    // 0 means no limit
	Sort  string // "newest" or "sheet" (spreadsheet row order)
}

// SelectJobs filters the slice down to jobs published at now, applies the
// sort rule and truncates to the limit. The input slice is not modified.
func SelectJobs(jobs []Job, rules ListRules, now time.Time) []Job {
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j.PublishedAt(now) {
			out = append(out, j)
		}
	}
	if rules.Sort == "newest" {
		sort.SliceStable(out, func(i, k int) bool {
			return out[i].UpdatedAt > out[k].UpdatedAt
		})
	}
	if rules.Limit > 0 && len(out) > rules.Limit {
		out = out[:rules.Limit]
	}
	return out
}
