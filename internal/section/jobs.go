package section

import (
	"github.com/saiyolab/lpengine/internal/entity"
)

var jobsTmpl = mustTemplate("jobs", `<section class="sec sec-jobs" id="jobs">
<div class="sec-inner">
<h2 class="sec-heading">募集中の求人</h2>
<ul class="job-list">
{{range .Jobs}}<li class="job-card">
{{if .ImageURL}}<img class="job-image" src="{{.ImageURL}}" alt="">
{{end}}<h3 class="job-title"><a href="/lp?j={{.Key}}">{{.Title}}</a></h3>
<dl class="job-meta">
{{if .Location}}<dt>勤務地</dt><dd>{{.Location}}</dd>
{{end}}{{if .Salary}}<dt>給与</dt><dd>{{.Salary}}</dd>
{{end}}{{if .EmploymentType}}<dt>雇用形態</dt><dd>{{.EmploymentType}}</dd>
{{end}}</dl>
{{if .Features}}<ul class="job-features">
{{range .Features}}<li class="job-feature">{{.}}</li>
{{end}}</ul>
{{end}}</li>
{{end}}</ul>
</div>
</section>
`)

type jobCard struct {
	Key            string
	Title          string
	Location       string
	Salary         string
	EmploymentType string
	ImageURL       string
	Features       []string
}

// renderJobs lists the jobs published at render time, after the company's
// display rules (sort, limit). No published jobs means no section.
func renderJobs(ctx *Context, _ *Section) string {
	cfg := ctx.Config
	jobs := entity.SelectJobs(ctx.Jobs, entity.ListRules{
		Limit: cfg.JobsLimit,
		Sort:  cfg.JobsSort,
	}, ctx.Now)
	if len(jobs) == 0 {
		return ""
	}
	cards := make([]jobCard, 0, len(jobs))
	for i := range jobs {
		j := &jobs[i]
		cards = append(cards, jobCard{
			Key:            j.Key(),
			Title:          j.Title,
			Location:       j.Location,
			Salary:         j.SalaryLabel(),
			EmploymentType: j.EmploymentType,
			ImageURL:       j.ImageURL,
			Features:       j.Features,
		})
	}
	return exec(jobsTmpl, map[string]any{"Jobs": cards})
}
