package section

import "strings"

var heroTmpl = mustTemplate("hero", `<section class="sec sec-hero" id="hero">
<div class="hero-inner"{{if .Image}} style="background-image:url('{{.Image}}')"{{end}}>
<h1 class="hero-title">{{.Title}}</h1>
{{if .Subtitle}}<p class="hero-subtitle">{{.Subtitle}}</p>
{{end}}<a class="btn btn-primary hero-cta" href="#apply">{{.CTA}}</a>
</div>
</section>
`)

// renderHero always renders: a blank title falls back to
// "<company name>で働こう" so a fresh record still produces a usable page.
func renderHero(ctx *Context, _ *Section) string {
	cfg := ctx.Config
	title := strings.TrimSpace(cfg.HeroTitle)
	if title == "" && ctx.Company != nil {
		title = ctx.Company.DisplayName() + "で働こう"
	}
	cta := cfg.CTAText
	if cta == "" {
		cta = "応募する"
	}
	return exec(heroTmpl, map[string]any{
		"Title":    title,
		"Subtitle": cfg.HeroSubtitle,
		"Image":    cfg.HeroImageURL,
		"CTA":      cta,
	})
}

var pointsTmpl = mustTemplate("points", `<section class="sec sec-points" id="points">
<div class="sec-inner">
<h2 class="sec-heading">私たちの強み</h2>
<div class="point-grid">
{{range .Points}}<div class="point-card">
<h3 class="point-title">{{.Title}}</h3>
{{if .Description}}<p class="point-desc">{{.Description}}</p>
{{end}}</div>
{{end}}</div>
</div>
</section>
`)

func renderPoints(ctx *Context, _ *Section) string {
	if len(ctx.Config.Points) == 0 {
		return ""
	}
	return exec(pointsTmpl, map[string]any{"Points": ctx.Config.Points})
}

var detailsTmpl = mustTemplate("details", `<section class="sec sec-details" id="details">
<div class="sec-inner">
<h2 class="sec-heading">募集要項</h2>
<table class="details-table">
{{range .Rows}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
{{if .Description}}<div class="details-desc">{{rich .Description}}</div>
{{end}}</div>
</section>
`)

type detailRow struct {
	Label string
	Value string
}

// renderDetails renders the requirements table of the page's primary job.
// Rows with empty values are omitted; with no job data at all the section
// renders nothing.
func renderDetails(ctx *Context, _ *Section) string {
	if len(ctx.Jobs) == 0 {
		return ""
	}
	job := ctx.Jobs[0]
	candidates := []detailRow{
		{"職種", job.Title},
		{"勤務地", job.Location},
		{"雇用形態", job.EmploymentType},
		{"給与", job.SalaryLabel()},
		{"勤務時間", job.WorkHours},
		{"休日・休暇", job.Holidays},
		{"待遇・福利厚生", strings.Join(job.Features, " / ")},
	}
	rows := make([]detailRow, 0, len(candidates))
	for _, r := range candidates {
		if strings.TrimSpace(r.Value) != "" {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 && strings.TrimSpace(job.Description) == "" {
		return ""
	}
	return exec(detailsTmpl, map[string]any{
		"Rows":        rows,
		"Description": job.Description,
	})
}

var faqTmpl = mustTemplate("faq", `<section class="sec sec-faq" id="faq">
<div class="sec-inner">
<h2 class="sec-heading">よくあるご質問</h2>
<dl class="faq-list">
{{range .Pairs}}<div class="faq-item">
<dt class="faq-q">{{.Question}}</dt>
<dd class="faq-a">{{.Answer}}</dd>
</div>
{{end}}</dl>
</div>
</section>
`)

func renderFAQ(ctx *Context, _ *Section) string {
	if len(ctx.Config.FAQ) == 0 {
		return ""
	}
	return exec(faqTmpl, map[string]any{"Pairs": ctx.Config.FAQ})
}

var applyTmpl = mustTemplate("apply", `<section class="sec sec-apply" id="apply">
<div class="sec-inner">
<h2 class="sec-heading">{{.Title}}</h2>
{{if .Text}}<p class="apply-text">{{.Text}}</p>
{{end}}<a class="btn btn-primary apply-btn" href="#entry">{{.Button}}</a>
{{if .Phone}}<p class="apply-phone">お電話でのご応募 <a href="tel:{{.Phone}}">{{.Phone}}</a></p>
{{end}}</div>
</section>
`)

// renderApply is mandatory and always renders; every field has a generic
// fallback so the page never loses its conversion point.
func renderApply(ctx *Context, _ *Section) string {
	cfg := ctx.Config
	title := cfg.CTASectionTitle
	if title == "" {
		title = "ご応募はこちら"
	}
	button := cfg.CTAText
	if button == "" {
		button = "応募フォームへ"
	}
	return exec(applyTmpl, map[string]any{
		"Title":  title,
		"Text":   cfg.CTASectionText,
		"Button": button,
		"Phone":  cfg.Phone,
	})
}

var videoTmpl = mustTemplate("video", `<section class="sec sec-video" id="video">
<div class="sec-inner">
<a class="btn btn-video" href="{{.URL}}" data-video-modal>{{.Button}}</a>
</div>
</section>
`)

func renderVideo(ctx *Context, _ *Section) string {
	cfg := ctx.Config
	if cfg.VideoURL == "" {
		return ""
	}
	button := cfg.VideoButtonText
	if button == "" {
		button = "動画を見る"
	}
	return exec(videoTmpl, map[string]any{
		"URL":    cfg.VideoURL,
		"Button": button,
	})
}
