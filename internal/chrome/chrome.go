// Package chrome renders the page furniture around the composed sections:
// site header, footer and the fixed CTA bar. These are not sections in the
// ordering model; the host page composes them around the section output.
package chrome

import (
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/saiyolab/lpengine/internal/settings"
)

// Options is the flat settings slice the chrome renderers read. All fields
// come from the effective config's company-level branding.
type Options struct {
	LogoURL     string
	SiteTitle   string
	CompanyName string
	FooterText  string
	Phone       string
	CTAButton   string
	NavLinks    []settings.NavLink
	SNS         settings.SNSLinks
	Year        int
}

// FromConfig builds chrome options from an effective config. Year feeds the
// footer copyright and is passed in by the composer so output stays
// deterministic for fixed inputs.
func FromConfig(cfg *settings.EffectiveConfig, companyName string, year int) Options {
	return Options{
		LogoURL:     cfg.LogoURL,
		SiteTitle:   cfg.SiteTitle,
		CompanyName: companyName,
		FooterText:  cfg.FooterText,
		Phone:       cfg.Phone,
		CTAButton:   cfg.CTAButton,
		NavLinks:    cfg.NavLinks,
		SNS:         cfg.SNS,
		Year:        year,
	}
}

var headerTmpl = parse("header", `<header class="site-header">
<div class="header-inner">
{{if .LogoURL}}<a class="header-logo" href="#hero"><img src="{{.LogoURL}}" alt="{{.Name}}"></a>
{{else}}<a class="header-name" href="#hero">{{.Name}}</a>
{{end}}{{if .NavLinks}}<nav class="header-nav">
{{range .NavLinks}}<a class="header-nav-link" href="{{.URL}}">{{.Label}}</a>
{{end}}</nav>
{{end}}</div>
</header>
`)

// RenderHeader renders the site header, or nothing when there is neither a
// logo nor a display name. Pages without branding data show no empty bar.
func RenderHeader(opts Options) string {
	name := displayName(opts)
	if opts.LogoURL == "" && name == "" {
		return ""
	}
	return exec(headerTmpl, map[string]any{
		"LogoURL":  opts.LogoURL,
		"Name":     name,
		"NavLinks": opts.NavLinks,
	})
}

var footerTmpl = parse("footer", `<footer class="site-footer">
<div class="footer-inner">
{{if .FooterText}}<p class="footer-text">{{.FooterText}}</p>
{{end}}{{if .SNS}}<ul class="footer-sns">
{{range .SNS}}<li><a href="{{.URL}}" rel="noopener" target="_blank">{{.Label}}</a></li>
{{end}}</ul>
{{end}}<p class="footer-copyright">{{.Copyright}}</p>
</div>
</footer>
`)

type snsEntry struct {
	Label string
	URL   string
}

// RenderFooter always renders; the copyright line falls back to generic
// text when no company name is available.
func RenderFooter(opts Options) string {
	name := displayName(opts)
	copyright := fmt.Sprintf("© %d %s", opts.Year, name)
	if name == "" {
		copyright = fmt.Sprintf("© %d All rights reserved.", opts.Year)
	}
	return exec(footerTmpl, map[string]any{
		"FooterText": opts.FooterText,
		"SNS":        snsEntries(opts.SNS),
		"Copyright":  copyright,
	})
}

var ctaBarTmpl = parse("cta-bar", `<div class="fixed-cta">
{{if .Phone}}<a class="fixed-cta-phone" href="tel:{{.Phone}}">{{.Phone}}</a>
{{end}}{{if .Button}}<a class="fixed-cta-btn" href="#apply">{{.Button}}</a>
{{end}}</div>
`)

// RenderFixedCTABar renders the bottom-fixed conversion bar, or nothing
// when neither a phone number nor CTA button text is configured.
func RenderFixedCTABar(opts Options) string {
	if opts.Phone == "" && opts.CTAButton == "" {
		return ""
	}
	return exec(ctaBarTmpl, map[string]any{
		"Phone":  opts.Phone,
		"Button": opts.CTAButton,
	})
}

func displayName(opts Options) string {
	if opts.SiteTitle != "" {
		return opts.SiteTitle
	}
	return opts.CompanyName
}

func snsEntries(sns settings.SNSLinks) []snsEntry {
	candidates := []snsEntry{
		{"X", sns.X},
		{"Instagram", sns.Instagram},
		{"Facebook", sns.Facebook},
		{"LINE", sns.LINE},
		{"YouTube", sns.YouTube},
		{"TikTok", sns.TikTok},
	}
	out := make([]snsEntry, 0, len(candidates))
	for _, c := range candidates {
		if c.URL != "" {
			out = append(out, c)
		}
	}
	return out
}

func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}

func exec(t *template.Template, data any) string {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		log.Printf("[CHROME] template %s failed: %v", t.Name(), err)
		return ""
	}
	return sb.String()
}
