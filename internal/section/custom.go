package section

import (
	"html/template"
	"strings"

	"github.com/saiyolab/lpengine/internal/settings"
)

// BaselineVariant is used when a custom block names no variant or an
// unrecognized one.
const BaselineVariant = "text-only"

// variantTmpls dispatches the multi-layout "custom" block by its variant
// field. Plain lookup table; unknown keys fall back to BaselineVariant.
var variantTmpls = map[string]*template.Template{
	"text-only": mustTemplate("custom-text-only", `<section class="sec sec-custom custom-text-only" id="{{.ID}}">
<div class="sec-inner">
{{if .Title}}<h2 class="sec-heading">{{.Title}}</h2>
{{end}}{{if .Content}}<div class="custom-body">{{rich .Content}}</div>
{{end}}</div>
</section>
`),
	"image-only": mustTemplate("custom-image-only", `<section class="sec sec-custom custom-image-only" id="{{.ID}}">
<div class="sec-inner">
{{if .Image}}<img class="custom-image" src="{{.Image}}" alt="{{.Title}}">
{{end}}</div>
</section>
`),
	"text-left-image-right": mustTemplate("custom-text-left", `<section class="sec sec-custom custom-split custom-text-left" id="{{.ID}}">
<div class="sec-inner custom-split-inner">
<div class="custom-col custom-col-text">
{{if .Title}}<h2 class="sec-heading">{{.Title}}</h2>
{{end}}{{if .Content}}<div class="custom-body">{{rich .Content}}</div>
{{end}}</div>
<div class="custom-col custom-col-image">
{{if .Image}}<img class="custom-image" src="{{.Image}}" alt="">
{{end}}</div>
</div>
</section>
`),
	"text-right-image-left": mustTemplate("custom-text-right", `<section class="sec sec-custom custom-split custom-text-right" id="{{.ID}}">
<div class="sec-inner custom-split-inner">
<div class="custom-col custom-col-image">
{{if .Image}}<img class="custom-image" src="{{.Image}}" alt="">
{{end}}</div>
<div class="custom-col custom-col-text">
{{if .Title}}<h2 class="sec-heading">{{.Title}}</h2>
{{end}}{{if .Content}}<div class="custom-body">{{rich .Content}}</div>
{{end}}</div>
</div>
</section>
`),
	"centered-with-button": mustTemplate("custom-centered", `<section class="sec sec-custom custom-centered" id="{{.ID}}">
<div class="sec-inner custom-centered-inner">
{{if .Title}}<h2 class="sec-heading">{{.Title}}</h2>
{{end}}{{if .Content}}<div class="custom-body">{{rich .Content}}</div>
{{end}}{{if .ButtonText}}<a class="btn btn-primary custom-btn" href="{{.ButtonURL}}">{{.ButtonText}}</a>
{{end}}</div>
</section>
`),
	"full-width-banner": mustTemplate("custom-banner", `<section class="sec sec-custom custom-banner" id="{{.ID}}"{{if .Image}} style="background-image:url('{{.Image}}')"{{end}}>
<div class="custom-banner-inner">
{{if .Title}}<h2 class="custom-banner-title">{{.Title}}</h2>
{{end}}{{if .Content}}<div class="custom-body">{{rich .Content}}</div>
{{end}}</div>
</section>
`),
}

type customData struct {
	ID         string
	Title      string
	Content    string
	Image      string
	ButtonText string
	ButtonURL  string
}

func customOf(sec *Section) *settings.CustomSection {
	if sec == nil {
		return nil
	}
	return sec.Custom
}

// empty reports whether a custom block carries no displayable data at all.
func empty(cs *settings.CustomSection) bool {
	return cs == nil ||
		(strings.TrimSpace(cs.Title) == "" &&
			strings.TrimSpace(cs.Content) == "" &&
			cs.Image == "" &&
			len(cs.Images) == 0 &&
			len(cs.Items) == 0)
}

func renderCustomVariant(_ *Context, sec *Section) string {
	cs := customOf(sec)
	if empty(cs) {
		return ""
	}
	tmpl, ok := variantTmpls[cs.Variant]
	if !ok {
		tmpl = variantTmpls[BaselineVariant]
	}
	return exec(tmpl, customData{
		ID:         sec.ID,
		Title:      cs.Title,
		Content:    cs.Content,
		Image:      cs.Image,
		ButtonText: cs.ButtonText,
		ButtonURL:  cs.ButtonURL,
	})
}

var headingTmpl = mustTemplate("heading", `<section class="sec sec-heading-block" id="{{.ID}}">
<div class="sec-inner">
<h2 class="sec-heading">{{.Title}}</h2>
</div>
</section>
`)

func renderHeading(_ *Context, sec *Section) string {
	cs := customOf(sec)
	if cs == nil || strings.TrimSpace(cs.Title) == "" {
		return ""
	}
	return exec(headingTmpl, customData{ID: sec.ID, Title: cs.Title})
}

var textTmpl = mustTemplate("text", `<section class="sec sec-text" id="{{.ID}}">
<div class="sec-inner">
{{if .Title}}<h2 class="sec-heading">{{.Title}}</h2>
{{end}}<div class="text-body">{{rich .Content}}</div>
</div>
</section>
`)

func renderText(_ *Context, sec *Section) string {
	cs := customOf(sec)
	if cs == nil || strings.TrimSpace(cs.Content) == "" {
		return ""
	}
	return exec(textTmpl, customData{ID: sec.ID, Title: cs.Title, Content: cs.Content})
}

var messageTmpl = mustTemplate("message", `<section class="sec sec-message" id="{{.ID}}">
<div class="sec-inner">
<h2 class="sec-heading">{{if .Title}}{{.Title}}{{else}}代表メッセージ{{end}}</h2>
{{if .Image}}<img class="message-image" src="{{.Image}}" alt="">
{{end}}<div class="message-body">{{rich .Content}}</div>
</div>
</section>
`)

func renderMessage(_ *Context, sec *Section) string {
	cs := customOf(sec)
	if cs == nil || strings.TrimSpace(cs.Content) == "" {
		return ""
	}
	return exec(messageTmpl, customData{ID: sec.ID, Title: cs.Title, Content: cs.Content, Image: cs.Image})
}

var itemListTmpl = mustTemplate("item-list", `<section class="sec sec-{{.Kind}}" id="{{.ID}}">
<div class="sec-inner">
<h2 class="sec-heading">{{.Title}}</h2>
<dl class="item-list">
{{range .Items}}<div class="item">
{{if .Title}}<dt class="item-title">{{.Title}}</dt>
{{end}}<dd class="item-text">{{.Text}}</dd>
</div>
{{end}}</dl>
</div>
</section>
`)

type itemListData struct {
	Kind  string
	ID    string
	Title string
	Items []settings.CustomItem
}

// renderAbout renders the company-overview list (会社概要).
func renderAbout(_ *Context, sec *Section) string {
	return renderItemList(sec, "about", "会社概要")
}

// renderBusiness renders the business-description list (事業内容).
func renderBusiness(_ *Context, sec *Section) string {
	return renderItemList(sec, "business", "事業内容")
}

func renderItemList(sec *Section, kind, defaultTitle string) string {
	cs := customOf(sec)
	if cs == nil || len(cs.Items) == 0 {
		return ""
	}
	title := cs.Title
	if title == "" {
		title = defaultTitle
	}
	return exec(itemListTmpl, itemListData{Kind: kind, ID: sec.ID, Title: title, Items: cs.Items})
}
