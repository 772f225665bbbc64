package compose

import (
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/saiyolab/lpengine/internal/settings"
)

type shellData struct {
	Title        string
	Lang         string
	Config       *settings.EffectiveConfig
	CompanyName  string
	Body         string
	AssetVersion string
	NeedsHydrate bool
}

var shellTmpl = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{.OGPMeta}}<style>
{{.ThemeCSS}}</style>
{{.Tracking}}</head>
<body class="layout-{{.LayoutStyle}} design-{{.DesignPattern}}">
{{.Body}}{{if .ScriptURL}}<script src="{{.ScriptURL}}" defer></script>
{{end}}</body>
</html>
`))

func renderShell(d shellData) string {
	cfg := d.Config
	scriptURL := ""
	if d.NeedsHydrate {
		scriptURL = "/assets/lp.js"
		if d.AssetVersion != "" {
			scriptURL += "?v=" + d.AssetVersion
		}
	}
	var sb strings.Builder
	err := shellTmpl.Execute(&sb, map[string]any{
		"Lang":          d.Lang,
		"Title":         d.Title,
		"OGPMeta":       ogpMeta(cfg, d.Title),
		"ThemeCSS":      template.CSS(themeCSS(cfg.Theme)),
		"Tracking":      trackingSnippets(cfg.Tracking),
		"LayoutStyle":   cfg.LayoutStyle,
		"DesignPattern": cfg.DesignPattern,
		"Body":          template.HTML(d.Body), // fragments are escaped at render time
		"ScriptURL":     scriptURL,
	})
	if err != nil {
		log.Printf("[COMPOSE] shell template failed: %v", err)
		return d.Body
	}
	return sb.String()
}

var ogpTmpl = template.Must(template.New("ogp").Parse(`<meta property="og:title" content="{{.Title}}">
{{if .Description}}<meta property="og:description" content="{{.Description}}">
{{end}}{{if .Image}}<meta property="og:image" content="{{.Image}}">
{{end}}<meta property="og:type" content="website">
<meta name="twitter:card" content="summary_large_image">
`))

// ogpMeta renders the Open Graph block, falling back to the hero fields
// when no explicit OGP overrides are set.
func ogpMeta(cfg *settings.EffectiveConfig, title string) template.HTML {
	ogTitle := cfg.OGP.Title
	if ogTitle == "" {
		ogTitle = title
	}
	desc := cfg.OGP.Description
	if desc == "" {
		desc = cfg.HeroSubtitle
	}
	image := cfg.OGP.ImageURL
	if image == "" {
		image = cfg.HeroImageURL
	}
	var sb strings.Builder
	if err := ogpTmpl.Execute(&sb, map[string]string{
		"Title":       ogTitle,
		"Description": desc,
		"Image":       image,
	}); err != nil {
		log.Printf("[COMPOSE] ogp template failed: %v", err)
		return ""
	}
	return template.HTML(sb.String())
}

// themeCSS emits the custom property block plus the base styles every page
// shares. Colors arrive pre-validated as hex values.
func themeCSS(t settings.Theme) string {
	return fmt.Sprintf(`:root{--color-primary:%s;--color-accent:%s;--color-bg:%s;--color-text:%s;}
body{margin:0;background:var(--color-bg);color:var(--color-text);font-family:"Hiragino Sans","Noto Sans JP",sans-serif;line-height:1.7;}
.sec-inner,.header-inner,.footer-inner{max-width:960px;margin:0 auto;padding:48px 16px;}
.sec-heading{color:var(--color-primary);font-size:1.6rem;margin:0 0 24px;}
.btn{display:inline-block;padding:14px 40px;border-radius:999px;text-decoration:none;}
.btn-primary{background:var(--color-accent);color:#fff;}
.site-header{background:#fff;border-bottom:1px solid rgba(0,0,0,.08);}
.header-inner{display:flex;align-items:center;justify-content:space-between;padding:12px 16px;}
.header-logo img{max-height:40px;}
.header-nav-link{margin-left:16px;color:var(--color-text);text-decoration:none;}
.sec-hero .hero-inner{padding:96px 16px;text-align:center;background-size:cover;background-position:center;}
.hero-title{font-size:2.2rem;color:var(--color-primary);margin:0 0 8px;}
.point-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(240px,1fr));gap:24px;}
.point-card{background:#fff;border-radius:12px;padding:24px;box-shadow:0 2px 8px rgba(0,0,0,.06);}
.point-title{color:var(--color-primary);margin:0 0 8px;}
.job-list{list-style:none;margin:0;padding:0;display:grid;gap:24px;}
.job-card{background:#fff;border-radius:12px;padding:24px;box-shadow:0 2px 8px rgba(0,0,0,.06);}
.details-table{width:100%%;border-collapse:collapse;}
.details-table th{width:9em;text-align:left;padding:12px;border-bottom:1px solid rgba(0,0,0,.08);color:var(--color-primary);}
.details-table td{padding:12px;border-bottom:1px solid rgba(0,0,0,.08);}
.faq-q{font-weight:bold;color:var(--color-primary);margin-top:16px;}
.faq-a{margin:4px 0 0 0;}
.sec-apply{text-align:center;background:var(--color-primary);color:#fff;}
.sec-apply .sec-heading{color:#fff;}
.site-footer{background:#222;color:#ccc;text-align:center;}
.footer-sns{list-style:none;display:flex;gap:16px;justify-content:center;margin:0;padding:0;}
.footer-sns a{color:#ccc;}
.fixed-cta{position:fixed;left:0;right:0;bottom:0;display:flex;gap:8px;justify-content:center;padding:10px;background:rgba(255,255,255,.95);box-shadow:0 -2px 8px rgba(0,0,0,.12);}
.fixed-cta-btn{background:var(--color-accent);color:#fff;padding:10px 32px;border-radius:999px;text-decoration:none;}
.fixed-cta-phone{align-self:center;color:var(--color-primary);font-weight:bold;text-decoration:none;}
`, t.Primary, t.Accent, t.Bg, t.Text)
}

var (
	tiktokTmpl = template.Must(template.New("tiktok").Parse(
		"<script>!function(w,d,t){w.TiktokAnalyticsObject=t;var ttq=w[t]=w[t]||[];ttq.load({{.}});ttq.page();}(window,document,'ttq');</script>\n"))
	gtagTmpl = template.Must(template.New("gtag").Parse(
		"<script async src=\"https://www.googletagmanager.com/gtag/js?id={{.}}\"></script>\n<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config',{{.}});</script>\n"))
	metaTmpl = template.Must(template.New("meta").Parse(
		"<script>!function(f,b,e,v,n,t,s){if(f.fbq)return;n=f.fbq=function(){n.callMethod?n.callMethod.apply(n,arguments):n.queue.push(arguments)};f._fbq=n;n.push=n;n.loaded=!0;n.queue=[];t=b.createElement(e);t.async=!0;t.src=v;s=b.getElementsByTagName(e)[0];s.parentNode.insertBefore(t,s)}(window,document,'script','https://connect.facebook.net/en_US/fbevents.js');fbq('init',{{.}});fbq('track','PageView');</script>\n"))
	lineTmpl = template.Must(template.New("line").Parse(
		"<script>(function(g,d,o){g._ltq=g._ltq||[];g._lt=g._lt||function(){g._ltq.push(arguments)};g._lt('init',{tagId:{{.}}});g._lt('send','pv');})(window,document);</script>\n"))
	clarityTmpl = template.Must(template.New("clarity").Parse(
		"<script>(function(c,l,a,r,i,t,y){c[a]=c[a]||function(){(c[a].q=c[a].q||[]).push(arguments)};t=l.createElement(r);t.async=1;t.src=\"https://www.clarity.ms/tag/\"+i;y=l.getElementsByTagName(r)[0];y.parentNode.insertBefore(t,y);})(window,document,\"clarity\",\"script\",{{.}});</script>\n"))
)

// trackingSnippets emits the ad pixel snippets for every configured id.
// Ids are injected through templates so they are escaped for the script
// context and can never break out of the snippet.
func trackingSnippets(ids settings.TrackingIDs) template.HTML {
	var sb strings.Builder
	emit := func(t *template.Template, id string) {
		if id == "" {
			return
		}
		if err := t.Execute(&sb, id); err != nil {
			log.Printf("[COMPOSE] tracking snippet %s failed: %v", t.Name(), err)
		}
	}
	emit(tiktokTmpl, ids.TikTokPixel)
	emit(gtagTmpl, ids.GoogleTag)
	emit(metaTmpl, ids.MetaPixel)
	emit(lineTmpl, ids.LINETag)
	emit(clarityTmpl, ids.Clarity)
	return template.HTML(sb.String())
}
