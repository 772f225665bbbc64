// Package compose builds a page out of resolved settings, ordered sections
// and entity data. It is the single rendering path shared by the live
// preview and the published page: both call Compose with the same inputs
// and must get byte-identical output.
package compose

import (
	"strings"
	"time"

	"github.com/saiyolab/lpengine/internal/chrome"
	"github.com/saiyolab/lpengine/internal/entity"
	"github.com/saiyolab/lpengine/internal/order"
	"github.com/saiyolab/lpengine/internal/section"
	"github.com/saiyolab/lpengine/internal/settings"
)

// Input is the entity data and resolved configuration for one page render.
type Input struct {
	Company *entity.Company
	Jobs    []entity.Job
	Config  *settings.EffectiveConfig
}

// Options control the render mode. Now must be supplied by the caller; the
// composer never reads the clock, so identical inputs always produce
// identical output. AssetVersion is appended to static asset URLs as a
// cache-busting query string and is the one part of the output excluded
// from the idempotence guarantee.
type Options struct {
	// FullDocument wraps the section output in the document shell
	// (head, meta, styles, chrome). The editor iframe uses body-only mode.
	FullDocument bool
	AssetVersion string
	Now          time.Time
}

// Composer renders pages through a section registry.
type Composer struct {
	registry *section.Registry
}

// New returns a composer over the default section registry.
func New() *Composer {
	return &Composer{registry: section.NewRegistry()}
}

// Compose renders the page. In full-document mode the section output is
// wrapped in the shell with the chrome around it; otherwise the bare
// concatenated section fragments are returned.
func (c *Composer) Compose(in Input, opts Options) string {
	body := c.sections(in, opts)
	if !opts.FullDocument {
		return body
	}
	return c.document(in, opts, body)
}

// sections walks the final order and concatenates every visible section's
// fragment. Custom ids not referenced by the persisted order are appended
// in their underlying array order, so newly added custom sections always
// appear even when the order predates them.
func (c *Composer) sections(in Input, opts Options) string {
	cfg := in.Config
	ids := order.AppendMissing(cfg.SectionOrder, settings.CustomSectionIDs(cfg.CustomSections))

	byID := make(map[string]*settings.CustomSection, len(cfg.CustomSections))
	for i := range cfg.CustomSections {
		byID[cfg.CustomSections[i].ID] = &cfg.CustomSections[i]
	}

	ctx := &section.Context{
		Company: in.Company,
		Jobs:    in.Jobs,
		Config:  cfg,
		Now:     opts.Now,
	}

	var sb strings.Builder
	for _, id := range ids {
		if !order.Visible(cfg.SectionVisibility, id) {
			continue
		}
		sec := resolveSection(id, byID)
		if sec == nil {
			continue
		}
		sb.WriteString(c.registry.Render(ctx, sec))
	}
	return sb.String()
}

// resolveSection maps a section id to its renderer unit. Built-in singleton
// ids equal their type; custom ids look up the definition and dispatch on
// its declared type, defaulting to the generic variant block.
func resolveSection(id string, byID map[string]*settings.CustomSection) *section.Section {
	if cs, ok := byID[id]; ok {
		typ := cs.Type
		if typ == "" {
			typ = "custom"
		}
		return &section.Section{ID: id, Type: typ, Custom: cs}
	}
	if strings.HasPrefix(id, "custom-") {
		// A dangling custom reference: the underlying section was deleted.
		return nil
	}
	return &section.Section{ID: id, Type: id}
}

// document wraps the body in the full page shell with the chrome.
func (c *Composer) document(in Input, opts Options, body string) string {
	companyName := ""
	if in.Company != nil {
		companyName = in.Company.DisplayName()
	}
	chromeOpts := chrome.FromConfig(in.Config, companyName, opts.Now.Year())

	var sb strings.Builder
	sb.WriteString(chrome.RenderHeader(chromeOpts))
	sb.WriteString(body)
	sb.WriteString(chrome.RenderFooter(chromeOpts))
	sb.WriteString(chrome.RenderFixedCTABar(chromeOpts))

	return renderShell(shellData{
		Title:        pageTitle(in),
		Lang:         "ja",
		Config:       in.Config,
		CompanyName:  companyName,
		Body:         sb.String(),
		AssetVersion: opts.AssetVersion,
		NeedsHydrate: needsHydration(in.Config),
	})
}

// pageTitle picks the document title: OGP override, then hero title, then a
// generic fallback built from the company name.
func pageTitle(in Input) string {
	cfg := in.Config
	if cfg.OGP.Title != "" {
		return cfg.OGP.Title
	}
	if cfg.HeroTitle != "" {
		return cfg.HeroTitle
	}
	name := ""
	if in.Company != nil {
		name = in.Company.DisplayName()
	}
	if cfg.Kind == settings.PageRecruit {
		return name + " 採用サイト"
	}
	return name + " 求人情報"
}

// needsHydration reports whether any rendered section type requires the
// client behavior script (sliders, video modal).
func needsHydration(cfg *settings.EffectiveConfig) bool {
	if cfg.VideoURL != "" {
		return true
	}
	for _, cs := range cfg.CustomSections {
		switch cs.Type {
		case "carousel", "testimonial":
			return true
		case "gallery":
			if cs.Variant == "slider" {
				return true
			}
		}
	}
	return false
}
