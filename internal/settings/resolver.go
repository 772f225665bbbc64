package settings

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/saiyolab/lpengine/internal/order"
)

// PageKind selects which canonical order and field sources apply.
type PageKind string

const (
	// PageLP is a single-job landing page.
	PageLP PageKind = "lp"
	// PageRecruit is a per-company careers page.
	PageRecruit PageKind = "recruit"
)

// EffectiveConfig is the fully resolved, read-only configuration the page
// composer consumes. It is computed fresh on every render and never
// persisted.
type EffectiveConfig struct {
	Kind          PageKind
	DesignPattern string
	LayoutStyle   string
	Theme         Theme

	SectionOrder      []string
	SectionVisibility map[string]bool
	CustomSections    []CustomSection

	HeroTitle    string
	HeroSubtitle string
	HeroImageURL string
	CTAText      string

	Points []Point
	FAQ    []QA

	Tracking TrackingIDs
	OGP      OGP

	VideoURL        string
	VideoButtonText string

	// Chrome fields, always sourced from the company record.
	LogoURL    string
	SiteTitle  string
	FooterText string
	Phone      string
	CTAButton  string
	NavLinks   []NavLink
	SNS        SNSLinks

	CTASectionTitle string
	CTASectionText  string

	JobsLimit int
	JobsSort  string
}

// ResolveLP merges job-level LP settings, company recruit settings and the
// built-in defaults into one effective configuration. Precedence per field,
// highest first: explicit LP value, inherited company value, system default.
// queryLayoutStyle is the QA override query parameter; when it names a known
// style it is applied last and wins over everything.
//
// Resolution happens once per render cycle; the result does not track later
// changes to the company record.
func ResolveLP(lp *LPSettings, rs *RecruitSettings, queryLayoutStyle string) *EffectiveConfig {
	if lp == nil {
		lp = &LPSettings{}
	}
	if rs == nil {
		rs = &RecruitSettings{}
	}
	normalizeFieldStates(lp)

	cfg := &EffectiveConfig{
		Kind:          PageLP,
		LayoutStyle:   inherit(lp.LayoutStyle, lp.LayoutStyleState, rs.LayoutStyle, DefaultLayoutStyle),
		DesignPattern: inherit(lp.DesignPattern, lp.DesignPatternState, rs.DesignPattern, DefaultDesignPattern),

		HeroTitle:    lp.HeroTitle,
		HeroSubtitle: lp.HeroSubtitle,
		HeroImageURL: lp.HeroImageURL,
		CTAText:      lp.CTAText,

		Points: lp.Points(),
		FAQ:    ParseFAQ(lp.FAQ),

		Tracking: lp.Tracking,
		OGP:      lp.OGP,

		VideoURL:        lp.VideoURL,
		VideoButtonText: lp.VideoButtonText,

		LogoURL:    rs.LogoURL,
		SiteTitle:  rs.SiteTitle,
		FooterText: rs.FooterText,
		Phone:      rs.Phone,
		CTAButton:  rs.CTAButton,
		NavLinks:   rs.NavLinks,
		SNS:        rs.SNS,

		JobsLimit: rs.JobsLimit,
		JobsSort:  rs.JobsSort,
	}

	if KnownLayoutStyle(queryLayoutStyle) {
		cfg.LayoutStyle = queryLayoutStyle
	}
	cfg.Theme = ResolveTheme(cfg.LayoutStyle, lp.Colors)

	cfg.SectionOrder = order.Deserialize(lp.SectionOrder, order.CanonicalLP)
	cfg.SectionVisibility = order.ParseVisibility(lp.SectionVisibility)
	return cfg
}

// ResolveRecruit resolves a company recruit page configuration. There is no
// higher-level record to inherit from, so precedence is explicit company
// value over system default, with the QA query override applied last.
func ResolveRecruit(rs *RecruitSettings, queryLayoutStyle string) *EffectiveConfig {
	if rs == nil {
		rs = &RecruitSettings{}
	}

	cfg := &EffectiveConfig{
		Kind:          PageRecruit,
		LayoutStyle:   fallback(rs.LayoutStyle, DefaultLayoutStyle),
		DesignPattern: fallback(rs.DesignPattern, DefaultDesignPattern),

		HeroTitle:    rs.HeroTitle,
		HeroSubtitle: rs.HeroSubtitle,
		HeroImageURL: rs.HeroImageURL,
		CTAText:      rs.CTAButton,

		CustomSections: rs.CustomSections,

		OGP: rs.OGP,

		LogoURL:    rs.LogoURL,
		SiteTitle:  rs.SiteTitle,
		FooterText: rs.FooterText,
		Phone:      rs.Phone,
		CTAButton:  rs.CTAButton,
		NavLinks:   rs.NavLinks,
		SNS:        rs.SNS,

		CTASectionTitle: rs.CTASectionTitle,
		CTASectionText:  rs.CTASectionText,

		JobsLimit: rs.JobsLimit,
		JobsSort:  rs.JobsSort,
	}

	if KnownLayoutStyle(queryLayoutStyle) {
		cfg.LayoutStyle = queryLayoutStyle
	}
	cfg.Theme = ResolveTheme(cfg.LayoutStyle, rs.Colors)

	cfg.SectionOrder = order.Deserialize(rs.SectionOrder, order.CanonicalRecruit)
	cfg.SectionVisibility = order.ParseVisibility(rs.SectionVisibility)
	return cfg
}

// inherit applies the per-field precedence: an explicit job-level value wins,
// then the non-empty company value, then the system default.
func inherit(value string, state FieldState, companyValue, def string) string {
	if state == FieldExplicit && value != "" {
		return value
	}
	if companyValue != "" {
		return companyValue
	}
	return def
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

// normalizeFieldStates backfills tri-state markers on legacy records that
// predate them. Without a marker, the only available signal is the old
// sentinel heuristic: a value differing from the hardcoded default is taken
// as explicit. A user who deliberately picked the default is
// indistinguishable from one who never touched the field, which is exactly
// the false negative the markers were introduced to remove; it survives here
// only for legacy data.
func normalizeFieldStates(lp *LPSettings) {
	if lp.LayoutStyleState == FieldUnset && lp.LayoutStyle != "" && lp.LayoutStyle != DefaultLayoutStyle {
		lp.LayoutStyleState = FieldExplicit
	}
	if lp.DesignPatternState == FieldUnset && lp.DesignPattern != "" && lp.DesignPattern != DefaultDesignPattern {
		lp.DesignPatternState = FieldExplicit
	}
}

// EnsureCustomSectionIDs assigns stable generated ids to custom sections
// that have none, and migrates legacy positional ids ("custom-0",
// "custom-1", ...) to the new stable form, rewriting references inside the
// persisted section order so existing data keeps its arrangement. Returns
// true when anything changed and a save is warranted.
func EnsureCustomSectionIDs(rs *RecruitSettings) bool {
	if rs == nil {
		return false
	}
	changed := false
	remap := make(map[string]string)
	for i := range rs.CustomSections {
		cs := &rs.CustomSections[i]
		legacy := fmt.Sprintf("custom-%d", i)
		if cs.ID == "" || cs.ID == legacy {
			id := "custom-" + uuid.NewString()
			if cs.ID != "" {
				remap[cs.ID] = id
			}
			remap[legacy] = id
			cs.ID = id
			changed = true
		}
	}
	if len(remap) > 0 && rs.SectionOrder != "" {
		ids := order.Deserialize(rs.SectionOrder, order.CanonicalRecruit)
		for i, id := range ids {
			if mapped, ok := remap[id]; ok {
				ids[i] = mapped
			}
		}
		rs.SectionOrder = order.Serialize(ids)
	}
	return changed
}

// CustomSectionIDs returns the stable ids of the custom sections in array
// order.
func CustomSectionIDs(sections []CustomSection) []string {
	ids := make([]string, len(sections))
	for i, cs := range sections {
		ids[i] = cs.ID
	}
	return ids
}
