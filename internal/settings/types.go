// Package settings defines the persisted LP and recruit settings records and
// resolves them into the effective configuration the page composer consumes.
package settings

// FieldState tracks whether an inheritable field was set by the user.
// Legacy records carry no state markers; see normalizeFieldStates.
type FieldState string

const (
	// FieldUnset means the user never touched the field.
	FieldUnset FieldState = ""
	// FieldInherited means the value was copied from the company record.
	FieldInherited FieldState = "inherited"
	// FieldExplicit means the user chose the value, even if it equals a default.
	FieldExplicit FieldState = "explicit"
)

// DefaultLayoutStyle is the system-wide fallback theme.
const DefaultLayoutStyle = "modern"

// DefaultDesignPattern is the system-wide fallback design pattern.
const DefaultDesignPattern = "standard"

// LayoutStyles are the recognized theme names.
var LayoutStyles = []string{"modern", "trust", "casual", "elegant"}

// Point is one title/description pair of the points section.
type Point struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// QA is one parsed FAQ pair.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// NavLink is one custom navigation entry in the site header.
type NavLink struct {
	Label string `json:"label"`
	URL   string `json:"url" validate:"omitempty,url"`
}

// SNSLinks holds the social profile URLs shown in the footer.
type SNSLinks struct {
	X         string `json:"x" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	LINE      string `json:"line" validate:"omitempty,url"`
	YouTube   string `json:"youtube" validate:"omitempty,url"`
	TikTok    string `json:"tiktok" validate:"omitempty,url"`
}

// CustomItem is one entry of a list-style custom section (about, business).
type CustomItem struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Image string `json:"image" validate:"omitempty,url"`
}

// CustomSection is one user-defined content block inside RecruitSettings.
// ID is a stable generated identifier ("custom-<uuid>") minted at creation
// time; legacy records with positional ids are migrated on load, see
// EnsureCustomSectionIDs.
// Shape varies by Type; missing fields render as empty, never as errors.
type CustomSection struct {
	ID      string       `json:"id"`
	Type    string       `json:"type" validate:"omitempty,oneof=heading text image message about business photos gallery carousel testimonial custom"`
	Variant string       `json:"variant"`
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Image   string       `json:"image" validate:"omitempty,url"`
	Images  []string     `json:"images"`
	Items   []CustomItem `json:"items"`

	ButtonText string `json:"buttonText"`
	ButtonURL  string `json:"buttonUrl" validate:"omitempty,url"`
}

// TrackingIDs are the ad pixel / tag identifiers attached to an LP.
type TrackingIDs struct {
	TikTokPixel string `json:"tiktokPixelId"`
	GoogleTag   string `json:"googleTagId"`
	MetaPixel   string `json:"metaPixelId"`
	LINETag     string `json:"lineTagId"`
	Clarity     string `json:"clarityId"`
}

// OGP holds the Open Graph metadata overrides.
type OGP struct {
	Title       string `json:"ogpTitle"`
	Description string `json:"ogpDescription"`
	ImageURL    string `json:"ogpImage" validate:"omitempty,url"`
}

// Colors are the four theme color overrides. Empty fields fall back to the
// layout style's theme table entry.
type Colors struct {
	Primary string `json:"primaryColor" validate:"omitempty,hexcolor"`
	Accent  string `json:"accentColor" validate:"omitempty,hexcolor"`
	Bg      string `json:"bgColor" validate:"omitempty,hexcolor"`
	Text    string `json:"textColor" validate:"omitempty,hexcolor"`
}

// LPSettings is the per-job landing page record, keyed by
// (companyDomain, jobId). Created and edited in the LP editor, read by the
// public LP page; overwritten on save, never deleted.
type LPSettings struct {
	CompanyDomain string `json:"companyDomain" validate:"required"`
	JobID         string `json:"jobId" validate:"required"`

	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
	HeroImageURL string `json:"heroImage" validate:"omitempty,url"`
	CTAText      string `json:"ctaText"`

	// Pipe-delimited Q/A micro-format, see ParseFAQ.
	FAQ string `json:"faq"`

	PointTitle1 string `json:"pointTitle1"`
	PointDesc1  string `json:"pointDesc1"`
	PointTitle2 string `json:"pointTitle2"`
	PointDesc2  string `json:"pointDesc2"`
	PointTitle3 string `json:"pointTitle3"`
	PointDesc3  string `json:"pointDesc3"`
	PointTitle4 string `json:"pointTitle4"`
	PointDesc4  string `json:"pointDesc4"`
	PointTitle5 string `json:"pointTitle5"`
	PointDesc5  string `json:"pointDesc5"`
	PointTitle6 string `json:"pointTitle6"`
	PointDesc6  string `json:"pointDesc6"`

	DesignPattern      string     `json:"designPattern"`
	DesignPatternState FieldState `json:"designPatternState"`
	LayoutStyle        string     `json:"layoutStyle" validate:"omitempty,oneof=modern trust casual elegant"`
	LayoutStyleState   FieldState `json:"layoutStyleState"`

	Tracking TrackingIDs `json:"tracking"`
	OGP      OGP         `json:"ogp"`

	VideoURL        string `json:"videoUrl" validate:"omitempty,url"`
	VideoButtonText string `json:"videoButtonText"`

	// Persisted order/visibility strings, see internal/order.
	SectionOrder      string `json:"sectionOrder"`
	SectionVisibility string `json:"sectionVisibility"`

	Colors Colors `json:"colors"`
}

// Points collects the non-empty point pairs in field order, at most six.
// A pair with an empty title is skipped even if its description is set.
func (s *LPSettings) Points() []Point {
	raw := []Point{
		{s.PointTitle1, s.PointDesc1},
		{s.PointTitle2, s.PointDesc2},
		{s.PointTitle3, s.PointDesc3},
		{s.PointTitle4, s.PointDesc4},
		{s.PointTitle5, s.PointDesc5},
		{s.PointTitle6, s.PointDesc6},
	}
	out := make([]Point, 0, len(raw))
	for _, p := range raw {
		if p.Title != "" {
			out = append(out, p)
		}
	}
	return out
}

// RecruitSettings is the per-company careers page record, keyed by
// companyDomain. Edited in the recruit-settings editor, read by the public
// recruit page, cached client-side with a 5-minute TTL.
type RecruitSettings struct {
	CompanyDomain string `json:"companyDomain" validate:"required"`

	LogoURL    string `json:"logoUrl" validate:"omitempty,url"`
	SiteTitle  string `json:"siteTitle"`
	FooterText string `json:"footerText"`
	Phone      string `json:"phone"`
	CTAButton  string `json:"ctaButtonText"`

	HeroTitle    string `json:"heroTitle"`
	HeroSubtitle string `json:"heroSubtitle"`
	HeroImageURL string `json:"heroImage" validate:"omitempty,url"`

	JobsLimit int    `json:"jobsLimit" validate:"min=0"`
	JobsSort  string `json:"jobsSort" validate:"omitempty,oneof=newest sheet"`

	CTASectionTitle string `json:"ctaSectionTitle"`
	CTASectionText  string `json:"ctaSectionText"`

	SNS      SNSLinks  `json:"sns"`
	NavLinks []NavLink `json:"navLinks" validate:"dive"`

	CustomSections []CustomSection `json:"customSections" validate:"max=20,dive"`

	OGP OGP `json:"ogp"`

	DesignPattern string `json:"designPattern"`
	LayoutStyle   string `json:"layoutStyle" validate:"omitempty,oneof=modern trust casual elegant"`

	SectionOrder      string `json:"sectionOrder"`
	SectionVisibility string `json:"sectionVisibility"`

	Colors Colors `json:"colors"`
}
