package compose

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiyolab/lpengine/internal/entity"
	"github.com/saiyolab/lpengine/internal/settings"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestComposeMinimalLP(t *testing.T) {
	// A fresh LP record with one point and a trimmed order: the page renders
	// hero (with the company-name fallback title), the point card and the
	// apply section in that order, and nothing else.
	lp := &settings.LPSettings{
		PointTitle1:       "特典あり",
		SectionOrder:      "hero,points,apply",
		SectionVisibility: "{}",
	}
	in := Input{
		Company: &entity.Company{Domain: "example", Name: "テスト株式会社"},
		Config:  settings.ResolveLP(lp, nil, ""),
	}

	out := New().Compose(in, Options{Now: fixedNow})
	doc := parseDoc(t, out)

	assert.Equal(t, "テスト株式会社で働こう", doc.Find(".hero-title").Text())
	require.Equal(t, 1, doc.Find(".point-card").Length())
	assert.Equal(t, "特典あり", doc.Find(".point-title").Text())
	assert.Equal(t, 1, doc.Find(".sec-apply").Length())

	assert.Equal(t, 0, doc.Find(".sec-jobs").Length())
	assert.Equal(t, 0, doc.Find(".sec-details").Length())
	assert.Equal(t, 0, doc.Find(".sec-faq").Length())

	secs := doc.Find("section")
	require.Equal(t, 3, secs.Length())
	first, _ := secs.Eq(0).Attr("id")
	last, _ := secs.Eq(2).Attr("id")
	assert.Equal(t, "hero", first)
	assert.Equal(t, "apply", last)
}

func TestComposeIdempotent(t *testing.T) {
	lp := &settings.LPSettings{
		HeroTitle:   "一緒に働きませんか",
		PointTitle1: "研修あり",
		FAQ:         "Q:初めてでも大丈夫？|A:はい、研修があります",
	}
	in := Input{
		Company: &entity.Company{Domain: "example", Name: "テスト株式会社"},
		Jobs:    []entity.Job{{ID: "a", CompanyDomain: "example", Title: "ホール", Visible: true}},
		Config:  settings.ResolveLP(lp, nil, ""),
	}
	opts := Options{FullDocument: true, Now: fixedNow}

	c := New()
	assert.Equal(t, c.Compose(in, opts), c.Compose(in, opts), "same inputs must produce byte-identical output")
}

func TestComposeVisibility(t *testing.T) {
	t.Run("Hidden section skipped", func(t *testing.T) {
		lp := &settings.LPSettings{
			PointTitle1:       "特典あり",
			SectionVisibility: `{"points":false}`,
		}
		in := Input{Config: settings.ResolveLP(lp, nil, "")}
		doc := parseDoc(t, New().Compose(in, Options{Now: fixedNow}))
		assert.Equal(t, 0, doc.Find(".sec-points").Length())
	})

	t.Run("Hidden flag on mandatory sections ignored", func(t *testing.T) {
		lp := &settings.LPSettings{
			SectionVisibility: `{"hero":false,"apply":false}`,
		}
		in := Input{
			Company: &entity.Company{Domain: "example", Name: "テスト株式会社"},
			Config:  settings.ResolveLP(lp, nil, ""),
		}
		doc := parseDoc(t, New().Compose(in, Options{Now: fixedNow}))
		assert.Equal(t, 1, doc.Find(".sec-hero").Length())
		assert.Equal(t, 1, doc.Find(".sec-apply").Length())
	})
}

func TestComposeCustomSections(t *testing.T) {
	t.Run("Dangling custom reference skipped", func(t *testing.T) {
		lp := &settings.LPSettings{SectionOrder: "hero,custom-deadbeef,apply"}
		in := Input{
			Company: &entity.Company{Domain: "example", Name: "テスト株式会社"},
			Config:  settings.ResolveLP(lp, nil, ""),
		}
		doc := parseDoc(t, New().Compose(in, Options{Now: fixedNow}))
		assert.Equal(t, 0, doc.Find(".sec-custom").Length())
	})

	t.Run("Unreferenced custom section appended", func(t *testing.T) {
		cfg := settings.ResolveLP(&settings.LPSettings{SectionOrder: "hero,apply"}, nil, "")
		cfg.CustomSections = []settings.CustomSection{
			{ID: "custom-abc", Type: "message", Content: "よろしくお願いします"},
		}
		in := Input{Config: cfg}
		doc := parseDoc(t, New().Compose(in, Options{Now: fixedNow}))

		secs := doc.Find("section")
		require.Equal(t, 3, secs.Length())
		last, _ := secs.Eq(2).Attr("id")
		assert.Equal(t, "custom-abc", last, "new custom sections appear even when the order predates them")
	})

	t.Run("Custom id dispatches on declared type", func(t *testing.T) {
		cfg := settings.ResolveLP(&settings.LPSettings{SectionOrder: "hero,custom-g,apply"}, nil, "")
		cfg.CustomSections = []settings.CustomSection{
			{ID: "custom-g", Type: "gallery", Images: []string{"https://example.com/1.jpg"}},
		}
		in := Input{Config: cfg}
		doc := parseDoc(t, New().Compose(in, Options{Now: fixedNow}))
		assert.Equal(t, 1, doc.Find(".sec-gallery").Length())
	})
}

func TestComposeFullDocument(t *testing.T) {
	lp := &settings.LPSettings{
		HeroTitle:    "一緒に働きませんか",
		HeroSubtitle: "未経験歓迎",
	}
	in := Input{
		Company: &entity.Company{Domain: "example", Name: "テスト株式会社"},
		Config:  settings.ResolveLP(lp, nil, ""),
	}
	out := New().Compose(in, Options{FullDocument: true, Now: fixedNow})

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	doc := parseDoc(t, out)

	assert.Equal(t, "一緒に働きませんか", doc.Find("title").Text())
	cls, _ := doc.Find("body").Attr("class")
	assert.Equal(t, "layout-modern design-standard", cls)

	ogTitle, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	assert.Equal(t, "一緒に働きませんか", ogTitle)
	ogDesc, _ := doc.Find(`meta[property="og:description"]`).Attr("content")
	assert.Equal(t, "未経験歓迎", ogDesc)

	assert.Contains(t, doc.Find("style").Text(), "--color-primary:#2563eb")
	assert.Equal(t, "© 2025 テスト株式会社", doc.Find(".footer-copyright").Text())
	assert.Equal(t, 0, doc.Find("script").Length(), "no hydration script without dynamic sections")
}

func TestComposeHydrationScript(t *testing.T) {
	cfg := settings.ResolveLP(&settings.LPSettings{VideoURL: "https://example.com/v.mp4"}, nil, "")
	in := Input{
		Company: &entity.Company{Domain: "example", Name: "テスト株式会社"},
		Config:  cfg,
	}
	out := New().Compose(in, Options{FullDocument: true, AssetVersion: "abc123", Now: fixedNow})
	doc := parseDoc(t, out)

	src, ok := doc.Find("body script").Attr("src")
	require.True(t, ok)
	assert.Equal(t, "/assets/lp.js?v=abc123", src)
}

func TestComposeTrackingSnippets(t *testing.T) {
	cfg := settings.ResolveLP(&settings.LPSettings{
		Tracking: settings.TrackingIDs{GoogleTag: "G-TEST123"},
	}, nil, "")
	in := Input{
		Company: &entity.Company{Domain: "example", Name: "テスト株式会社"},
		Config:  cfg,
	}
	out := New().Compose(in, Options{FullDocument: true, Now: fixedNow})
	assert.Contains(t, out, "googletagmanager.com/gtag/js?id=G-TEST123")
}

func TestComposeEscapesUserText(t *testing.T) {
	lp := &settings.LPSettings{HeroTitle: `<script>alert("x")</script>`}
	in := Input{Config: settings.ResolveLP(lp, nil, "")}
	out := New().Compose(in, Options{Now: fixedNow})
	assert.NotContains(t, out, "<script>")
}

func TestComposeRecruitPage(t *testing.T) {
	rs := &settings.RecruitSettings{
		CompanyDomain: "example",
		HeroTitle:     "採用情報",
	}
	in := Input{
		Company: &entity.Company{Domain: "example", Name: "テスト株式会社"},
		Jobs: []entity.Job{
			{ID: "a", CompanyDomain: "example", Title: "ホールスタッフ", Visible: true},
		},
		Config: settings.ResolveRecruit(rs, ""),
	}
	out := New().Compose(in, Options{FullDocument: true, Now: fixedNow})
	doc := parseDoc(t, out)

	assert.Equal(t, "採用情報", doc.Find(".hero-title").Text())
	require.Equal(t, 1, doc.Find(".job-card").Length())
	href, _ := doc.Find(".job-card a").Attr("href")
	assert.Equal(t, "/lp?j=example_a", href)
}
