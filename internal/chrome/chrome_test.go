package chrome

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiyolab/lpengine/internal/settings"
)

func parseFragment(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRenderHeader(t *testing.T) {
	t.Run("No branding renders nothing", func(t *testing.T) {
		assert.Empty(t, RenderHeader(Options{}))
	})

	t.Run("Logo preferred over name", func(t *testing.T) {
		doc := parseFragment(t, RenderHeader(Options{
			LogoURL:     "https://example.com/logo.png",
			CompanyName: "テスト株式会社",
		}))
		assert.Equal(t, 1, doc.Find(".header-logo img").Length())
		assert.Equal(t, 0, doc.Find(".header-name").Length())
	})

	t.Run("Site title wins over company name", func(t *testing.T) {
		doc := parseFragment(t, RenderHeader(Options{
			SiteTitle:   "テスト採用サイト",
			CompanyName: "テスト株式会社",
		}))
		assert.Equal(t, "テスト採用サイト", doc.Find(".header-name").Text())
	})

	t.Run("Nav links rendered in order", func(t *testing.T) {
		doc := parseFragment(t, RenderHeader(Options{
			CompanyName: "テスト株式会社",
			NavLinks: []settings.NavLink{
				{Label: "求人情報", URL: "#jobs"},
				{Label: "応募", URL: "#apply"},
			},
		}))
		links := doc.Find(".header-nav-link")
		require.Equal(t, 2, links.Length())
		assert.Equal(t, "求人情報", links.First().Text())
	})
}

func TestRenderFooter(t *testing.T) {
	t.Run("Copyright with name", func(t *testing.T) {
		doc := parseFragment(t, RenderFooter(Options{CompanyName: "テスト株式会社", Year: 2025}))
		assert.Equal(t, "© 2025 テスト株式会社", doc.Find(".footer-copyright").Text())
	})

	t.Run("Copyright fallback without name", func(t *testing.T) {
		doc := parseFragment(t, RenderFooter(Options{Year: 2025}))
		assert.Equal(t, "© 2025 All rights reserved.", doc.Find(".footer-copyright").Text())
	})

	t.Run("Only configured SNS channels appear", func(t *testing.T) {
		doc := parseFragment(t, RenderFooter(Options{
			Year: 2025,
			SNS: settings.SNSLinks{
				Instagram: "https://instagram.com/example",
				LINE:      "https://line.me/example",
			},
		}))
		items := doc.Find(".footer-sns a")
		require.Equal(t, 2, items.Length())
		assert.Equal(t, "Instagram", items.First().Text())
	})
}

func TestRenderFixedCTABar(t *testing.T) {
	t.Run("Nothing configured renders nothing", func(t *testing.T) {
		assert.Empty(t, RenderFixedCTABar(Options{}))
	})

	t.Run("Phone and button", func(t *testing.T) {
		doc := parseFragment(t, RenderFixedCTABar(Options{Phone: "03-1234-5678", CTAButton: "応募する"}))
		href, _ := doc.Find(".fixed-cta-phone").Attr("href")
		assert.Equal(t, "tel:03-1234-5678", href)
		assert.Equal(t, "応募する", doc.Find(".fixed-cta-btn").Text())
	})
}
