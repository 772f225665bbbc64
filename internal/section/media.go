package section

import (
	"html/template"
	"strings"

	"github.com/saiyolab/lpengine/internal/settings"
)

// galleryTmpls dispatches the gallery section by its style field
// (grid, masonry, slider). Unknown styles fall back to grid.
var galleryTmpls = map[string]*template.Template{
	"grid":    galleryTemplate("grid"),
	"masonry": galleryTemplate("masonry"),
	"slider":  galleryTemplate("slider"),
}

func galleryTemplate(style string) *template.Template {
	return mustTemplate("gallery-"+style, `<section class="sec sec-gallery gallery-`+style+`" id="{{.ID}}">
<div class="sec-inner">
{{if .Title}}<h2 class="sec-heading">{{.Title}}</h2>
{{end}}<div class="gallery-items" data-gallery-style="`+style+`">
{{range .Images}}<figure class="gallery-item"><img src="{{.}}" alt="" loading="lazy"></figure>
{{end}}</div>
</div>
</section>
`)
}

type mediaData struct {
	ID     string
	Title  string
	Images []string
}

func renderGallery(_ *Context, sec *Section) string {
	cs := customOf(sec)
	if cs == nil || len(cs.Images) == 0 {
		return ""
	}
	tmpl, ok := galleryTmpls[cs.Variant]
	if !ok {
		tmpl = galleryTmpls["grid"]
	}
	return exec(tmpl, mediaData{ID: sec.ID, Title: cs.Title, Images: cs.Images})
}

var photosTmpl = mustTemplate("photos", `<section class="sec sec-photos" id="{{.ID}}">
<div class="sec-inner">
<h2 class="sec-heading">{{if .Title}}{{.Title}}{{else}}職場の様子{{end}}</h2>
<div class="photo-grid">
{{range .Images}}<figure class="photo-item"><img src="{{.}}" alt="" loading="lazy"></figure>
{{end}}</div>
</div>
</section>
`)

func renderPhotos(_ *Context, sec *Section) string {
	cs := customOf(sec)
	if cs == nil || len(cs.Images) == 0 {
		return ""
	}
	return exec(photosTmpl, mediaData{ID: sec.ID, Title: cs.Title, Images: cs.Images})
}

var imageTmpl = mustTemplate("image-block", `<section class="sec sec-image" id="{{.ID}}">
<div class="sec-inner">
<figure class="image-figure"><img src="{{.Image}}" alt="{{.Title}}">
{{if .Title}}<figcaption class="image-caption">{{.Title}}</figcaption>
{{end}}</figure>
</div>
</section>
`)

func renderImage(_ *Context, sec *Section) string {
	cs := customOf(sec)
	if cs == nil || cs.Image == "" {
		return ""
	}
	return exec(imageTmpl, customData{ID: sec.ID, Title: cs.Title, Image: cs.Image})
}

// carouselTmpl emits markup only; the autoplay behavior attaches in a
// post-render hydration script inside the document shell, not here.
var carouselTmpl = mustTemplate("carousel", `<section class="sec sec-carousel" id="{{.ID}}">
<div class="sec-inner">
{{if .Title}}<h2 class="sec-heading">{{.Title}}</h2>
{{end}}<div class="carousel" data-carousel>
<div class="carousel-track">
{{range .Images}}<div class="carousel-slide"><img src="{{.}}" alt="" loading="lazy"></div>
{{end}}</div>
</div>
</div>
</section>
`)

func renderCarousel(_ *Context, sec *Section) string {
	cs := customOf(sec)
	if cs == nil || len(cs.Images) == 0 {
		return ""
	}
	return exec(carouselTmpl, mediaData{ID: sec.ID, Title: cs.Title, Images: cs.Images})
}

var testimonialTmpl = mustTemplate("testimonial", `<section class="sec sec-testimonial" id="{{.ID}}">
<div class="sec-inner">
<h2 class="sec-heading">{{if .Title}}{{.Title}}{{else}}スタッフの声{{end}}</h2>
<div class="testimonial-list" data-testimonial-slider>
{{range .Items}}<blockquote class="testimonial-card">
{{if .Image}}<img class="testimonial-photo" src="{{.Image}}" alt="">
{{end}}<p class="testimonial-text">{{.Text}}</p>
{{if .Title}}<footer class="testimonial-name">{{.Title}}</footer>
{{end}}</blockquote>
{{end}}</div>
</div>
</section>
`)

func renderTestimonial(_ *Context, sec *Section) string {
	cs := customOf(sec)
	if cs == nil {
		return ""
	}
	items := make([]settings.CustomItem, 0, len(cs.Items))
	for _, it := range cs.Items {
		if strings.TrimSpace(it.Text) != "" {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return ""
	}
	return exec(testimonialTmpl, itemListData{ID: sec.ID, Title: cs.Title, Items: items})
}
