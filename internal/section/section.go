// Package section implements the section registry: the mapping from section
// type tags to renderer functions producing HTML fragments. Renderers are
// pure functions of their inputs, escape all user text by default and render
// nothing when their data is absent. They never return errors: malformed
// optional fields degrade to empty output.
package section

import (
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/saiyolab/lpengine/internal/entity"
	"github.com/saiyolab/lpengine/internal/settings"
)

// Context carries the entity data and resolved configuration available to
// every renderer. Now is fixed by the composer so repeated renders of the
// same inputs are byte-identical.
type Context struct {
	Company *entity.Company
	Jobs    []entity.Job
	Config  *settings.EffectiveConfig
	Now     time.Time
}

// Section is the tagged unit handed to a renderer. For built-in singleton
// sections the ID equals the Type; user-defined sections carry their stable
// custom id and the underlying definition.
type Section struct {
	ID     string
	Type   string
	Custom *settings.CustomSection
}

// Renderer renders one section into an HTML fragment, or "" when the
// section has nothing to show.
type Renderer func(ctx *Context, sec *Section) string

// Registry maps section type tags to renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry returns a registry with all built-in section types registered.
func NewRegistry() *Registry {
	r := &Registry{renderers: make(map[string]Renderer)}
	r.register("hero", renderHero)
	r.register("points", renderPoints)
	r.register("jobs", renderJobs)
	r.register("details", renderDetails)
	r.register("faq", renderFAQ)
	r.register("apply", renderApply)
	r.register("video", renderVideo)
	r.register("custom", renderCustomVariant)
	r.register("gallery", renderGallery)
	r.register("carousel", renderCarousel)
	r.register("testimonial", renderTestimonial)
	r.register("heading", renderHeading)
	r.register("text", renderText)
	r.register("image", renderImage)
	r.register("message", renderMessage)
	r.register("about", renderAbout)
	r.register("business", renderBusiness)
	r.register("photos", renderPhotos)
	return r
}

func (r *Registry) register(typ string, fn Renderer) {
	r.renderers[typ] = fn
}

// Has reports whether a renderer exists for the type tag.
func (r *Registry) Has(typ string) bool {
	_, ok := r.renderers[typ]
	return ok
}

// Render dispatches to the renderer for sec.Type. Unknown types render
// nothing; an unknown type in persisted data must not break the page.
func (r *Registry) Render(ctx *Context, sec *Section) string {
	fn, ok := r.renderers[sec.Type]
	if !ok {
		return ""
	}
	return fn(ctx, sec)
}

// mustTemplate parses a renderer template at init time. Renderer templates
// are compiled-in constants, so a parse failure is a programming error.
func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(template.FuncMap{
		"rich": RichText,
	}).Parse(text))
}

// exec runs a section template. Execution failures degrade to an empty
// fragment rather than surfacing an error to the composer.
func exec(t *template.Template, data any) string {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		log.Printf("[SECTION] template %s failed: %v", t.Name(), err)
		return ""
	}
	return sb.String()
}
