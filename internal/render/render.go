// Package render turns the portfolio content and whatever decorative assets
// could be fetched into the single page.
package render

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"slices"

	"github.com/yuin/goldmark"

	"github.com/rohankashyap/portfolio/internal/assets"
	"github.com/rohankashyap/portfolio/internal/content"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// AssetSource is the part of the asset loader the page needs.
type AssetSource interface {
	JSON(ctx context.Context, url string) (json.RawMessage, bool)
	Image(ctx context.Context, url string) (*assets.Image, bool)
	FileBase64(path string) (string, bool)
}

// Options names the decorative assets.
type Options struct {
	AvatarURL           string
	AboutAnimationURL   string
	ContactAnimationURL string
	BackgroundAnimation string
}

// NavLink is an in-page anchor in the top navigation.
type NavLink struct {
	Anchor string
	Label  string
}

// Nav lists the page sections in display order.
var Nav = []NavLink{
	{Anchor: "about", Label: "About"},
	{Anchor: "skills", Label: "Skills"},
	{Anchor: "projects", Label: "Projects"},
	{Anchor: "experience", Label: "Experience"},
	{Anchor: "contact", Label: "Contact"},
}

// Status is the banner shown after a contact submission.
type Status struct {
	OK      bool
	Message string
}

const (
	SuccessMessage = "Thanks — message received. I'll reply soon."
	FailureMessage = "Could not save message locally."
)

// Page is the view model for index.html. Asset fields are empty when the
// asset could not be loaded; the template omits the matching element.
type Page struct {
	Profile  content.Profile
	Nav      []NavLink
	Skills   []content.Skill
	Projects []content.Project
	Timeline []content.TimelineEntry

	Background       template.URL
	Avatar           *assets.Image
	AvatarSrc        template.URL
	AboutAnimation   template.URL
	ContactAnimation template.URL

	Status *Status
}

// Renderer builds and renders the page.
type Renderer struct {
	portfolio content.Portfolio
	assets    AssetSource
	opts      Options
	templates *template.Template
}

// New parses the embedded templates. The portfolio lists are copied so later
// changes by the caller do not reach the page.
func New(p content.Portfolio, src AssetSource, opts Options) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	p.Skills = slices.Clone(p.Skills)
	p.Projects = slices.Clone(p.Projects)
	p.Timeline = slices.Clone(p.Timeline)
	if opts.AvatarURL == "" {
		opts.AvatarURL = p.Profile.AvatarURL
	}

	return &Renderer{
		portfolio: p,
		assets:    src,
		opts:      opts,
		templates: tmpl,
	}, nil
}

// Templates returns the parsed template set, including the contact and admin
// fragments.
func (r *Renderer) Templates() *template.Template {
	return r.templates
}

// Static serves the embedded stylesheet and scripts.
func (r *Renderer) Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Page assembles the view model, fetching each optional asset through the
// loader.
func (r *Renderer) Page(ctx context.Context) Page {
	p := Page{
		Profile:  r.portfolio.Profile,
		Nav:      Nav,
		Skills:   r.portfolio.Skills,
		Projects: r.portfolio.Projects,
		Timeline: r.portfolio.Timeline,
	}

	if r.opts.BackgroundAnimation != "" {
		if b64, ok := r.assets.FileBase64(r.opts.BackgroundAnimation); ok {
			p.Background = jsonDataURL(b64)
		}
	}
	if r.opts.AvatarURL != "" {
		if img, ok := r.assets.Image(ctx, r.opts.AvatarURL); ok && len(img.Data) > 0 {
			p.Avatar = img
			p.AvatarSrc = imageDataURL(img)
		}
	}
	p.AboutAnimation = r.animation(ctx, r.opts.AboutAnimationURL)
	p.ContactAnimation = r.animation(ctx, r.opts.ContactAnimationURL)

	return p
}

// View is Page with the contact banner set. status is nil unless a form was
// just posted.
func (r *Renderer) View(ctx context.Context, status *Status) Page {
	p := r.Page(ctx)
	p.Status = status
	return p
}

// Render writes the full page to w. The HTTP handlers execute the same view
// through gin's HTML renderer; this is the entry point for callers without a
// gin context.
func (r *Renderer) Render(ctx context.Context, w io.Writer, status *Status) error {
	return r.templates.ExecuteTemplate(w, "index.html", r.View(ctx, status))
}

func (r *Renderer) animation(ctx context.Context, url string) template.URL {
	if url == "" {
		return ""
	}
	raw, ok := r.assets.JSON(ctx, url)
	if !ok {
		return ""
	}
	return jsonDataURL(base64.StdEncoding.EncodeToString(raw))
}

func jsonDataURL(b64 string) template.URL {
	return template.URL("data:application/json;base64," + b64)
}

// imageDataURL inlines the fetched bytes so the browser never goes back to
// the remote host.
func imageDataURL(img *assets.Image) template.URL {
	return template.URL("data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"markdown": markdownToHTML,
	}
}

// markdownToHTML converts a markdown string to HTML using goldmark. Raw HTML
// in the input is not rendered.
func markdownToHTML(input string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(input), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(input))
	}
	return template.HTML(buf.String())
}
