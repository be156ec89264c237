package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rohankashyap/portfolio/internal/assets"
	"github.com/rohankashyap/portfolio/internal/content"
)

// fakeAssets serves canned assets; keys missing from the maps are absent.
type fakeAssets struct {
	json   map[string]string
	images map[string]*assets.Image
	files  map[string]string
	calls  int
}

func (f *fakeAssets) JSON(_ context.Context, url string) (json.RawMessage, bool) {
	f.calls++
	v, ok := f.json[url]
	return json.RawMessage(v), ok
}

func (f *fakeAssets) Image(_ context.Context, url string) (*assets.Image, bool) {
	f.calls++
	img, ok := f.images[url]
	return img, ok
}

func (f *fakeAssets) FileBase64(path string) (string, bool) {
	f.calls++
	v, ok := f.files[path]
	return v, ok
}

var testOptions = Options{
	AvatarURL:           "https://img.example.com/avatar.png",
	AboutAnimationURL:   "https://anim.example.com/about.json",
	ContactAnimationURL: "https://anim.example.com/contact.json",
	BackgroundAnimation: "bg.json",
}

func allAssets() *fakeAssets {
	return &fakeAssets{
		json: map[string]string{
			testOptions.AboutAnimationURL:   `{"nm":"about"}`,
			testOptions.ContactAnimationURL: `{"nm":"contact"}`,
		},
		images: map[string]*assets.Image{
			testOptions.AvatarURL: {
				URL:         testOptions.AvatarURL,
				ContentType: "image/png",
				Width:       200,
				Height:      200,
				Data:        []byte("\x89PNG-avatar"),
			},
		},
		files: map[string]string{"bg.json": "e30="},
	}
}

func renderString(t *testing.T, r *Renderer, status *Status) string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Render(context.Background(), &buf, status); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

// assertOrdered fails unless every needle appears in html, in order.
func assertOrdered(t *testing.T, html string, needles ...string) {
	t.Helper()
	pos := 0
	for _, n := range needles {
		i := strings.Index(html[pos:], n)
		if i < 0 {
			t.Errorf("%q missing or out of order", n)
			return
		}
		pos += i + len(n)
	}
}

func TestRenderAllSections(t *testing.T) {
	r, err := New(content.Default(), allAssets(), testOptions)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	html := renderString(t, r, nil)

	for _, anchor := range []string{`id="about"`, `id="skills"`, `id="projects"`, `id="experience"`, `id="contact"`} {
		if !strings.Contains(html, anchor) {
			t.Errorf("missing anchor %s", anchor)
		}
	}
	assertOrdered(t, html, `href="#about"`, `href="#skills"`, `href="#projects"`, `href="#experience"`, `href="#contact"`)
	assertOrdered(t, html, "Python", "Machine Learning", "Data Analysis", "SQL &amp; Databases",
		"Streamlit / Dash", "Power BI / Tableau", "HTML / CSS / JS")
	assertOrdered(t, html, "Smart E-Learning Platform", "Influencer Recommendation System",
		"Anomaly Detection for Sensors", "Ad Analytics Pipeline")
	assertOrdered(t, html, "Jan 2025 – Present", "Jun 2024 – Dec 2024", "2023", "2021 – 2025")
	assertOrdered(t, html, `class="hero`, `class="about-section"`, `id="skills"`, `id="projects"`,
		`id="experience"`, `id="contact"`, `class="footer"`)

	if got := strings.Count(html, `class="skill-item"`); got != 7 {
		t.Errorf("rendered %d skills, want 7", got)
	}
	if got := strings.Count(html, `class="project-card"`); got != 4 {
		t.Errorf("rendered %d projects, want 4", got)
	}
	if got := strings.Count(html, `class="timeline-item"`); got != 4 {
		t.Errorf("rendered %d timeline entries, want 4", got)
	}
	if got := strings.Count(html, `class="tag"`); got != 12 {
		t.Errorf("rendered %d tags, want 12", got)
	}

	if !strings.Contains(html, `id="avatar-img"`) {
		t.Error("avatar missing")
	}
	if !strings.Contains(html, `id="small_anim"`) || !strings.Contains(html, `id="contact_anim"`) {
		t.Error("animations missing")
	}
	if !strings.Contains(html, `src="data:application/json;base64,e30="`) {
		t.Error("background animation missing")
	}
	if !strings.Contains(html, "<strong>Rohan Kashyap</strong>") {
		t.Error("about markdown not rendered")
	}
	if !strings.Contains(html, `["Data Scientist","AI Enthusiast","Machine Learning Engineer"]`) {
		t.Error("typing roles not embedded as a JS array")
	}
	if !strings.Contains(html, `name="email"`) {
		t.Error("contact form missing")
	}
}

func TestAvatarServedFromFetchedBytes(t *testing.T) {
	src := allAssets()
	r, err := New(content.Default(), src, testOptions)
	if err != nil {
		t.Fatal(err)
	}
	html := renderString(t, r, nil)

	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG-avatar"))
	if !strings.Contains(html, `src="`+want+`"`) {
		t.Errorf("avatar not inlined from fetched bytes")
	}
	if strings.Contains(html, `src="`+testOptions.AvatarURL+`"`) {
		t.Error("avatar still points at the remote URL")
	}
}

func TestAvatarWithoutBytesOmitted(t *testing.T) {
	src := allAssets()
	src.images[testOptions.AvatarURL].Data = nil
	r, err := New(content.Default(), src, testOptions)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(renderString(t, r, nil), `id="avatar-img"`) {
		t.Error("avatar rendered with no image data")
	}
}

func TestRenderDegradesWithoutAssets(t *testing.T) {
	r, err := New(content.Default(), &fakeAssets{}, testOptions)
	if err != nil {
		t.Fatal(err)
	}
	html := renderString(t, r, nil)

	for _, absent := range []string{`id="avatar-img"`, `id="small_anim"`, `id="contact_anim"`, `class="bg-animation"`} {
		if strings.Contains(html, absent) {
			t.Errorf("unavailable asset still rendered: %s", absent)
		}
	}
	for _, present := range []string{`id="skills"`, "Ad Analytics Pipeline", "B.Tech CSE", `name="message"`, `class="footer"`} {
		if !strings.Contains(html, present) {
			t.Errorf("page incomplete without assets, missing %s", present)
		}
	}
}

func TestRenderWithRealLoaderAgainstFailingServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	opts := Options{
		AvatarURL:           srv.URL + "/avatar.png",
		AboutAnimationURL:   srv.URL + "/about.json",
		ContactAnimationURL: srv.URL + "/contact.json",
		BackgroundAnimation: "does-not-exist.json",
	}
	r, err := New(content.Default(), assets.New(srv.Client(), time.Second), opts)
	if err != nil {
		t.Fatal(err)
	}
	html := renderString(t, r, nil)
	if !strings.Contains(html, "Selected Projects") || strings.Contains(html, "lottie-player id=") {
		t.Error("expected full page without animations")
	}
}

func TestRenderStatusBanner(t *testing.T) {
	r, err := New(content.Default(), &fakeAssets{}, Options{})
	if err != nil {
		t.Fatal(err)
	}

	html := renderString(t, r, &Status{OK: true, Message: SuccessMessage})
	if !strings.Contains(html, "status-ok") || !strings.Contains(html, "message received") {
		t.Error("success banner missing")
	}
	html = renderString(t, r, &Status{Message: FailureMessage})
	if !strings.Contains(html, "status-error") || !strings.Contains(html, "Could not save message locally.") {
		t.Error("failure banner missing")
	}
	if strings.Contains(renderString(t, r, nil), "status-banner") {
		t.Error("banner shown without a submission")
	}
}

func TestViewCarriesStatus(t *testing.T) {
	r, err := New(content.Default(), &fakeAssets{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	status := &Status{OK: true, Message: SuccessMessage}
	if got := r.View(context.Background(), status).Status; got != status {
		t.Errorf("View status = %+v", got)
	}
	if r.Page(context.Background()).Status != nil {
		t.Error("Page should not carry a status")
	}
}

func TestRenderEscapesContent(t *testing.T) {
	p := content.Default()
	p.Projects = []content.Project{{Title: `<script>alert(1)</script>`, Tags: []string{`"quoted"`}}}
	r, err := New(p, &fakeAssets{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	html := renderString(t, r, nil)
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("project title not escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Error("expected escaped title")
	}
}

func TestNewCopiesLists(t *testing.T) {
	p := content.Default()
	r, err := New(p, &fakeAssets{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	p.Skills[0].Name = "Changed"
	if got := r.Page(context.Background()).Skills[0].Name; got != "Python" {
		t.Errorf("renderer observed caller mutation: %q", got)
	}
}

func TestAvatarFallsBackToProfile(t *testing.T) {
	p := content.Default()
	src := &fakeAssets{images: map[string]*assets.Image{
		p.Profile.AvatarURL: {URL: p.Profile.AvatarURL, ContentType: "image/png", Width: 1, Height: 1, Data: []byte("x")},
	}}
	r, err := New(p, src, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if page := r.Page(context.Background()); page.Avatar == nil {
		t.Error("expected avatar from profile URL")
	}
}

func TestFragmentsParsed(t *testing.T) {
	r, err := New(content.Default(), &fakeAssets{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"contact-form.html", "contact-success.html", "contact-error.html",
		"admin-login.html", "admin-dashboard.html", "admin-messages.html", "admin-error.html"} {
		if r.Templates().Lookup(name) == nil {
			t.Errorf("template %s not parsed", name)
		}
	}
}

func TestStatic(t *testing.T) {
	r, err := New(content.Default(), &fakeAssets{}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"/css/site.css", "/js/site.js"} {
		f, err := r.Static().Open(name)
		if err != nil {
			t.Errorf("open %s: %v", name, err)
			continue
		}
		data, _ := io.ReadAll(f)
		f.Close()
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestMarkdownToHTML(t *testing.T) {
	got := string(markdownToHTML("Hello **there**\n\n<b>raw</b>"))
	if !strings.Contains(got, "<strong>there</strong>") {
		t.Errorf("bold not rendered: %s", got)
	}
	if strings.Contains(got, "<b>raw</b>") {
		t.Errorf("raw HTML passed through: %s", got)
	}
}
