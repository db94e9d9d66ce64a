package site

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/portfolio/internal/errors"
	"github.com/vango-dev/portfolio/internal/visitor"
	"github.com/vango-dev/portfolio/pkg/stagger"
)

const sampleContent = `
title: Jane Doe
description: Websites for small businesses
hero:
  eyebrow: Hello
  title: I build fast websites
  subtitle: Design and development
  ctaLabel: Get started
  ctaHref: "#get-started"
sections:
  - key: about
    title: About
    blurb: Ten years of shipping.
  - key: projects
    kind: projects
    title: Work
    nav: Projects
  - key: pricing
    kind: plans
    title: Pricing
  - key: contact
    kind: contact
    title: Contact
projects:
  - title: Bakery
    summary: Ordering site
    tags: [go, htmx]
    url: https://example.com/bakery
  - title: Clinic
    summary: Booking
  - title: Studio
    summary: Portfolio
plans:
  - name: Starter
    price: $900
  - name: Care
    price: $90/mo
    subscription: true
`

func mustParse(t *testing.T, s string) *Content {
	t.Helper()
	c, err := ParseContent(strings.NewReader(s))
	if err != nil {
		t.Fatalf("ParseContent() error: %v", err)
	}
	return c
}

func TestParseContent(t *testing.T) {
	c := mustParse(t, sampleContent)

	if diff := cmp.Diff([]string{"about", "projects", "pricing", "contact"}, c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if c.Sections[1].NavLabel() != "Projects" || c.Sections[0].NavLabel() != "About" {
		t.Errorf("unexpected nav labels %q %q", c.Sections[0].NavLabel(), c.Sections[1].NavLabel())
	}
	if len(c.Projects) != 3 || !c.Plans[1].Subscription {
		t.Errorf("unexpected content %+v", c)
	}
}

func TestParseContent_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{"no sections", "title: x\n", "P123"},
		{"empty file", "", "P123"},
		{"duplicate key", "sections:\n  - key: a\n  - key: a\n", "P122"},
		{"missing key", "sections:\n  - title: A\n", "P121"},
		{"bad key", "sections:\n  - key: About Me\n", "P121"},
		{"unknown kind", "sections:\n  - key: a\n    kind: gallery\n", "P121"},
		{"unknown field", "sections:\n  - key: a\n    colour: red\n", "P121"},
		{"untitled project", "sections:\n  - key: a\nprojects:\n  - summary: x\n", "P121"},
		{"bad yaml", "sections: [\n", "P121"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContent(strings.NewReader(tt.yaml))
			if !errors.HasCode(err, tt.code) {
				t.Fatalf("ParseContent() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	if err := os.WriteFile(path, []byte(sampleContent), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadContent(path)
	if err != nil {
		t.Fatalf("LoadContent() error: %v", err)
	}
	if c.Title != "Jane Doe" {
		t.Errorf("Title = %q", c.Title)
	}

	_, err = LoadContent(filepath.Join(dir, "missing.yaml"))
	if !errors.HasCode(err, "P120") {
		t.Fatalf("expected P120 for missing file, got %v", err)
	}
}

func TestMotion_HeroPlan(t *testing.T) {
	m := Motion{Intro: 2 * time.Second, Plan: stagger.Plan{BaseDelay: 60 * time.Millisecond, Step: 70 * time.Millisecond}}

	first := m.HeroPlan(false)
	if first.BaseDelay != 2*time.Second || first.Step != 70*time.Millisecond {
		t.Errorf("first visit plan = %+v", first)
	}
	back := m.HeroPlan(true)
	if back.BaseDelay != 0 || back.Step != 70*time.Millisecond {
		t.Errorf("return visit plan = %+v", back)
	}
}

func TestRenderer_PageDelays(t *testing.T) {
	r := NewRenderer(mustParse(t, sampleContent))
	p := r.Page(visitor.Visitor{IntroPlayed: true})

	hero := []time.Duration{
		p.Hero.EyebrowReveal.Duration(),
		p.Hero.TitleReveal.Duration(),
		p.Hero.SubtitleReveal.Duration(),
		p.Hero.CTAReveal.Duration(),
	}
	want := []time.Duration{0, 70 * time.Millisecond, 140 * time.Millisecond, 210 * time.Millisecond}
	if diff := cmp.Diff(want, hero); diff != "" {
		t.Errorf("hero delays mismatch (-want +got):\n%s", diff)
	}

	about := p.Sections[0]
	if about.HeadingReveal.Duration() != 60*time.Millisecond || about.BlurbReveal.Duration() != 130*time.Millisecond {
		t.Errorf("about delays = %v, %v", about.HeadingReveal.Duration(), about.BlurbReveal.Duration())
	}
	if p.Sections[1].BlurbReveal.Armed() {
		t.Error("expected no blurb reveal for a section without a blurb")
	}

	var grid []string
	for _, proj := range p.Projects {
		grid = append(grid, proj.Reveal.Delay())
	}
	if diff := cmp.Diff([]string{"60ms", "130ms", "200ms"}, grid); diff != "" {
		t.Errorf("grid delays mismatch (-want +got):\n%s", diff)
	}
	if p.Active != "about" {
		t.Errorf("Active = %q, want about", p.Active)
	}
}

func TestRenderer_FirstVisitWaitsForIntro(t *testing.T) {
	r := NewRenderer(mustParse(t, sampleContent), WithMotion(Motion{
		Intro: 2400 * time.Millisecond,
		Plan:  stagger.DefaultPlan,
	}))
	p := r.Page(visitor.Visitor{})

	if got := p.Hero.EyebrowReveal.Duration(); got != 2400*time.Millisecond {
		t.Errorf("first hero delay = %v, want 2.4s", got)
	}
	if got := p.Hero.TitleReveal.Duration(); got != 2470*time.Millisecond {
		t.Errorf("second hero delay = %v, want 2.47s", got)
	}
	// Section groups never wait for the intro.
	if got := p.Sections[0].HeadingReveal.Duration(); got != 60*time.Millisecond {
		t.Errorf("section delay = %v, want 60ms", got)
	}
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(mustParse(t, sampleContent), WithStaticPrefix("/assets/"), WithHead(`<script src="/_dev/client.js"></script>`))

	var sb strings.Builder
	err := r.Render(&sb, visitor.Visitor{Platform: []string{visitor.ClassMac, visitor.ClassSafari}, IntroPlayed: true})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		`<html lang="en" class="is-mac is-safari" data-intro="played"`,
		`<section id="about" data-section="about" data-entrance>`,
		`<a href="#about" data-nav="about" aria-current="true" class="is-active">About</a>`,
		`<a href="#projects" data-nav="projects">Projects</a>`,
		`style="--reveal-delay: 130ms"`,
		`data-endpoint="/api/contact"`,
		`href="/assets/site.css"`,
		`<script src="/_dev/client.js"></script>`,
		`<li>htmx</li>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
	if strings.Contains(html, `data-endpoint="/api/get-started"`) {
		t.Error("did not expect the get-started form without a get-started section")
	}
}

func TestRenderer_EscapesContent(t *testing.T) {
	c := mustParse(t, "title: \"<b>x</b>\"\nsections:\n  - key: a\n    title: \"<script>alert(1)</script>\"\n")
	var sb strings.Builder
	if err := NewRenderer(c).Render(&sb, visitor.Visitor{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sb.String(), "<script>alert(1)</script>") {
		t.Error("expected content to be escaped")
	}
}

func TestHandler(t *testing.T) {
	h := NewHandler(NewRenderer(mustParse(t, sampleContent)), nil, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(visitor.WithVisitor(req.Context(), visitor.Visitor{IntroPlayed: true}))
	rec := httptest.NewRecorder()
	h.Page(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Page status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `data-intro="played"`) {
		t.Error("expected intro state from the visitor")
	}

	other := NewRenderer(mustParse(t, "title: Other\nsections:\n  - key: a\n"))
	h.SetRenderer(other)
	if h.Renderer() != other {
		t.Fatal("expected SetRenderer to swap the renderer")
	}
	rec = httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "<title>Other</title>") {
		t.Error("expected the swapped renderer to serve the page")
	}

	rec = httptest.NewRecorder()
	h.Intro(rec, httptest.NewRequest(http.MethodPost, "/api/intro", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Intro status = %d, want 204", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != visitor.IntroCookie {
		t.Fatalf("expected intro cookie, got %v", cookies)
	}
	if cookies[0].Secure {
		t.Error("expected a plain-HTTP request to get a non-Secure cookie")
	}
}

func TestHandler_IntroBehindProxy(t *testing.T) {
	h := NewHandler(NewRenderer(mustParse(t, sampleContent)), nil, true)
	req := httptest.NewRequest(http.MethodPost, "/api/intro", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	h.Intro(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].Secure {
		t.Fatalf("expected a Secure intro cookie, got %v", cookies)
	}
}

func TestLoadContent_Sample(t *testing.T) {
	c, err := LoadContent(filepath.Join("..", "..", "content", "site.yaml"))
	if err != nil {
		t.Fatalf("sample content: %v", err)
	}
	var sb strings.Builder
	if err := NewRenderer(c).Render(&sb, visitor.Visitor{}); err != nil {
		t.Fatalf("render sample: %v", err)
	}
	if !strings.Contains(sb.String(), `data-endpoint="/api/get-started"`) {
		t.Error("expected the sample to include the get-started form")
	}
}
