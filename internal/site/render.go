package site

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/vango-dev/portfolio/internal/visitor"
	"github.com/vango-dev/portfolio/pkg/stagger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").ParseFS(templateFS, "templates/*.html"))

// Motion times the entrance staggers.
type Motion struct {
	// Intro is the length of the first-visit intro. The hero waits for it.
	Intro time.Duration

	// Plan times every section group and the hero on return visits.
	Plan stagger.Plan
}

// DefaultMotion matches the default configuration.
var DefaultMotion = Motion{Intro: 2400 * time.Millisecond, Plan: stagger.DefaultPlan}

// HeroPlan returns the hero stagger for a visitor. A first visit starts the
// hero after the intro; a return visit starts it immediately.
func (m Motion) HeroPlan(introPlayed bool) stagger.Plan {
	if introPlayed {
		return stagger.Plan{BaseDelay: 0, Step: m.Plan.Step}
	}
	return stagger.Plan{BaseDelay: m.Intro, Step: m.Plan.Step}
}

// Reveal is an entrance item in a rendered page.
type Reveal struct {
	delay time.Duration
	set   bool
}

// SetRevealDelay implements stagger.Item.
func (r *Reveal) SetRevealDelay(d time.Duration) {
	r.delay = d
	r.set = true
}

// Delay returns the CSS delay, e.g. "130ms".
func (r Reveal) Delay() string {
	return stagger.CSSDelay(r.delay)
}

// Duration returns the assigned delay.
func (r Reveal) Duration() time.Duration {
	return r.delay
}

// Armed reports whether a stagger assigned the delay.
func (r Reveal) Armed() bool {
	return r.set
}

// HeroView is the hero block with its reveal delays.
type HeroView struct {
	Hero
	EyebrowReveal  Reveal
	TitleReveal    Reveal
	SubtitleReveal Reveal
	CTAReveal      Reveal
}

// SectionView is a section with the header group's delays.
type SectionView struct {
	Section
	HeadingReveal Reveal
	BlurbReveal   Reveal
}

// ProjectView is a project card in the grid group.
type ProjectView struct {
	Project
	Reveal Reveal
}

// PlanView is a pricing card in the plans group.
type PlanView struct {
	Plan
	Reveal Reveal
}

// Page is everything the template renders.
type Page struct {
	Title       string
	Description string
	RootClass   string
	IntroPlayed bool
	IntroMS     int64
	Active      string
	Static      string
	Head        template.HTML

	Hero     HeroView
	Sections []SectionView
	Projects []ProjectView
	Plans    []PlanView
}

// Renderer renders the portfolio page.
type Renderer struct {
	content *Content
	motion  Motion
	static  string
	head    template.HTML
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMotion sets the entrance timing.
func WithMotion(m Motion) RendererOption {
	return func(r *Renderer) {
		r.motion = m
	}
}

// WithStaticPrefix sets the URL prefix of static assets.
func WithStaticPrefix(prefix string) RendererOption {
	return func(r *Renderer) {
		r.static = prefix
	}
}

// WithHead injects trusted markup at the end of <head>.
func WithHead(html template.HTML) RendererOption {
	return func(r *Renderer) {
		r.head = html
	}
}

// NewRenderer creates a Renderer for validated content.
func NewRenderer(c *Content, opts ...RendererOption) *Renderer {
	r := &Renderer{
		content: c,
		motion:  DefaultMotion,
		static:  "/static/",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Content returns the rendered content.
func (r *Renderer) Content() *Content {
	return r.content
}

// Page builds the view for v. Every group is staggered once; the page is
// built per request so each visitor gets its own timing.
func (r *Renderer) Page(v visitor.Visitor) *Page {
	c := r.content
	p := &Page{
		Title:       c.Title,
		Description: c.Description,
		RootClass:   v.ClassList(),
		IntroPlayed: v.IntroPlayed,
		IntroMS:     r.motion.Intro.Milliseconds(),
		Static:      r.static,
		Head:        r.head,
		Hero:        HeroView{Hero: c.Hero},
	}
	if len(c.Sections) > 0 {
		p.Active = c.Sections[0].Key
	}

	h := &p.Hero
	var heroItems stagger.Items
	if h.Eyebrow != "" {
		heroItems = append(heroItems, &h.EyebrowReveal)
	}
	heroItems = append(heroItems, &h.TitleReveal)
	if h.Subtitle != "" {
		heroItems = append(heroItems, &h.SubtitleReveal)
	}
	if h.CTALabel != "" {
		heroItems = append(heroItems, &h.CTAReveal)
	}
	stagger.New(heroItems, r.motion.HeroPlan(v.IntroPlayed)).Arm()

	p.Sections = make([]SectionView, len(c.Sections))
	for i, s := range c.Sections {
		sv := &p.Sections[i]
		sv.Section = s
		items := stagger.Items{&sv.HeadingReveal}
		if s.Blurb != "" {
			items = append(items, &sv.BlurbReveal)
		}
		stagger.New(items, r.motion.Plan).Arm()
	}

	p.Projects = make([]ProjectView, len(c.Projects))
	grid := make(stagger.Items, len(c.Projects))
	for i, proj := range c.Projects {
		p.Projects[i].Project = proj
		grid[i] = &p.Projects[i].Reveal
	}
	stagger.New(grid, r.motion.Plan).Arm()

	p.Plans = make([]PlanView, len(c.Plans))
	cards := make(stagger.Items, len(c.Plans))
	for i, plan := range c.Plans {
		p.Plans[i].Plan = plan
		cards[i] = &p.Plans[i].Reveal
	}
	stagger.New(cards, r.motion.Plan).Arm()

	return p
}

// Render writes the page for v to w.
func (r *Renderer) Render(w io.Writer, v visitor.Visitor) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, r.Page(v)); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
