// Package visitor carries per-request platform and session facts.
//
// Rendering code never inspects the request directly. The middleware
// classifies the request once and later stages read the result with
// FromContext.
package visitor

import (
	"context"
	"net/http"
	"strings"

	"github.com/mileusna/useragent"
)

// IntroCookie is the session cookie set once the intro has played.
const IntroCookie = "intro_played"

// Platform classes added to the root element.
const (
	ClassIOS     = "is-ios"
	ClassAndroid = "is-android"
	ClassMac     = "is-mac"
	ClassWindows = "is-windows"
	ClassSafari  = "is-safari"
	ClassFirefox = "is-firefox"
	ClassTouch   = "is-touch"
)

// Visitor describes the client making the request.
type Visitor struct {
	IntroPlayed bool
	Platform    []string
}

// HasClass reports whether class is one of the platform classes.
func (v Visitor) HasClass(class string) bool {
	for _, c := range v.Platform {
		if c == class {
			return true
		}
	}
	return false
}

// ClassList returns the platform classes joined for an HTML class attribute.
func (v Visitor) ClassList() string {
	return strings.Join(v.Platform, " ")
}

type contextKey struct{}

// WithVisitor returns a copy of ctx carrying v.
func WithVisitor(ctx context.Context, v Visitor) context.Context {
	return context.WithValue(ctx, contextKey{}, v)
}

// FromContext returns the visitor stored in ctx, or the zero Visitor.
func FromContext(ctx context.Context) Visitor {
	v, _ := ctx.Value(contextKey{}).(Visitor)
	return v
}

// FromRequest classifies r.
func FromRequest(r *http.Request) Visitor {
	v := Visitor{Platform: Classify(r.UserAgent())}
	if c, err := r.Cookie(IntroCookie); err == nil && c.Value == "1" {
		v.IntroPlayed = true
	}
	return v
}

// Middleware stores FromRequest(r) in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), FromRequest(r))))
	})
}

// MarkIntroPlayed sets the intro cookie for the rest of the browser session.
func MarkIntroPlayed(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     IntroCookie,
		Value:    "1",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Classify maps a User-Agent string to platform classes. Order is stable:
// operating system first, then browser, then input.
func Classify(ua string) []string {
	if strings.TrimSpace(ua) == "" {
		return nil
	}
	parsed := useragent.Parse(ua)
	var classes []string

	switch {
	case parsed.IsIOS():
		classes = append(classes, ClassIOS)
	case parsed.IsAndroid():
		classes = append(classes, ClassAndroid)
	case parsed.IsMacOS():
		classes = append(classes, ClassMac)
	case parsed.IsWindows():
		classes = append(classes, ClassWindows)
	}

	switch {
	case parsed.IsFirefox():
		classes = append(classes, ClassFirefox)
	case parsed.IsSafari():
		classes = append(classes, ClassSafari)
	}

	if parsed.Mobile || parsed.Tablet || parsed.IsIOS() || parsed.IsAndroid() {
		classes = append(classes, ClassTouch)
	}
	return classes
}
