package visitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaMacSaf  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
	uaMacCr   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaWinFF   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0"
	uaLinuxCr = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaWinEdge = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want []string
	}{
		{"iphone safari", uaIPhone, []string{ClassIOS, ClassSafari, ClassTouch}},
		{"android chrome", uaAndroid, []string{ClassAndroid, ClassTouch}},
		{"mac safari", uaMacSaf, []string{ClassMac, ClassSafari}},
		{"mac chrome", uaMacCr, []string{ClassMac}},
		{"windows firefox", uaWinFF, []string{ClassWindows, ClassFirefox}},
		{"windows edge", uaWinEdge, []string{ClassWindows}},
		{"linux chrome", uaLinuxCr, nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Classify(tt.ua)); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	var got Visitor
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", uaMacSaf)
	req.AddCookie(&http.Cookie{Name: IntroCookie, Value: "1"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !got.IntroPlayed {
		t.Error("expected IntroPlayed from cookie")
	}
	if !got.HasClass(ClassMac) || got.HasClass(ClassIOS) {
		t.Errorf("unexpected platform classes %v", got.Platform)
	}
	if got.ClassList() != "is-mac is-safari" {
		t.Errorf("ClassList() = %q", got.ClassList())
	}
}

func TestMiddleware_NoCookie(t *testing.T) {
	var got Visitor
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: IntroCookie, Value: "0"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got.IntroPlayed {
		t.Error("expected IntroPlayed=false for unexpected cookie value")
	}
}

func TestFromContext_Empty(t *testing.T) {
	v := FromContext(context.Background())
	if v.IntroPlayed || len(v.Platform) != 0 {
		t.Errorf("expected zero visitor, got %+v", v)
	}
}

func TestMarkIntroPlayed(t *testing.T) {
	rec := httptest.NewRecorder()
	MarkIntroPlayed(rec, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != IntroCookie || c.Value != "1" || c.Path != "/" {
		t.Errorf("unexpected cookie %+v", c)
	}
	if c.MaxAge != 0 || !c.Expires.IsZero() {
		t.Error("expected a session cookie")
	}
	if !c.Secure || !c.HttpOnly {
		t.Error("expected Secure and HttpOnly")
	}
}
