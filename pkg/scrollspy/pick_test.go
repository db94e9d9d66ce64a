package scrollspy

import "testing"

func TestPick(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		anchor   float64
		want     string
		wantOK   bool
	}{
		{
			name:   "empty",
			anchor: 405,
		},
		{
			name: "anchor inside padded bounds",
			sections: []Section{
				{Key: "hero", Rect: Rect{Top: -800, Bottom: 100}},
				{Key: "about", Rect: Rect{Top: 100, Bottom: 900}},
				{Key: "work", Rect: Rect{Top: 900, Bottom: 1800}},
			},
			anchor: 405,
			want:   "about",
			wantOK: true,
		},
		{
			name: "anchor inside safe zone falls back to nearest edge",
			sections: []Section{
				{Key: "a", Rect: Rect{Top: -500, Bottom: 400}},
				{Key: "b", Rect: Rect{Top: 400, Bottom: 1200}},
			},
			// 5px below the boundary: inside neither padded rect.
			anchor: 405,
			want:   "a",
			wantOK: true,
		},
		{
			name: "padded bounds are inclusive",
			sections: []Section{
				{Key: "a", Rect: Rect{Top: -500, Bottom: 400}},
				{Key: "b", Rect: Rect{Top: 381, Bottom: 1200}},
			},
			anchor: 405,
			want:   "b",
			wantOK: true,
		},
		{
			name: "above first section",
			sections: []Section{
				{Key: "a", Rect: Rect{Top: 600, Bottom: 1000}},
				{Key: "b", Rect: Rect{Top: 1000, Bottom: 1600}},
			},
			anchor: 405,
			want:   "a",
			wantOK: true,
		},
		{
			name: "below last section",
			sections: []Section{
				{Key: "a", Rect: Rect{Top: -1600, Bottom: -1000}},
				{Key: "b", Rect: Rect{Top: -1000, Bottom: 200}},
			},
			anchor: 405,
			want:   "b",
			wantOK: true,
		},
		{
			name: "tie resolves to earliest",
			sections: []Section{
				{Key: "a", Rect: Rect{Top: -300, Bottom: 305}},
				{Key: "b", Rect: Rect{Top: 505, Bottom: 900}},
			},
			anchor: 405,
			want:   "a",
			wantOK: true,
		},
		{
			name: "overlapping sections resolve to earliest",
			sections: []Section{
				{Key: "a", Rect: Rect{Top: 0, Bottom: 900}},
				{Key: "b", Rect: Rect{Top: 200, Bottom: 700}},
			},
			anchor: 405,
			want:   "a",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pick(tt.sections, tt.anchor, DefaultSafeZone)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Pick() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPick_AlwaysReturnsGivenKey(t *testing.T) {
	sections := []Section{
		{Key: "a", Rect: Rect{Top: 0, Bottom: 300}},
		{Key: "b", Rect: Rect{Top: 300, Bottom: 310}},
		{Key: "c", Rect: Rect{Top: 310, Bottom: 2000}},
	}
	valid := map[string]bool{"a": true, "b": true, "c": true}

	for anchor := -3000.0; anchor <= 3000; anchor += 7 {
		key, ok := Pick(sections, anchor, DefaultSafeZone)
		if !ok || !valid[key] {
			t.Fatalf("Pick(anchor=%v) = (%q, %v)", anchor, key, ok)
		}
	}
}
