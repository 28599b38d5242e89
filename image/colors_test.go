package image

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmuldo/kaleidoscope/palette"
)

func stripes(t *testing.T) *image.NRGBA {
	t.Helper()
	// 10x10: 7 red columns, 3 blue columns
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			c := color.NRGBA{R: 255, A: 255}
			if x >= 7 {
				c = color.NRGBA{B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{in: "", want: NoDither},
		{in: "nodither", want: NoDither},
		{in: "dither", want: Dither},
		{in: "median", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMethod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetColorsSkipsTransparent(t *testing.T) {
	img := stripes(t)
	img.Set(0, 0, color.NRGBA{})

	m := GetColors(img)
	if got := m[palette.Color{R: 255}]; got != 69 {
		t.Errorf("red count = %d, want 69", got)
	}
	if got := m[palette.Color{B: 255}]; got != 30 {
		t.Errorf("blue count = %d, want 30", got)
	}
	if len(m) != 2 {
		t.Errorf("GetColors() found %d colors, want 2", len(m))
	}
}

func TestRankColors(t *testing.T) {
	m := map[color.Color]int{
		palette.Color{R: 3}: 5,
		palette.Color{R: 1}: 9,
		palette.Color{R: 2}: 5,
	}

	got := RankColors(m)
	want := []palette.Color{{R: 1}, {R: 2}, {R: 3}}
	for i, w := range want {
		if got[i].Color != w {
			t.Errorf("RankColors()[%d] = %v, want %v", i, got[i].Color, w)
		}
	}
}

func TestQuantizerHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stripes.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, stripes(t)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	obs, err := NewQuantizer().Histogram(context.Background(), path, 2, NoDither)
	if err != nil {
		t.Fatalf("Histogram() error = %v", err)
	}
	if len(obs) == 0 {
		t.Fatal("Histogram() returned no observations")
	}

	total := 0
	for i, o := range obs {
		total += o.Count
		if i > 0 && obs[i-1].Count < o.Count {
			t.Errorf("observations not ranked: %d before %d", obs[i-1].Count, o.Count)
		}
	}
	if total != 100 {
		t.Errorf("total count = %d, want 100", total)
	}
}

func TestQuantizerHistogramErrors(t *testing.T) {
	q := NewQuantizer()

	if _, err := q.Histogram(context.Background(), "irrelevant.png", 0, NoDither); err == nil {
		t.Error("Histogram() with zero colors should fail")
	}
	if _, err := q.Histogram(context.Background(), filepath.Join(t.TempDir(), "missing.png"), 4, NoDither); err == nil {
		t.Error("Histogram() with missing file should fail")
	}
	if _, err := Load(context.Background(), ""); err == nil {
		t.Error("Load() with empty locator should fail")
	}
}
