package chart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/planner"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/resolve"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

func testPlan() *planner.Plan {
	times := visibility.DayGrid(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), time.UTC)
	mask := make(visibility.Mask, len(times))
	for i := 720; i < 780; i++ {
		mask[i] = true
	}
	return &planner.Plan{
		Date:  times[0],
		Times: times,
		Results: []planner.TargetResult{
			{Target: resolve.Target{Name: "Sun"}, Status: planner.StatusFound, Mask: mask},
			{Target: resolve.Target{Name: "Nowhere"}, Status: planner.StatusNotFound},
			{Target: resolve.Target{Name: "Dark"}, Status: planner.StatusNoVisibility, Mask: make(visibility.Mask, len(times))},
		},
	}
}

func TestFromPlan(t *testing.T) {
	c := FromPlan(testPlan(), "Ondrejov", nil)

	if c.Title != "Visibility at Ondrejov: 2025.03.14" {
		t.Errorf("title = %q", c.Title)
	}
	if len(c.Rows) != 3 {
		t.Fatalf("rows = %d", len(c.Rows))
	}
	if c.Rows[1].Note != planner.NotFoundPlain || c.Rows[2].Note != planner.NoVisibility || c.Rows[0].Note != "" {
		t.Errorf("notes = %q %q %q", c.Rows[0].Note, c.Rows[1].Note, c.Rows[2].Note)
	}
}

func TestRender(t *testing.T) {
	c := FromPlan(testPlan(), "Ondrejov", time.UTC)

	var buf bytes.Buffer
	if err := Render(&buf, c); err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != width || b.Dy() != marginTop+3*rowHeight+marginBottom {
		t.Fatalf("size = %v", b)
	}

	// 12:30 in the first row is shaded with the first palette color.
	plotW := width - marginLeft - marginRight
	x := marginLeft + plotW*750/1440
	y := marginTop + rowHeight/2
	r, g, bl, _ := img.At(x, y).RGBA()
	want := palette[0]
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(bl>>8) != want.B {
		t.Errorf("pixel at 12:30 = %d,%d,%d, want %v", r>>8, g>>8, bl>>8, want)
	}

	// 06:30 in the same row is background.
	x = marginLeft + plotW*390/1440
	if r, _, _, _ := img.At(x, y).RGBA(); uint8(r>>8) != 0xff {
		t.Errorf("pixel at 06:30 should be background, got red=%d", r>>8)
	}
}

func TestRenderShadeBand(t *testing.T) {
	img := paint(FromPlan(testPlan(), "Ondrejov", time.UTC))

	plotW := width - marginLeft - marginRight
	x := marginLeft + plotW*750/1440
	top := marginTop

	tests := []struct {
		name   string
		y      int
		shaded bool
	}{
		{"above band", top + shadeInset - 1, false},
		{"band top", top + shadeInset, true},
		{"band bottom", top + rowHeight - shadeInset - 1, true},
		{"below band", top + rowHeight - shadeInset, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := img.RGBAAt(x, tt.y) == palette[0]
			if got != tt.shaded {
				t.Errorf("pixel (%d,%d) = %v, shaded %v, want %v", x, tt.y, img.RGBAAt(x, tt.y), got, tt.shaded)
			}
		})
	}
}

func TestRenderTooFewTimes(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Chart{Times: []time.Time{time.Now()}}); err == nil {
		t.Fatal("expected error for a single timestamp")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), planner.ImageName(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)))
	if err := WriteFile(path, FromPlan(testPlan(), "Ondrejov", time.UTC)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}
