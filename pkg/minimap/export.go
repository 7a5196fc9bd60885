package minimap

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

// SnapshotOptions controls minimap snapshot export.
type SnapshotOptions struct {
	Path      string  // Output path; format inferred from extension when Format empty
	Format    string  // "svg" or "png" (case-insensitive)
	Title     string  // Optional title drawn above the strip
	Width     int     // Strip width in pixels (default 600)
	RowHeight int     // Height of one row in pixels (default 14)
	Length    int     // Timeline length in frames; sets the pixel scale
	Entries   []Entry // Rows to draw; their segments are rescaled to Width
}

const (
	snapshotMargin = 16
	snapshotLabelW = 140
	snapshotHeader = 28
)

var (
	colorBackdrop = color.RGBA{R: 0x1a, G: 0x1b, B: 0x26, A: 0xff}
	colorTrack    = color.RGBA{R: 0x24, G: 0x28, B: 0x3b, A: 0xff}
	colorText     = color.RGBA{R: 0xc0, G: 0xca, B: 0xf5, A: 0xff}
	colorSelected = color.RGBA{R: 0xff, G: 0x9e, B: 0x64, A: 0xff}
	colorFallback = color.RGBA{R: 0x7a, G: 0xa2, B: 0xf7, A: 0xff}
)

type snapshotLayout struct {
	width, height int
	stripX        int
	stripW        int
	rowH          int
	scale         float64
}

// SaveSnapshot renders the minimap rows to an SVG or PNG file.
func SaveSnapshot(opts SnapshotOptions) error {
	if len(opts.Entries) == 0 {
		return fmt.Errorf("no minimap rows to export")
	}
	if opts.Length <= 0 {
		return fmt.Errorf("timeline length must be positive, got %d", opts.Length)
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		opts.Path = "minimap." + format
	}

	layout := layoutSnapshot(opts)
	if format == "png" {
		return renderPNG(opts, layout)
	}
	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()
	return renderSVG(f, opts, layout)
}

func layoutSnapshot(opts SnapshotOptions) snapshotLayout {
	w := opts.Width
	if w <= 0 {
		w = 600
	}
	rowH := opts.RowHeight
	if rowH <= 0 {
		rowH = 14
	}
	return snapshotLayout{
		width:  snapshotMargin*2 + snapshotLabelW + w,
		height: snapshotMargin*2 + snapshotHeader + rowH*len(opts.Entries),
		stripX: snapshotMargin + snapshotLabelW,
		stripW: w,
		rowH:   rowH,
		scale:  float64(w) / float64(opts.Length),
	}
}

// span maps a segment onto the snapshot strip, ignoring the scale it was
// computed at.
func (l snapshotLayout) span(seg Segment) (x, w float64) {
	x = float64(l.stripX) + float64(seg.StartFrame)*l.scale
	w = float64(seg.EndFrame-seg.StartFrame) * l.scale
	if seg.Open {
		w = float64(l.stripX+l.stripW) - x
	}
	return x, max(w, 1)
}

func (l snapshotLayout) rowY(i int) int {
	return snapshotMargin + snapshotHeader + i*l.rowH
}

func renderPNG(opts SnapshotOptions, l snapshotLayout) error {
	dc := gg.NewContext(l.width, l.height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if opts.Title != "" {
		dc.SetColor(colorText)
		dc.DrawString(opts.Title, snapshotMargin, snapshotMargin+13)
	}

	for i, e := range opts.Entries {
		y := float64(l.rowY(i))
		dc.SetColor(colorTrack)
		dc.DrawRectangle(float64(l.stripX), y+1, float64(l.stripW), float64(l.rowH-2))
		dc.Fill()

		label := colorText
		if e.Selected {
			label = colorSelected
		}
		dc.SetColor(label)
		dc.DrawString(truncate(e.ID, snapshotLabelW/7-1), snapshotMargin, y+float64(l.rowH)-3)

		dc.SetColor(parseColor(e.Color))
		for _, seg := range e.Lifespans {
			x, w := l.span(seg)
			dc.DrawRectangle(x, y+2, w, float64(l.rowH-4))
			dc.Fill()
		}
	}
	return dc.SavePNG(opts.Path)
}

func renderSVG(w io.Writer, opts SnapshotOptions, l snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(l.width, l.height)
	canvas.Rect(0, 0, l.width, l.height, "fill:"+css(colorBackdrop))

	if opts.Title != "" {
		canvas.Text(snapshotMargin, snapshotMargin+13, opts.Title,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	}

	for i, e := range opts.Entries {
		y := l.rowY(i)
		canvas.Rect(l.stripX, y+1, l.stripW, l.rowH-2, "fill:"+css(colorTrack))

		label := colorText
		if e.Selected {
			label = colorSelected
		}
		canvas.Text(snapshotMargin, y+l.rowH-3, truncate(e.ID, snapshotLabelW/7-1),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(label)))

		fill := css(parseColor(e.Color))
		for _, seg := range e.Lifespans {
			x, sw := l.span(seg)
			canvas.Rect(int(x), y+2, int(sw), l.rowH-4, "fill:"+fill)
		}
	}

	canvas.End()
	return nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// parseColor accepts #rgb and #rrggbb; anything else gets the fallback color.
func parseColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return colorFallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return colorFallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
