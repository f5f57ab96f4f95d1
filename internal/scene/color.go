package scene

// Color is a 24-bit 0xRRGGBB colour.
type Color uint32

// Named colours used by the scene and the hand cursors.
const (
	White  Color = 0xffffff
	Purple Color = 0xa78bfa
	Blue   Color = 0x60a5fa
	Green  Color = 0x34d399
	Yellow Color = 0xfbbf24
	Red    Color = 0xf87171
	Pink   Color = 0xf472b6
	Cyan   Color = 0x38bdf8
)

// Palette is the set of base colours particles are drawn from.
var Palette = []Color{Purple, Blue, Green, Yellow, Red, Pink, Cyan}

// RGB returns the channels scaled to [0,1].
func (c Color) RGB() (r, g, b float64) {
	return float64(c>>16&0xff) / 255, float64(c>>8&0xff) / 255, float64(c&0xff) / 255
}

// RGBA is a linear colour with alpha, all channels in [0,1].
type RGBA struct {
	R, G, B, A float64
}

// Opaque converts a Color to a fully opaque RGBA.
func (c Color) Opaque() RGBA {
	r, g, b := c.RGB()
	return RGBA{R: r, G: g, B: b, A: 1}
}

// WithAlpha returns the colour with alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = clamp01(a)
	return c
}

// Bytes returns the colour as 8-bit channels.
func (c RGBA) Bytes() (r, g, b, a uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
}

func toByte(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
