package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ayusman/handgrab/internal/scene"
	"github.com/ayusman/handgrab/internal/status"
	"github.com/ayusman/handgrab/internal/tracking"
)

const (
	fontSize      = 20
	padding       = 12
	indicatorSize = 14
)

// Indicator colours.
var (
	inactiveColor = scene.Color(0x9ca3af)
	textColor     = scene.Color(0x1f2937)
	panelColor    = scene.Color(0xf3f4f6)
)

// indicatorColor returns the colour of a hand indicator.
func indicatorColor(h tracking.Hand, ind status.HandIndicator) scene.Color {
	switch {
	case ind.Grabbing:
		return scene.Green
	case ind.Active && h == tracking.Left:
		return scene.Purple
	case ind.Active:
		return scene.Blue
	default:
		return inactiveColor
	}
}

// indicatorLabel returns the caption of a hand indicator.
func indicatorLabel(h tracking.Hand) string {
	if h == tracking.Left {
		return "Left Hand"
	}
	return "Right Hand"
}

// DrawStatus draws the status message at the top of the window and one
// indicator per hand in the bottom corners. Call it after End3D.
func (w *Window) DrawStatus(v status.View) {
	width, height := w.Size()

	if v.ShowMessage {
		textWidth := int(rl.MeasureText(v.Message, fontSize))
		x := (width - textWidth) / 2
		rl.DrawRectangle(int32(x-padding), int32(padding), int32(textWidth+2*padding), int32(fontSize+2*padding), fromColor(panelColor, 0.9))
		rl.DrawText(v.Message, int32(x), int32(2*padding), fontSize, fromColor(textColor, 1))
	}

	y := height - padding - fontSize
	for _, h := range tracking.Hands {
		label := indicatorLabel(h)
		labelWidth := int(rl.MeasureText(label, fontSize))
		x := padding
		if h == tracking.Right {
			x = width - padding - labelWidth - 2*indicatorSize
		}
		rl.DrawCircle(int32(x+indicatorSize/2), int32(y+fontSize/2), indicatorSize/2, fromColor(indicatorColor(h, v.Hands[h]), 1))
		rl.DrawText(label, int32(x+2*indicatorSize), int32(y), fontSize, fromColor(textColor, 1))
	}
}
