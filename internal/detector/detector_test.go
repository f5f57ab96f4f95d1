package detector

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

const epsilon = 1e-9

func TestPoint3D_IsFinite(t *testing.T) {
	tests := []struct {
		name  string
		point Point3D
		want  bool
	}{
		{name: "zero", point: Point3D{}, want: true},
		{name: "normalized", point: Point3D{X: 0.4, Y: 0.9, Z: -0.02}, want: true},
		{name: "NaN x", point: Point3D{X: math.NaN()}, want: false},
		{name: "NaN z", point: Point3D{Z: math.NaN()}, want: false},
		{name: "+Inf y", point: Point3D{Y: math.Inf(1)}, want: false},
		{name: "-Inf z", point: Point3D{Z: math.Inf(-1)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.IsFinite(); got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandLandmarks_Finite(t *testing.T) {
	t.Run("all finite", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		if !hand.Finite() {
			t.Error("expected open palm preset to be finite")
		}
		if !hand.Finite(Wrist, ThumbTip, IndexTip, MiddleTip) {
			t.Error("expected selected landmarks to be finite")
		}
	})

	t.Run("NaN outside selection is ignored", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		hand.Points[PinkyTip].X = math.NaN()

		if hand.Finite() {
			t.Error("expected full check to fail")
		}
		if !hand.Finite(Wrist, ThumbTip, IndexTip, MiddleTip) {
			t.Error("expected selected landmarks to pass")
		}
	})

	t.Run("NaN inside selection fails", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		hand.Points[ThumbTip].Y = math.Inf(1)

		if hand.Finite(Wrist, ThumbTip) {
			t.Error("expected selection containing thumb tip to fail")
		}
	})

	t.Run("out of range index fails", func(t *testing.T) {
		hand := OpenPalmLandmarks()
		if hand.Finite(NumLandmarks) {
			t.Error("expected out of range index to fail")
		}
	})

	t.Run("nil hand is not finite", func(t *testing.T) {
		var hand *HandLandmarks
		if hand.Finite() {
			t.Error("expected nil hand to report not finite")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()

		expectedHands := []HandLandmarks{
			PinchLandmarks(HandednessLeft, 0.5, 0.5),
			OpenPalmLandmarks(),
		}
		mock.SetHands(expectedHands)

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("Close returns nil", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Close(); err != nil {
			t.Errorf("expected Close to return nil, got %v", err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPinchLandmarks(t *testing.T) {
	landmarks := PinchLandmarks(HandednessRight, 0.3, 0.6)

	t.Run("keeps handedness", func(t *testing.T) {
		if landmarks.Handedness != HandednessRight {
			t.Errorf("expected handedness Right, got %s", landmarks.Handedness)
		}
	})

	t.Run("palm center is at the requested point", func(t *testing.T) {
		ids := []int{Wrist, ThumbTip, IndexTip, MiddleTip}
		var x, y float64
		for _, id := range ids {
			x += landmarks.Points[id].X
			y += landmarks.Points[id].Y
		}
		x /= 4
		y /= 4

		if math.Abs(x-0.3) > epsilon {
			t.Errorf("palm X = %f, want 0.3", x)
		}
		if math.Abs(y-0.6) > epsilon {
			t.Errorf("palm Y = %f, want 0.6", y)
		}
	})

	t.Run("thumb and index tips are pinched", func(t *testing.T) {
		thumb := landmarks.Points[ThumbTip]
		index := landmarks.Points[IndexTip]
		d := math.Hypot(thumb.X-index.X, thumb.Y-index.Y)
		if d >= 0.1 {
			t.Errorf("pinch distance = %f, want < 0.1", d)
		}
	})
}

func TestOpenPalmLandmarks(t *testing.T) {
	landmarks := OpenPalmLandmarks()

	t.Run("has correct handedness and score", func(t *testing.T) {
		if landmarks.Handedness != HandednessRight {
			t.Errorf("expected handedness Right, got %s", landmarks.Handedness)
		}
		if landmarks.Score < 0.9 {
			t.Errorf("expected score >= 0.9, got %f", landmarks.Score)
		}
	})

	t.Run("thumb and index tips are apart", func(t *testing.T) {
		thumb := landmarks.Points[ThumbTip]
		index := landmarks.Points[IndexTip]
		d := math.Sqrt(math.Pow(thumb.X-index.X, 2) + math.Pow(thumb.Y-index.Y, 2) + math.Pow(thumb.Z-index.Z, 2))
		if d < 0.1 {
			t.Errorf("pinch distance = %f, want >= 0.1", d)
		}
	})

	t.Run("all fingers are extended", func(t *testing.T) {
		minExtension := 0.2

		for _, pair := range [][2]int{{IndexMCP, IndexTip}, {MiddleMCP, MiddleTip}, {RingMCP, RingTip}, {PinkyMCP, PinkyTip}} {
			extension := landmarks.Points[pair[0]].Y - landmarks.Points[pair[1]].Y
			if extension < minExtension {
				t.Errorf("landmark %d not extended enough (extension: %f), expected >= %f", pair[1], extension, minExtension)
			}
		}
	})
}

func TestConfig_Args(t *testing.T) {
	args := DefaultConfig().Args()

	want := []string{
		"--max-hands", "2",
		"--min-detection-confidence", "0.7",
		"--min-tracking-confidence", "0.5",
		"--model-complexity", "1",
	}

	if len(args) != len(want) {
		t.Fatalf("Args() returned %d values, want %d", len(args), len(want))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("Args()[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestMediaPipeDetector_EmptyFrame(t *testing.T) {
	d := &MediaPipeDetector{config: DefaultConfig(), idleTimeout: DefaultIdleTimeout}

	if _, err := d.Detect(nil); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Detect(nil) error = %v, want %v", err, ErrEmptyFrame)
	}
	if d.started {
		t.Error("detector should not start a process for an empty frame")
	}
}

func TestNewMediaPipeDetector_MissingScript(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScriptPath = "/nonexistent/mediapipe_service.py"

	if _, err := NewMediaPipeDetector(cfg); !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("NewMediaPipeDetector() error = %v, want %v", err, ErrScriptNotFound)
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0x01, 0x02, 0xff, 0xd9}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	got := buf.Bytes()
	if n := binary.BigEndian.Uint32(got[:4]); n != uint32(len(payload)) {
		t.Errorf("length prefix = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(got[4:], payload) {
		t.Errorf("payload = %x, want %x", got[4:], payload)
	}
}

// handJSON builds a response hand with n points at (x, y, 0).
func handJSON(label string, n int, x, y float64) string {
	points := make([]string, n)
	for i := range points {
		points[i] = fmt.Sprintf(`{"x":%g,"y":%g,"z":0}`, x, y)
	}
	return fmt.Sprintf(`{"points":[%s],"handedness":%q,"score":0.9}`, strings.Join(points, ","), label)
}

func TestReadHands(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantHands []string
		wantErr   error
	}{
		{
			name:      "no hands",
			line:      `{"hands":[]}`,
			wantHands: []string{},
		},
		{
			name:      "two hands",
			line:      fmt.Sprintf(`{"hands":[%s,%s]}`, handJSON("Left", 21, 0.2, 0.3), handJSON("Right", 21, 0.7, 0.4)),
			wantHands: []string{"Left", "Right"},
		},
		{
			name:      "incomplete hand dropped",
			line:      fmt.Sprintf(`{"hands":[%s,%s]}`, handJSON("Left", 5, 0.2, 0.3), handJSON("Right", 21, 0.7, 0.4)),
			wantHands: []string{"Right"},
		},
		{
			name:    "service error",
			line:    `{"hands":[],"error":"bad image"}`,
			wantErr: ErrService,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := readHands(bufio.NewReader(strings.NewReader(tt.line + "\n")))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("readHands() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readHands() error = %v", err)
			}
			if len(hands) != len(tt.wantHands) {
				t.Fatalf("got %d hands, want %d", len(hands), len(tt.wantHands))
			}
			for i, label := range tt.wantHands {
				if hands[i].Handedness != label {
					t.Errorf("hand %d handedness = %q, want %q", i, hands[i].Handedness, label)
				}
				if hands[i].Points[IndexTip].X == 0 {
					t.Errorf("hand %d points not decoded", i)
				}
			}
		})
	}
}

func TestReadHands_Malformed(t *testing.T) {
	if _, err := readHands(bufio.NewReader(strings.NewReader("not json\n"))); err == nil {
		t.Error("expected a parse error")
	}
	if _, err := readHands(bufio.NewReader(strings.NewReader(""))); err == nil {
		t.Error("expected a read error on EOF")
	}
}
