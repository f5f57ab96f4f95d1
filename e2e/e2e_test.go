package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayusman/handgrab/internal/app"
	"github.com/ayusman/handgrab/internal/detector"
	"github.com/ayusman/handgrab/internal/server"
	"github.com/ayusman/handgrab/internal/store"
	"github.com/ayusman/handgrab/internal/tracking"
)

func TestE2E_GrabThrowAndJournal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("store.NewMemory() error = %v", err)
	}
	defer s.Close()

	sessCfg := app.DefaultSessionConfig()
	sessCfg.Seed = 3
	sessCfg.Scene.ParticleCount = 1
	session := app.NewSession(sessCfg)
	p := session.Scene.Particles()[0]
	p.Position = mgl64.Vec3{}
	p.Velocity = mgl64.Vec3{}

	cfg := app.DefaultConfig()
	cfg.Store = s
	application := app.New(cfg, session)
	application.SetDetector(detector.NewMockDetector())
	defer application.Close()

	srv := server.New(server.Config{
		Store:     s,
		SessionID: session.ID,
		Hands:     application.Adapter(),
		Status:    application.Board(),
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	defer srv.Shutdown(context.Background())
	client := ts.Client()

	getJSON := func(t *testing.T, path string, v interface{}) {
		t.Helper()
		resp, err := client.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}

	t.Run("Grab", func(t *testing.T) {
		// The model labels the mirrored image, so "Left" is the user's right hand.
		application.Adapter().Ingest([]detector.HandLandmarks{detector.PinchLandmarks("Left", 0.5, 0.5)})
		application.Frame()

		if !p.Grabbed {
			t.Fatal("particle should be grabbed")
		}

		var st struct {
			Hands map[string]struct {
				Active   bool `json:"active"`
				Grabbing bool `json:"grabbing"`
			} `json:"hands"`
		}
		getJSON(t, "/api/status", &st)
		if !st.Hands["right"].Grabbing || st.Hands["left"].Active {
			t.Errorf("hands = %+v", st.Hands)
		}
	})

	t.Run("Throw", func(t *testing.T) {
		application.Adapter().Ingest([]detector.HandLandmarks{detector.PinchLandmarks("Left", 0.3, 0.5)})
		application.Frame()
		application.Adapter().Ingest(nil)
		application.Frame()

		if p.Grabbed {
			t.Fatal("particle should be released")
		}
		if p.Velocity.X() <= 0 {
			t.Errorf("thrown velocity = %v, want +x", p.Velocity)
		}
		if application.Session().Controller.Holding(tracking.Right) != nil {
			t.Error("right hand should hold nothing")
		}
	})

	t.Run("Journal", func(t *testing.T) {
		application.Close()

		var body struct {
			Session string `json:"session"`
			Stats   struct {
				Grabs    int            `json:"grabs"`
				Releases int            `json:"releases"`
				ByHand   map[string]int `json:"grabs_by_hand"`
			} `json:"stats"`
			Events []struct {
				Kind  string `json:"kind"`
				Hand  string `json:"hand"`
				Shape string `json:"shape"`
			} `json:"events"`
		}
		getJSON(t, "/api/events", &body)

		if body.Session != session.ID {
			t.Errorf("session = %q, want %q", body.Session, session.ID)
		}
		if body.Stats.Grabs != 1 || body.Stats.Releases != 1 || body.Stats.ByHand["right"] != 1 {
			t.Errorf("stats = %+v", body.Stats)
		}
		if len(body.Events) != 2 || body.Events[0].Kind != "release" {
			t.Fatalf("events = %+v", body.Events)
		}
		if body.Events[1].Shape != p.Shape.String() {
			t.Errorf("shape = %q, want %q", body.Events[1].Shape, p.Shape)
		}
	})
}
