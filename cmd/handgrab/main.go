package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ayusman/handgrab/internal/app"
	"github.com/ayusman/handgrab/internal/audio"
	"github.com/ayusman/handgrab/internal/config"
	"github.com/ayusman/handgrab/internal/render"
	"github.com/ayusman/handgrab/internal/server"
	"github.com/ayusman/handgrab/internal/status"
	"github.com/ayusman/handgrab/internal/store"
	"github.com/ayusman/handgrab/internal/tray"
)

func init() {
	// raylib needs every call on the thread that created the window.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to an INI configuration file")
	writeExample := flag.Bool("example-config", false, "print an example configuration file and exit")
	flag.Parse()

	if *writeExample {
		fmt.Print(config.ExampleFile)
		return
	}

	fmt.Println("handgrab - grab floating shapes with your hands")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	win := render.Open(cfg.RenderConfig())
	defer win.Close()
	width, height := win.Size()

	session := app.NewSession(app.SessionConfig{
		Scene:       cfg.SceneConfig(),
		Interaction: cfg.InteractionConfig(),
		Physics:     cfg.PhysicsConfig(),
		Width:       width,
		Height:      height,
		Seed:        cfg.Scene.Seed,
	})
	log.Printf("Session %s with %d particles", session.ID, len(session.Scene.Particles()))

	a := app.New(app.Config{
		Camera:       cfg.CaptureConfig(),
		Detector:     cfg.DetectorConfig(),
		Tracking:     cfg.TrackingConfig(),
		Store:        st,
		ReadyTimeout: status.DefaultReadyTimeout,
	}, session)
	defer a.Close()

	if cfg.Camera.Enabled {
		if err := a.Start(); err != nil {
			log.Printf("Hand tracking unavailable: %v", err)
		}
	} else {
		a.Board().Fail(status.MsgTrackingOff)
	}

	cues := audio.NewCues(cfg.AudioConfig())
	if cfg.Audio.Enabled {
		if err := cues.Initialize(); err != nil {
			log.Printf("Audio cues disabled: %v", err)
		} else {
			session.Controller.OnEvent(cues.Handle)
			defer cues.Close()
		}
	}

	var srv *server.Server
	if cfg.Server.Enabled {
		srv = server.New(server.Config{
			StaticDir: findWebDir(cfg.Server.StaticDir),
			Store:     st,
			SessionID: session.ID,
			Preview:   a.Preview(),
			Hands:     a.Adapter(),
			Status:    a.Board(),
		})
		go func() {
			log.Printf("Starting server on %s", cfg.Server.Addr)
			if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("Server shutdown: %v", err)
			}
		}()
	}

	var quit atomic.Bool
	if cfg.Tray.Enabled {
		t := tray.New()
		t.OnToggle(a.SetEnabled)
		t.OnQuit(func() { quit.Store(true) })
		if srv != nil {
			url := "http://" + cfg.Server.Addr
			t.OnOpenStatus(func() { openBrowser(url) })
		}
		session.Controller.OnEvent(t.SetLastEvent)
		t.Start()
		defer t.Stop()
	}

	for !win.ShouldClose() && !quit.Load() {
		if win.Resized() {
			session.Resize(win.Size())
		}
		a.Frame()

		win.BeginFrame()
		session.Render(win)
		win.DrawStatus(a.Board().View())
		win.EndFrame()
	}

	log.Println("Shutting down")
}

// findWebDir returns dir if it exists, otherwise the first "web" directory
// found relative to the working directory, or "" when there is none.
func findWebDir(dir string) string {
	candidates := []string{"web", "../web", "../../web"}
	if dir != "" {
		candidates = []string{dir}
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open %s: %v", url, err)
	}
}
