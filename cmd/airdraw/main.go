package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/airdraw/internal/app"
	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/control"
	"github.com/ayusman/airdraw/internal/display"
	"github.com/ayusman/airdraw/internal/mode"
	"github.com/ayusman/airdraw/internal/server"
	"github.com/ayusman/airdraw/internal/store"
	"github.com/ayusman/airdraw/internal/tray"
)

// Run modes.
const (
	modeWindow   = "window"
	modeTray     = "tray"
	modeHeadless = "headless"
)

type options struct {
	cameraID int
	width    int
	height   int
	noMirror bool
	cooldown int
	output   string
	dbPath   string
	addr     string
	runMode  string
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("airdraw", flag.ContinueOnError)
	fs.IntVar(&opts.cameraID, "camera", 0, "camera device id")
	fs.IntVar(&opts.width, "width", capture.DefaultWidth, "requested frame width")
	fs.IntVar(&opts.height, "height", capture.DefaultHeight, "requested frame height")
	fs.BoolVar(&opts.noMirror, "no-mirror", false, "do not flip frames horizontally")
	fs.IntVar(&opts.cooldown, "cooldown", mode.DefaultCooldownFrames, "frames to wait after a mode change")
	fs.StringVar(&opts.output, "output", app.DefaultOutputPath, "where to save the drawing on exit")
	fs.StringVar(&opts.dbPath, "db", "", "session log database (default ~/.airdraw/airdraw.db)")
	fs.StringVar(&opts.addr, "addr", ":8080", "HTTP listen address, empty to disable")
	fs.StringVar(&opts.runMode, "mode", modeWindow, "window, tray or headless")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch opts.runMode {
	case modeWindow, modeTray, modeHeadless:
	default:
		return opts, fmt.Errorf("unknown mode %q", opts.runMode)
	}
	return opts, nil
}

func main() {
	fmt.Println("airdraw - Gesture Drawing")

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid arguments: %v", err)
	}

	if err := run(opts); err != nil {
		log.Fatalf("airdraw failed: %v", err)
	}
}

func run(opts options) error {
	// Initialize the store
	dbPath := opts.dbPath
	if dbPath == "" {
		dataDir, err := dataDir()
		if err != nil {
			return err
		}
		dbPath = filepath.Join(dataDir, "airdraw.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	application := app.New(app.Config{
		Store:          st,
		CameraID:       opts.cameraID,
		Width:          opts.width,
		Height:         opts.height,
		DisableMirror:  opts.noMirror,
		CooldownFrames: opts.cooldown,
		OutputPath:     opts.output,
	})

	frames := server.NewFrameHub()
	state := server.NewStateHub()
	application.AddSink(frames)
	application.AddObserver(state)

	if opts.addr != "" {
		webDir := findWebDir()
		if webDir != "" {
			fmt.Printf("Serving static files from: %s\n", webDir)
		}

		srv := server.New(server.Config{
			StaticDir: webDir,
			Store:     st,
			Frames:    frames,
			State:     state,
			Commands:  application.Commands(),
		})

		go func() {
			fmt.Printf("Starting server on %s\n", opts.addr)
			if err := srv.ListenAndServe(opts.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch opts.runMode {
	case modeTray:
		return runTray(ctx, application, previewURL(opts.addr))
	case modeWindow:
		application.AddSink(display.NewWindow(display.DefaultWindowName))
	}

	// OpenCV windows must be driven from the main goroutine.
	return application.Run(ctx)
}

// runTray runs the tray on the main goroutine and the pipeline beside it.
// Quitting from the tray waits for the drawing to be saved.
func runTray(ctx context.Context, application *app.App, preview string) error {
	t := tray.New()
	t.OnClear(func() { application.Send(control.Clear) })
	t.OnQuit(func() { application.Send(control.Quit) })
	if preview != "" {
		t.OnPreview(func() {
			if err := openBrowser(preview); err != nil {
				log.Printf("Failed to open preview: %v", err)
			}
		})
	}
	application.AddObserver(t)

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run(ctx)
		t.Stop()
	}()

	t.Run()
	return <-errCh
}

// dataDir returns ~/.airdraw, creating it if needed.
func dataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".airdraw")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// previewURL returns the browser URL of the MJPEG stream for addr.
func previewURL(addr string) string {
	if addr == "" {
		return ""
	}
	host := addr
	if host[0] == ':' {
		host = "localhost" + host
	}
	return "http://" + host + "/api/stream"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.airdraw/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".airdraw", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
