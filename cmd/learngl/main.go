// Command learngl runs one of the configured OpenGL demos:
//
//	learngl [flags] <demo-id>
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"learngl/cmd/learngl/assets"
	"learngl/config"
	"learngl/core"
	"learngl/internal/opengl"
	"learngl/renderer"
	"learngl/scene"
	"learngl/textures"
)

func main() {
	var (
		configPath = flag.String("config", "", "demo definitions `file` (default: built in)")
		assetsDir  = flag.String("assets", "resources", "`directory` holding textures and models")
		watch      = flag.Bool("watch", false, "recompile shaders when their files change")
		list       = flag.Bool("list", false, "list the available demos and exit")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <demo-id>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, shaders, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	if *list {
		printDemos(os.Stdout, cfg)
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	demo, err := cfg.Demo(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\navailable demos:\n", err)
		printDemos(os.Stderr, cfg)
		os.Exit(2)
	}

	opts := runOptions{
		assets: renderer.Assets{
			Shaders: shaders,
			Dir:     *assetsDir,
			Cache:   textures.NewCache(),
			Logger:  slog.Default(),
		},
	}
	if *watch {
		if *configPath == "" {
			slog.Warn("-watch needs -config; built-in shaders cannot change")
		} else {
			opts.watchDir = cfg.Dir
		}
	}

	if err := run(windowConfig(cfg.Window), demo, opts); err != nil {
		slog.Error("demo failed", "demo", demo.ID, "error", err)
		os.Exit(1)
	}
}

// loadConfig returns the demo file and the file system its shader paths
// resolve in.
func loadConfig(path string) (*config.File, fs.FS, error) {
	if path == "" {
		data, err := assets.FS.ReadFile(assets.ConfigName)
		if err != nil {
			return nil, nil, err
		}
		cfg, err := config.Parse(data)
		if err != nil {
			return nil, nil, fmt.Errorf("built-in config: %w", err)
		}
		return cfg, assets.FS, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, os.DirFS(cfg.Dir), nil
}

func windowConfig(w config.Window) core.WindowConfig {
	return core.WindowConfig{
		Width:      w.Width,
		Height:     w.Height,
		Title:      w.Title,
		Resizable:  w.Resizable,
		VSync:      w.VSync,
		Fullscreen: w.Fullscreen,
	}
}

func printDemos(out *os.File, cfg *config.File) {
	for _, d := range cfg.Demos {
		fmt.Fprintf(out, "  %-8s %s\n", d.ID, d.Title)
	}
}

type runOptions struct {
	assets   renderer.Assets
	watchDir string // non-empty to watch shader sources under this directory
}

func run(wc core.WindowConfig, demo *config.Demo, opts runOptions) error {
	if demo.Title != "" {
		wc.Title = fmt.Sprintf("%s - %s %s", wc.Title, demo.ID, demo.Title)
	}
	window, err := core.NewWindow(wc)
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	slog.Info("opengl ready", "version", dev.Version(), "demo", demo.ID)

	fw, fh := window.GetFramebufferSize()
	dev.Viewport(int32(fw), int32(fh))
	window.OnResize = func(width, height int) {
		dev.Viewport(int32(width), int32(height))
	}

	s, err := renderer.Build(dev, demo, opts.assets)
	if err != nil {
		return err
	}
	defer s.Destroy()

	var look *scene.FreeLook
	if s.Camera != nil {
		look = scene.NewFreeLook(s.Camera)
		window.AttachFreeLook(look)
		window.CaptureCursor(true)
	}

	var changes <-chan string
	if opts.watchDir != "" {
		var paths []string
		for _, p := range s.ShaderPaths() {
			paths = append(paths, filepath.Join(opts.watchDir, p))
		}
		w, err := renderer.Watch(paths, slog.Default())
		if err != nil {
			slog.Warn("shader watch disabled", "error", err)
		} else {
			defer w.Close()
			changes = w.Changes
			slog.Info("watching shaders", "paths", paths)
		}
	}

	fps := newFrameCounter(window, wc.Title)
	start := window.Time()
	last := start
	var reloadKey keyPress
	for !window.ShouldClose() {
		now := window.Time()
		dt := float32(now - last)
		last = now

		if window.IsKeyPressed(core.KeyEscape) {
			window.Close()
		}
		if look != nil {
			look.Move(dt, window.HeldMovements()...)
		}

		reload := reloadKey.update(window.IsKeyPressed(core.KeyR))

		select {
		case path := <-changes:
			slog.Debug("shader changed", "path", path)
			reload = true
		default:
		}
		if reload {
			// Reload logs its own outcome.
			_ = s.Reload()
		}

		s.Frame(float32(now-start), window.Aspect())
		fps.tick(now)

		window.SwapBuffers()
		window.PollEvents()
	}
	return nil
}
