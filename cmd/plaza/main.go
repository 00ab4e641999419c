package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"chosenoffset.com/plaza/internal/assets"
	"chosenoffset.com/plaza/internal/config"
	"chosenoffset.com/plaza/internal/game"
	"chosenoffset.com/plaza/internal/logging"
	"chosenoffset.com/plaza/internal/net"
	ebitenrender "chosenoffset.com/plaza/internal/render/ebiten"
)

func main() {
	configPath := flag.String("config", "plaza.json", "path to the client config file")
	server := flag.String("server", "", "WebSocket server URL (overrides config)")
	username := flag.String("username", "", "name to join with (overrides config)")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.ServerURL = *server
	}
	if *username != "" {
		cfg.Username = *username
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, cleanup, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cleanup()

	if err := run(cfg, logger); err != nil {
		logger.Error("client exited", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	name := cfg.Identity(rng)

	// Initialize the renderer backend (ebiten)
	renderer, err := ebitenrender.NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	loader, err := assets.NewLoader(cfg.AssetBaseURL, cfg.Assets.MaxConcurrentLoads, cfg.AssetTimeout(), logger)
	if err != nil {
		return fmt.Errorf("asset loader: %w", err)
	}
	defer loader.Close()

	conn := net.NewManager(cfg.ServerURL, name, net.Options{
		PingInterval: cfg.PingInterval(),
		WriteTimeout: cfg.WriteTimeout(),
		SendBuffer:   cfg.Network.SendBuffer,
	}, logger)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn.Dial(ctx)

	g := game.NewGame(cfg, name, renderer, inputMgr, conn, loader, logger, rng)
	manager := game.NewManager(g, logger)
	manager.Start()

	// Set up the window
	engine.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	engine.SetWindowTitle(cfg.Window.Title + " - " + name)
	engine.SetWindowResizable(true)

	logger.Info("starting client",
		zap.String("server", cfg.ServerURL),
		zap.String("username", name),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height))
	if err := engine.RunGame(manager); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
