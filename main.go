package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"nonprofit-assistant/analysis"
	"nonprofit-assistant/attachment"
	"nonprofit-assistant/catalog"
	"nonprofit-assistant/db"
	"nonprofit-assistant/llm"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/session"
	"nonprofit-assistant/transcript"
	"nonprofit-assistant/ui"
	"nonprofit-assistant/utils"
)

var (
	version = "0.1.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("NonProfit Assistant v%s\n", version)
		os.Exit(0)
	}

	// A missing .env is normal; keys may come from the real environment
	_ = godotenv.Load()

	// Initialize logger
	logger, err := utils.NewLogger(utils.GetLogPath())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting NonProfit Assistant v%s", version)

	// Load or create default configuration
	actualConfigPath := *configPath
	if actualConfigPath == "" {
		actualConfigPath, err = utils.EnsureDefaultConfig()
		if err != nil {
			logger.Error("Failed to create default config: %v", err)
			os.Exit(1)
		}
	}
	logger.Info("Using config file: %s", actualConfigPath)

	config, err := utils.LoadConfig(actualConfigPath)
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Initialize storage
	kv, err := db.Open(config.Data.Backend, utils.ExpandPath(config.Data.Path))
	if err != nil {
		logger.Error("Failed to initialize storage: %v", err)
		os.Exit(1)
	}
	defer kv.Close()

	logger.Info("Storage initialized: %s (%s)", config.Data.Path, config.Data.Backend)

	// The gateway may start unconfigured; settings can install one later
	gateway := llm.NewSwitch(nil)
	if g, err := llm.New(context.Background(), llm.ConfigFrom(config.AI)); err != nil {
		logger.Warn("AI provider %s not configured: %v", config.AI.Provider, err)
	} else {
		gateway.Set(g)
		logger.Info("%s provider initialized successfully", config.AI.Provider)
	}

	templates, err := catalog.Builtin()
	if err != nil {
		logger.Error("Failed to load template catalog: %v", err)
		os.Exit(1)
	}

	reader := attachment.NewFileReader(attachment.DefaultMaxFileSize)
	chat := transcript.NewStore(kv, gateway, logger)
	engine := catalog.NewEngine(templates, logger)
	workspace := analysis.NewWorkspace(reader, logger)
	sess := session.New(kv, chat, logger)

	if l, err := locale.Parse(config.UI.Locale); err == nil {
		if err := sess.SetLocale(l); err != nil {
			logger.Warn("Failed to apply locale: %v", err)
		}
	}
	if t, err := session.ParseTheme(config.UI.Theme); err == nil {
		if err := sess.SetTheme(t); err != nil {
			logger.Warn("Failed to apply theme: %v", err)
		}
	}
	if err := sess.Restore(); err != nil {
		logger.Error("Failed to restore session: %v", err)
	}

	// Create and run application
	app := ui.NewApp(config, actualConfigPath, ui.Services{
		Gateway:   gateway,
		Session:   sess,
		Chat:      chat,
		Engine:    engine,
		Workspace: workspace,
		Reader:    reader,
		Camera:    attachment.SystemCamera(config.Scanner.Device),
	}, logger)
	defer app.Cleanup()

	logger.Info("Application started")
	app.Run()
	logger.Info("Application stopped")
}
