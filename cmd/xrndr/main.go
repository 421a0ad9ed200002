package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"xrndr/internal/app"
	"xrndr/internal/config"
	"xrndr/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "xrndr.json", "path to the JSON settings file")
	debug := flag.Bool("debug", false, "start with the debug overlay and verbose logging")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		// logger is not configured yet
		fmt.Fprintf(os.Stderr, "xrndr: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		settings.DebugMode = true
		settings.Verbose = true
	}
	config.Apply(settings)

	if err := logger.Init(settings.Verbose); err != nil {
		fmt.Fprintf(os.Stderr, "xrndr: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Log

	if err := run(settings, log); err != nil {
		log.Error("xrndr stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(settings config.Settings, log *zap.Logger) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := app.SetupWindow(settings.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	a, err := app.New(window, settings, log)
	if err != nil {
		return err
	}
	defer a.Release()

	log.Info("renderer started",
		zap.String("title", settings.Window.Title),
		zap.String("diagnostics", settings.DiagnosticsPolicy),
		zap.Bool("debugMode", config.GetDebugMode()),
		zap.Int("fpsLimit", config.GetFPSLimit()))
	a.Run()
	return nil
}
