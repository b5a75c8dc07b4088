package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	httpapi "github.com/Molza01/Communicaton-Web-App/internal/api/http"
	"github.com/Molza01/Communicaton-Web-App/internal/config"
	"github.com/Molza01/Communicaton-Web-App/internal/service"
	"github.com/Molza01/Communicaton-Web-App/lib/logger/slogpretty"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	roomService := service.NewRoomService(log)
	tokenService := service.NewTokenService(cfg.Token)

	signalingController := httpapi.NewSignalingController(roomService, tokenService, cfg, log)
	tokenController := httpapi.NewTokenController(tokenService)

	router := httpapi.SetupRouter(signalingController, tokenController, cfg)

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address), slog.String("env", cfg.Env))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
