package main

import (
	"flag"
	"os"

	"github.com/yigit/hostelhub/internal/bootstrap"
	"github.com/yigit/hostelhub/internal/pkg/logger"
	"github.com/yigit/hostelhub/internal/server"
)

// @title HostelHub API
// @version 1.0
// @description Hostel administration API: students, rooms, leave and maintenance requests, notices and attendance.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML config file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
