package main

import (
	"fmt"
	"os"

	"github.com/armandusbasson/KSA-PSMS/internal/auth"
	"github.com/armandusbasson/KSA-PSMS/internal/config"
	"github.com/armandusbasson/KSA-PSMS/internal/db"
	"github.com/armandusbasson/KSA-PSMS/internal/excel"
	"github.com/armandusbasson/KSA-PSMS/internal/filestore"
	httphandler "github.com/armandusbasson/KSA-PSMS/internal/http"
	"github.com/armandusbasson/KSA-PSMS/internal/http/middleware"
	"github.com/armandusbasson/KSA-PSMS/internal/logger"
	"github.com/armandusbasson/KSA-PSMS/internal/pdf"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
	"github.com/armandusbasson/KSA-PSMS/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	files, err := filestore.New(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init file store")
	}

	siteRepo := repository.NewSiteRepository(database)
	staffRepo := repository.NewStaffRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	contractRepo := repository.NewContractRepository(database)
	meetingRepo := repository.NewMeetingRepository(database)
	userRepo := repository.NewUserRepository(database)

	registerGenerator := excel.NewGenerator()
	minutesGenerator := pdf.NewGenerator()

	tokenManager := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	siteService := service.NewSiteService(siteRepo, staffRepo)
	staffService := service.NewStaffService(staffRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, staffRepo, files, log)
	contractService := service.NewContractService(contractRepo, siteRepo, staffRepo, files, registerGenerator, log)
	meetingService := service.NewMeetingService(meetingRepo, siteRepo, staffRepo, minutesGenerator)
	authService := service.NewAuthService(userRepo, tokenManager)

	handlers := httphandler.Handlers{
		Auth:      httphandler.NewAuthHandler(authService, log),
		Sites:     httphandler.NewSiteHandler(siteService, log),
		Staff:     httphandler.NewStaffHandler(staffService, log),
		Vehicles:  httphandler.NewVehicleHandler(vehicleService, log),
		Contracts: httphandler.NewContractHandler(contractService, log),
		Meetings:  httphandler.NewMeetingHandler(meetingService, log),
	}
	authMiddleware := middleware.Auth(tokenManager)
	router := httphandler.NewRouter(cfg.Environment, log, files.Root(), handlers, authMiddleware)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting power station management service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
