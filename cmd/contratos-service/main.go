package main

import (
	"fmt"
	"os"

	"github.com/nurpe/contratos-service/internal/config"
	httphandler "github.com/nurpe/contratos-service/internal/http"
	"github.com/nurpe/contratos-service/internal/logger"
	"github.com/nurpe/contratos-service/internal/service"
	"github.com/nurpe/contratos-service/internal/sheet"
	"github.com/nurpe/contratos-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	codec := sheet.NewCodec(sheet.DefaultColumnMap())

	if cfg.Workbook.Bootstrap {
		if err := store.EnsureWorkbook(cfg.Workbook.Path, cfg.Workbook.Sheet, codec); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap workbook")
		}
	}

	workbook, err := store.Open(cfg.Workbook.Path, cfg.Workbook.Sheet, codec, cfg.Workbook.LockWait, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open workbook")
	}
	defer workbook.Close()

	contractService := service.NewContractService(workbook, log)
	handler := httphandler.NewHandler(contractService, log)
	router := httphandler.NewRouter(handler, log, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Str("workbook", cfg.Workbook.Path).Str("sheet", cfg.Workbook.Sheet).Msg("starting contratos service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
