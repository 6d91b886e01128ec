package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "github.com/dasarathijena330-bit/hamara/internal/adapter/http"
	appmw "github.com/dasarathijena330-bit/hamara/internal/adapter/middleware"
	"github.com/dasarathijena330-bit/hamara/internal/adapter/repository/sqldb"
	"github.com/dasarathijena330-bit/hamara/internal/config"
	"github.com/dasarathijena330-bit/hamara/internal/infrastructure/cache"
	"github.com/dasarathijena330-bit/hamara/internal/infrastructure/db"
	loanuc "github.com/dasarathijena330-bit/hamara/internal/usecase/loan"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	uc := loanuc.NewUsecase(sqldb.NewLoanRepository(gdb))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover(), middleware.RequestID(), middleware.CORS())

	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		e.Use(appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	}

	e.GET("/health", httpadp.NewHandler().Health)
	httpadp.NewLoanHandler(uc).Register(e)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
