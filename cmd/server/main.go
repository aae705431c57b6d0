package main

import (
	"log"

	"github.com/campusgrid/studentportal/internal/bootstrap"
	"github.com/campusgrid/studentportal/internal/config"
	"github.com/campusgrid/studentportal/internal/server"
	"github.com/campusgrid/studentportal/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedDemoUsers(db); err != nil {
		log.Fatalf("failed to seed demo users: %v", err)
	}

	srv, err := server.New(cfg, db)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
