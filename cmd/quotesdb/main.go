// Command quotesdb applies the quote database migrations and exits. It reads
// the same configuration as the wizard and only needs the database DSN.
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/quotewizard/internal/backend/repositories/repomanager"
	"github.com/dmitrijs2005/quotewizard/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}
	if cfg.DatabaseDSN == "" {
		log.Fatalf("no database configured: set -dsn or QUOTES_DATABASE_DSN")
	}

	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	log.Printf("quote database is up to date")

}
