package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/roysafi/poll/internal/adapters/repository/postgres"
	"github.com/roysafi/poll/internal/config"
)

func main() {
	cfg, fs, err := config.Load("migrations", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if err := cfg.Database.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if fs.NArg() == 0 {
		if err := postgres.ApplyMigrations(ctx, db); err != nil {
			log.Fatal(err)
		}
		fmt.Println("All migrations applied successfully.")
		return
	}

	for _, name := range fs.Args() {
		file, content, err := postgres.MigrationContent(name)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			log.Fatalf("Failed to execute %s: %v", file, err)
		}
		fmt.Printf("Migration file %s executed successfully.\n", file)
	}
}
