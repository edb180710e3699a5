package main

import (
	"flag"
	"log"

	"github.com/kmutai/sms-dispatch-service/environments"
	"github.com/kmutai/sms-dispatch-service/pkg/database"
)

func main() {
	reset := flag.Bool("reset", false, "delete existing delivery records before seeding")
	flag.Parse()

	cfg := environments.Load()

	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *reset {
		res, err := db.Exec("DELETE FROM sms_messages")
		if err != nil {
			log.Fatalf("Failed to reset delivery records: %v", err)
		}
		if deleted, err := res.RowsAffected(); err == nil {
			log.Printf("Deleted %d existing delivery records", deleted)
		}
	}

	if err := database.SeedTestData(db); err != nil {
		log.Fatalf("Failed to seed test data: %v", err)
	}

	var total int
	if err := db.Get(&total, "SELECT COUNT(*) FROM sms_messages"); err != nil {
		log.Fatalf("Failed to count delivery records: %v", err)
	}

	log.Printf("Seed completed, %d delivery records present", total)
}
