package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"fleet-schedule-backend/internal/config"
	"fleet-schedule-backend/internal/infrastructure/db"
)

// runMigrate handles `api migrate [up|down [steps]|status]`.
func runMigrate(cfg *config.Config, log logrus.FieldLogger, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: %s migrate [up|down [steps]|status]", os.Args[0])
	}
	dsn := cfg.MySQLDSN()

	switch args[0] {
	case "up":
		return db.MigrateUp(dsn, log)
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid steps %q", args[1])
			}
			steps = n
		}
		return db.MigrateDown(dsn, steps, log)
	case "status":
		version, dirty, ok, err := db.MigrateStatus(dsn)
		if err != nil {
			return err
		}
		if !ok {
			log.Info("migrate: no migrations applied")
			return nil
		}
		log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migrate: status")
		return nil
	default:
		return fmt.Errorf("unknown migrate command: %s", args[0])
	}
}
