package services

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"bikeshop-backend/export"
	"bikeshop-backend/ledger"

	"github.com/robfig/cron/v3"
)

// BackupService writes nightly snapshots of the database to disk: one JSON
// document plus the four CSV files, date-stamped.
type BackupService struct {
	ledger *ledger.Ledger
	dir    string
}

func NewBackupService(l *ledger.Ledger, dir string) *BackupService {
	return &BackupService{ledger: l, dir: dir}
}

// StartScheduler runs a backup every day at 2 AM.
func (s *BackupService) StartScheduler() {
	c := cron.New()

	c.AddFunc("0 2 * * *", func() {
		if err := s.RunBackup(); err != nil {
			log.Printf("Backup failed: %v", err)
		}
	})

	c.Start()
	log.Println("Backup scheduler started")
}

// RunBackup writes one full backup set to the backup directory.
func (s *BackupService) RunBackup() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	data := s.ledger.ExportDatabase()
	stamp := data.ExportedAt.Format("2006-01-02")

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, "workshop_"+stamp+".json"), raw, 0o644); err != nil {
		return err
	}

	files := map[string]string{
		"customers_" + stamp + ".csv":      export.CustomersCSV(data.Snapshot),
		"bicycles_" + stamp + ".csv":       export.BicyclesCSV(data.Snapshot),
		"job_offers_" + stamp + ".csv":     export.JobOffersCSV(data.Snapshot),
		"repair_history_" + stamp + ".csv": export.RepairHistoryCSV(data.Snapshot),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}

	log.Printf("Backup written to %s", s.dir)
	return nil
}
