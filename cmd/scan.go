package cmd

import (
	"errors"
	"fmt"

	"media-manager/core/database"
	"media-manager/core/notify"
	"media-manager/core/storage"
	"media-manager/feature/indexer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scanBucketPrefix string
	scanDir          string
	scanBucket       bool
)

// scanCmd indexes a bucket prefix or a directory once.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Reconcile the media index with a bucket or a directory",
	Long: `Lists the photos and videos under a bucket prefix or a directory and
updates the media index: new files are added, changed files updated and rows
whose file is gone removed.

Examples:
  # Index the camera folder of the configured bucket
  scan --bucket --bucket-prefix DCIM/

  # Index a local directory
  scan --dir /srv/photos`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanBucket, "bucket", false, "Scan the configured storage bucket")
	scanCmd.Flags().StringVar(&scanBucketPrefix, "bucket-prefix", "", "Object key prefix to scan (implies --bucket)")
	scanCmd.Flags().StringVar(&scanDir, "dir", "", "Directory to scan")
	RootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	useBucket := scanBucket || scanBucketPrefix != ""
	if useBucket == (scanDir != "") {
		return errors.New("exactly one of --bucket/--bucket-prefix or --dir is required")
	}

	cfg, logg, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logg.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	var store storage.Client
	if useBucket {
		if store, err = storage.NewClient(cfg.Storage); err != nil {
			return err
		}
	}

	svc := indexer.NewService(db, cfg.Database.Table, store, cfg.Storage.Bucket, scanDir, notify.NewHub(), logg)
	if cfg.Database.Driver == "sqlite" {
		if err := svc.Migrate(); err != nil {
			return err
		}
	}

	var report *indexer.ScanReport
	if useBucket {
		logg.Info("Scanning bucket", zap.String("bucket", cfg.Storage.Bucket), zap.String("prefix", scanBucketPrefix))
		report, err = svc.ScanBucket(cmd.Context(), scanBucketPrefix)
	} else {
		logg.Info("Scanning directory", zap.String("dir", scanDir))
		report, err = svc.ScanDir(cmd.Context())
	}
	if err != nil {
		return err
	}

	fmt.Println("\n--- Scan Report ---")
	fmt.Printf("Scope:    %s\n", report.Scope)
	fmt.Printf("Scanned:  %d\n", report.Scanned)
	fmt.Printf("Added:    %d\n", report.Added)
	fmt.Printf("Updated:  %d\n", report.Updated)
	fmt.Printf("Removed:  %d\n", report.Removed)
	fmt.Println("-------------------")
	return nil
}
