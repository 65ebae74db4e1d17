// Package config provides configuration management for the Media Manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: media index connection (sqlite or MySQL) and table
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Media: debounce window, batch size, worker count and change sources
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Media.Debounce)
package config
