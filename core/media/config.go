package media

import "time"

// Config holds the settings of the media engine and its change sources.
type Config struct {
	// Debounce is the quiet window between a store change and the refresh it triggers.
	Debounce time.Duration `mapstructure:"debounce" default:"1500ms"`
	// BatchSize is the number of rows applied per batch during an initial load.
	BatchSize int `mapstructure:"batch_size" default:"64"`
	// Workers bounds concurrent gateway queries.
	Workers int `mapstructure:"workers" default:"4"`
	// WatchBucket enables the bucket notification source.
	WatchBucket bool `mapstructure:"watch_bucket" default:"false"`
	// WatchPrefix restricts bucket notifications to keys under a prefix.
	WatchPrefix string `mapstructure:"watch_prefix" default:""`
	// WatchDir enables the filesystem source rooted at the given directory.
	WatchDir string `mapstructure:"watch_dir" default:""`
	// MaxViews bounds the views the HTTP surface keeps open per set. Opening
	// one more releases the oldest.
	MaxViews int `mapstructure:"max_views" default:"16"`
	// CameraPrefix is the path prefix of the camera roll set.
	CameraPrefix string `mapstructure:"camera_prefix" default:"DCIM/Camera/"`
}
