package reconcile

// AllMedia creates the system set of every photo and video in the index.
func AllMedia(opts Options) (*Set, error) {
	opts.Type = SetTypeSystem
	if opts.Name == "" {
		opts.Name = "all"
	}
	opts.Condition = ""
	opts.ConditionArgs = nil
	return NewSet(opts)
}

// CameraRoll creates the system set of items stored under prefix.
func CameraRoll(opts Options, prefix string) (*Set, error) {
	opts.Type = SetTypeSystem
	if opts.Name == "" {
		opts.Name = "camera"
	}
	opts.Condition = "_data LIKE ?"
	opts.ConditionArgs = []any{prefix + "%"}
	return NewSet(opts)
}
