package reconcile

import (
	"errors"
	"time"

	"media-manager/core/dispatch"
	"media-manager/core/media"
	"media-manager/core/mediastore"
	"media-manager/core/notify"
	"media-manager/core/worker"

	"go.uber.org/zap"
)

var (
	// ErrNoComparator is returned by Open when no comparator is given.
	ErrNoComparator = errors.New("reconcile: no comparator")
	// ErrNoType is returned by NewSet when the set type is unspecified.
	ErrNoType = errors.New("reconcile: no set type")
	// ErrReleased is returned when opening a view on a released set.
	ErrReleased = errors.New("reconcile: set released")
)

const (
	// DefaultDebounce is the delay between the first change notification of a
	// burst and the refresh it triggers.
	DefaultDebounce = 1500 * time.Millisecond
	// DefaultBatchSize is the number of rows delivered per batch during an
	// initial load.
	DefaultBatchSize = 64
)

// SetType classifies a media set.
type SetType int

const (
	// SetTypeUnknown is rejected by NewSet.
	SetTypeUnknown SetType = iota
	// SetTypeSystem marks sets defined by the application, such as all media.
	SetTypeSystem
	// SetTypeUser marks sets defined by the user, such as a folder.
	SetTypeUser
)

// String returns the string representation of the set type.
func (t SetType) String() string {
	switch t {
	case SetTypeSystem:
		return "system"
	case SetTypeUser:
		return "user"
	default:
		return "unknown"
	}
}

// OpenFlags are reserved for future use.
type OpenFlags uint32

// ChangeKind tells whether a list change added or removed items.
type ChangeKind int

const (
	// ChangeAdded reports items that entered a view.
	ChangeAdded ChangeKind = iota + 1
	// ChangeRemoved reports items that left a view.
	ChangeRemoved
)

// String returns the string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ListChange describes one structural change of a view.
type ListChange struct {
	Kind       ChangeKind
	Identities []media.Identity
}

// ChangeListener receives list changes on the owner loop.
type ChangeListener func(ListChange)

// CountListener receives count changes on the owner loop. known is false
// while the count is being recomputed.
type CountListener func(count int, known bool)

// Options configures a Set.
type Options struct {
	// Type classifies the set. Required.
	Type SetType
	// Name identifies the set in logs.
	Name string

	// Loop is the owner execution context. Required.
	Loop *dispatch.Loop
	// Pool runs gateway queries. Required.
	Pool *worker.Pool
	// Gateway reads the media index. Required.
	Gateway mediastore.Gateway
	// Source delivers store change notifications. Required.
	Source notify.Source

	// Locator is the table queried; defaults to mediastore.DefaultLocator.
	Locator string
	// Condition narrows the set beyond photos and videos, using ? placeholders.
	Condition string
	// ConditionArgs are bound to Condition.
	ConditionArgs []any

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// BatchSize defaults to DefaultBatchSize.
	BatchSize int

	Logger *zap.Logger
}

func (o *Options) validate() error {
	switch {
	case o.Type == SetTypeUnknown:
		return ErrNoType
	case o.Loop == nil:
		return errors.New("reconcile: no owner loop")
	case o.Pool == nil:
		return errors.New("reconcile: no worker pool")
	case o.Gateway == nil:
		return errors.New("reconcile: no gateway")
	case o.Source == nil:
		return errors.New("reconcile: no notification source")
	}
	if o.Locator == "" {
		o.Locator = mediastore.DefaultLocator
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}
