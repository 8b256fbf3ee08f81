package control

import "errors"

var (
	// ErrSnapshotUnreadable means the initial validation parse never
	// produced a usable snapshot.
	ErrSnapshotUnreadable = errors.New("snapshot source unreadable")
	// ErrTargetNotLive means validation found the reported process is
	// not in the OS process table.
	ErrTargetNotLive = errors.New("target process not running")
	// ErrInvalidConfig means a flag value failed validation before the
	// loop started.
	ErrInvalidConfig = errors.New("invalid configuration")
)
