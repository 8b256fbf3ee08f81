package input

// Key is an abstract key name, independent of how any platform encodes
// the actual keystroke.
type Key string

const (
	KeyUp      Key = "up"
	KeyDown    Key = "down"
	KeyLeft    Key = "left"
	KeyRight   Key = "right"
	KeyConfirm Key = "confirm"
	KeyCancel  Key = "cancel"
	// KeyPrimary is the game's main action key (space in every
	// shipped minigame).
	KeyPrimary Key = "primary"
)

// Char returns the key for a single-character shortcut, e.g. a board
// cell digit or the restart key.
func Char(c byte) Key {
	return Key([]byte{c})
}

// named reports whether k is one of the abstract key constants rather
// than a single-character shortcut.
func (k Key) named() bool {
	switch k {
	case KeyUp, KeyDown, KeyLeft, KeyRight, KeyConfirm, KeyCancel, KeyPrimary:
		return true
	}
	return false
}
