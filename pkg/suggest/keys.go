package suggest

// Key classifies a keystroke in the bound input.
type Key int

const (
	// KeyOther is any key that edits content.
	KeyOther Key = iota
	KeyDown
	KeyUp
	KeyEnter
	KeyEscape
	KeyTab
	KeyShift
	KeyLeft
	KeyRight
)

var keyNames = map[string]Key{
	"down":      KeyDown,
	"up":        KeyUp,
	"enter":     KeyEnter,
	"esc":       KeyEscape,
	"tab":       KeyTab,
	"shift+tab": KeyShift,
	"left":      KeyLeft,
	"right":     KeyRight,
}

// KeyFromString maps a bubbletea key name to a Key. Unknown names are
// content keys.
func KeyFromString(name string) Key {
	if k, ok := keyNames[name]; ok {
		return k
	}
	return KeyOther
}

// IsNavigation reports whether the key is intercepted by the controller and
// never triggers a fetch.
func (k Key) IsNavigation() bool {
	return k != KeyOther
}

func (k Key) String() string {
	switch k {
	case KeyDown:
		return "down"
	case KeyUp:
		return "up"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	case KeyTab:
		return "tab"
	case KeyShift:
		return "shift"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	default:
		return "other"
	}
}
