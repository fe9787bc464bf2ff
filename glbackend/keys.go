package glbackend

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/cellux/winloop"
)

func convertMods(mods glfw.ModifierKey) winloop.Mod {
	var m winloop.Mod
	if mods&glfw.ModShift != 0 {
		m |= winloop.ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= winloop.ModControl
	}
	if mods&glfw.ModAlt != 0 {
		m |= winloop.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		m |= winloop.ModSuper
	}
	return m
}

// baseKeyName returns the unmodified name of key. ok is false for the
// modifier keys themselves and for keys without a printable name.
func baseKeyName(key glfw.Key, scancode int) (name string, ok bool) {
	switch key {
	case glfw.KeyLeftShift, glfw.KeyLeftControl, glfw.KeyLeftAlt, glfw.KeyLeftSuper:
		return "", false
	case glfw.KeyRightShift, glfw.KeyRightControl, glfw.KeyRightAlt, glfw.KeyRightSuper:
		return "", false
	case glfw.KeySpace:
		return "Space", true
	case glfw.KeyEscape:
		return "Escape", true
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return "Enter", true
	case glfw.KeyTab:
		return "Tab", true
	case glfw.KeyBackspace:
		return "Backspace", true
	case glfw.KeyInsert:
		return "Insert", true
	case glfw.KeyDelete:
		return "Delete", true
	case glfw.KeyRight:
		return "Right", true
	case glfw.KeyLeft:
		return "Left", true
	case glfw.KeyDown:
		return "Down", true
	case glfw.KeyUp:
		return "Up", true
	case glfw.KeyPageUp:
		return "PageUp", true
	case glfw.KeyPageDown:
		return "PageDown", true
	case glfw.KeyHome:
		return "Home", true
	case glfw.KeyEnd:
		return "End", true
	}
	if key >= glfw.KeyF1 && key <= glfw.KeyF25 {
		return fkeyNames[key-glfw.KeyF1], true
	}
	name = printableKeyName(key, scancode)
	return name, name != ""
}

// printableKeyName is glfw.GetKeyName, which returns "" for keys that
// have no layout-specific name.
var printableKeyName = glfw.GetKeyName

var fkeyNames = [...]string{
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10",
	"F11", "F12", "F13", "F14", "F15", "F16", "F17", "F18", "F19", "F20",
	"F21", "F22", "F23", "F24", "F25",
}
