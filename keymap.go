package winloop

type KeyHandler func() error

// KeyMap binds key names such as "C-q", "Escape" or "S-Tab" to handlers.
type KeyMap map[string]KeyHandler

func CreateKeyMap() KeyMap {
	return KeyMap{}
}

func (km KeyMap) Bind(key string, handler KeyHandler) {
	km[key] = handler
}

func (km KeyMap) HandleKey(key string) (handled bool, err error) {
	if handler, ok := km[key]; ok {
		return true, handler()
	}
	return false, nil
}

// Handler adapts the map to EventKeyDown events.
func (km KeyMap) Handler() Handler {
	return func(ev Event) error {
		_, err := km.HandleKey(ev.Key().Name)
		return err
	}
}

// KeyName builds a key name from a base name and modifiers, in the
// order C-M-S-.
func KeyName(base string, mods Mod) string {
	name := base
	if mods&ModShift != 0 {
		name = "S-" + name
	}
	if mods&ModAlt != 0 {
		name = "M-" + name
	}
	if mods&ModControl != 0 {
		name = "C-" + name
	}
	return name
}
