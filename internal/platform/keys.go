package platform

// Key is a dense, closed enumeration of normalized key identifiers. Values
// never carry a platform-native code; the record/replay stream only ever
// stores these indices, so a recording is portable across whatever the host
// OS happens to call a given scan code.
type Key uint16

const (
	KeyUnknown Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24

	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftAlt
	KeyRightAlt
	KeyLeftMeta
	KeyRightMeta

	KeyNumpad0
	KeyNumpad1
	KeyNumpad2
	KeyNumpad3
	KeyNumpad4
	KeyNumpad5
	KeyNumpad6
	KeyNumpad7
	KeyNumpad8
	KeyNumpad9
	KeyNumpadAdd
	KeyNumpadSubtract
	KeyNumpadMultiply
	KeyNumpadDivide
	KeyNumpadDecimal
	KeyNumpadEnter
	KeyNumLock

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete

	KeyEscape
	KeyTab
	KeyCapsLock
	KeyEnter
	KeySpace
	KeyBackspace
	KeyPrintScreen
	KeyScrollLock
	KeyPause
	KeyMenu

	KeyMinus
	KeyEquals
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyApostrophe
	KeyComma
	KeyPeriod
	KeySlash
	KeyGrave

	KeyMediaPlayPause
	KeyMediaStop
	KeyMediaNextTrack
	KeyMediaPrevTrack
	KeyVolumeUp
	KeyVolumeDown
	KeyVolumeMute
	KeyBrowserBack
	KeyBrowserForward
	KeyBrowserRefresh

	// keyCount marks the end of the enumeration; not itself a valid key.
	keyCount
)

// KeyCount is the number of entries in the closed Key enumeration. The wire
// format's fixed-width key state array is sized against this constant.
const KeyCount = int(keyCount)

// names mirrors the declaration order above for diagnostics only; it is
// never part of the recorded stream.
var names = [...]string{
	KeyUnknown: "Unknown",
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",
	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",
	KeyF13: "F13", KeyF14: "F14", KeyF15: "F15", KeyF16: "F16", KeyF17: "F17", KeyF18: "F18",
	KeyF19: "F19", KeyF20: "F20", KeyF21: "F21", KeyF22: "F22", KeyF23: "F23", KeyF24: "F24",
	KeyLeftShift: "LeftShift", KeyRightShift: "RightShift",
	KeyLeftControl: "LeftControl", KeyRightControl: "RightControl",
	KeyLeftAlt: "LeftAlt", KeyRightAlt: "RightAlt",
	KeyLeftMeta: "LeftMeta", KeyRightMeta: "RightMeta",
	KeyNumpad0: "Numpad0", KeyNumpad1: "Numpad1", KeyNumpad2: "Numpad2",
	KeyNumpad3: "Numpad3", KeyNumpad4: "Numpad4", KeyNumpad5: "Numpad5",
	KeyNumpad6: "Numpad6", KeyNumpad7: "Numpad7", KeyNumpad8: "Numpad8", KeyNumpad9: "Numpad9",
	KeyNumpadAdd: "NumpadAdd", KeyNumpadSubtract: "NumpadSubtract",
	KeyNumpadMultiply: "NumpadMultiply", KeyNumpadDivide: "NumpadDivide",
	KeyNumpadDecimal: "NumpadDecimal", KeyNumpadEnter: "NumpadEnter", KeyNumLock: "NumLock",
	KeyUp: "Up", KeyDown: "Down", KeyLeft: "Left", KeyRight: "Right",
	KeyHome: "Home", KeyEnd: "End", KeyPageUp: "PageUp", KeyPageDown: "PageDown",
	KeyInsert: "Insert", KeyDelete: "Delete",
	KeyEscape: "Escape", KeyTab: "Tab", KeyCapsLock: "CapsLock", KeyEnter: "Enter",
	KeySpace: "Space", KeyBackspace: "Backspace", KeyPrintScreen: "PrintScreen",
	KeyScrollLock: "ScrollLock", KeyPause: "Pause", KeyMenu: "Menu",
	KeyMinus: "Minus", KeyEquals: "Equals", KeyLeftBracket: "LeftBracket",
	KeyRightBracket: "RightBracket", KeyBackslash: "Backslash", KeySemicolon: "Semicolon",
	KeyApostrophe: "Apostrophe", KeyComma: "Comma", KeyPeriod: "Period", KeySlash: "Slash",
	KeyGrave: "Grave",
	KeyMediaPlayPause: "MediaPlayPause", KeyMediaStop: "MediaStop",
	KeyMediaNextTrack: "MediaNextTrack", KeyMediaPrevTrack: "MediaPrevTrack",
	KeyVolumeUp: "VolumeUp", KeyVolumeDown: "VolumeDown", KeyVolumeMute: "VolumeMute",
	KeyBrowserBack: "BrowserBack", KeyBrowserForward: "BrowserForward",
	KeyBrowserRefresh: "BrowserRefresh",
}

// String renders a diagnostic name for the key; never part of the wire format.
func (k Key) String() string {
	if int(k) < 0 || int(k) >= len(names) || names[k] == "" {
		return "Unknown"
	}
	return names[k]
}

// Valid reports whether k falls within the closed enumeration.
func (k Key) Valid() bool {
	return k < Key(keyCount)
}
