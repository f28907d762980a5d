package domain

import "fmt"

// Mode is the transformation a session applies to incoming text.
type Mode string

const (
	ModeNone    Mode = ""        // No mode chosen yet
	ModeSort    Mode = "sort"    // Sort the first number of every line
	ModeCompare Mode = "compare" // Intersect two lists sent in separate messages
	ModeFilter  Mode = "filter"  // Keep lines with more than one unit
	ModeExpand  Mode = "expand"  // Repeat identifiers by quantity
)

// Modes lists the selectable modes in menu order.
var Modes = []Mode{ModeSort, ModeCompare, ModeFilter, ModeExpand}

// ParseMode resolves a mode name. The empty string is ModeNone.
func ParseMode(name string) (Mode, error) {
	if name == "" {
		return ModeNone, nil
	}
	for _, m := range Modes {
		if string(m) == name {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Callback data carried by inline keyboard buttons.
const (
	CallbackMainMenu = "main_menu"
	callbackPrefix   = "mode_"
)

// Callback returns the button callback data that selects m.
func (m Mode) Callback() string {
	return callbackPrefix + string(m)
}

// ModeFromCallback resolves button callback data such as "mode_sort".
func ModeFromCallback(data string) (Mode, bool) {
	if len(data) <= len(callbackPrefix) || data[:len(callbackPrefix)] != callbackPrefix {
		return ModeNone, false
	}
	m, err := ParseMode(data[len(callbackPrefix):])
	if err != nil {
		return ModeNone, false
	}
	return m, true
}
