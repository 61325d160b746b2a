package catalog

import (
	"fmt"
	"strings"
)

// CallbackPolicy controls where callback declarations end up.
type CallbackPolicy int

const (
	// Separate keeps callbacks in their own bucket and renders a
	// "callbacks" section.
	Separate CallbackPolicy = iota
	// MergeIntoTypes lists callbacks alongside typedefs and enums.
	MergeIntoTypes
	// Ignore drops callbacks.
	Ignore
)

// ParseCallbackPolicy maps the command-line words ignore, type and callback
// (in any case) to a policy. An empty mode selects Separate.
func ParseCallbackPolicy(mode string) (CallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "callback":
		return Separate, nil
	case "type":
		return MergeIntoTypes, nil
	case "ignore":
		return Ignore, nil
	default:
		return Separate, fmt.Errorf("invalid callback mode %q: want ignore, type, or callback", mode)
	}
}

func (p CallbackPolicy) String() string {
	switch p {
	case Separate:
		return "callback"
	case MergeIntoTypes:
		return "type"
	case Ignore:
		return "ignore"
	default:
		return fmt.Sprintf("CallbackPolicy(%d)", int(p))
	}
}
