package camera

import (
	"fmt"
	"strings"
)

// Easing shapes keyframe progress.
type Easing uint8

const (
	Linear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
)

var easingNames = [...]string{"linear", "ease-in", "ease-out", "ease-in-out"}

// String returns the easing name.
func (e Easing) String() string {
	if int(e) < len(easingNames) {
		return easingNames[e]
	}
	return "unknown"
}

// Apply maps linear progress t in [0, 1] to eased progress.
func (e Easing) Apply(t float64) float64 {
	switch e {
	case EaseIn:
		return t * t
	case EaseOut:
		return t * (2 - t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	default:
		return t
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Easing) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText accepts the names produced by String, plus camelCase forms.
func (e *Easing) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.ReplaceAll(string(b), "-", ""))
	for i, n := range easingNames {
		if strings.ReplaceAll(n, "-", "") == s {
			*e = Easing(i)
			return nil
		}
	}
	if s == "" {
		*e = Linear
		return nil
	}
	return fmt.Errorf("camera: unknown easing %q", string(b))
}
