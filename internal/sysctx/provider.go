/*
Package sysctx supplies environmental context to the recorder and the
decision gate: wall-clock time buckets, working-hours determination, and an
active-window count used as a system-load proxy.

The real window/process manager lives outside this core; the default
provider returns conservative values so the loop stays usable standalone.
*/
package sysctx

import "time"

// Provider supplies the environmental context consumed by the core.
type Provider interface {
	// Now returns the current wall-clock time.
	Now() time.Time

	// ActiveWindowCount is a system-load proxy from the window manager.
	ActiveWindowCount() int

	// IsWorkingHours reports whether the current time falls in working hours.
	IsWorkingHours() bool

	// DeviceClass describes the host device (desktop/laptop/tablet).
	DeviceClass() string

	// ScreenSize is the primary screen resolution, e.g. "1920x1080".
	ScreenSize() string
}

// TimeOfDayBucket maps an hour to its bucket name.
func TimeOfDayBucket(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 22:
		return "evening"
	default:
		return "night"
	}
}

// Default is a standalone provider with no window manager attached.
type Default struct {
	// WindowCount is the value reported by ActiveWindowCount.
	WindowCount int

	// Device and Screen override the reported hardware description.
	Device string
	Screen string
}

// NewDefault creates a provider with desktop defaults.
func NewDefault() *Default {
	return &Default{
		WindowCount: 1,
		Device:      "desktop",
		Screen:      "1920x1080",
	}
}

func (d *Default) Now() time.Time { return time.Now() }

func (d *Default) ActiveWindowCount() int { return d.WindowCount }

// IsWorkingHours treats Monday-Friday 09:00-18:00 as working hours.
func (d *Default) IsWorkingHours() bool {
	now := time.Now()
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	h := now.Hour()
	return h >= 9 && h < 18
}

func (d *Default) DeviceClass() string { return d.Device }

func (d *Default) ScreenSize() string { return d.Screen }
