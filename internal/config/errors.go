package config

import "fmt"

// ConfigNotFoundError reports a missing config file. Load falls back to
// in-memory defaults on it; commands that need the file on disk surface
// the init hint instead.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s\n\n💡 Run 'autopilot config init' to create it", e.Path)
}

// PermissionError reports a config file the process may not read or write.
type PermissionError struct {
	Path string
	Op   string // "read" or "write"
	Fix  string // suggested fix command
	Perm string // current permission bits, when known
}

func (e *PermissionError) Error() string {
	msg := fmt.Sprintf("permission denied (cannot %s config): %s\n", e.Op, e.Path)
	if e.Perm != "" {
		msg += "Current permissions: " + e.Perm + "\n"
	}
	msg += "💡 Fix: " + e.Fix
	return msg
}

// InvalidConfigError reports a config file that failed to parse or validate.
type InvalidConfigError struct {
	Path   string
	Reason string
	Hint   string
}

func (e *InvalidConfigError) Error() string {
	msg := fmt.Sprintf("invalid config: %s\n", e.Path)
	if e.Reason != "" {
		msg += e.Reason + "\n"
	}
	if e.Hint != "" {
		msg += "💡 " + e.Hint
	}
	return msg
}
