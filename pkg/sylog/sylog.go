// Package sylog implements the leveled, environment-controlled logger
// used across nsrun: a package-level logger (no logger value to thread
// through every call), a small integer level read from an environment
// variable at process start, and one printf-style function per level.
package sylog

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Level is a logger verbosity level, lowest (most severe) first.
type Level int

const (
	FatalLevel Level = iota - 4
	ErrorLevel
	WarnLevel
	InfoLevel
	VerboseLevel
	DebugLevel
)

// EnvVar is the environment variable read once at init to set the
// initial level.
const EnvVar = "NSRUN_MESSAGELEVEL"

var (
	level  = InfoLevel
	writer io.Writer = os.Stderr
)

func init() {
	if v := os.Getenv(EnvVar); v != "" {
		var l int
		if _, err := fmt.Sscanf(v, "%d", &l); err == nil {
			level = Level(l)
		}
	}
}

// SetLevel sets the logger level for the remainder of the process.
func SetLevel(l Level) { level = l }

// GetLevel returns the current logger level.
func GetLevel() Level { return level }

// Writer returns the writer messages are printed to.
func Writer() io.Writer { return writer }

var prefixes = map[Level]string{
	FatalLevel:   "FATAL",
	ErrorLevel:   "ERROR",
	WarnLevel:    "WARNING",
	InfoLevel:    "INFO",
	VerboseLevel: "VERBOSE",
	DebugLevel:   "DEBUG",
}

var colors = map[Level]color.Attribute{
	FatalLevel: color.FgRed,
	ErrorLevel: color.FgRed,
	WarnLevel:  color.FgYellow,
	InfoLevel:  color.FgBlue,
}

func printf(l Level, format string, a ...interface{}) {
	if l > level {
		return
	}
	prefix := fmt.Sprintf("%-8s", prefixes[l]+":")
	if attr, ok := colors[l]; ok && !color.NoColor {
		prefix = color.New(attr).Sprintf("%-8s", prefixes[l]+":")
	}
	fmt.Fprintf(writer, "%s %s\n", prefix, fmt.Sprintf(format, a...))
}

// Fatalf logs at FatalLevel and exits the process with status 1.
func Fatalf(format string, a ...interface{}) {
	printf(FatalLevel, format, a...)
	os.Exit(1)
}

// Errorf logs at ErrorLevel.
func Errorf(format string, a ...interface{}) { printf(ErrorLevel, format, a...) }

// Warningf logs at WarnLevel.
func Warningf(format string, a ...interface{}) { printf(WarnLevel, format, a...) }

// Infof logs at InfoLevel.
func Infof(format string, a ...interface{}) { printf(InfoLevel, format, a...) }

// Verbosef logs at VerboseLevel.
func Verbosef(format string, a ...interface{}) { printf(VerboseLevel, format, a...) }

// Debugf logs at DebugLevel.
func Debugf(format string, a ...interface{}) { printf(DebugLevel, format, a...) }
