package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables read at startup.
const (
	EnvDispatch  = "KLASS_DISPATCH"
	EnvLogLevel  = "KLASS_LOG_LEVEL"
	EnvLogFormat = "KLASS_LOG_FORMAT"
)

// Dispatch strategies accepted in KLASS_DISPATCH.
const (
	DispatchCompiled = "compiled"
	DispatchReflect  = "reflect"
)

// Logging defaults.
const (
	DefaultLogLevel  = "warning"
	LogFormatText    = "text"
	LogFormatJSON    = "json"
	DefaultLogFormat = LogFormatText
)

// Generator file names
const (
	GeneratorName     = "klassgen"
	ConfigFileName    = "klass.yaml"
	AltConfigFileName = "klass.yml"
	DefaultOutputFile = "zz_klass_generated.go"
)

// ConstructorPrefix marks functions the generator treats as constructors
// when a type lists none explicitly.
const ConstructorPrefix = "New"

// Dispatch returns the dispatch strategy named by KLASS_DISPATCH.
// An unset variable selects the compiled strategy.
func Dispatch() (string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(EnvDispatch)))
	switch mode {
	case "":
		return DispatchCompiled, nil
	case DispatchCompiled, DispatchReflect:
		return mode, nil
	}
	return DispatchCompiled, fmt.Errorf("%s: unknown dispatch strategy %q", EnvDispatch, mode)
}

// LogLevel returns KLASS_LOG_LEVEL or the default level.
func LogLevel() string {
	if lvl, ok := os.LookupEnv(EnvLogLevel); ok && lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}

// LogFormat returns KLASS_LOG_FORMAT or the default format.
func LogFormat() string {
	if f := strings.ToLower(os.Getenv(EnvLogFormat)); f == LogFormatJSON {
		return f
	}
	return DefaultLogFormat
}
