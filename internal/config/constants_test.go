package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	t.Setenv(EnvDispatch, "")
	mode, err := Dispatch()
	require.NoError(t, err)
	require.Equal(t, DispatchCompiled, mode)

	t.Setenv(EnvDispatch, " Reflect ")
	mode, err = Dispatch()
	require.NoError(t, err)
	require.Equal(t, DispatchReflect, mode)

	t.Setenv(EnvDispatch, "jit")
	mode, err = Dispatch()
	require.Error(t, err)
	require.Equal(t, DispatchCompiled, mode)
}

func TestLogSettings(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	require.Equal(t, DefaultLogLevel, LogLevel())
	t.Setenv(EnvLogLevel, "debug")
	require.Equal(t, "debug", LogLevel())

	t.Setenv(EnvLogFormat, "JSON")
	require.Equal(t, LogFormatJSON, LogFormat())
	t.Setenv(EnvLogFormat, "xml")
	require.Equal(t, LogFormatText, LogFormat())
}
