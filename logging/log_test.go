package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger_Independent(t *testing.T) {
	var buf bytes.Buffer
	nl := NewLogger()
	nl.SetOutput(&buf)
	nl.Info("only in the new logger")

	require.Contains(t, buf.String(), "only in the new logger")
}

func TestSetGetLevel(t *testing.T) {
	nl := NewLogger()
	require.Equal(t, Info, nl.GetLevel())
	nl.SetLevel(Error)
	require.Equal(t, Error, nl.GetLevel())
	require.False(t, nl.IsLevelEnabled(Warn))
	require.True(t, nl.IsLevelEnabled(Error))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	nl := NewLogger()
	nl.SetOutput(&buf)
	nl.Debug("hidden")
	require.Empty(t, buf.String())

	nl.SetLevel(Debug)
	nl.Debug("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer
	nl := NewLogger()
	nl.SetOutput(&buf)
	nl.SetJSONFormatter()

	nl.WithFields(Fields{"op": "hash-chain", "repeat": 4}).With("backend", "native").
		WithError(errors.New("boom")).Warn("proving failed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	require.Equal(t, "hash-chain", line["op"])
	require.Equal(t, float64(4), line["repeat"])
	require.Equal(t, "native", line["backend"])
	require.Equal(t, "boom", line["error"])
	require.Equal(t, "warning", line["level"])
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, Debug, lvl)

	lvl, err = ParseLevel(" warn ")
	require.NoError(t, err)
	require.Equal(t, Warn, lvl)

	lvl, err = ParseLevel("trace")
	require.NoError(t, err)
	require.Equal(t, Debug, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
