package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New(true, false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(false, true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  hello  ", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"héllo", 2, "hé..."},
		{"anything", 0, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Truncate(tc.in, tc.limit))
	}
}
