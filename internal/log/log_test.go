// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomHandler_HandleLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf)

	e := &log.Entry{
		Level:     log.WarnLevel,
		Message:   "cache write failed",
		Timestamp: time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
		Fields:    log.Fields{"key": "vercel/next.js", "error": errors.New("boom")},
	}

	require.NoError(t, h.HandleLog(e))
	assert.Equal(t, "2025-03-04 05:06:07 W cache write failed error=boom key=vercel/next.js\n", buf.String())
}

func TestInitLogger_Level(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want log.Level
	}{
		{name: "default", env: "", want: log.ErrorLevel},
		{name: "debug", env: "debug", want: log.DebugLevel},
		{name: "upper", env: "WARN", want: log.WarnLevel},
		{name: "garbage", env: "chatty", want: log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STARCTL_LOG", tt.env)
			InitLogger()
			l, ok := log.Log.(*log.Logger)
			require.True(t, ok)
			assert.Equal(t, tt.want, l.Level)
		})
	}
}
