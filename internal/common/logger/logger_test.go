package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestZapAdapter_CarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).With(map[string]interface{}{"taskType": "answer-question"})

	log.Info("processing job", map[string]interface{}{"jobKey": int64(7)})
	log.WithError(errors.New("boom")).Error("job failed", map[string]interface{}{"cause": errors.New("refused")})

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "answer-question", entries[0].ContextMap()["taskType"])
		assert.Equal(t, int64(7), entries[0].ContextMap()["jobKey"])
		assert.Equal(t, "boom", entries[1].ContextMap()["error"])
		assert.Equal(t, "refused", entries[1].ContextMap()["cause"])
	}
}

func TestNew_FallsBackOnBadOutput(t *testing.T) {
	l := New("info", "json", "/nonexistent-dir/for/sure/log.txt")
	assert.NotNil(t, l)
}

func TestNoOpLogger(t *testing.T) {
	log := NewNoOpLogger()
	log.Debug("ignored", nil)
	log.WithFields(map[string]interface{}{"a": 1}).Warn("ignored", nil)
}
