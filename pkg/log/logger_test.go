package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

func TestTestLogger(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message")
	testLogger.Error("error message", fmt.Errorf("boom"), TargetKey, "LLAMA")

	require.NotEmpty(t, buffer.String())
	assert.True(t, testLogger.ContainsMessage("debug message"))
	assert.True(t, testLogger.ContainsMessage("info message"))
	assert.True(t, testLogger.ContainsMessage("warning message"))
	assert.True(t, testLogger.ContainsMessage("error message"))
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "boom"))
	assert.True(t, testLogger.ContainsField(TargetKey, "LLAMA"))
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(ModelNameKey, "HistGBMRegressor", ComponentKey, "histgbm")
	contextLogger.Info("contextual message", IterationKey, 3)

	assert.True(t, testLogger.ContainsField(ModelNameKey, "HistGBMRegressor"))
	assert.True(t, testLogger.ContainsField(ComponentKey, "histgbm"))
	assert.True(t, testLogger.ContainsField(IterationKey, 3.0))
}

func TestTestLoggerLevels(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("hidden")
	testLogger.Info("shown")
	assert.False(t, testLogger.ContainsMessage("hidden"))
	assert.True(t, testLogger.ContainsMessage("shown"))

	testLogger.Clear()
	assert.False(t, testLogger.ContainsMessage("shown"))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLoggerJSON(t *testing.T) {
	prev := GetLogger()
	defer SetDefault(prev)
	defer histerrors.SetZerologWarnFunc(nil)

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(LevelInfo, "json", &buf))

	logger := GetLoggerWithName("histgbm.test")
	logger.Debug("not emitted")
	logger.Info("round done", IterationKey, 2, LossKey, 0.5)
	logger.Error("failed", histerrors.NewValueError("Train", "bad input"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "round done", first["message"])
	assert.Equal(t, "histgbm.test", first[ComponentKey])
	assert.Equal(t, 2.0, first[IterationKey])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "error", second["level"])
	assert.Contains(t, second[ErrAttrKey], "bad input")
}

func TestSetupLoggerRoutesWarnings(t *testing.T) {
	prev := GetLogger()
	defer SetDefault(prev)
	defer histerrors.SetZerologWarnFunc(nil)

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(LevelDebug, "json", &buf))

	histerrors.Warn(histerrors.NewDataConversionWarning("string", "float64", "3 unparseable values"))

	out := buf.String()
	assert.Contains(t, out, `"type":"DataConversionWarning"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestSetupLoggerRejectsUnknownFormat(t *testing.T) {
	err := SetupLogger(LevelInfo, "xml", &bytes.Buffer{})
	require.Error(t, err)
	var valErr *histerrors.ValidationError
	assert.True(t, histerrors.As(err, &valErr))
}

func TestZerologEnabled(t *testing.T) {
	prev := GetLogger()
	defer SetDefault(prev)
	defer histerrors.SetZerologWarnFunc(nil)

	require.NoError(t, SetupLogger(LevelWarn, "console", &bytes.Buffer{}))
	ctx := context.Background()
	assert.False(t, GetLogger().Enabled(ctx, LevelInfo))
	assert.True(t, GetLogger().Enabled(ctx, LevelError))
}
