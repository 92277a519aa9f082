package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeLogsFailureWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	ctx := WithRequestID(context.Background(), "abc")

	func() (err error) {
		defer Time(ctx, "geocode")(&err)
		return errors.New("boom")
	}()

	func() (err error) {
		defer Time(ctx, "resolve")(&err)
		return nil
	}()

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "abc", entries[0].ContextMap()["req_id"])
		assert.Equal(t, "geocode", entries[0].ContextMap()["op"])
		assert.Equal(t, "boom", entries[0].ContextMap()["error"])

		assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
		assert.Equal(t, "resolve", entries[1].ContextMap()["op"])
	}
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
