package util

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDate(t *testing.T) {
	for _, s := range []string{"2025-10-11", "1958-08-04", "2024-02-29"} {
		got, err := ValidateDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, got)
	}

	for _, s := range []string{"", "2025-13-01", "2025-02-30", "2023-02-29", "11-10-2025", "2025/10/11", "2025-10-11x"} {
		_, err := ValidateDate(s)
		require.Error(t, err, s)
		assert.Equal(t, ExitUsage, ExitCode(err), s)
		assert.Contains(t, err.Error(), "is not a valid YYYY-MM-DD date", s)
	}
}

func TestParseOptionalDate(t *testing.T) {
	zero, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	d, err := ParseOptionalDate("2010-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseOptionalDate("Jan 1 2010")
	assert.True(t, IsUsage(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitUsage, ExitCode(Usagef("bad slug %q", "x")))
	assert.Equal(t, ExitUsage, ExitCode(fmt.Errorf("wrapped: %w", Usagef("bad"))))
}

func TestPacerFirstCallDoesNotSleep(t *testing.T) {
	p := NewPacer(time.Hour)
	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestPacerWaitsBetweenCalls(t *testing.T) {
	p := NewPacer(20 * time.Millisecond)
	ctx := context.Background()
	require.NoError(t, p.Wait(ctx))

	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestPacerRespectsCancellation(t *testing.T) {
	p := NewPacer(time.Hour)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, Seconds(0.2))
	assert.Equal(t, 25*time.Second, Seconds(25))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")
	logger.Debug("hidden")
	logger.Info("shown", "chart", "hot-100")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"chart":"hot-100"`)

	buf.Reset()
	logger = NewLogger(&buf, "bogus", "text")
	logger.Info("quiet by default")
	logger.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet by default")
	assert.Contains(t, buf.String(), "loud")
}
