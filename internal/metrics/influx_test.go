package metrics

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dronescope/playback/internal/config"
)

func tickPoint(elapsed time.Duration, tracks int) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement("tick").
		AddField("duration_us", elapsed.Microseconds()).
		AddField("track_count", tracks).
		SetTime(time.Now())
}

func TestConnect_DisabledReturnsError(t *testing.T) {
	rec := NewRecorder(zerolog.Nop(), config.InfluxConfig{Enabled: false}, "")
	err := rec.Connect()
	assert.Error(t, err)
	assert.False(t, rec.IsValid)
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	rec := NewRecorder(zerolog.Nop(), config.InfluxConfig{}, "")

	err := rec.WritePoint(BucketPlayback, tickPoint(5*time.Millisecond, 2))
	assert.Error(t, err)
}

func TestRecordTick_WritesLineProtocolToBackup(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(zerolog.Nop(), config.InfluxConfig{}, "")
	rec.BackupWriter = gzip.NewWriter(&buf)

	rec.RecordTick(1500*time.Microsecond, 3)
	require.NoError(t, rec.BackupWriter.Close())

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	raw, err := io.ReadAll(gz)
	require.NoError(t, err)

	line := string(raw)
	assert.Contains(t, line, "tick")
	assert.Contains(t, line, "duration_us=1500i")
	assert.Contains(t, line, "track_count=3i")
}

func TestRecorder_UnregisteredBucket(t *testing.T) {
	rec := NewRecorder(zerolog.Nop(), config.InfluxConfig{}, "")
	rec.IsValid = true

	err := rec.WritePoint("no_such_bucket", tickPoint(time.Millisecond, 1))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}
