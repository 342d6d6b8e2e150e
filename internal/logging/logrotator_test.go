package logging

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLogRotator_NewLogRotator(t *testing.T) {
	tests := []struct {
		name   string
		subdir string
		useUTC bool
	}{
		{name: "local time", subdir: "logs"},
		{name: "utc", subdir: "logs_utc", useUTC: true},
		{name: "nested directory", subdir: filepath.Join("nested", "records", "logs")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), tt.subdir)

			rotator, err := NewLogRotator(dir, tt.useUTC, testLogger())
			require.NoError(t, err)
			defer rotator.Close()

			assert.DirExists(t, dir)

			writer, err := rotator.GetWriter()
			require.NoError(t, err)
			assert.NotNil(t, writer)

			current := rotator.GetCurrentLogFile()
			assert.FileExists(t, current)
			assert.Contains(t, filepath.Base(current), DefaultPrefix+"_")
		})
	}
}

func TestLogRotator_InvalidDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	rotator, err := NewLogRotator(filepath.Join(file, "logs"), true, testLogger())
	assert.Error(t, err)
	assert.Nil(t, rotator)
}

func TestLogRotator_FileName(t *testing.T) {
	dir := t.TempDir()
	c := &clock{t: time.Date(2024, time.July, 4, 23, 59, 0, 0, time.UTC)}

	rotator, err := newLogRotator(dir, "rid", true, testLogger(), c.now)
	require.NoError(t, err)
	defer rotator.Close()

	assert.Equal(t, filepath.Join(dir, "rid_2024-07-04.log"), rotator.GetCurrentLogFile())
}

func TestLogRotator_Rotation(t *testing.T) {
	dir := t.TempDir()
	c := &clock{t: time.Date(2024, time.July, 4, 23, 59, 0, 0, time.UTC)}

	rotator, err := newLogRotator(dir, "rid", true, testLogger(), c.now)
	require.NoError(t, err)

	w, err := rotator.GetWriter()
	require.NoError(t, err)
	_, err = w.Write([]byte("RID,BasicID,hci0,0\n"))
	require.NoError(t, err)

	// same day, no rotation
	rotator.checkRotation()
	first := filepath.Join(dir, "rid_2024-07-04.log")
	assert.Equal(t, first, rotator.GetCurrentLogFile())

	c.t = c.t.Add(2 * time.Minute)
	rotator.checkRotation()
	assert.Equal(t, filepath.Join(dir, "rid_2024-07-05.log"), rotator.GetCurrentLogFile())

	require.NoError(t, rotator.Close())

	assert.NoFileExists(t, first)
	assert.FileExists(t, first+".gz")

	f, err := os.Open(first + ".gz")
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	content, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "RID,BasicID,hci0,0\n", string(content))
	assert.Equal(t, "rid_2024-07-04.log", gz.Name)

	files, err := rotator.GetLogFiles()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestLogRotator_CleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	c := &clock{t: time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)}

	rotator, err := newLogRotator(dir, "rid", true, testLogger(), c.now)
	require.NoError(t, err)
	defer rotator.Close()

	old := filepath.Join(dir, "rid_2024-06-01.log.gz")
	recent := filepath.Join(dir, "rid_2024-07-09.log.gz")
	for _, name := range []string{old, recent} {
		require.NoError(t, os.WriteFile(name, []byte("x"), 0644))
	}
	require.NoError(t, os.Chtimes(old, c.t.AddDate(0, 0, -40), c.t.AddDate(0, 0, -40)))
	require.NoError(t, os.Chtimes(recent, c.t.AddDate(0, 0, -1), c.t.AddDate(0, 0, -1)))

	removed, err := rotator.CleanupOldLogs(30)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, recent)
	assert.FileExists(t, rotator.GetCurrentLogFile())

	_, err = rotator.CleanupOldLogs(0)
	assert.Error(t, err)
}

func TestLogRotator_Close(t *testing.T) {
	rotator, err := NewLogRotator(t.TempDir(), true, testLogger())
	require.NoError(t, err)

	require.NoError(t, rotator.Close())

	_, err = rotator.GetWriter()
	assert.Error(t, err)
	assert.NoError(t, rotator.Close())
}

func TestLogRotator_StartStops(t *testing.T) {
	rotator, err := NewLogRotator(t.TempDir(), true, testLogger())
	require.NoError(t, err)
	defer rotator.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rotator.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rotator did not stop")
	}
}
