// Package logging keeps the decoded record files: one file per day,
// compressed with gzip once the day is over.
package logging

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPrefix is the record file name prefix.
const DefaultPrefix = "remoteid"

// LogRotator writes to <dir>/<prefix>_<YYYY-MM-DD>.log and rotates at
// midnight.
type LogRotator struct {
	logDir      string
	prefix      string
	useUTC      bool
	logger      *logrus.Logger
	now         func() time.Time
	currentFile *os.File
	currentDate string
	compressing sync.WaitGroup
	mutex       sync.RWMutex
}

// NewLogRotator creates the log directory and opens today's file.
func NewLogRotator(logDir string, useUTC bool, logger *logrus.Logger) (*LogRotator, error) {
	return newLogRotator(logDir, DefaultPrefix, useUTC, logger, time.Now)
}

func newLogRotator(logDir, prefix string, useUTC bool, logger *logrus.Logger, now func() time.Time) (*LogRotator, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	r := &LogRotator{
		logDir: logDir,
		prefix: prefix,
		useUTC: useUTC,
		logger: logger,
		now:    now,
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := r.rotateLocked(r.today()); err != nil {
		return nil, fmt.Errorf("failed to initialize log file: %w", err)
	}

	return r, nil
}

// Start checks for a date change every minute until ctx is done.
func (r *LogRotator) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Log rotator stopping")
			return
		case <-ticker.C:
			r.checkRotation()
		}
	}
}

func (r *LogRotator) today() string {
	t := r.now()
	if r.useUTC {
		t = t.UTC()
	}
	return t.Format("2006-01-02")
}

func (r *LogRotator) fileName(date string) string {
	return filepath.Join(r.logDir, fmt.Sprintf("%s_%s.log", r.prefix, date))
}

func (r *LogRotator) checkRotation() {
	date := r.today()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentDate == date {
		return
	}

	r.logger.WithFields(logrus.Fields{
		"old_date": r.currentDate,
		"new_date": date,
	}).Info("Rotating record file")

	if err := r.rotateLocked(date); err != nil {
		r.logger.WithError(err).Error("Failed to rotate record file")
	}
}

func (r *LogRotator) rotateLocked(date string) error {
	if r.currentFile != nil {
		if err := r.currentFile.Close(); err != nil {
			r.logger.WithError(err).Error("Failed to close old record file")
		}

		old := r.fileName(r.currentDate)
		r.compressing.Add(1)
		go func() {
			defer r.compressing.Done()
			r.compress(old)
		}()
	}

	name := r.fileName(date)
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		r.currentFile = nil
		return fmt.Errorf("failed to create record file %s: %w", name, err)
	}

	r.currentFile = file
	r.currentDate = date
	r.logger.WithField("file", name).Info("Opened record file")
	return nil
}

// compress replaces name with name.gz.
func (r *LogRotator) compress(name string) {
	target := name + ".gz"
	log := r.logger.WithFields(logrus.Fields{"source": name, "target": target})

	src, err := os.Open(name)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Error("Failed to open record file for compression")
		}
		return
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		log.WithError(err).Error("Failed to create compressed file")
		return
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	gz.Name = filepath.Base(name)
	gz.ModTime = r.now()

	if _, err := io.Copy(gz, src); err != nil {
		log.WithError(err).Error("Failed to compress record file")
		return
	}
	if err := gz.Close(); err != nil {
		log.WithError(err).Error("Failed to close gzip writer")
		return
	}
	if err := dst.Close(); err != nil {
		log.WithError(err).Error("Failed to close compressed file")
		return
	}
	if err := os.Remove(name); err != nil {
		log.WithError(err).Error("Failed to remove compressed record file")
		return
	}

	log.Debug("Record file compressed")
}

// GetWriter returns the current file.
func (r *LogRotator) GetWriter() (io.Writer, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentFile == nil {
		return nil, fmt.Errorf("no current record file")
	}
	return r.currentFile, nil
}

// GetCurrentLogFile returns the path of the file being written.
func (r *LogRotator) GetCurrentLogFile() string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if r.currentDate == "" {
		return ""
	}
	return r.fileName(r.currentDate)
}

// GetLogFiles lists record files, compressed ones included.
func (r *LogRotator) GetLogFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.logDir, r.prefix+"_*.log*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list record files: %w", err)
	}
	return files, nil
}

// CleanupOldLogs removes record files last modified more than maxDays ago.
func (r *LogRotator) CleanupOldLogs(maxDays int) (int, error) {
	if maxDays <= 0 {
		return 0, fmt.Errorf("maxDays must be positive")
	}

	files, err := r.GetLogFiles()
	if err != nil {
		return 0, err
	}

	cutoff := r.now().AddDate(0, 0, -maxDays)
	current := r.GetCurrentLogFile()

	removed := 0
	for _, file := range files {
		if file == current {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			r.logger.WithError(err).WithField("file", file).Warn("Failed to stat record file")
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(file); err != nil {
			r.logger.WithError(err).WithField("file", file).Error("Failed to remove old record file")
			continue
		}
		removed++
	}

	r.logger.WithField("count", removed).Info("Cleaned up old record files")
	return removed, nil
}

// Close closes the current file and waits for pending compressions.
func (r *LogRotator) Close() error {
	r.mutex.Lock()
	var err error
	if r.currentFile != nil {
		err = r.currentFile.Close()
		r.currentFile = nil
	}
	r.mutex.Unlock()

	r.compressing.Wait()
	return err
}
