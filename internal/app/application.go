package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"goremoteid/internal/logging"
	"goremoteid/internal/monitor"
	"goremoteid/internal/publish"
	"goremoteid/internal/record"
	"goremoteid/pkg/remoteid"
)

// inputDrainTimeout bounds the wait for the line loop after a signal.
const inputDrainTimeout = 2 * time.Second

// eventPublisher is satisfied by *publish.Publisher.
type eventPublisher interface {
	Publish(ctx context.Context, events []publish.Event) error
	Close() error
}

// Application runs the receive pipeline: it reads frames, decodes them,
// and fans the results out to records, metrics and Redis.
type Application struct {
	config     Config
	logger     *logrus.Logger
	logRotator *logging.LogRotator
	records    *record.Writer
	metrics    *monitor.Metrics
	monitor    *monitor.Monitor
	publisher  eventPublisher
	stdout     io.Writer
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	received atomic.Uint64
	decoded  atomic.Uint64
	failed   atomic.Uint64
}

// NewApplication creates a new application instance.
func NewApplication(config Config, logger *logrus.Logger) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	return &Application{
		config:  config,
		logger:  logger,
		metrics: monitor.NewMetrics(),
		stdout:  os.Stdout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start runs until the input is exhausted or a signal arrives.
func (app *Application) Start() error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting Remote ID receiver")

	if err := app.initializeComponents(); err != nil {
		app.shutdown()
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	input, err := app.openInput()
	if err != nil {
		app.shutdown()
		return err
	}
	defer input.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	app.run()

	// not tracked by wg: a read blocked on stdin must not hold up shutdown,
	// drainInput bounds the wait instead
	done := make(chan error, 1)
	go func() {
		done <- app.Run(app.ctx, input)
	}()

	var runErr error
	select {
	case <-sigChan:
		app.logger.Info("Received shutdown signal")
		app.drainInput(done, inputDrainTimeout)
	case runErr = <-done:
		if runErr != nil {
			app.logger.WithError(runErr).Error("Input failed")
		} else {
			app.logger.Info("Input exhausted")
		}
	}

	app.shutdown()
	return runErr
}

func (app *Application) initializeComponents() error {
	var err error

	var files record.WriterSource
	if app.config.Records.Dir != "" {
		app.logRotator, err = logging.NewLogRotator(app.config.Records.Dir, app.config.Records.UTC, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize log rotator: %w", err)
		}
		files = app.logRotator

		if app.config.Records.MaxDays > 0 {
			if _, err := app.logRotator.CleanupOldLogs(app.config.Records.MaxDays); err != nil {
				app.logger.WithError(err).Warn("Failed to clean up old record files")
			}
		}
	}

	var echo io.Writer
	if app.config.Records.Stdout {
		echo = app.stdout
	}
	app.records = record.NewWriter(files, echo, app.logger)

	if app.config.Monitor.Enabled {
		app.monitor = monitor.NewMonitor(app.metrics, app.config.Monitor.MetricsPort, app.logger)
	}

	if app.config.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(app.ctx, 5*time.Second)
		defer cancel()

		app.publisher, err = publish.NewPublisher(ctx, publish.Options{
			Addr:     app.config.Redis.Addr,
			Password: app.config.Redis.Password,
			DB:       app.config.Redis.DB,
			PoolSize: app.config.Redis.PoolSize,
			Channel:  app.config.Redis.Channel,
			History:  app.config.Redis.History,
		}, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize publisher: %w", err)
		}
	}

	return nil
}

func (app *Application) openInput() (io.ReadCloser, error) {
	if app.config.Input == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(app.config.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

// run starts the background goroutines.
func (app *Application) run() {
	if app.logRotator != nil {
		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.logRotator.Start(app.ctx)
		}()
	}

	if app.monitor != nil {
		app.monitor.StartMetricsServer()

		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			app.monitor.StartRuntimeMonitor(app.ctx, 10*time.Second)
		}()
	}

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportStatistics()
	}()

	app.logger.Info("All components started successfully")
}

// Run processes lines from r until EOF or ctx is done.
func (app *Application) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		app.ProcessLine(ctx, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// drainInput cancels the line loop and waits up to timeout for it to
// return, so no frame is still being written when the sinks close. It
// reports whether the loop returned in time.
func (app *Application) drainInput(done <-chan error, timeout time.Duration) bool {
	app.cancel()

	select {
	case err := <-done:
		if err != nil {
			app.logger.WithError(err).Error("Input failed")
		}
		return true
	case <-time.After(timeout):
		app.logger.Warn("Input still blocked, closing sinks")
		return false
	}
}

// ProcessLine decodes one input line. Failures are counted and logged,
// never returned.
func (app *Application) ProcessLine(ctx context.Context, line string) {
	source, data, ok, err := ParseLine(line)
	if !ok {
		return
	}
	app.received.Add(1)

	if err != nil {
		app.fail(source, err)
		return
	}

	start := time.Now()
	app.metrics.ObserveFrame(len(data))

	frame, err := remoteid.DecodeFrame(data)
	if err != nil {
		app.fail(source, err)
		return
	}

	msgs := record.Flatten(frame.Message)
	for _, msg := range msgs {
		app.metrics.ObserveMessage(msg.Type())
	}
	app.decoded.Add(uint64(len(msgs)))

	if err := app.records.WriteFrame(source, frame); err != nil {
		app.logger.WithError(err).Error("Failed to write record")
	}

	if app.publisher != nil {
		events := publish.NewEvents(source, frame, start)
		if err := app.publisher.Publish(ctx, events); err != nil {
			app.metrics.PublishErrors.Inc()
			app.logger.WithError(err).Warn("Failed to publish messages")
		}
	}

	app.metrics.ProcessingDuration.Observe(time.Since(start).Seconds())

	app.logger.WithFields(logrus.Fields{
		"source":  source,
		"counter": frame.Counter,
		"type":    frame.Message.Type(),
	}).Debug("Decoded frame")
}

func (app *Application) fail(source string, err error) {
	app.failed.Add(1)
	app.metrics.ObserveError(err)
	app.logger.WithFields(logrus.Fields{
		"source": source,
		"kind":   monitor.ErrorKind(err),
	}).WithError(err).Debug("Dropped frame")
}

// GetStats returns lines received, messages decoded and frames failed.
func (app *Application) GetStats() (received, decoded, failed uint64) {
	return app.received.Load(), app.decoded.Load(), app.failed.Load()
}

func (app *Application) reportStatistics() {
	ticker := time.NewTicker(app.config.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			app.logStatistics()
		}
	}
}

func (app *Application) logStatistics() {
	received, decoded, failed := app.GetStats()

	rate := 0.0
	if received > 0 {
		rate = float64(received-failed) / float64(received) * 100
	}

	app.logger.WithFields(logrus.Fields{
		"received":     received,
		"decoded":      decoded,
		"failed":       failed,
		"success_rate": fmt.Sprintf("%.2f%%", rate),
	}).Info("Remote ID receive statistics")
}

func (app *Application) shutdown() {
	app.logger.Info("Shutting down application")
	app.cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines finished")
	case <-time.After(5 * time.Second):
		app.logger.Warn("Shutdown timeout, forcing exit")
	}

	app.logStatistics()

	if app.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := app.monitor.Shutdown(ctx); err != nil {
			app.logger.WithError(err).Warn("Failed to stop metrics server")
		}
		cancel()
	}
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.WithError(err).Warn("Failed to close publisher")
		}
	}
	if app.logRotator != nil {
		if err := app.logRotator.Close(); err != nil {
			app.logger.WithError(err).Warn("Failed to close log rotator")
		}
	}

	app.logger.Info("Shutdown completed")
}
