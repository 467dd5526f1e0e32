// Command dronescope runs a headless flight playback session: it loads
// drone telemetry CSVs, drives the playback clock on a ticker and
// pushes resolved frames to the configured sink, taking commands
// through the input dispatcher.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dronescope/playback/internal/config"
	"github.com/dronescope/playback/internal/dispatcher"
	"github.com/dronescope/playback/internal/logging"
	"github.com/dronescope/playback/internal/metrics"
	"github.com/dronescope/playback/internal/monitor"
	"github.com/dronescope/playback/internal/playback"
	"github.com/dronescope/playback/internal/session"
	"github.com/dronescope/playback/internal/store"
	"github.com/dronescope/playback/internal/stream"
	"github.com/dronescope/playback/internal/worker"
	"github.com/dronescope/playback/pkg/render"
	"github.com/dronescope/playback/pkg/streaming"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"
)

const AppName = "dronescope"

var (
	SlogManager *logging.SlogManager
	Logger      *slog.Logger

	SessionStartTime = time.Now()

	// sessionStatus is set once the controller exists; until then
	// shipped log records carry no playback attributes.
	sessionStatus func() session.Snapshot
)

// sessionAttrs injects live playback state into shipped log records.
func sessionAttrs() []slog.Attr {
	if sessionStatus == nil {
		return nil
	}
	st := sessionStatus()
	return []slog.Attr{
		slog.String("clockState", st.ClockState),
		slog.Float64("playbackTime", st.CurrentTime),
		slog.Int("trackCount", st.TrackCount),
	}
}

func main() {
	configDir := flag.String("config", ".", "directory containing dronescope.cfg.json")
	demo := flag.Bool("demo", false, "generate synthetic flights and play them back")
	demoFor := flag.Duration("demo-duration", 10*time.Second, "how long the demo playback runs")
	flag.Parse()

	// Bootstrap logging to console only until config is loaded.
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info")
	Logger = SlogManager.Logger()

	if err := config.Load(*configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults", "error", err)
	} else {
		Logger.Info("Loaded config", "dir", *configDir)
	}

	logsDir := config.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.MkdirAll(logsDir, 0755)
	}

	logFilePath := logging.LogFilePath(logsDir, AppName, SessionStartTime)
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file", "error", err, "path", logFilePath)
	}

	var extraHandlers []slog.Handler
	graylogCfg := config.GetGraylogConfig()
	if graylogCfg.Enabled {
		gelfHandler, err := logging.NewGelfHandler(graylogCfg.Address, config.GetString("logLevel"))
		if err != nil {
			Logger.Error("Failed to connect GELF handler", "error", err, "address", graylogCfg.Address)
		} else {
			extraHandlers = append(extraHandlers, logging.NewContextHandler(gelfHandler, sessionAttrs))
		}
	}

	SlogManager.Setup(logFile, config.GetString("logLevel"), extraHandlers...)
	Logger = SlogManager.Logger()
	Logger.Info("Starting up", "version", Version, "buildDate", BuildDate, "log", logFilePath)

	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Metrics are optional; a failed connect falls back to the gzip
	// backup file inside the recorder.
	var tickRecorder session.TickRecorder
	var metricsRecorder *metrics.Recorder
	influxCfg := config.GetInfluxConfig()
	if influxCfg.Enabled {
		metricsRecorder = metrics.NewRecorder(zlog, influxCfg, filepath.Join(logsDir, "metrics_backup.gz"))
		if err := metricsRecorder.Connect(); err != nil {
			Logger.Warn("Metrics recorder unavailable", "error", err)
		} else {
			tickRecorder = metricsRecorder
		}
	}

	pbCfg := config.GetPlaybackConfig()

	// Frames go to the remote viewer when streaming is configured,
	// otherwise to the log sink.
	var sink render.FrameSink = newLogSink(Logger)
	var streamSink *stream.Sink
	streamCfg := config.GetStreamConfig()
	if streamCfg.Enabled {
		streamSink = stream.New(stream.Config{URL: streamCfg.URL, Secret: streamCfg.Secret}, Logger)
		if err := streamSink.Init(); err != nil {
			Logger.Warn("Frame streaming unavailable", "error", err, "url", streamCfg.URL)
			streamSink = nil
		} else {
			if err := streamSink.Begin(streaming.BeginSessionPayload{
				Name:          AppName,
				StartedAt:     SessionStartTime,
				ViewportWidth: pbCfg.ViewportWidth,
				Version:       Version,
			}); err != nil {
				Logger.Warn("Viewer did not acknowledge session", "error", err)
			}
			sink = streamSink
		}
	}

	ingest := worker.NewManager(worker.Dependencies{Logger: Logger})
	sched := playback.NewTickerScheduler(pbCfg.TickInterval)

	controller := session.New(session.Dependencies{
		Logger:  Logger,
		Store:   store.New(),
		Ingest:  ingest,
		Sink:    sink,
		Metrics: tickRecorder,
	}, sched, pbCfg.ViewportWidth)

	applyRenderConfig(controller)
	sessionStatus = controller.Status

	eventDispatcher, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		Logger.Error("Failed to create dispatcher", "error", err)
		os.Exit(1)
	}
	controller.RegisterHandlers(eventDispatcher)

	monitorService := monitor.NewService(monitor.Dependencies{
		LogManager: SlogManager,
		Status:     controller.Status,
		StatusDir:  logsDir,
	})
	if err := monitorService.Start(); err != nil {
		Logger.Error("Failed to start status monitor", "error", err)
	}

	controller.Start()

	for _, path := range flag.Args() {
		if _, err := eventDispatcher.Dispatch(dispatcher.Event{
			Command:   "ingest:load",
			Args:      []string{path},
			Timestamp: time.Now(),
		}); err != nil {
			Logger.Error("Failed to queue telemetry load", "path", path, "error", err)
		}
	}

	if *demo {
		if err := runDemo(eventDispatcher, *demoFor); err != nil {
			Logger.Error("Demo run failed", "error", err)
		}
	} else {
		waitForShutdown()
	}

	Logger.Info("Shutting down")
	controller.Close()
	monitorService.Stop()
	if streamSink != nil {
		if err := streamSink.End(); err != nil {
			Logger.Warn("Failed to end streamed session", "error", err)
		}
		streamSink.Close()
	}
	if metricsRecorder != nil {
		metricsRecorder.Close()
	}
	if logFile != nil {
		logFile.Close()
	}
}

// applyRenderConfig seeds the session's presentation options from the
// config file.
func applyRenderConfig(c *session.Controller) {
	renderCfg := config.GetRenderConfig()
	c.SetScaleFactor(renderCfg.ScaleFactor)
	c.SetShowGrid(renderCfg.ShowGrid)
	c.SetShowAxes(renderCfg.ShowAxes)
	c.SetShowFlightPaths(renderCfg.ShowFlightPaths)
}

func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	fmt.Fprintln(os.Stderr)
	Logger.Info("Received signal", "signal", sig.String())
}
