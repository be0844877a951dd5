package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/colortour/hotspot-editor/internal/config"
	"github.com/colortour/hotspot-editor/internal/dispatcher"
	"github.com/colortour/hotspot-editor/internal/handlers"
	"github.com/colortour/hotspot-editor/internal/hotspot"
	"github.com/colortour/hotspot-editor/internal/logging"
	"github.com/colortour/hotspot-editor/internal/parser"
	"github.com/colortour/hotspot-editor/internal/persistence"
	"github.com/colortour/hotspot-editor/internal/render"
	"github.com/colortour/hotspot-editor/internal/scene"
	"github.com/colortour/hotspot-editor/internal/util"

	"github.com/jessevdk/go-flags"
	"github.com/spf13/viper"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "hotspot_editor"
)

// Options are the command line flags. Anything set here wins over the
// config file.
type Options struct {
	ConfigDir string `long:"config-dir" short:"c" default:"." description:"Directory containing hotspot_editor.cfg.json"`
	LogLevel  string `long:"log-level" description:"Log level (debug, info, warn, error)"`
	Storage   string `long:"storage" choice:"memory" choice:"sqlite" choice:"postgres" description:"Storage medium override"`
	Console   bool   `long:"console" description:"Also log to stdout when logging to a file (or set logToConsole)"`
	NoLogFile bool   `long:"no-log-file" description:"Log to stdout only"`
}

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger = slog.Default()

	SessionStartTime time.Time = time.Now()

	// Services
	sceneRegistry   *scene.Registry
	hotspotStore    *hotspot.Store
	handlerService  *handlers.Service
	eventDispatcher *dispatcher.Dispatcher
)

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	closeFn, err := setup(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeFn(); err != nil {
			Logger.Error("Failed to close storage", "error", err)
		}
	}()

	if err := repl(eventDispatcher, os.Stdin, os.Stdout); err != nil {
		Logger.Error("Console stopped", "error", err)
	}
	Logger.Info("Shutting down")
}

// setup loads configuration, starts logging and wires every service. The
// returned func closes the storage medium.
func setup(opts Options) (func() error, error) {
	configErr := config.Load(opts.ConfigDir)

	if opts.LogLevel != "" {
		viper.Set("logLevel", opts.LogLevel)
	}
	if opts.Storage != "" {
		viper.Set("storage.type", opts.Storage)
	}

	storageCfg := config.GetStorageConfig()

	var logFile *os.File
	if !opts.NoLogFile {
		logsDir := config.GetString("logsDir")
		if err := os.MkdirAll(logsDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}
		var err error
		logFile, err = os.OpenFile(
			logging.LogFilePath(logsDir, AppName, SessionStartTime),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
	}

	SlogManager = logging.NewSlogManager()
	var fileWriter io.Writer
	if logFile != nil {
		fileWriter = logFile
	}
	console := opts.Console || config.GetBool("logToConsole")
	SlogManager.Setup(fileWriter, config.GetString("logLevel"), console, func() []slog.Attr {
		attrs := []slog.Attr{slog.String("storage", storageCfg.Type)}
		if hotspotStore != nil {
			attrs = append(attrs, slog.Int("hotspots", hotspotStore.Len()))
		}
		return attrs
	})
	Logger = SlogManager.Logger()
	Logger.Info("Starting up...", "version", CurrentVersion, "buildDate", BuildDate)
	if configErr != nil {
		Logger.Warn("Using default configuration", "error", configErr)
	}

	var zlogWriter io.Writer
	if logFile != nil {
		zlogWriter = logFile
	}
	zlog := logging.NewZerolog(zlogWriter, config.GetString("logLevel"))

	medium, closeFn, err := initStorage(storageCfg, zlog)
	if err != nil {
		return nil, err
	}

	persister, err := persistence.New(medium,
		persistence.WithKey(storageCfg.Key),
		persistence.WithLimits(
			config.GetInt("persistence.maxRecordBytes"),
			config.GetInt("persistence.truncateKeep"),
		),
		persistence.WithObserver(persistence.LogObserver{Logger: Logger}),
	)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	sceneRegistry = scene.NewRegistry()
	hotspotStore = hotspot.NewStore(hotspot.Dependencies{
		Scenes:    sceneRegistry,
		Renderer:  render.NewTracker(Logger),
		Persister: persister,
		Logger:    Logger,
	})

	handlerService = handlers.NewService(handlers.Dependencies{
		Store:      hotspotStore,
		Scenes:     sceneRegistry,
		Parser:     parser.NewParser(Logger),
		LogManager: SlogManager,
		Settings:   config.GetMarkerSettings(),
	})

	eventDispatcher, err = dispatcher.New(Logger)
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}
	handlerService.Register(eventDispatcher)

	if ok, err := hotspotStore.Sync(); err != nil {
		Logger.Warn("Stored hotspots could not be read", "error", err)
	} else if ok {
		Logger.Info("Loaded stored hotspots", "count", hotspotStore.Len())
	}

	Logger.Info("Editor ready",
		"storage", storageCfg.Type,
		"namespace", medium.Namespace(),
		"key", persister.Key(),
		"configDir", filepath.Clean(opts.ConfigDir),
	)

	return func() error {
		err := closeFn()
		if logFile != nil {
			_ = logFile.Close()
		}
		return err
	}, nil
}

// repl reads one command per line from in and prints results to out until
// in is exhausted or the quit command is entered.
func repl(d *dispatcher.Dispatcher, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if !execute(d, scanner.Text(), out) {
			return nil
		}
	}
}

// execute runs one console line. It returns false when the line asks to
// quit.
func execute(d *dispatcher.Dispatcher, line string, out io.Writer) bool {
	args := util.SplitArgs(line)
	if len(args) == 0 {
		return true
	}

	switch strings.ToLower(args[0]) {
	case "quit", "exit":
		return false
	case "help":
		printHelp(d, out)
		return true
	}

	command, rest := resolveCommand(d, args)
	if command == "" {
		fmt.Fprintf(out, "unknown command %q, try help\n", args[0])
		return true
	}

	result, err := d.Dispatch(dispatcher.Event{Command: command, Args: rest})
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return true
	}
	printResult(out, result)
	return true
}

// resolveCommand accepts the registered form (":HOTSPOT:ADD:") or a
// space separated one ("hotspot add"), trying the two-word form first.
func resolveCommand(d *dispatcher.Dispatcher, args []string) (string, []string) {
	if strings.HasPrefix(args[0], ":") {
		if d.HasHandler(args[0]) {
			return args[0], args[1:]
		}
		return "", nil
	}
	if len(args) > 1 {
		c := ":" + strings.ToUpper(args[0]) + ":" + strings.ToUpper(args[1]) + ":"
		if d.HasHandler(c) {
			return c, args[2:]
		}
	}
	c := ":" + strings.ToUpper(args[0]) + ":"
	if d.HasHandler(c) {
		return c, args[1:]
	}
	return "", nil
}

func printHelp(d *dispatcher.Dispatcher, out io.Writer) {
	for _, c := range d.Commands() {
		fmt.Fprintf(out, "  %-20s %s\n", c.Command, c.Usage)
	}
	fmt.Fprintf(out, "  %-20s\n", "quit")
}

func printResult(out io.Writer, result any) {
	switch v := result.(type) {
	case nil:
		fmt.Fprintln(out, "ok")
	case string:
		fmt.Fprintln(out, v)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(out, "%v\n", v)
			return
		}
		fmt.Fprintln(out, string(b))
	}
}
