package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"certinator/internal/api"
	"certinator/internal/bot"
	"certinator/internal/config"
	"certinator/internal/domain"
	"certinator/internal/files"
	"certinator/internal/handlers"
	"certinator/internal/image"
	"certinator/internal/logging"
	"certinator/internal/names"
	"certinator/internal/services"
	"certinator/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	logging.Init(cfg.Logger)

	processor := &image.Processor{}
	renderer := image.NewRenderer(processor, &image.TextRenderer{})
	service := services.NewCertificateService(renderer, processor)

	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch args[0] {
	case "batch":
		return runBatch(service, cfg, args[1:])
	case "serve":
		return runServe(service, cfg)
	case "-h", "--help", "help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage:
  certinator batch --template FILE --font FILE --names FILE.csv [--out FILE.zip] [options]
  certinator serve

Run "certinator batch --help" for render options.`)
}

func runBatch(service *services.CertificateService, cfg config.Config, args []string) int {
	fs := pflag.NewFlagSet("batch", pflag.ContinueOnError)

	var (
		templatePath string
		fontPath     string
		namesPath    string
		outPath      string
		column       string
		preview      string
	)
	opts := cfg.Render

	fs.StringVarP(&templatePath, "template", "t", "", "Template image (.png, .jpg)")
	fs.StringVarP(&fontPath, "font", "f", "", "Font file (.ttf, .otf)")
	fs.StringVarP(&namesPath, "names", "n", "", "Names list (.csv with a Name column)")
	fs.StringVarP(&outPath, "out", "o", cfg.Names.ArchiveName, "Output ZIP archive")
	fs.StringVar(&column, "column", cfg.Names.Column, "CSV column holding the names")
	fs.StringVar(&preview, "preview", "", "Only render the first name as a PNG preview to this file")
	fs.IntVar(&opts.Y, "y", opts.Y, "Vertical text position in pixels")
	fs.IntVarP(&opts.FontSize, "size", "s", opts.FontSize, "Font size in points")
	fs.IntVar(&opts.Spacing, "spaces", opts.Spacing, "Spaces substituted for each space in a name (>= 1)")
	fs.StringVarP(&opts.Color, "color", "c", opts.Color, "Text color (hex, rgb() or name)")
	fs.StringVar(&opts.VerticalAnchor, "anchor", opts.VerticalAnchor, "What y refers to: top or baseline")
	fs.StringVar(&opts.OutputFormat, "format", opts.OutputFormat, "Output format: png or jpeg")
	fs.StringVar(&opts.OnCollision, "on-collision", opts.OnCollision, "Duplicate file names: overwrite, suffix or fail")
	fs.BoolVar(&opts.ContinueOnError, "skip-failed", opts.ContinueOnError, "Skip names that fail to render instead of aborting")
	fs.StringVar(&opts.QR.Content, "qr", opts.QR.Content, "QR code content, {name} is replaced by the name")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if templatePath == "" || fontPath == "" || namesPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --template, --font and --names are required")
		fs.PrintDefaults()
		return 2
	}

	namesSrc, err := files.LoadFile(namesPath)
	if err != nil {
		return fail(err)
	}
	list, err := names.Load(namesSrc.Open(), column)
	if err != nil {
		return fail(err)
	}

	tpl, err := files.LoadFile(templatePath)
	if err != nil {
		return fail(err)
	}
	fnt, err := files.LoadFile(fontPath)
	if err != nil {
		return fail(err)
	}
	assets := domain.Assets{Template: tpl, Font: fnt}

	if preview != "" {
		data, err := service.Preview(assets, opts, list[0])
		if err != nil {
			return fail(err)
		}
		if err := os.WriteFile(preview, data, 0o644); err != nil {
			return fail(err)
		}
		fmt.Printf("Preview of %q written to %s\n", list[0], preview)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := os.CreateTemp(filepath.Dir(outPath), ".certinator-*.zip")
	if err != nil {
		return fail(err)
	}
	defer os.Remove(out.Name())

	report, err := service.Generate(ctx, list, assets, opts, out)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fail(err)
	}
	if err := os.Rename(out.Name(), outPath); err != nil {
		return fail(err)
	}

	fmt.Printf("Generated %d certificates into %s\n", len(report.Entries), outPath)
	for _, s := range report.Skipped {
		fmt.Fprintf(os.Stderr, "Skipped %q: %v\n", s.Name, s.Err)
	}
	return 0
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", domain.Stage(err), err)
	return 1
}

func runServe(service *services.CertificateService, cfg config.Config) int {
	if !cfg.HTTP.Enabled && cfg.BotToken == "" {
		fmt.Fprintln(os.Stderr, "Error: nothing to serve, enable http or set TOKEN")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var srv *http.Server
	if cfg.HTTP.Enabled {
		srv = &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: api.NewRouter(api.NewServer(service, cfg)),
		}
		go func() {
			logging.Info("HTTP server listening", "addr", cfg.HTTP.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("HTTP server error", "error", err)
			}
		}()
	}

	if cfg.BotToken != "" {
		if err := startBot(ctx, service, cfg); err != nil {
			logging.Error("Bot setup failed", "error", err)
			return 1
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logging.Warn("Shutdown signal received")
	cancel()

	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("HTTP server forced to shutdown", "error", err)
		}
	}
	logging.Info("Stopped cleanly")
	return 0
}

func startBot(ctx context.Context, service *services.CertificateService, cfg config.Config) error {
	defaults, err := files.NewAssetLoader(cfg.Assets.Dir, cfg.Assets.TemplateFile, cfg.Assets.FontFile).Load()
	if err != nil {
		return fmt.Errorf("load default assets: %w", err)
	}

	botService, err := bot.NewTelegramBot(cfg.BotToken, cfg.MaxFileSize)
	if err != nil {
		return err
	}

	handler := handlers.NewHandler(
		service,
		botService,
		files.NewTelegramFileManager(botService, cfg.MaxFileSize),
		storage.NewSessionStore(defaults, cfg.Render),
		cfg.Names.Column,
		cfg.Names.ArchiveName,
	)

	go func() {
		if err := botService.Start(ctx, handler.HandleUpdate); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error("Bot stopped with error", "error", err)
		}
	}()
	return nil
}
