// Command pdfoutline extracts the section outline of a PDF and reads its
// sections, images and metadata. It can also serve the same operations over
// HTTP or as MCP tools on stdio.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsawler/pdfoutline"
	"github.com/tsawler/pdfoutline/internal/api"
	"github.com/tsawler/pdfoutline/internal/cache"
	"github.com/tsawler/pdfoutline/internal/config"
	"github.com/tsawler/pdfoutline/internal/mcptools"
	"github.com/tsawler/pdfoutline/internal/render"
	"github.com/tsawler/pdfoutline/model"
)

const version = "0.3.0"

const usage = `Usage: pdfoutline <command> [flags] [file.pdf]

Commands:
  outline   print the section tree
  read      print a section's Markdown text
  peek      print an excerpt of a section
  images    list the images of a section
  image     write an image's bytes
  info      print document metadata
  serve     run the HTTP API
  mcp       run the MCP tools on stdin/stdout
`

// errUsage is returned for bad invocations; main exits with status 2
var errUsage = errors.New("usage")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfoutline: %v\n", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = run(ctx, os.Args[1:], os.Stdout, cfg, log)
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	case err != nil:
		fmt.Fprintf(os.Stderr, "pdfoutline: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, cfg config.Config, log *slog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "serve":
		return serve(ctx, cfg, log)
	case "mcp":
		return serveMCP(ctx, cfg, log)
	case "version":
		fmt.Fprintln(stdout, version)
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	case "outline", "read", "peek", "images", "image", "info":
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	section := fs.String("section", "", `section ID such as "s1-2"; empty for the whole document`)
	html := fs.Bool("html", false, "render HTML instead of JSON or Markdown (outline, read)")
	position := fs.String("position", "beginning", "peek position: beginning, middle, ending or random")
	limit := fs.Int("limit", pdfoutline.DefaultPeekLimit, "peek length in characters")
	imageID := fs.String("id", "", `image ID such as "p1-Im1" (image)`)
	out := fs.String("o", "", "output file for image bytes; stdout when empty")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: expected one PDF path", errUsage)
	}

	data, err := readInput(fs.Arg(0), cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	var id *model.SectionID
	if *section != "" {
		parsed, err := model.ParseSectionID(*section)
		if err != nil {
			return err
		}
		id = &parsed
	}

	doc, err := pdfoutline.OpenContext(ctx, data,
		pdfoutline.WithWorkers(cfg.Workers),
		pdfoutline.WithTableConfig(cfg.Tables),
		pdfoutline.WithLogger(log),
	)
	if err != nil {
		return err
	}

	switch cmd {
	case "outline":
		if *html {
			s, err := render.OutlineHTML(doc.Tree())
			if err != nil {
				return err
			}
			_, err = io.WriteString(stdout, s)
			return err
		}
		return printJSON(stdout, doc.Tree())

	case "read":
		content, err := doc.ReadSection(id)
		if err != nil {
			return err
		}
		text := content.Text
		if *html {
			if text, err = render.MarkdownToHTML(text); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(stdout, text)
		return err

	case "peek":
		pos, err := model.ParsePosition(*position)
		if err != nil {
			return err
		}
		if *limit < 0 {
			return fmt.Errorf("%w: negative limit", errUsage)
		}
		peek, err := doc.PeekSection(id, pos, *limit)
		if err != nil {
			return err
		}
		return printJSON(stdout, peek)

	case "images":
		refs, err := doc.ListSectionImages(id)
		if err != nil {
			return err
		}
		if refs == nil {
			refs = []model.EnrichedImageRef{}
		}
		return printJSON(stdout, refs)

	case "image":
		if *imageID == "" {
			return fmt.Errorf("%w: -id is required", errUsage)
		}
		img, err := doc.GetImage(*imageID)
		if err != nil {
			return err
		}
		if *out == "" {
			_, err = stdout.Write(img.Data)
			return err
		}
		if err := os.WriteFile(*out, img.Data, 0o644); err != nil {
			return err
		}
		log.Info("image written", "id", *imageID, "format", img.Format, "path", *out, "bytes", len(img.Data))
		return nil

	default: // info
		return printJSON(stdout, doc.Info())
	}
}

func readInput(path string, limit int64) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > limit {
		return nil, fmt.Errorf("%s exceeds max size (%d bytes)", path, limit)
	}
	return os.ReadFile(path)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCache(cfg config.Config, log *slog.Logger) *cache.Cache {
	return cache.New(cfg.CacheSize, func(data []byte) (*pdfoutline.Document, error) {
		return pdfoutline.Open(data,
			pdfoutline.WithWorkers(cfg.Workers),
			pdfoutline.WithTableConfig(cfg.Tables),
			pdfoutline.WithLogger(log),
		)
	})
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	srv := api.NewServer(newCache(cfg, log), log, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting pdfoutline", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func serveMCP(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "pdfoutline", Version: version}, &mcp.ServerOptions{Logger: log})
	mcptools.New(newCache(cfg, log), log, cfg.MaxUploadBytes).Register(srv)

	log.Info("starting pdfoutline mcp")
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
