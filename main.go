package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	oshttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hashbox/internal/api"
	"hashbox/internal/commands"
	"hashbox/internal/config"
	"hashbox/internal/filestore"
	"hashbox/internal/http"
	"hashbox/internal/objects"
	"hashbox/internal/storage"

	"golang.org/x/sync/errgroup"
)

func run(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("hashbox", flag.ContinueOnError)
	upload := flags.String("upload", "", "File to upload to SERVER_URL (prints the content id)")
	download := flags.String("download", "", "Content id to download from SERVER_URL")
	out := flags.String("out", "", "Destination for -download (defaults to the stored file name)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch {
	case *upload != "" && *download != "":
		return fmt.Errorf("-upload and -download are mutually exclusive")
	case *upload != "":
		_, err := commands.Upload(*upload, cfg, os.Stdout)
		return err
	case *download != "":
		_, err := commands.Download(*download, *out, cfg, os.Stdout)
		return err
	}

	files, meta, closer, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	store := objects.NewService(objects.Config{CacheTTL: cfg.CacheTTL, CacheEntries: cfg.CacheEntries}, files, meta)
	apiServer := http.NewAPIServer(api.New(store, cfg.Backend), cfg.APIAddr)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := apiServer.Start()
		if err != nil && err != oshttp.ErrServerClosed {
			return err
		}
		return nil
	})

	// Wait for context cancellation (signal)
	g.Go(func() error {
		<-gCtx.Done()
		log.Println("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
		return nil
	})

	return g.Wait()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openBackend builds the payload and metadata stores selected by STORE_BACKEND.
func openBackend(cfg *config.Config) (filestore.FileStore, storage.MetadataStore, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendBolt:
		bbStorage, err := storage.NewBboltStorage(cfg.DBFile)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Printf("Using bolt store at %s", cfg.DBFile)
		return bbStorage, bbStorage, bbStorage, nil

	case config.BackendMemory:
		log.Printf("Using in-memory store")
		return filestore.NewMemoryFileStore(), storage.NewMemoryStorage(), nopCloser{}, nil

	default:
		files, err := filestore.NewLocalFileStore(cfg.UploadsPath)
		if err != nil {
			return nil, nil, nil, err
		}
		meta, err := storage.NewSidecarStorage(cfg.UploadsPath)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Printf("Using disk store at %s", cfg.UploadsPath)
		return files, meta, nopCloser{}, nil
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		log.Fatalf("Application error: %v", err)
	}
}
