// Package main is the Libris CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sciencestudio/libris/internal/cli"
	"github.com/sciencestudio/libris/internal/config"
	"github.com/sciencestudio/libris/internal/embedding"
	"github.com/sciencestudio/libris/internal/extract"
	"github.com/sciencestudio/libris/internal/index"
	"github.com/sciencestudio/libris/internal/models"
	"github.com/sciencestudio/libris/internal/search"
	"github.com/sciencestudio/libris/internal/server"
	"github.com/sciencestudio/libris/internal/store"
	"github.com/sciencestudio/libris/internal/watcher"
	"github.com/sciencestudio/libris/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/libris/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "libris server" from the project dir uses the project's
// config (including debug). Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "ingest":
		runIngest()
	case "list":
		runList()
	case "remove":
		runRemove()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("libris version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, file indexing, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	serverOpts := []server.Option{}
	var watchSvc *watcher.Watcher
	if len(cfg.Watch.Directories) > 0 {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.New(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) {
				if _, err := components.IngestFile(context.Background(), path, models.DocumentMeta{}); err != nil {
					logger.Warn("watch index file failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				if _, err := components.Catalog.Remove(context.Background(), path); err != nil && !errors.Is(err, index.ErrNotFound) {
					logger.Warn("watch remove failed", zap.String("path", path), zap.Error(err))
				}
			},
			watchOpts...,
		)
		watchCtx, watchCancel := context.WithCancel(context.Background())
		defer watchCancel()
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
		go watchSvc.SyncExistingFiles()
		serverOpts = append(serverOpts, server.WithWatcher(watchSvc))
	}

	srv := server.NewServer(
		components.Engine,
		components.Manager,
		components.Catalog,
		components.Store,
		cfg,
		logger,
		serverOpts...,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildSearchQuery joins all positional args with spaces so multi-word
// queries work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "libris search query
// -limit 20" would otherwise leave -limit unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func outputFormat(name string) (cli.OutputFormat, error) {
	switch name {
	case "json":
		return cli.OutputJSON, nil
	case "text", "":
		return cli.OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", name)
	}
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct storage mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	limit := fs.Int("limit", 0, "number of results (0 = config default)")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgs)

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: libris search [flags] <query>")
		os.Exit(1)
	}
	format, err := outputFormat(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	searchQuery := &models.SearchQuery{Query: queryStr, Limit: *limit}

	var response *models.SearchResponse
	if *serverURL != "" {
		// Use the HTTP API when the server is running, so the CLI and the
		// server never contend for the SQLite database.
		response, err = searchViaHTTP(*serverURL, searchQuery)
	} else {
		response, err = searchDirect(*configPath, searchQuery)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func searchDirect(configPath string, query *models.SearchQuery) (*models.SearchResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer components.Close()
	if query.Limit <= 0 {
		query.Limit = cfg.Index.DefaultLimit
	}
	return components.Engine.Search(context.Background(), query)
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	title := fs.String("title", "", "document title (default: derived from filename or PDF metadata)")
	author := fs.String("author", "", "document author (default: PDF metadata or Unknown)")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: libris ingest [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)
	format, err := outputFormat(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}

	if info.IsDir() {
		n, err := components.IngestDirectory(ctx, path, cfg.Watch.Extensions)
		if err != nil {
			fmt.Printf("Ingesting directory failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Indexed %d file(s) from %s\n", n, path)
		return
	}

	result, err := components.IngestFile(ctx, path, models.DocumentMeta{Title: *title, Author: *author})
	if err != nil {
		fmt.Printf("Ingesting failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteIngestResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct storage mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := outputFormat(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var summaries []*models.DocumentSummary
	if *serverURL != "" {
		resp, err := http.Get(*serverURL + "/api/v1/documents")
		if err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Documents []*models.DocumentSummary `json:"documents"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		summaries = out.Documents
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		summaries, err = components.Catalog.ListDocuments(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cli.WriteDocumentList(os.Stdout, summaries, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runRemove() {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct storage mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: libris remove [flags] <source>")
		os.Exit(1)
	}
	source := fs.Arg(0)

	if *serverURL != "" {
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/documents?source="+url.QueryEscape(source), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", source)
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	result, err := components.Catalog.Remove(context.Background(), source)
	if err != nil {
		fmt.Printf("Remove failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %s (%d chunks)\n", result.Source, result.Removed)
}

// statusResponse is the shape of the GET /api/v1/status response.
type statusResponse struct {
	Documents      int                    `json:"documents"`
	Chunks         int                    `json:"chunks"`
	DiskUsageBytes *int64                 `json:"disk_usage_bytes,omitempty"`
	WatchedDirs    []string               `json:"watched_directories,omitempty"`
	Config         map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for direct storage mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		ctx := context.Background()
		chunks, err := components.Store.Count(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count chunks failed: %v\n", err)
			os.Exit(1)
		}
		summaries, err := components.Catalog.ListDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "List documents failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Documents: len(summaries),
			Chunks:    chunks,
			Config: map[string]interface{}{
				"embedding_dimensions": cfg.Embedding.Dimensions,
				"chunk_size":           cfg.Index.ChunkSize,
				"chunk_overlap":        cfg.Index.ChunkOverlap,
				"database_path":        cfg.Storage.DatabasePath,
			},
		}
		if usage, err := store.DatabaseDiskUsage(cfg.Storage.DatabasePath); err == nil {
			status.DiskUsageBytes = &usage
		}
	}

	switch *output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:         %d   # count of indexed documents\n", status.Documents)
		fmt.Printf("chunks:            %d   # count of text chunks\n", status.Chunks)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:  %d\n", *status.DiskUsageBytes)
		}
		if len(status.WatchedDirs) > 0 {
			fmt.Println("watched_directories:")
			for _, d := range status.WatchedDirs {
				fmt.Printf("  %s\n", d)
			}
		}
		if len(status.Config) > 0 {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{"embedding_dimensions", "chunk_size", "chunk_overlap", "database_path"} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-21s%v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *output)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Store     store.Store
	Embedder  embedding.Embedder
	Engine    *search.Engine
	Manager   *index.Manager
	Catalog   *index.Catalog
	Extractor *extract.Extractor
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// IngestFile extracts text from the file at path and indexes it under its
// absolute path. Embedded document metadata (PDF, DOCX) fills in title and
// author when the caller left them empty.
func (c *Components) IngestFile(ctx context.Context, path string, meta models.DocumentMeta) (*models.IngestResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(abs))
	text, err := c.Extractor.ExtractBytes(content, ext)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", abs, err)
	}
	title, author := extract.FileMetadata(content, ext)
	if meta.Title == "" {
		meta.Title = title
	}
	if meta.Author == "" {
		meta.Author = author
	}
	return c.Manager.Ingest(ctx, abs, text, meta)
}

// IngestDirectory walks root and ingests every file matching extensions
// (empty = all). It returns the number of files indexed; extraction or
// ingest failures are reported per file but do not abort the walk.
func (c *Components) IngestDirectory(ctx context.Context, root string, extensions []string) (int, error) {
	matches := func(path string) bool {
		if len(extensions) == 0 {
			return true
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		for _, e := range extensions {
			if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
				return true
			}
		}
		return false
	}
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !matches(path) {
			return nil
		}
		if _, ingestErr := c.IngestFile(ctx, path, models.DocumentMeta{}); ingestErr != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", path, ingestErr)
			return nil
		}
		count++
		return nil
	})
	return count, err
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	st, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	// The embedder loads lazily on first use, so commands that never embed
	// (list, remove, status) start fast and work without the model file.
	// A failed load surfaces as embedding.ErrUnavailable on every ingest and
	// search; there is no automatic fallback, since silently mixing a second
	// provider's vectors into an existing store would corrupt relevance.
	embedder := embedding.NewLazy(cfg.Embedding.Dimensions, func() (embedding.Embedder, error) {
		switch cfg.Embedding.Provider {
		case "onnx":
			return embedding.NewONNXEmbedder(
				cfg.Embedding.ModelPath,
				cfg.Embedding.Dimensions,
				cfg.Embedding.MaxTokens,
				cfg.Embedding.CacheSize,
			)
		case "mock":
			logger.Warn("using mock embeddings; relevance is meaningless outside development")
			return embedding.NewMockEmbedder(cfg.Embedding.Dimensions), nil
		default:
			return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
		}
	})

	chunker, err := index.NewChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("invalid chunking config: %w", err)
	}

	manager := index.NewManager(st, embedder, chunker, index.WithLogger(logger))
	catalog := index.NewCatalog(st, index.WithManagerLocks(manager), index.WithCatalogLogger(logger))
	engine := search.NewEngine(st, embedder)

	return &Components{
		Store:     st,
		Embedder:  embedder,
		Engine:    engine,
		Manager:   manager,
		Catalog:   catalog,
		Extractor: extract.NewExtractor(),
	}, nil
}

func printUsage() {
	fmt.Println(`libris - Local semantic document index

Usage:
  libris server [flags]            Start the HTTP server
  libris search [flags] <query>    Search indexed documents
  libris ingest [flags] <path>     Index a file or directory
  libris list [flags]              List indexed documents
  libris remove [flags] <source>   Remove a document by source
  libris status [flags]            Show index status
  libris version                   Show version
  libris help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/libris/config.yaml)
  --debug            Enable debug logging (watch events, file indexing, etc.)

Search Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") to use direct storage when server is not running.
  --limit int        Number of results (default from config)
  --output string    Output format: text or json (default: text)

Ingest Flags:
  --config string    Config file path
  --title string     Document title (default: derived from filename or PDF metadata)
  --author string    Document author (default: PDF metadata or Unknown)
  --output string    Output format: text or json (default: text)

List / Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Remove Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.

Examples:
  libris server
  libris ingest ~/papers/attention.pdf
  libris ingest --title "Field Notes" notes.txt
  libris search sparse attention mechanisms
  libris search --output json "error correction"
  libris list
  libris remove ~/papers/attention.pdf
  libris status --output json`)
}
