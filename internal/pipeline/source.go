package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ppiankov/posterior/internal/extract"
	"github.com/ppiankov/posterior/internal/model"
	"github.com/ppiankov/posterior/internal/util"
	"go.uber.org/zap"
)

// StdinSource names standard input on the command line
const StdinSource = "-"

// Input is a fully read input file
type Input struct {
	Source string // Path, URL or "-"
	Data   []byte
	HTML   bool // Records are embedded in an HTML page
}

// Model ingests the input's records
func (in *Input) Model(logger *zap.Logger) (*model.Model, error) {
	if !in.HTML {
		return extract.Ingest(bytes.NewReader(in.Data), logger)
	}

	lines, err := extract.LinesFromHTML(string(in.Data))
	if err != nil {
		return nil, fmt.Errorf("extract records from HTML: %w", err)
	}
	return extract.IngestLines(lines, logger)
}

// Loader reads inputs from files, standard input, or http(s) URLs
type Loader struct {
	fetcher       *Fetcher
	robots        *util.RobotsChecker
	respectRobots bool
	maxBytes      int64
	stdin         io.Reader
	logger        *zap.Logger
}

// NewLoader creates a loader from the HTTP settings
func NewLoader(cfg model.HTTPConfig, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	proxy := util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	return &Loader{
		fetcher:       NewFetcher(cfg, logger),
		robots:        util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout, proxy),
		respectRobots: cfg.RespectRobots,
		maxBytes:      cfg.MaxBodyBytes,
		stdin:         os.Stdin,
		logger:        logger,
	}
}

// Load reads the whole source before anything is parsed
func (l *Loader) Load(ctx context.Context, source string) (*Input, error) {
	switch {
	case source == StdinSource:
		return l.loadReader(source, l.stdin)
	case isRemote(source):
		return l.loadURL(ctx, source)
	default:
		return l.loadFile(source)
	}
}

func (l *Loader) loadFile(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	in, err := l.loadReader(path, f)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	in.HTML = in.HTML || ext == ".html" || ext == ".htm"
	return in, nil
}

func (l *Loader) loadReader(source string, r io.Reader) (*Input, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("read input: %w (%d bytes)", errTooLarge, l.maxBytes)
	}

	l.logger.Debug("Input loaded", zap.String("source", source), zap.Int("bytes", len(data)))
	return &Input{Source: source, Data: data, HTML: looksLikeHTML(data)}, nil
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (*Input, error) {
	if l.respectRobots {
		allowed, err := l.robots.Allowed(ctx, rawURL)
		if err != nil {
			l.logger.Warn("robots.txt check failed, fetching anyway", zap.String("url", rawURL), zap.Error(err))
		}
		if !allowed {
			return nil, fmt.Errorf("fetch %s: disallowed by robots.txt", rawURL)
		}
	}

	result, err := l.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	l.logger.Info("Remote input fetched",
		zap.String("url", result.FinalURL),
		zap.String("content_type", result.ContentType),
		zap.Int("bytes", len(result.Body)))

	mediaType, _, _ := mime.ParseMediaType(result.ContentType)
	return &Input{
		Source: result.FinalURL,
		Data:   result.Body,
		HTML:   mediaType == "text/html" || mediaType == "application/xhtml+xml" || looksLikeHTML(result.Body),
	}, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func looksLikeHTML(data []byte) bool {
	return mimetype.Detect(data).Is("text/html")
}
