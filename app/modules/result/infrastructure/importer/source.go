package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	resultservice "github.com/Black-And-White-Club/moto-pickem/app/modules/result/application"
	"github.com/Black-And-White-Club/moto-pickem/app/modules/result/infrastructure/importer/parsers"
	"github.com/Black-And-White-Club/moto-pickem/app/shared/attr"
	sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"
)

// ErrFileTooLarge is returned when a results sheet exceeds maxFileSize.
var ErrFileTooLarge = errors.New("results file too large")

// expandTemplate fills {round}, {class}, and {type} placeholders.
func expandTemplate(tmpl string, round resultservice.RoundRef, class sharedtypes.PickClass) string {
	return strings.NewReplacer(
		"{round}", strconv.Itoa(int(round.Number)),
		"{class}", string(class),
		"{type}", strings.ToLower(string(round.RaceType)),
	).Replace(tmpl)
}

// toPositions keeps rows for class and rejects a feed that lists a rider twice.
func toPositions(rows []parsers.Row, class sharedtypes.PickClass) (map[string]int, error) {
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		if r.Class != "" && !strings.Contains(r.Class, string(class)) {
			continue
		}
		if _, dup := out[r.Rider]; dup {
			return nil, fmt.Errorf("rider %q listed twice", r.Rider)
		}
		out[r.Rider] = r.Position
	}
	return out, nil
}

// HTTPSource downloads a CSV or XLSX results sheet from a URL template.
type HTTPSource struct {
	urlTemplate string
	client      *http.Client
	factory     parsers.ParserFactory
	logger      *slog.Logger
}

var _ resultservice.ResultsSource = (*HTTPSource)(nil)

func NewHTTPSource(urlTemplate string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	return &HTTPSource{
		urlTemplate: urlTemplate,
		client:      newDownloadClient(timeout),
		factory:     parsers.NewFactory(),
		logger:      logger,
	}
}

func (s *HTTPSource) FetchPositions(ctx context.Context, round resultservice.RoundRef, class sharedtypes.PickClass) (map[string]int, error) {
	url := expandTemplate(s.urlTemplate, round, class)
	req, err := newDownloadRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Not published yet.
		return map[string]int{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(data) > maxFileSize {
		return nil, ErrFileTooLarge
	}

	parser, err := s.factory.GetParser(url, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	rows, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	s.logger.DebugContext(ctx, "Fetched results sheet",
		attr.String("url", url),
		attr.Int("rows", len(rows)),
	)
	return toPositions(rows, class)
}

// FileSource reads results sheets from a local path template, e.g.
// "results/r{round}_{class}.csv".
type FileSource struct {
	pathTemplate string
	factory      parsers.ParserFactory
}

var _ resultservice.ResultsSource = (*FileSource)(nil)

func NewFileSource(pathTemplate string) *FileSource {
	return &FileSource{pathTemplate: pathTemplate, factory: parsers.NewFactory()}
}

func (s *FileSource) FetchPositions(ctx context.Context, round resultservice.RoundRef, class sharedtypes.PickClass) (map[string]int, error) {
	path := expandTemplate(s.pathTemplate, round, class)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFileSize {
		return nil, ErrFileTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parser, err := s.factory.GetParser(path, "")
	if err != nil {
		return nil, err
	}
	rows, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return toPositions(rows, class)
}

// NewSource picks a FileSource for file:// or bare paths and an HTTPSource
// otherwise. An empty location disables importing.
func NewSource(location string, timeout time.Duration, logger *slog.Logger) resultservice.ResultsSource {
	switch {
	case location == "":
		return nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, timeout, logger)
	default:
		return NewFileSource(strings.TrimPrefix(location, "file://"))
	}
}
