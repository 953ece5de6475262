package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"ihsan/internal/donation"
	dErrors "ihsan/pkg/domain-errors"
)

// Loader loads the dataset the server queries, preferring the enriched file
// and degrading to the raw file when it is absent.
type Loader struct {
	rawPath      string
	enrichedPath string
	logger       *slog.Logger
}

// LoaderOption configures the Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used by the Loader.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader over the given file paths.
func NewLoader(rawPath, enrichedPath string, opts ...LoaderOption) *Loader {
	l := &Loader{
		rawPath:      rawPath,
		enrichedPath: enrichedPath,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the enriched dataset when the enriched file exists, otherwise
// falls back to the raw file with Enriched=false. When neither file exists it
// returns an empty degraded dataset and a typed not-found error, letting the
// caller decide whether that is fatal.
func (l *Loader) Load() (donation.Dataset, error) {
	ds, err := l.loadEnriched()
	if err == nil {
		return ds, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return donation.Dataset{}, err
	}

	l.logger.Warn("enriched dataset missing, falling back to raw file",
		"enriched_path", l.enrichedPath,
		"raw_path", l.rawPath,
		"hint", "run cmd/preprocess to regenerate the enriched dataset",
	)

	ds, err = l.loadRaw()
	if err == nil {
		return ds, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return donation.Dataset{}, err
	}

	return donation.Dataset{}, dErrors.New(dErrors.CodeNotFound,
		fmt.Sprintf("no dataset found at %s or %s", l.enrichedPath, l.rawPath))
}

// LoadRaw parses the raw file only, for the pipeline. A missing file is a
// typed not-found error.
func (l *Loader) LoadRaw() (RawResult, error) {
	f, err := os.Open(l.rawPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawResult{}, dErrors.New(dErrors.CodeNotFound,
				fmt.Sprintf("raw dataset not found at %s", l.rawPath))
		}
		return RawResult{}, fmt.Errorf("opening raw dataset: %w", err)
	}
	defer f.Close()

	return ReadRaw(f)
}

// WriteEnrichedFile writes the enriched dataset to the configured path.
func (l *Loader) WriteEnrichedFile(records []donation.Enriched) error {
	f, err := os.Create(l.enrichedPath)
	if err != nil {
		return fmt.Errorf("creating enriched dataset: %w", err)
	}
	if err := WriteEnriched(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (l *Loader) loadEnriched() (donation.Dataset, error) {
	f, err := os.Open(l.enrichedPath)
	if err != nil {
		return donation.Dataset{}, err
	}
	defer f.Close()

	records, err := ReadEnriched(f)
	if err != nil {
		return donation.Dataset{}, err
	}
	l.logger.Info("loaded enriched dataset",
		"path", l.enrichedPath,
		"records", len(records),
	)
	return donation.Dataset{Records: records, Enriched: true}, nil
}

func (l *Loader) loadRaw() (donation.Dataset, error) {
	f, err := os.Open(l.rawPath)
	if err != nil {
		return donation.Dataset{}, err
	}
	defer f.Close()

	result, err := ReadRaw(f)
	if err != nil {
		return donation.Dataset{}, err
	}

	records := make([]donation.Enriched, len(result.Records))
	for i, r := range result.Records {
		records[i] = donation.Enriched{Record: r, Time: donation.TimeDimensionsOf(r.Date)}
	}
	l.logger.Info("loaded raw dataset",
		"path", l.rawPath,
		"records", len(records),
		"dropped", result.Dropped,
	)
	return donation.Dataset{Records: records, Enriched: false}, nil
}
