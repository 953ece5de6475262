package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ihsan/internal/dataset"
	"ihsan/internal/donation"
	"ihsan/internal/enrich"
	"ihsan/internal/translate"
	"ihsan/internal/translate/remote"
	"ihsan/internal/translate/store/memory"
	"ihsan/pkg/testutil"
)

type fakeSource struct {
	raw     dataset.RawResult
	loadErr error
	written []donation.Enriched
}

func (f *fakeSource) LoadRaw() (dataset.RawResult, error) {
	return f.raw, f.loadErr
}

func (f *fakeSource) WriteEnrichedFile(records []donation.Enriched) error {
	f.written = records
	return nil
}

type fakeSink struct {
	records []donation.Enriched
}

func (f *fakeSink) Replace(_ context.Context, records []donation.Enriched) error {
	f.records = records
	return nil
}

type recordingPublisher struct {
	events []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, v any) error {
	payload := v.(map[string]any)
	p.events = append(p.events, payload["event"].(string))
	return p.err
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}

func newTranslator(t *testing.T) *translate.Service {
	t.Helper()
	svc, err := translate.New(memory.NewSeededStore(translate.SeedTranslations()), remote.Disabled{},
		translate.WithDelay(0))
	require.NoError(t, err)
	return svc
}

func TestRunnerRun(t *testing.T) {
	source := &fakeSource{raw: dataset.RawResult{
		Records: []donation.Record{
			// 1445-09-14, middle ten days of Ramadan.
			{DonorID: "d1", Date: mustDate(t, "2024-03-24"), Amount: 100, Category: "زكاة المال"},
			{DonorID: "d2", Date: mustDate(t, "2024-06-01"), Amount: 200, Category: "زكاة المال"},
			{DonorID: "d2", Date: mustDate(t, "2018-06-01"), Amount: 300, Category: "زكاة المال"},
			{DonorID: "d3", Date: mustDate(t, "2025-01-01"), Amount: 400, Category: "وقف"},
		},
		Dropped: 2,
	}}
	sink := &fakeSink{}
	publisher := &recordingPublisher{}

	runner, err := NewRunner(source, enrich.New(), newTranslator(t),
		WithYearWindow(2019, 2024),
		WithSink(sink),
		WithPublisher(publisher),
	)
	require.NoError(t, err)

	var summary Summary
	testutil.When(t, "a run executes over raw records spanning the year window", func(t *testing.T) {
		summary, err = runner.Run(context.Background())
		require.NoError(t, err)
	})

	testutil.Then(t, "cleaning and year filtering are reported separately", func(t *testing.T) {
		assert.Equal(t, 6, summary.RawRecords)
		assert.Equal(t, 2, summary.DroppedInvalid)
		assert.Equal(t, 2, summary.DroppedYearFilter)
		assert.Equal(t, 2, summary.Processed)
	})

	testutil.Then(t, "the enriched dataset is written to file and sink", func(t *testing.T) {
		require.Len(t, source.written, 2)
		assert.Equal(t, source.written, sink.records)

		ramadan := source.written[0]
		require.NotNil(t, ramadan.Hijri)
		assert.Equal(t, 1445, ramadan.Hijri.Year)
		assert.True(t, ramadan.IsRamadan)
		// Seeded translation, no remote call needed.
		assert.Equal(t, "Zakat al-Mal", ramadan.CategoryEN)
	})

	testutil.Then(t, "the summary aggregates the processed records", func(t *testing.T) {
		assert.Equal(t, 300.0, summary.TotalAmount)
		assert.Equal(t, 2, summary.UniqueDonors)
		assert.Equal(t, 1, summary.UniqueCategories)
		assert.Equal(t, 1, summary.RamadanCount)
		assert.Equal(t, 50.0, summary.RamadanPercentage)
		assert.Equal(t, 1, summary.EventCounts["Ramadan (Middle 10 Days)"])
		assert.Equal(t, 1, summary.TranslatedLabels)
		assert.NotEmpty(t, summary.RunID)
	})

	testutil.Then(t, "run lifecycle events are published", func(t *testing.T) {
		assert.Equal(t, []string{"run_started", "run_completed"}, publisher.events)
	})
}

func TestRunnerRun_TranslationFallbackKeepsOriginalLabel(t *testing.T) {
	source := &fakeSource{raw: dataset.RawResult{
		Records: []donation.Record{
			{DonorID: "d1", Date: mustDate(t, "2024-06-01"), Amount: 100, Category: "فئة غير معروفة"},
		},
	}}

	translator, err := translate.New(memory.NewStore(), remote.Disabled{}, translate.WithDelay(0))
	require.NoError(t, err)
	runner, err := NewRunner(source, enrich.New(), translator)
	require.NoError(t, err)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	require.Len(t, source.written, 1)
	assert.Equal(t, "فئة غير معروفة", source.written[0].CategoryEN)
	assert.Equal(t, "فئة غير معروفة", source.written[0].DisplayCategory())
}

func TestRunnerRun_SourceFailure(t *testing.T) {
	source := &fakeSource{loadErr: errors.New("disk gone")}
	publisher := &recordingPublisher{}

	runner, err := NewRunner(source, enrich.New(), newTranslator(t),
		WithPublisher(publisher))
	require.NoError(t, err)

	_, err = runner.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, []string{"run_started", "run_failed"}, publisher.events)
}

func TestRunnerRun_PublisherFailureIsNotFatal(t *testing.T) {
	source := &fakeSource{raw: dataset.RawResult{
		Records: []donation.Record{
			{DonorID: "d1", Date: mustDate(t, "2024-06-01"), Amount: 100, Category: "زكاة المال"},
		},
	}}
	publisher := &recordingPublisher{err: errors.New("broker down")}

	runner, err := NewRunner(source, enrich.New(), newTranslator(t),
		WithPublisher(publisher))
	require.NoError(t, err)

	summary, err := runner.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
}

func TestNewRunner_RequiresPorts(t *testing.T) {
	_, err := NewRunner(nil, enrich.New(), newTranslator(t))
	require.Error(t, err)

	_, err = NewRunner(&fakeSource{}, nil, newTranslator(t))
	require.Error(t, err)

	_, err = NewRunner(&fakeSource{}, enrich.New(), nil)
	require.Error(t, err)
}
