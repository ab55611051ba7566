package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/yaklabco/ipmt/internal/logging"
	"github.com/yaklabco/ipmt/pkg/fsutil"
	"github.com/yaklabco/ipmt/pkg/index"
	"github.com/yaklabco/ipmt/pkg/search"
	"github.com/yaklabco/ipmt/pkg/suffixarray"
	"github.com/yaklabco/ipmt/pkg/textkind"
)

// ErrSourceChanged indicates a source file changed while it was being indexed.
var ErrSourceChanged = errors.New("source changed during indexing")

// Runner indexes and searches many files concurrently.
type Runner struct {
	// Cache holds decoded indexes between search jobs. If nil, every job
	// reads its index from disk.
	Cache *index.Cache
}

// New creates a Runner that loads indexes through cache.
func New(cache *index.Cache) *Runner {
	return &Runner{Cache: cache}
}

// Index builds an index next to every file in sources.
// Per-file failures are reported in the outcomes, not as an error.
func (r *Runner) Index(ctx context.Context, sources []string, opts IndexOptions) (*IndexResult, error) {
	if opts.Compression == "" {
		opts.Compression = index.DefaultCompression
	}
	if !opts.Compression.IsValid() {
		return nil, fmt.Errorf("%w: %q", index.ErrUnknownCompression, opts.Compression)
	}

	result := &IndexResult{Files: make([]IndexOutcome, 0, len(sources))}
	result.Stats.FilesDiscovered = len(sources)

	outcomes, err := runPool(ctx, opts.Jobs, sources, func(ctx context.Context, source string) IndexOutcome {
		return indexFile(ctx, source, opts)
	})
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	if err != nil {
		return result, fmt.Errorf("index cancelled: %w", err)
	}
	return result, nil
}

// indexFile reads, indexes, and writes one source.
func indexFile(ctx context.Context, source string, opts IndexOptions) IndexOutcome {
	logger := logging.FromContext(ctx)
	outcome := IndexOutcome{Source: source, Compression: opts.Compression}

	text, info, err := fsutil.ReadFile(ctx, source)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.TextBytes = int64(len(text))
	outcome.Kind = textkind.Classify(text)
	outcome.Language = textkind.Language(source, text)

	sa := suffixarray.Build(text)

	outcome.IndexPath, err = index.Write(ctx, source, sa, text, opts.Compression)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	check := fsutil.CheckModifiedQuick
	if opts.VerifySource {
		check = fsutil.CheckModified
	}
	changed, err := check(ctx, info)
	if err != nil {
		outcome.Error = fmt.Errorf("recheck %s: %w", source, err)
		return outcome
	}
	if changed {
		outcome.Error = fmt.Errorf("%w: %s", ErrSourceChanged, source)
		return outcome
	}

	stat, err := os.Stat(outcome.IndexPath)
	if err != nil {
		outcome.Error = fmt.Errorf("stat %s: %w", outcome.IndexPath, err)
		return outcome
	}
	outcome.IndexBytes = stat.Size()

	logger.Debug("indexed",
		logging.FieldPath, source,
		logging.FieldIndex, outcome.IndexPath,
		logging.FieldCompression, opts.Compression,
		logging.FieldKind, outcome.Kind,
		logging.FieldLanguage, outcome.Language,
		logging.FieldBytes, outcome.TextBytes,
		logging.FieldIndexBytes, outcome.IndexBytes,
	)

	return outcome
}

// searchJob is one pattern against one index.
type searchJob struct {
	index   string
	pattern []byte
}

// Search looks up every pattern in every index. Outcomes are ordered by
// index, then by pattern. Load failures are reported in the outcomes.
func (r *Runner) Search(ctx context.Context, indexes []string, patterns [][]byte, opts SearchOptions) (*SearchResult, error) {
	jobs := make([]searchJob, 0, len(indexes)*len(patterns))
	for _, path := range indexes {
		for _, pattern := range patterns {
			jobs = append(jobs, searchJob{index: path, pattern: pattern})
		}
	}

	result := &SearchResult{Outcomes: make([]SearchOutcome, 0, len(jobs))}
	result.Stats.FilesDiscovered = len(indexes)
	result.Stats.Patterns = len(patterns)

	outcomes, err := runPool(ctx, opts.Jobs, jobs, func(ctx context.Context, job searchJob) SearchOutcome {
		return r.searchIndex(ctx, job, opts)
	})
	for i, outcome := range outcomes {
		first := i == 0 || outcomes[i-1].Index != outcome.Index
		result.accumulate(outcome, first)
	}
	if err != nil {
		return result, fmt.Errorf("search cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) searchIndex(ctx context.Context, job searchJob, opts SearchOptions) SearchOutcome {
	outcome := SearchOutcome{Index: job.index, Pattern: job.pattern}

	idx, err := r.load(ctx, job.index)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	outcome.Text = idx.Text
	outcome.Kind = idx.Kind
	if opts.CountOnly {
		outcome.Count = search.Count(job.pattern, idx.Text, idx.SuffixArray)
	} else {
		outcome.Offsets = search.Find(job.pattern, idx.Text, idx.SuffixArray)
		outcome.Count = len(outcome.Offsets)
	}

	logging.FromContext(ctx).Debug("searched",
		logging.FieldIndex, job.index,
		logging.FieldPattern, string(job.pattern),
		logging.FieldOccurrences, outcome.Count,
	)

	return outcome
}

func (r *Runner) load(ctx context.Context, path string) (*index.Index, error) {
	if r.Cache == nil {
		return index.Read(ctx, path)
	}
	return r.Cache.Load(ctx, path)
}

// runPool applies work to every item on up to jobs workers and returns the
// outcomes in item order. On cancellation the outcomes completed so far are
// returned with the context error.
func runPool[T, R any](ctx context.Context, jobs int, items []T, work func(context.Context, T) R) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than items.
	if jobs > len(items) {
		jobs = len(items)
	}

	type indexed struct {
		pos int
		out R
	}

	workCh := make(chan int)
	outCh := make(chan indexed)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range workCh {
				if ctx.Err() != nil {
					return
				}
				out := indexed{pos: pos, out: work(ctx, items[pos])}
				select {
				case <-ctx.Done():
					return
				case outCh <- out:
				}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for pos := range items {
			select {
			case <-ctx.Done():
				return
			case workCh <- pos:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	results := make([]R, len(items))
	done := make([]bool, len(items))
	for out := range outCh {
		results[out.pos] = out.out
		done[out.pos] = true
	}

	ordered := make([]R, 0, len(items))
	for pos, ok := range done {
		if ok {
			ordered = append(ordered, results[pos])
		}
	}

	if err := ctx.Err(); err != nil {
		return ordered, err
	}
	return ordered, nil
}
