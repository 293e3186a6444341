package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/itigeeks/itigeeks-backend/internal/data/db"
	"github.com/itigeeks/itigeeks-backend/internal/data/repos"
	types "github.com/itigeeks/itigeeks-backend/internal/domain"
	"github.com/itigeeks/itigeeks-backend/internal/domain/problems"
	"github.com/itigeeks/itigeeks-backend/internal/domain/user"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/importerr"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/ingestion/extractor"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/ingestion/parse"
	"github.com/itigeeks/itigeeks-backend/internal/modules/problems/merge"
	"github.com/itigeeks/itigeeks-backend/internal/observability"
	"github.com/itigeeks/itigeeks-backend/internal/platform/ctxutil"
	"github.com/itigeeks/itigeeks-backend/internal/platform/kv"
	"github.com/itigeeks/itigeeks-backend/internal/platform/logger"
)

// ProblemMatcher enriches candidates from the problem catalog. Load is
// called before every import; a failed load degrades matching only.
type ProblemMatcher interface {
	Load(ctx context.Context) error
	Enrich(rec *problems.ProblemRecord) bool
}

type ImportBatch struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"userId"`
	FileName        string         `json:"fileName"`
	Kind            extractor.Kind `json:"kind"`
	Items           []merge.Item   `json:"items"`
	NewCount        int            `json:"newCount"`
	Matched         int            `json:"matched"`
	Empty           bool           `json:"empty"`
	CatalogDegraded bool           `json:"catalogDegraded"`
	State           ImportState    `json:"state"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type CommitResult struct {
	BatchID    uuid.UUID   `json:"batchId"`
	AddedCount int         `json:"addedCount"`
	Total      int         `json:"total"`
	State      ImportState `json:"state"`
}

type ImportConfig struct {
	MaxFileBytes int64
	BatchTTL     time.Duration
	GateTTL      time.Duration
}

type ImportService interface {
	// Preview reads, parses and matches an upload and parks the result as a
	// pending batch. Nothing is written to the database.
	Preview(ctx context.Context, userID uuid.UUID, fileName string, r io.Reader) (*ImportBatch, error)
	// Commit merges the selected slugs of a pending batch into the user's
	// collection in one write. An empty selection means every new item.
	Commit(ctx context.Context, userID, batchID uuid.UUID, slugs []string) (*CommitResult, error)
	// ImportFile is Preview followed by Commit of every new item.
	ImportFile(ctx context.Context, userID uuid.UUID, fileName string, r io.Reader) (*CommitResult, error)
	GetBatch(ctx context.Context, userID, batchID uuid.UUID) (*ImportBatch, error)
	Discard(ctx context.Context, userID, batchID uuid.UUID) error
}

type importService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	registry *extractor.Registry
	matcher  ProblemMatcher
	store    kv.Store
	gate     *userGate
	gens     *generations
	cfg      ImportConfig
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewImportService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	registry *extractor.Registry,
	matcher ProblemMatcher,
	store kv.Store,
	cfg ImportConfig,
	metrics *observability.Metrics,
) ImportService {
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 10 << 20
	}
	if cfg.BatchTTL <= 0 {
		cfg.BatchTTL = 30 * time.Minute
	}
	if registry == nil {
		registry = extractor.DefaultRegistry()
	}
	return &importService{
		db:       db,
		log:      log.With("service", "ImportService"),
		userRepo: userRepo,
		registry: registry,
		matcher:  matcher,
		store:    store,
		gate:     newUserGate(store, cfg.GateTTL),
		gens:     newGenerations(),
		cfg:      cfg,
		metrics:  metrics,
		now:      time.Now,
	}
}

func batchKey(id uuid.UUID) string { return "import:batch:" + id.String() }

func (s *importService) Preview(ctx context.Context, userID uuid.UUID, fileName string, r io.Reader) (batch *ImportBatch, err error) {
	ctx, span := observability.Tracer("imports").Start(ctx, "import.preview",
		trace.WithAttributes(attribute.String("import.ext", extractor.Ext(fileName))))
	start := time.Now()
	kind := s.registry.Sniff(fileName)
	defer func() {
		s.finish(span, "preview", kind, start, err)
		if batch != nil {
			span.SetAttributes(attribute.Int("import.items", len(batch.Items)), attribute.Int("import.new", batch.NewCount))
		}
		span.End()
	}()

	gen := s.gens.begin(userID)
	log := s.requestLog(ctx, span, "user_id", userID, "file", fileName)
	op := newImportOp(log, StateIdle)

	if err := op.to(StateReading); err != nil {
		return nil, err
	}
	if kind == extractor.KindUnsupported {
		return nil, op.fail(fmt.Errorf("%q: %w", filepath.Ext(fileName), importerr.ErrUnsupportedFormat))
	}
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxFileBytes+1))
	if err != nil {
		return nil, op.fail(fmt.Errorf("%v: %w", err, importerr.ErrRead))
	}
	if int64(len(data)) > s.cfg.MaxFileBytes {
		return nil, op.fail(fmt.Errorf("%d bytes max: %w", s.cfg.MaxFileBytes, importerr.ErrFileTooLarge))
	}

	if err := op.to(StateParsing); err != nil {
		return nil, err
	}
	candidates, err := s.candidates(ctx, kind, fileName, data)
	if err != nil {
		return nil, op.fail(err)
	}

	if err := op.to(StateMatching); err != nil {
		return nil, err
	}
	batch = &ImportBatch{
		ID:        uuid.New(),
		UserID:    userID,
		FileName:  fileName,
		Kind:      kind,
		Items:     []merge.Item{},
		CreatedAt: s.now().UTC(),
	}
	ctxutil.SetBatchID(ctx, batch.ID.String())
	span.SetAttributes(attribute.String("import.batch_id", batch.ID.String()))
	candidates = merge.DedupeBatch(candidates)
	if len(candidates) == 0 {
		batch.Empty = true
		batch.State = op.state
		log.Info("No problems found in upload")
		return batch, nil
	}

	if err := s.matcher.Load(ctx); err != nil {
		batch.CatalogDegraded = true
		log.Warn("Problem catalog unavailable, continuing without metadata", "error", err)
	}
	for i := range candidates {
		if s.matcher.Enrich(&candidates[i]) {
			batch.Matched++
		}
	}

	existing, lerr := s.currentProblems(ctx, userID)
	if lerr != nil {
		return nil, op.fail(fmt.Errorf("load problems: %w", lerr))
	}
	batch.Items = merge.MarkNew(existing, candidates)
	batch.NewCount = lo.CountBy(batch.Items, func(it merge.Item) bool { return it.IsNew })
	batch.State = op.state

	if !s.gens.isCurrent(userID, gen) {
		log.Info("Discarding superseded import preview", "batch_id", batch.ID)
		return nil, op.fail(importerr.ErrSuperseded)
	}
	if err := s.putBatch(ctx, batch); err != nil {
		return nil, op.fail(fmt.Errorf("store pending batch: %w", err))
	}
	log.Info("Import preview ready",
		"batch_id", batch.ID,
		"kind", kind,
		"items", len(batch.Items),
		"new", batch.NewCount,
		"matched", batch.Matched,
		"catalog_degraded", batch.CatalogDegraded,
	)
	return batch, nil
}

func (s *importService) candidates(ctx context.Context, kind extractor.Kind, fileName string, data []byte) ([]problems.ProblemRecord, error) {
	label := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	switch kind {
	case extractor.KindDocument:
		text, err := s.registry.ExtractText(ctx, fileName, data)
		if err != nil {
			return nil, err
		}
		return parse.CandidatesFromSlugs(parse.ExtractSlugs(text), label), nil
	case extractor.KindSpreadsheet:
		sheets, err := s.registry.ReadSheets(ctx, fileName, data)
		if err != nil {
			return nil, err
		}
		var out []problems.ProblemRecord
		for _, sh := range sheets {
			source := sh.Name
			if extractor.Ext(fileName) == "csv" || source == "" {
				source = label
			}
			out = append(out, parse.RecordsFromGrid(sh.Rows, source)...)
		}
		return out, nil
	default:
		return nil, importerr.ErrUnsupportedFormat
	}
}

func (s *importService) Commit(ctx context.Context, userID, batchID uuid.UUID, slugs []string) (result *CommitResult, err error) {
	ctx, span := observability.Tracer("imports").Start(ctx, "import.commit",
		trace.WithAttributes(attribute.String("import.batch_id", batchID.String())))
	start := time.Now()
	kind := extractor.KindUnsupported
	defer func() {
		s.finish(span, "commit", kind, start, err)
		if result != nil {
			s.metrics.AddImported(string(kind), result.AddedCount)
			span.SetAttributes(attribute.Int("import.added", result.AddedCount))
		}
		span.End()
	}()

	ctxutil.SetBatchID(ctx, batchID.String())
	log := s.requestLog(ctx, span, "user_id", userID, "batch_id", batchID)

	release, err := s.gate.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	batch, err := s.GetBatch(ctx, userID, batchID)
	if err != nil {
		return nil, err
	}
	kind = batch.Kind

	op := newImportOp(log, StateMatching)
	if err := op.to(StateMerging); err != nil {
		return nil, err
	}
	selected := selectItems(batch.Items, slugs)
	if len(slugs) > 0 && len(selected) == 0 {
		return nil, op.fail(importerr.ErrEmptySelection)
	}

	if err := op.to(StateCommitting); err != nil {
		return nil, err
	}
	var res merge.Result
	write := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			existing, err := s.loadProblems(ctx, tx, userID)
			if err != nil {
				return err
			}
			res = merge.Merge(existing, selected, s.now())
			if res.AddedCount == 0 {
				return nil
			}
			doc, err := user.EncodeProblems(res.Merged)
			if err != nil {
				return err
			}
			return s.userRepo.UpdateProblems(ctx, tx, userID, doc)
		})
	}
	err = write()
	if err != nil && db.IsTransient(err) {
		log.Warn("Transient commit failure, retrying once", "error", err)
		err = write()
	}
	if err != nil {
		return nil, op.fail(fmt.Errorf("%w: %w", importerr.ErrPersistence, err))
	}
	if err := op.to(StateCommitted); err != nil {
		return nil, err
	}

	if derr := s.store.Delete(ctx, batchKey(batchID)); derr != nil {
		log.Warn("Failed to drop committed batch", "error", derr)
	}
	log.Info("Import committed", "added", res.AddedCount, "total", len(res.Merged))
	return &CommitResult{
		BatchID:    batchID,
		AddedCount: res.AddedCount,
		Total:      len(res.Merged),
		State:      op.state,
	}, nil
}

func (s *importService) ImportFile(ctx context.Context, userID uuid.UUID, fileName string, r io.Reader) (*CommitResult, error) {
	batch, err := s.Preview(ctx, userID, fileName, r)
	if err != nil {
		return nil, err
	}
	if batch.Empty {
		return nil, importerr.ErrNoMatches
	}
	return s.Commit(ctx, userID, batch.ID, nil)
}

func (s *importService) GetBatch(ctx context.Context, userID, batchID uuid.UUID) (*ImportBatch, error) {
	raw, ok, err := s.store.Get(ctx, batchKey(batchID))
	if err != nil {
		return nil, fmt.Errorf("load pending batch: %w", err)
	}
	if !ok {
		return nil, importerr.ErrBatchNotFound
	}
	var b ImportBatch
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode pending batch: %w", err)
	}
	if b.UserID != userID {
		return nil, importerr.ErrBatchNotFound
	}
	return &b, nil
}

func (s *importService) Discard(ctx context.Context, userID, batchID uuid.UUID) error {
	if _, err := s.GetBatch(ctx, userID, batchID); err != nil {
		return err
	}
	return s.store.Delete(ctx, batchKey(batchID))
}

func (s *importService) putBatch(ctx context.Context, b *ImportBatch) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, batchKey(b.ID), raw, s.cfg.BatchTTL)
}

// currentProblems reads the collection without creating the user row; an
// unknown user has an empty collection.
func (s *importService) currentProblems(ctx context.Context, userID uuid.UUID) ([]problems.ProblemRecord, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	list, err := users[0].ProblemList()
	if err != nil {
		return nil, fmt.Errorf("decode problems: %w", err)
	}
	return list, nil
}

func (s *importService) loadProblems(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]problems.ProblemRecord, error) {
	u, err := s.userRepo.Ensure(ctx, tx, &types.User{ID: userID})
	if err != nil {
		return nil, err
	}
	list, err := u.ProblemList()
	if err != nil {
		return nil, fmt.Errorf("decode problems: %w", err)
	}
	return list, nil
}

// requestLog scopes the service logger to the calling API request and
// mirrors its request id onto span.
func (s *importService) requestLog(ctx context.Context, span trace.Span, kv ...interface{}) *logger.Logger {
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		span.SetAttributes(attribute.String("request_id", td.RequestID))
		kv = append(kv, "request_id", td.RequestID)
	}
	return s.log.With(kv...)
}

// finish records the outcome of one import phase on the span and metrics.
func (s *importService) finish(span trace.Span, phase string, kind extractor.Kind, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsBenign(err):
		outcome = "skipped"
	default:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.metrics.ObserveImport(phase, string(kind), outcome, time.Since(start))
}

// selectItems picks the records to commit: the named slugs when given,
// otherwise every item flagged new.
func selectItems(items []merge.Item, slugs []string) []problems.ProblemRecord {
	if len(slugs) == 0 {
		return lo.FilterMap(items, func(it merge.Item, _ int) (problems.ProblemRecord, bool) {
			return it.Record, it.IsNew
		})
	}
	want := lo.SliceToMap(slugs, func(s string) (string, struct{}) {
		return strings.TrimSpace(s), struct{}{}
	})
	return lo.FilterMap(items, func(it merge.Item, _ int) (problems.ProblemRecord, bool) {
		_, ok := want[it.Record.TitleSlug]
		return it.Record, ok
	})
}

// IsBenign reports import outcomes that should not be surfaced as failures.
func IsBenign(err error) bool {
	return errors.Is(err, importerr.ErrNoMatches) || errors.Is(err, importerr.ErrSuperseded)
}
