package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/riskgate/riskgate/internal/domain"
	"github.com/riskgate/riskgate/internal/domain/scoring"
	"github.com/riskgate/riskgate/internal/domain/triage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrGateFailed is returned by Gate when at least one finding reaches the
// threshold. Callers map it to a non-zero exit.
var ErrGateFailed = errors.New("security gate failed")

// SummarizerFactory builds the summarizer for a resolved config.
type SummarizerFactory func(cfg domain.ProjectConfig) domain.Summarizer

// AnalyzeOptions overrides the project config for one run. Zero values
// keep the configured setting.
type AnalyzeOptions struct {
	ProjectPath string
	TrivyPath   string
	CheckovPath string
	Threshold   int
	NoSummary   bool
	NoHistory   bool
}

// Analysis is the outcome of one run.
type Analysis struct {
	Report     *domain.Report
	Config     domain.ProjectConfig
	OutputPath string
}

// AnalyzeService orchestrates the pipeline:
// load artifacts → score → dedup → gate → assemble → summarize → record.
type AnalyzeService struct {
	loaders      []domain.FindingLoader
	configLoader domain.ConfigLoader
	summarizers  SummarizerFactory
	git          domain.GitInfo
	history      domain.RunHistory
	metrics      domain.MetricsRecorder
	reports      domain.ReportStore
	logger       *zap.Logger
	now          func() time.Time
}

// NewAnalyzeService wires the service. history and metrics may be nil.
func NewAnalyzeService(
	loaders []domain.FindingLoader,
	configLoader domain.ConfigLoader,
	summarizers SummarizerFactory,
	git domain.GitInfo,
	history domain.RunHistory,
	metrics domain.MetricsRecorder,
	logger *zap.Logger,
) *AnalyzeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeService{
		loaders:      loaders,
		configLoader: configLoader,
		summarizers:  summarizers,
		git:          git,
		history:      history,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// SetReportStore enables persisting the latest report of recorded runs.
func (s *AnalyzeService) SetReportStore(store domain.ReportStore) {
	s.reports = store
}

// Analyze runs the full pipeline once. Missing or malformed artifacts are
// recorded in the report, not returned as errors.
func (s *AnalyzeService) Analyze(ctx context.Context, opts AnalyzeOptions) (*Analysis, error) {
	projectPath := opts.ProjectPath
	if projectPath == "" {
		projectPath = "."
	}

	// 0. Load config
	cfg, err := s.configLoader.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.Threshold != 0 {
		if opts.Threshold < domain.MinScore || opts.Threshold > domain.MaxScore {
			return nil, fmt.Errorf("threshold %d out of range %d..%d", opts.Threshold, domain.MinScore, domain.MaxScore)
		}
		cfg.Threshold = opts.Threshold
	}

	// 1. Load both artifacts concurrently
	paths := map[domain.Tool]string{
		domain.ToolTrivy:   pick(opts.TrivyPath, resolve(projectPath, cfg.Inputs.Trivy)),
		domain.ToolCheckov: pick(opts.CheckovPath, resolve(projectPath, cfg.Inputs.Checkov)),
	}
	raw, sources, err := s.loadAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	// 2. Score, dedup, gate, assemble
	report := triage.Triage(scoring.ScoreAll(raw), cfg.Threshold)
	report.RunID = uuid.NewString()
	report.GeneratedAt = s.now().UTC()
	report.Sources = sources
	if s.git != nil && s.git.IsGitRepo(projectPath) {
		if hash, err := s.git.CommitHash(projectPath); err == nil {
			report.CommitHash = hash
		}
	}

	// 3. Optional summary
	if !report.NoIssues && !opts.NoSummary && s.summarizers != nil {
		if text, ok := s.summarizers(cfg).Summarize(ctx, report.Findings); ok {
			report.Summary = text
		}
	}

	// 4. Record
	if s.metrics != nil {
		s.metrics.ObserveReport(report)
	}
	if !opts.NoHistory {
		s.record(projectPath, report)
	}

	s.logger.Info("analysis finished",
		zap.String("run_id", report.RunID),
		zap.Int("raw", len(raw)),
		zap.Int("findings", report.Buckets.Total),
		zap.Int("critical", report.Buckets.Critical),
		zap.String("verdict", report.Verdict()),
	)

	return &Analysis{
		Report:     report,
		Config:     cfg,
		OutputPath: resolve(projectPath, cfg.Output),
	}, nil
}

// loadAll runs every loader in its own goroutine. Results are joined in
// loader order so the raw finding sequence is deterministic.
func (s *AnalyzeService) loadAll(ctx context.Context, paths map[domain.Tool]string) ([]domain.Finding, []domain.SourceStatus, error) {
	found := make([][]domain.Finding, len(s.loaders))
	sources := make([]domain.SourceStatus, len(s.loaders))

	g, gCtx := errgroup.WithContext(ctx)
	for i, l := range s.loaders {
		g.Go(func() error {
			found[i], sources[i] = l.Load(gCtx, paths[l.Tool()])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("loading artifacts: %w", err)
	}

	var raw []domain.Finding
	for _, f := range found {
		raw = append(raw, f...)
	}
	return raw, sources, nil
}

// record persists the run best-effort.
func (s *AnalyzeService) record(projectPath string, report *domain.Report) {
	if s.history != nil {
		if err := s.history.Save(projectPath, domain.NewRunEntry(report)); err != nil {
			s.logger.Warn("saving run history", zap.Error(err))
		}
	}
	if s.reports != nil {
		if err := s.reports.Save(projectPath, report); err != nil {
			s.logger.Warn("saving latest report", zap.Error(err))
		}
	}
}

// Latest returns the report of the last recorded run, or nil if there is none.
func (s *AnalyzeService) Latest(projectPath string) (*domain.Report, error) {
	if s.reports == nil {
		return nil, nil
	}
	r, err := s.reports.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading latest report: %w", err)
	}
	return r, nil
}

// Gate returns ErrGateFailed when the report fails the gate.
func Gate(r *domain.Report) error {
	if r.Failed {
		return fmt.Errorf("%w: %d finding(s) scored %d or higher", ErrGateFailed, r.Buckets.Critical, r.Threshold)
	}
	return nil
}

// History returns the stored runs for projectPath.
func (s *AnalyzeService) History(projectPath string) ([]domain.RunEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	entries, err := s.history.Load(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

func resolve(projectPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}

func pick(override, configured string) string {
	if override != "" {
		return override
	}
	return configured
}
