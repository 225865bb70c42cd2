package cli

import (
	"github.com/riskgate/riskgate/internal/adapters/outbound/cache"
	"github.com/riskgate/riskgate/internal/adapters/outbound/config"
	"github.com/riskgate/riskgate/internal/adapters/outbound/gitinfo"
	"github.com/riskgate/riskgate/internal/adapters/outbound/history"
	"github.com/riskgate/riskgate/internal/adapters/outbound/loader"
	"github.com/riskgate/riskgate/internal/adapters/outbound/metrics"
	"github.com/riskgate/riskgate/internal/adapters/outbound/summarizer"
	"github.com/riskgate/riskgate/internal/application"
	"github.com/riskgate/riskgate/internal/domain"
	"go.uber.org/zap"
)

// newAnalyzeService wires the standard outbound adapters into the service.
func newAnalyzeService(logger *zap.Logger, rec *metrics.Recorder) *application.AnalyzeService {
	var recorder domain.MetricsRecorder
	if rec != nil {
		recorder = rec
	}
	svc := application.NewAnalyzeService(
		[]domain.FindingLoader{loader.NewTrivy(logger), loader.NewCheckov(logger)},
		config.New(),
		func(cfg domain.ProjectConfig) domain.Summarizer { return summarizer.New(cfg, logger) },
		gitinfo.New(),
		history.New(),
		recorder,
		logger,
	)
	svc.SetReportStore(cache.New())
	return svc
}
