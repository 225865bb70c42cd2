// Package loader parses scanner JSON artifacts into domain findings.
//
// Loaders never fail: a missing, empty or unparsable artifact yields no
// findings plus a warning on the returned SourceStatus.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/riskgate/riskgate/internal/domain"
	"go.uber.org/zap"
)

// Warnings attached to SourceStatus.
const (
	warnNotFound  = "artifact not found"
	warnEmpty     = "artifact is empty"
	warnRecovered = "artifact was malformed; recovered outermost JSON region"
)

// readArtifact returns the trimmed artifact bytes, or a warning explaining
// why there is nothing to parse.
func readArtifact(ctx context.Context, path string) ([]byte, string) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Sprintf("not read: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, warnNotFound
		}
		return nil, fmt.Sprintf("reading artifact: %v", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, warnEmpty
	}
	return data, ""
}

// trimToBrackets cuts data down to the region between the first opening
// bracket and the last closing bracket. ok is false if there is no such
// region.
func trimToBrackets(data []byte) ([]byte, bool) {
	start := bytes.IndexAny(data, "{[")
	end := bytes.LastIndexAny(data, "}]")
	if start < 0 || end <= start {
		return nil, false
	}
	return data[start : end+1], true
}

// decodeWithRecovery parses data with decode; on failure it retries once on
// the bracket-trimmed region. recovered reports whether the retry was used.
func decodeWithRecovery(data []byte, decode func([]byte) error) (recovered bool, err error) {
	firstErr := decode(data)
	if firstErr == nil {
		return false, nil
	}

	trimmed, ok := trimToBrackets(data)
	if !ok || len(trimmed) == len(data) {
		return false, firstErr
	}
	if err := decode(trimmed); err != nil {
		return false, fmt.Errorf("%w (recovery failed: %v)", firstErr, err)
	}
	return true, nil
}

// isJSONArray reports whether data starts with '['.
func isJSONArray(data []byte) bool {
	return len(data) > 0 && data[0] == '['
}

// firstNonEmpty returns the first value that is not blank after trimming.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// severityOrMedium normalizes a label, treating an absent one as MEDIUM.
func severityOrMedium(label string) domain.Severity {
	if strings.TrimSpace(label) == "" {
		return domain.SeverityMedium
	}
	return domain.ParseSeverity(label)
}

func warn(logger *zap.Logger, status domain.SourceStatus) {
	logger.Warn("scanner artifact yielded no findings",
		zap.String("tool", string(status.Tool)),
		zap.String("path", status.Path),
		zap.String("reason", status.Warning),
	)
}
