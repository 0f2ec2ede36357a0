package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/worldtz/pkg/timezone"
	"github.com/codeGROOVE-dev/worldtz/pkg/tzconvert"
)

var _ Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    Service
}

// LoggingMiddleware logs every service call with its duration and outcome.
func LoggingMiddleware(svc Service, logger *slog.Logger) Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) log(method string, begin time.Time, err error, args ...any) {
	args = append(args, "method", method, "duration_ms", time.Since(begin).Milliseconds())
	if err != nil {
		lm.logger.Warn("request failed", append(args, "error", err)...)
		return
	}
	lm.logger.Debug("request completed", args...)
}

func (lm *loggingMiddleware) Zones(ctx context.Context, query string, limit int) (page ZonesPage, err error) {
	defer func(begin time.Time) {
		lm.log("zones", begin, err, "query", query, "limit", limit, "results", len(page.Zones))
	}(time.Now())

	return lm.svc.Zones(ctx, query, limit)
}

func (lm *loggingMiddleware) Zone(ctx context.Context, id string) (e timezone.Entry, err error) {
	defer func(begin time.Time) {
		lm.log("zone", begin, err, "tz", id)
	}(time.Now())

	return lm.svc.Zone(ctx, id)
}

func (lm *loggingMiddleware) Offset(ctx context.Context, id string, at time.Time) (offset string, err error) {
	defer func(begin time.Time) {
		lm.log("offset", begin, err, "tz", id, "at", at, "offset", offset)
	}(time.Now())

	return lm.svc.Offset(ctx, id, at)
}

func (lm *loggingMiddleware) Parse(ctx context.Context, text string) (id string, err error) {
	defer func(begin time.Time) {
		lm.log("parse", begin, err, "text", text, "tz", id)
	}(time.Now())

	return lm.svc.Parse(ctx, text)
}

func (lm *loggingMiddleware) Convert(ctx context.Context, req ConvertRequest) (results []tzconvert.Result, err error) {
	defer func(begin time.Time) {
		lm.log("convert", begin, err, "source", req.Source, "targets", len(req.Targets), "results", len(results))
	}(time.Now())

	return lm.svc.Convert(ctx, req)
}
