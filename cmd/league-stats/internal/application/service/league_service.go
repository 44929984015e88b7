package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	derr "github.com/ozzus/championship/cmd/league-stats/internal/domain/errors"
	"github.com/ozzus/championship/cmd/league-stats/internal/domain/models"
	"github.com/ozzus/championship/cmd/league-stats/internal/domain/ports"
	"github.com/ozzus/championship/internal/csvimport"
	"github.com/ozzus/championship/internal/league"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "league-stats/service"

type LeagueService struct {
	log      *zap.Logger
	repo     ports.Repository
	cache    ports.TableCache
	cacheTTL time.Duration
}

func NewLeagueService(log *zap.Logger, repo ports.Repository, cache ports.TableCache, cacheTTL time.Duration) *LeagueService {
	if log == nil {
		log = zap.NewNop()
	}

	return &LeagueService{
		log:      log,
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// ImportMatches replaces the stored match list of a league season with the
// valid rows of an uploaded CSV.
func (s *LeagueService) ImportMatches(ctx context.Context, key models.LeagueKey, csv io.Reader) (models.ImportResult, error) {
	const op = "service.ImportMatches"
	ctx, span := startSpan(ctx, op, key)
	defer span.End()

	logger := s.logger(op, key)

	decoded, err := csvimport.Decode(csv)
	if err != nil {
		failSpan(span, err)
		return models.ImportResult{}, fmt.Errorf("%s: decode csv: %w: %w", op, derr.ErrInvalidUpload, err)
	}

	span.SetAttributes(
		attribute.Int("league.matches.valid", len(decoded.Matches)),
		attribute.Int("league.matches.rejected", len(decoded.Rejected)),
	)

	if len(decoded.Matches) == 0 {
		logger.Warn("upload contains no valid matches", zap.Int("rejected", len(decoded.Rejected)))
		failSpan(span, derr.ErrNoValidMatches)
		return models.ImportResult{Rejected: decoded.Rejected}, fmt.Errorf("%s: %w", op, derr.ErrNoValidMatches)
	}

	if err := s.repo.ReplaceMatches(ctx, key, decoded.Matches); err != nil {
		failSpan(span, err)
		return models.ImportResult{}, fmt.Errorf("%s: replace matches: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			logger.Warn("redis cache invalidate failed", zap.Error(err))
			span.RecordError(err)
		}
	}

	logger.Info("matches imported",
		zap.Int("imported", len(decoded.Matches)),
		zap.Int("rejected", len(decoded.Rejected)),
	)

	return models.ImportResult{
		Imported: len(decoded.Matches),
		Rejected: decoded.Rejected,
	}, nil
}

func (s *LeagueService) ListMatches(ctx context.Context, key models.LeagueKey) ([]league.Match, error) {
	const op = "service.ListMatches"
	ctx, span := startSpan(ctx, op, key)
	defer span.End()

	matches, err := s.repo.ListMatches(ctx, key)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("%s: list matches: %w", op, err)
	}

	s.logger(op, key).Debug("matches loaded from db", zap.Int("count", len(matches)))
	return matches, nil
}

func (s *LeagueService) GetStandings(ctx context.Context, key models.LeagueKey) ([]league.StandingsRow, error) {
	const op = "service.GetStandings"
	ctx, span := startSpan(ctx, op, key)
	defer span.End()

	logger := s.logger(op, key)

	gen, cached := s.cacheGeneration(ctx, span, logger, key)
	if cached {
		rows, err := s.cache.GetStandings(ctx, key, gen)
		if err == nil {
			logger.Debug("standings loaded from redis cache")
			span.AddEvent("league.cache.hit")
			return rows, nil
		}
		if !errors.Is(err, derr.ErrCacheMiss) {
			logger.Warn("redis cache read failed", zap.Error(err))
			span.RecordError(err)
		}
	}

	matches, err := s.repo.ListMatches(ctx, key)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("%s: list matches: %w", op, err)
	}

	rows, err := league.CalculateStandings(matches)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("%s: calculate standings: %w", op, err)
	}

	if cached {
		if err := s.cache.SetStandings(ctx, key, gen, rows, s.cacheTTL); err != nil {
			logger.Warn("redis cache write failed", zap.Error(err))
		}
	}

	logger.Debug("standings calculated", zap.Int("matches", len(matches)), zap.Int("teams", len(rows)))
	return rows, nil
}

// GetForm returns each team's results windowed to the last `last` matches;
// last <= 0 returns the full history.
func (s *LeagueService) GetForm(ctx context.Context, key models.LeagueKey, last int) ([]league.FormEntry, error) {
	const op = "service.GetForm"
	ctx, span := startSpan(ctx, op, key)
	defer span.End()
	span.SetAttributes(attribute.Int("league.form.last", last))

	logger := s.logger(op, key)

	gen, cached := s.cacheGeneration(ctx, span, logger, key)
	if cached {
		forms, err := s.cache.GetForm(ctx, key, gen)
		if err == nil {
			logger.Debug("form loaded from redis cache")
			span.AddEvent("league.cache.hit")
			return league.FormTable(forms, last), nil
		}
		if !errors.Is(err, derr.ErrCacheMiss) {
			logger.Warn("redis cache read failed", zap.Error(err))
			span.RecordError(err)
		}
	}

	matches, err := s.repo.ListMatches(ctx, key)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("%s: list matches: %w", op, err)
	}

	forms, err := league.CalculateForm(matches)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("%s: calculate form: %w", op, err)
	}

	if cached {
		if err := s.cache.SetForm(ctx, key, gen, forms, s.cacheTTL); err != nil {
			logger.Warn("redis cache write failed", zap.Error(err))
		}
	}

	return league.FormTable(forms, last), nil
}

// ListLeagues returns the league catalogue with the seasons each league
// holds matches for.
func (s *LeagueService) ListLeagues(ctx context.Context) ([]models.League, error) {
	const op = "service.ListLeagues"
	ctx, span := otel.Tracer(tracerName).Start(ctx, op)
	defer span.End()

	leagues, err := s.repo.ListLeagues(ctx)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("%s: list leagues: %w", op, err)
	}

	span.SetAttributes(attribute.Int("league.count", len(leagues)))
	s.log.Debug("leagues loaded from db", zap.String("op", op), zap.Int("count", len(leagues)))
	return leagues, nil
}

// UpdateLeague renames a league. A league without matches is added to the
// catalogue.
func (s *LeagueService) UpdateLeague(ctx context.Context, id, name string) (models.League, error) {
	const op = "service.UpdateLeague"
	ctx, span := otel.Tracer(tracerName).Start(ctx, op)
	defer span.End()

	l, err := models.NewLeague(id, name)
	if err != nil {
		failSpan(span, err)
		return models.League{}, fmt.Errorf("%s: %w", op, err)
	}
	span.SetAttributes(attribute.String("league.id", l.ID))

	updated, err := s.repo.UpdateLeague(ctx, l)
	if err != nil {
		failSpan(span, err)
		return models.League{}, fmt.Errorf("%s: update league: %w", op, err)
	}

	s.log.Info("league updated", zap.String("op", op), zap.String("league_id", updated.ID), zap.String("name", updated.Name))
	return updated, nil
}

// cacheGeneration reads the table generation of key. ok is false when there
// is no cache or it cannot be read, in which case the call neither reads nor
// writes cached tables.
func (s *LeagueService) cacheGeneration(ctx context.Context, span trace.Span, logger *zap.Logger, key models.LeagueKey) (gen int64, ok bool) {
	if s.cache == nil {
		return 0, false
	}

	gen, err := s.cache.Generation(ctx, key)
	if err != nil {
		logger.Warn("redis cache generation read failed", zap.Error(err))
		span.RecordError(err)
		return 0, false
	}
	return gen, true
}

func (s *LeagueService) logger(op string, key models.LeagueKey) *zap.Logger {
	return s.log.With(
		zap.String("op", op),
		zap.String("league_id", key.LeagueID),
		zap.String("season", key.Season),
	)
}

func startSpan(ctx context.Context, op string, key models.LeagueKey) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, op)
	span.SetAttributes(
		attribute.String("league.id", key.LeagueID),
		attribute.String("league.season", key.Season),
	)
	return ctx, span
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
}
