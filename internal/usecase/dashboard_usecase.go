package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/user/tcas-fee-crawler/internal/aggregate"
	"github.com/user/tcas-fee-crawler/internal/entity"
	"github.com/user/tcas-fee-crawler/internal/fee"
	"github.com/user/tcas-fee-crawler/internal/repository"
	"github.com/user/tcas-fee-crawler/pkg/metrics"
	"github.com/user/tcas-fee-crawler/pkg/utils"
)

// ErrDataUnavailable is returned by every view while the dataset failed to load.
var ErrDataUnavailable = errors.New("data unavailable")

// AllInstitutions selects every institution in the no-fee browser.
const AllInstitutions = "all"

const topInstitutions = 5

// Dashboard serves read-only views over the exported tables.
type Dashboard interface {
	// Load reads the tables. A failure is kept and reported by every view.
	Load(ctx context.Context) error
	// Session returns id if it names a live session, otherwise a new session id.
	Session(id string) string
	Health() HealthView
	Overview(ctx context.Context, sessionID string) (*OverviewView, error)
	Institution(ctx context.Context, sessionID, institution, campus string) (*InstitutionView, error)
	Ranking(ctx context.Context, sessionID string) (*RankingView, error)
	Missing(ctx context.Context, sessionID, institution string) (*MissingView, error)
}

type DashboardOptions struct {
	SessionTTL      time.Duration
	SessionCapacity int
	ViewCacheTTL    time.Duration
	Bands           []fee.Band
}

type dashboardUseCase struct {
	readers []repository.TableReader
	cache   repository.ViewCache // nil disables caching
	opts    DashboardOptions
	logger  *zap.Logger

	mu          sync.RWMutex
	base        entity.Dataset
	fingerprint string
	loadErr     error

	sessions *expirable.LRU[string, entity.Dataset]
}

// NewDashboard returns a dashboard that has not loaded anything yet; call Load.
func NewDashboard(
	readers []repository.TableReader,
	cache repository.ViewCache,
	opts DashboardOptions,
	logger *zap.Logger,
) Dashboard {
	metrics.Init()
	if opts.Bands == nil {
		opts.Bands = fee.DefaultBands
	}
	if opts.SessionCapacity <= 0 {
		opts.SessionCapacity = 1024
	}
	return &dashboardUseCase{
		readers:  readers,
		cache:    cache,
		opts:     opts,
		logger:   logger,
		loadErr:  fmt.Errorf("%w: not loaded", ErrDataUnavailable),
		sessions: expirable.NewLRU[string, entity.Dataset](opts.SessionCapacity, nil, opts.SessionTTL),
	}
}

func (uc *dashboardUseCase) Load(ctx context.Context) error {
	ds, err := LoadDataset(ctx, uc.readers)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.sessions.Purge()
	uc.trackSessions()
	if err != nil {
		uc.base, uc.fingerprint = entity.Dataset{}, ""
		uc.loadErr = fmt.Errorf("%w: %w", ErrDataUnavailable, err)
		uc.logger.Error("dataset load failed", zap.Strings("sources", uc.sources()), zap.Error(err))
		return uc.loadErr
	}

	fp, err := fingerprint(ds)
	if err != nil {
		return fmt.Errorf("fingerprint dataset: %w", err)
	}
	uc.base, uc.fingerprint, uc.loadErr = ds, fp, nil
	uc.logger.Info("dataset loaded",
		zap.Strings("sources", uc.sources()),
		zap.Int("with_fee", len(ds.WithFee)),
		zap.Int("no_fee", len(ds.NoFee)),
	)
	return nil
}

func fingerprint(ds entity.Dataset) (string, error) {
	b, err := json.Marshal(ds)
	if err != nil {
		return "", err
	}
	return utils.Hash(string(b))[:16], nil
}

func (uc *dashboardUseCase) sources() []string {
	out := make([]string, len(uc.readers))
	for i, r := range uc.readers {
		out[i] = r.Source()
	}
	return out
}

func (uc *dashboardUseCase) Session(id string) string {
	if id != "" && uc.sessions.Contains(id) {
		return id
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	id = uuid.NewString()
	uc.sessions.Add(id, uc.base.Clone())
	uc.trackSessions()
	return id
}

// trackSessions publishes the session count. Expired sessions drop out of
// the gauge on the next call.
func (uc *dashboardUseCase) trackSessions() {
	metrics.ActiveSessions.Set(float64(uc.sessions.Len()))
}

// dataset returns the session's copy. A session that expired between
// requests gets a fresh copy under the same id.
func (uc *dashboardUseCase) dataset(sessionID string) (entity.Dataset, string, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.loadErr != nil {
		return entity.Dataset{}, "", uc.loadErr
	}
	if ds, ok := uc.sessions.Get(sessionID); ok {
		return ds, uc.fingerprint, nil
	}
	ds := uc.base.Clone()
	if sessionID != "" {
		uc.sessions.Add(sessionID, ds)
		uc.trackSessions()
	}
	return ds, uc.fingerprint, nil
}

func (uc *dashboardUseCase) Health() HealthView {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	h := HealthView{
		Status:   "ok",
		Sources:  uc.sources(),
		Records:  uc.base.Len(),
		WithFee:  len(uc.base.WithFee),
		NoFee:    len(uc.base.NoFee),
		Sessions: uc.sessions.Len(),
	}
	if uc.loadErr != nil {
		h.Status = "unavailable"
		h.Error = uc.loadErr.Error()
	}
	return h
}

func (uc *dashboardUseCase) Overview(ctx context.Context, sessionID string) (*OverviewView, error) {
	ds, fp, err := uc.dataset(sessionID)
	if err != nil {
		return nil, err
	}
	return cached(ctx, uc, fp, "overview", nil, func() *OverviewView {
		return &OverviewView{
			Sources:                    uc.sources(),
			Total:                      ds.Len(),
			WithFee:                    len(ds.WithFee),
			NoFee:                      len(ds.NoFee),
			Stats:                      aggregate.OverallStats(ds),
			ByKeyword:                  aggregate.CountsByKeyword(ds),
			TopInstitutions:            aggregate.TopInstitutions(ds, topInstitutions),
			Histogram:                  aggregate.HistogramByFeeBand(ds, uc.opts.Bands),
			MissingFeeInstitutionCount: aggregate.MissingFeeInstitutionCount(ds),
		}
	})
}

func (uc *dashboardUseCase) Institution(ctx context.Context, sessionID, institution, campus string) (*InstitutionView, error) {
	ds, fp, err := uc.dataset(sessionID)
	if err != nil {
		return nil, err
	}
	return cached(ctx, uc, fp, "institution", []string{institution, campus}, func() *InstitutionView {
		v := &InstitutionView{Offerings: []aggregate.Offering{}}

		inst, instOpts, ok := choose(aggregate.Institutions(ds), entity.FieldInstitution, institution)
		v.Institutions = instOpts
		if !ok {
			return v
		}
		v.Institution = inst.Display(entity.FieldInstitution)

		camp, campOpts, ok := choose(aggregate.Campuses(ds, inst), entity.FieldCampus, campus)
		v.Campuses = campOpts
		if !ok {
			return v
		}
		v.Campus = camp.Display(entity.FieldCampus)

		v.Offerings = aggregate.FilterByInstitutionAndCampus(ds, inst, camp)
		v.Range = aggregate.RangeOf(v.Offerings)
		return v
	})
}

func (uc *dashboardUseCase) Ranking(ctx context.Context, sessionID string) (*RankingView, error) {
	ds, fp, err := uc.dataset(sessionID)
	if err != nil {
		return nil, err
	}
	return cached(ctx, uc, fp, "ranking", nil, func() *RankingView {
		return &RankingView{Rows: aggregate.ValueRanking(ds)}
	})
}

func (uc *dashboardUseCase) Missing(ctx context.Context, sessionID, institution string) (*MissingView, error) {
	ds, fp, err := uc.dataset(sessionID)
	if err != nil {
		return nil, err
	}
	return cached(ctx, uc, fp, "missing", []string{institution}, func() *MissingView {
		all := strings.TrimSpace(institution) == "" || strings.EqualFold(strings.TrimSpace(institution), AllInstitutions)
		v := &MissingView{All: all, Institution: AllInstitutions}

		var inst entity.Text
		if !all {
			inst = entity.ParseCell(entity.FieldInstitution, institution)
			v.Institution = inst.Display(entity.FieldInstitution)
		}
		v.Institutions = append(v.Institutions, Option{Value: AllInstitutions, Selected: all})
		for _, t := range aggregate.MissingFeeInstitutions(ds) {
			v.Institutions = append(v.Institutions, Option{
				Value:    t.Display(entity.FieldInstitution),
				Selected: !all && t == inst,
			})
		}
		v.Rows = aggregate.MissingFee(ds, inst, all)
		return v
	})
}

// choose picks the option named by raw, or the first option when raw is
// empty. A raw value that names no option is still returned so that the
// caller filters on it and gets an empty result; no option is selected
// then. ok is false when raw is empty and there are no options.
func choose(values []entity.Text, field entity.Field, raw string) (entity.Text, []Option, bool) {
	opts := make([]Option, len(values))
	var picked entity.Text
	switch {
	case strings.TrimSpace(raw) != "":
		picked = entity.ParseCell(field, raw)
	case len(values) > 0:
		picked = values[0]
	default:
		return entity.None(), opts, false
	}
	for i, v := range values {
		opts[i] = Option{Value: v.Display(field), Selected: v == picked}
	}
	return picked, opts, true
}

// cached serves a view from the view cache when one is configured. Cache
// failures fall back to computing the view.
func cached[T any](ctx context.Context, uc *dashboardUseCase, fp, view string, params []string, compute func() T) (T, error) {
	if uc.cache == nil {
		return compute(), nil
	}
	key := fp + ":" + view + ":" + utils.Hash(params...)[:16]

	payload, ok, err := uc.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.ViewCacheRequests.WithLabelValues("error").Inc()
		uc.logger.Warn("view cache read failed", zap.String("key", key), zap.Error(err))
	case ok:
		var v T
		if err := json.Unmarshal(payload, &v); err == nil {
			metrics.ViewCacheRequests.WithLabelValues("hit").Inc()
			return v, nil
		}
		metrics.ViewCacheRequests.WithLabelValues("error").Inc()
		uc.logger.Warn("view cache entry unreadable", zap.String("key", key))
	default:
		metrics.ViewCacheRequests.WithLabelValues("miss").Inc()
	}

	v := compute()
	if payload, err := json.Marshal(v); err == nil {
		if err := uc.cache.Set(ctx, key, payload, uc.opts.ViewCacheTTL); err != nil {
			uc.logger.Warn("view cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}
