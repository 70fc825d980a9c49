// Package sync orchestrates tenant sync passes: fetch, redact, transform,
// upsert, status transitions, and audit emission.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	auditdomain "github.com/insightrow/sheetsync/internal/audit/domain"
	"github.com/insightrow/sheetsync/internal/clock"
	"github.com/insightrow/sheetsync/internal/config"
	datasourcedomain "github.com/insightrow/sheetsync/internal/datasource/domain"
	metricdomain "github.com/insightrow/sheetsync/internal/metric/domain"
	obsmetrics "github.com/insightrow/sheetsync/internal/observability/metrics"
	"github.com/insightrow/sheetsync/internal/redact"
	"github.com/insightrow/sheetsync/internal/sheets"
	tenantdomain "github.com/insightrow/sheetsync/internal/tenant/domain"
	"github.com/insightrow/sheetsync/internal/transform"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Result summarizes one tenant sync pass. SyncTenant always returns a
// Result, never an unhandled fault: Success is true iff Errors is empty.
type Result struct {
	TenantID   snowflake.ID `json:"tenant_id"`
	RunID      string       `json:"run_id"`
	Success    bool         `json:"success"`
	RowsSynced int          `json:"rows_synced"`
	Errors     []string     `json:"errors"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Cfg           config.Config
	Clock         clock.Clock
	GenID         *snowflake.Node
	Tenants       tenantdomain.Repository
	Sources       datasourcedomain.Repository
	Metrics       metricdomain.Repository
	Audit         auditdomain.Service
	SheetsFactory sheets.Factory
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	cfg           config.Config
	clock         clock.Clock
	genID         *snowflake.Node
	tenants       tenantdomain.Repository
	sources       datasourcedomain.Repository
	metrics       metricdomain.Repository
	audit         auditdomain.Service
	sheetsFactory sheets.Factory
	transformer   *transform.Transformer
	locks         *tenantLocks
}

func NewService(p Params) *Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("sync.service"),
		cfg:           p.Cfg,
		clock:         p.Clock,
		genID:         p.GenID,
		tenants:       p.Tenants,
		sources:       p.Sources,
		metrics:       p.Metrics,
		audit:         p.Audit,
		sheetsFactory: p.SheetsFactory,
		transformer:   transform.NewTransformer(p.Log, p.Clock),
		locks:         newTenantLocks(),
	}
}

// SyncAll runs a sync pass for every tenant, sequentially. One tenant's
// failure never stops the others from being attempted.
func (s *Service) SyncAll(ctx context.Context, accessToken string) ([]Result, error) {
	tenants, err := s.tenants.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	results := make([]Result, 0, len(tenants))
	for _, tenant := range tenants {
		results = append(results, s.SyncTenant(ctx, tenant.ID, accessToken))
	}
	return results, nil
}

// SyncTenant runs one full sync pass for a tenant. Concurrent passes for
// the same tenant are serialized; every failure path ends in the returned
// Result and an audit entry, never a fault.
func (s *Service) SyncTenant(ctx context.Context, tenantID snowflake.ID, accessToken string) Result {
	unlock := s.locks.lock(tenantID)
	defer unlock()

	start := s.clock.Now()
	runID := uuid.NewString()
	log := s.log.With(
		zap.String("tenant_id", tenantID.String()),
		zap.String("run_id", runID),
	)
	syncMetrics := obsmetrics.Sync()

	res := Result{
		TenantID:  tenantID,
		RunID:     runID,
		StartedAt: start,
		Errors:    []string{},
	}

	if err := s.runPass(ctx, log, accessToken, &res); err != nil {
		msg := err.Error()
		res.Errors = []string{msg}
		log.Error("sync pass failed", zap.Error(err))
		s.emitAudit(ctx, log, tenantID, auditdomain.ActionSyncFailed, map[string]any{
			"error": msg,
		})
	} else {
		s.emitAudit(ctx, log, tenantID, auditdomain.ActionSyncCompleted, map[string]any{
			"rows_synced": res.RowsSynced,
			"errors":      res.Errors,
			"duration_ms": s.clock.Now().Sub(start).Milliseconds(),
		})
	}

	res.FinishedAt = s.clock.Now()
	res.Success = len(res.Errors) == 0

	syncMetrics.IncPass(res.Success)
	syncMetrics.ObservePassDuration(res.FinishedAt.Sub(res.StartedAt))
	syncMetrics.AddRowsSynced(res.RowsSynced)

	log.Info("sync pass finished",
		zap.Bool("success", res.Success),
		zap.Int("rows_synced", res.RowsSynced),
		zap.Int("error_count", len(res.Errors)),
	)
	return res
}

// runPass executes the pass body. A returned error is a tenant-level
// precondition failure; per-source failures are folded into res and never
// surface here.
func (s *Service) runPass(ctx context.Context, log *zap.Logger, accessToken string, res *Result) error {
	tenant, err := s.tenants.FindByID(ctx, s.db, res.TenantID)
	if err != nil {
		return fmt.Errorf("load tenant: %w", err)
	}
	if tenant == nil {
		return fmt.Errorf("tenant not found: %s", res.TenantID)
	}

	sources, err := s.sources.FindByTenant(ctx, s.db, tenant.ID)
	if err != nil {
		return fmt.Errorf("load data source configs: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no data source configs for tenant: %s", res.TenantID)
	}

	if err := s.sources.MarkSyncing(ctx, s.db, tenant.ID, s.clock.Now()); err != nil {
		return fmt.Errorf("mark sources syncing: %w", err)
	}

	policy := redact.PolicyFor(*tenant)
	client := s.sheetsFactory(accessToken)

	for _, source := range sources {
		synced, err := s.syncSource(ctx, log, client, tenant, policy, source)
		res.RowsSynced += synced
		now := s.clock.Now()

		if err != nil {
			msg := fmt.Sprintf("failed to sync data source %s: %v", source.ID, err)
			res.Errors = append(res.Errors, msg)
			log.Error("data source sync failed",
				zap.String("source_id", source.ID.String()),
				zap.Error(err),
			)
			obsmetrics.Sync().IncSourceFailure()
			if markErr := s.sources.MarkFailed(ctx, s.db, source.ID, msg, now); markErr != nil {
				log.Warn("failed to mark data source failed",
					zap.String("source_id", source.ID.String()),
					zap.Error(markErr),
				)
			}
			continue
		}

		if markErr := s.sources.MarkSucceeded(ctx, s.db, source.ID, now); markErr != nil {
			msg := fmt.Sprintf("failed to finalize data source %s: %v", source.ID, markErr)
			res.Errors = append(res.Errors, msg)
			log.Warn("failed to mark data source succeeded",
				zap.String("source_id", source.ID.String()),
				zap.Error(markErr),
			)
		}
	}
	return nil
}

// syncSource runs the fetch→redact→transform→upsert pipeline for one data
// source. Tab batches never interleave with another source's.
func (s *Service) syncSource(
	ctx context.Context,
	log *zap.Logger,
	client sheets.Client,
	tenant *tenantdomain.Tenant,
	policy []redact.Rule,
	source *datasourcedomain.DataSourceConfig,
) (int, error) {
	var tabs map[string]sheets.TabData
	err := retryWithBackoff(ctx, s.cfg.FetchMaxAttempts, s.cfg.FetchBaseBackoff, func() error {
		var fetchErr error
		tabs, fetchErr = client.FetchTabs(ctx, source.SpreadsheetID, []string(source.TabNames))
		return fetchErr
	}, func(attempt int, delay time.Duration, err error) {
		obsmetrics.Sync().IncFetchRetry()
		log.Warn("spreadsheet fetch failed, retrying",
			zap.String("source_id", source.ID.String()),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)
	})
	if err != nil {
		return 0, fmt.Errorf("fetch tabs: %w", err)
	}

	synced := 0
	for _, tabName := range source.TabNames {
		data, ok := tabs[tabName]
		if !ok {
			continue
		}

		rows := data.Rows
		if len(policy) > 0 {
			redacted, removed := redact.Apply(rows, policy)
			rows = redacted
			if len(removed) > 0 {
				s.emitAudit(ctx, log, tenant.ID, auditdomain.ActionRedactionApplied, map[string]any{
					"source_id": source.ID.String(),
					"tab":       tabName,
					"columns":   removed,
					"row_count": len(rows),
				})
			}
		}

		for _, metric := range s.transformer.TransformRows(rows) {
			record := s.buildRecord(tenant.ID, metric)
			if err := s.metrics.Upsert(ctx, s.db, record); err != nil {
				return synced, fmt.Errorf("upsert metric for tab %s: %w", tabName, err)
			}
			synced++
		}
	}
	return synced, nil
}

// buildRecord is the composite-key boundary: absent dimensions become
// empty strings here and nowhere earlier.
func (s *Service) buildRecord(tenantID snowflake.ID, m *transform.Metric) *metricdomain.MetricRecord {
	now := s.clock.Now()
	return &metricdomain.MetricRecord{
		ID:            s.genID.Generate(),
		TenantID:      tenantID,
		Date:          m.Date,
		Medium:        dimension(m.Medium),
		Source:        dimension(m.Source),
		Campaign:      dimension(m.Campaign),
		Location:      dimension(m.Location),
		UserName:      dimension(m.User),
		ServicePerson: dimension(m.ServicePerson),

		Leads:    m.Leads,
		Consults: m.Consults,
		Sales:    m.Sales,

		Spend:              m.Spend,
		Roas:               m.Roas,
		LeadsToConsultRate: m.LeadsToConsultRate,
		LeadsToSaleRate:    m.LeadsToSaleRate,

		RawData:   datatypes.JSONMap(m.RawData),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Service) emitAudit(ctx context.Context, log *zap.Logger, tenantID snowflake.ID, action string, details map[string]any) {
	if err := s.audit.Record(ctx, tenantID, action, details); err != nil {
		log.Warn("audit emission failed", zap.String("action", action), zap.Error(err))
	}
}

func dimension(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
