package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/insightrow/sheetsync/internal/audit/domain"
	auditrepo "github.com/insightrow/sheetsync/internal/audit/repository"
	"github.com/insightrow/sheetsync/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAuditService(t *testing.T) (auditdomain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:audit_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)),
		Repo:  auditrepo.Provide(),
	})
	return svc, node
}

func TestRecordAndList(t *testing.T) {
	svc, node := setupAuditService(t)
	ctx := context.Background()
	tenantID := node.Generate()

	require.NoError(t, svc.Record(ctx, tenantID, auditdomain.ActionSyncCompleted, map[string]any{
		"rows_synced": 12,
	}))
	require.NoError(t, svc.Record(ctx, tenantID, auditdomain.ActionRedactionApplied, map[string]any{
		"columns": []string{"Email"},
	}))

	logs, err := svc.List(ctx, tenantID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, auditdomain.ActionRedactionApplied, logs[0].Action)
	assert.Equal(t, auditdomain.ActionSyncCompleted, logs[1].Action)
	assert.EqualValues(t, 12, logs[1].Details["rows_synced"])
}

func TestRecordRejectsBlankAction(t *testing.T) {
	svc, node := setupAuditService(t)

	err := svc.Record(context.Background(), node.Generate(), "   ", nil)
	assert.ErrorIs(t, err, auditdomain.ErrInvalidAction)
}

func TestRecordDropsEmptyDetailKeys(t *testing.T) {
	svc, node := setupAuditService(t)
	tenantID := node.Generate()

	require.NoError(t, svc.Record(context.Background(), tenantID, auditdomain.ActionSyncFailed, map[string]any{
		"":      "dropped",
		"error": "boom",
	}))

	logs, err := svc.List(context.Background(), tenantID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "boom", logs[0].Details["error"])
	assert.NotContains(t, logs[0].Details, "")
}

func TestListScopedToTenant(t *testing.T) {
	svc, node := setupAuditService(t)
	ctx := context.Background()

	first := node.Generate()
	second := node.Generate()
	require.NoError(t, svc.Record(ctx, first, auditdomain.ActionSyncCompleted, nil))
	require.NoError(t, svc.Record(ctx, second, auditdomain.ActionSyncFailed, nil))

	logs, err := svc.List(ctx, first, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, first, logs[0].TenantID)
}
