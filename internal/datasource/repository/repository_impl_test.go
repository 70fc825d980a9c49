package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/insightrow/sheetsync/internal/datasource/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:datasource_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.DataSourceConfig{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return db, node
}

func insertConfig(t *testing.T, db *gorm.DB, node *snowflake.Node, tenantID snowflake.ID) *domain.DataSourceConfig {
	t.Helper()

	cfg := &domain.DataSourceConfig{
		ID:            node.Generate(),
		TenantID:      tenantID,
		SpreadsheetID: "sheet-1",
		Label:         "test",
		TabNames:      datatypes.NewJSONSlice([]string{"Sheet1"}),
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	require.NoError(t, Provide().Insert(context.Background(), db, cfg))
	return cfg
}

func TestInsertDefaultsToPending(t *testing.T) {
	db, node := setupTestDB(t)
	cfg := insertConfig(t, db, node, node.Generate())

	assert.Equal(t, domain.SyncStatusPending, cfg.SyncStatus)
}

func TestMarkSyncingCoversTenant(t *testing.T) {
	db, node := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	tenantID := node.Generate()
	insertConfig(t, db, node, tenantID)
	insertConfig(t, db, node, tenantID)
	other := insertConfig(t, db, node, node.Generate())

	require.NoError(t, repo.MarkSyncing(ctx, db, tenantID, time.Now().UTC()))

	configs, err := repo.FindByTenant(ctx, db, tenantID)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	for _, cfg := range configs {
		assert.Equal(t, domain.SyncStatusSyncing, cfg.SyncStatus)
	}

	others, err := repo.FindByTenant(ctx, db, other.TenantID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, domain.SyncStatusPending, others[0].SyncStatus)
}

func TestMarkSucceededRequiresSyncing(t *testing.T) {
	db, node := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	cfg := insertConfig(t, db, node, node.Generate())
	now := time.Now().UTC()

	// PENDING -> SUCCESS is rejected.
	err := repo.MarkSucceeded(ctx, db, cfg.ID, now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, repo.MarkSyncing(ctx, db, cfg.TenantID, now))
	require.NoError(t, repo.MarkSucceeded(ctx, db, cfg.ID, now))

	configs, err := repo.FindByTenant(ctx, db, cfg.TenantID)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, domain.SyncStatusSuccess, configs[0].SyncStatus)
	require.NotNil(t, configs[0].LastSyncedAt)
	assert.Nil(t, configs[0].LastError)
}

func TestMarkFailedRecordsError(t *testing.T) {
	db, node := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	cfg := insertConfig(t, db, node, node.Generate())
	now := time.Now().UTC()

	require.NoError(t, repo.MarkSyncing(ctx, db, cfg.TenantID, now))
	require.NoError(t, repo.MarkFailed(ctx, db, cfg.ID, "fetch tabs: boom", now))

	configs, err := repo.FindByTenant(ctx, db, cfg.TenantID)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, domain.SyncStatusFailed, configs[0].SyncStatus)
	require.NotNil(t, configs[0].LastError)
	assert.Equal(t, "fetch tabs: boom", *configs[0].LastError)

	// A failed source stays eligible: SYNCING again, then SUCCESS clears the error.
	require.NoError(t, repo.MarkSyncing(ctx, db, cfg.TenantID, now))
	require.NoError(t, repo.MarkSucceeded(ctx, db, cfg.ID, now))

	configs, err = repo.FindByTenant(ctx, db, cfg.TenantID)
	require.NoError(t, err)
	assert.Nil(t, configs[0].LastError)
}

func TestFindByStatus(t *testing.T) {
	db, node := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	pending := insertConfig(t, db, node, node.Generate())
	syncing := insertConfig(t, db, node, node.Generate())
	require.NoError(t, repo.MarkSyncing(ctx, db, syncing.TenantID, time.Now().UTC()))

	configs, err := repo.FindByStatus(ctx, db, []domain.SyncStatus{domain.SyncStatusPending})
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Equal(t, pending.ID, configs[0].ID)
}
