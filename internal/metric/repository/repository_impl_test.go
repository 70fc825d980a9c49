package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/insightrow/sheetsync/internal/metric/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:metric_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MetricRecord{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return db, node
}

func testRecord(node *snowflake.Node, tenantID snowflake.ID) *domain.MetricRecord {
	now := time.Now().UTC()
	return &domain.MetricRecord{
		ID:       node.Generate(),
		TenantID: tenantID,
		Date:     time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Medium:   "paid",
		Source:   "google",
		Campaign: "spring",

		Leads:    100,
		Consults: 40,
		Sales:    10,

		Spend:              500,
		Roas:               0.02,
		LeadsToConsultRate: 0.4,
		LeadsToSaleRate:    0.1,

		RawData:   datatypes.JSONMap{"leads": 100.0},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUpsertInsertsNewKey(t *testing.T) {
	db, node := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	tenantID := node.Generate()
	require.NoError(t, repo.Upsert(ctx, db, testRecord(node, tenantID)))

	count, err := repo.CountByTenant(ctx, db, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertOverwritesSameKey(t *testing.T) {
	db, node := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	tenantID := node.Generate()
	first := testRecord(node, tenantID)
	require.NoError(t, repo.Upsert(ctx, db, first))

	second := testRecord(node, tenantID)
	second.Leads = 120
	second.Sales = 12
	second.Roas = 0.024
	require.NoError(t, repo.Upsert(ctx, db, second))

	count, err := repo.CountByTenant(ctx, db, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	records, err := repo.List(ctx, db, domain.ListFilter{TenantID: tenantID})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, 120, records[0].Leads)
	assert.Equal(t, 12, records[0].Sales)
	assert.Equal(t, 0.024, records[0].Roas)
}

func TestUpsertIsIdempotent(t *testing.T) {
	db, node := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	tenantID := node.Generate()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Upsert(ctx, db, testRecord(node, tenantID)))
	}

	count, err := repo.CountByTenant(ctx, db, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpsertKeySensitivity(t *testing.T) {
	db, node := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	tenantID := node.Generate()
	require.NoError(t, repo.Upsert(ctx, db, testRecord(node, tenantID)))

	// A different date, a different dimension value, or another tenant
	// all produce distinct rows.
	otherDate := testRecord(node, tenantID)
	otherDate.Date = otherDate.Date.AddDate(0, 0, 1)
	require.NoError(t, repo.Upsert(ctx, db, otherDate))

	otherCampaign := testRecord(node, tenantID)
	otherCampaign.Campaign = "summer"
	require.NoError(t, repo.Upsert(ctx, db, otherCampaign))

	otherTenant := testRecord(node, node.Generate())
	require.NoError(t, repo.Upsert(ctx, db, otherTenant))

	count, err := repo.CountByTenant(ctx, db, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	otherCount, err := repo.CountByTenant(ctx, db, otherTenant.TenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), otherCount)
}

func TestListFiltersByDateRange(t *testing.T) {
	db, node := setupTestDB(t)
	repo := Provide()
	ctx := context.Background()

	tenantID := node.Generate()
	for day := 10; day <= 20; day += 5 {
		record := testRecord(node, tenantID)
		record.Date = time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Upsert(ctx, db, record))
	}

	from := time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 18, 0, 0, 0, 0, time.UTC)
	records, err := repo.List(ctx, db, domain.ListFilter{TenantID: tenantID, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 15, records[0].Date.Day())
}
