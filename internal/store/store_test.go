package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dongha22/strategiccategory/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_EmptyDatasetHasSkeletons(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ds, err := s.LoadDataset(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, len(model.Categories))
	for _, c := range model.Categories {
		assert.Len(t, ds[c].Performance, 12)
		assert.Empty(t, ds[c].Customers.TopCustomers)
		assert.NotNil(t, ds[c].Facilitators)
	}
}

func TestStore_ReplacePerformanceAndUpsertMonth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.ReplacePerformance(ctx, model.CategorySunCare, []model.MonthlyPerformance{
		{Month: 1, LastYearActual: 10, ThisYearTarget: 11, ThisYearActual: model.Float(12)},
		{Month: 2, LastYearActual: 9},
	}))
	require.NoError(t, s.UpsertMonthlyPerformance(ctx, model.CategorySunCare, model.MonthlyPerformance{
		Month: 2, LastYearActual: 9, ThisYearTarget: 8, ThisYearActual: model.Float(0),
	}))

	cd, err := s.GetCategoryData(ctx, model.CategorySunCare)
	require.NoError(t, err)
	require.Len(t, cd.Performance, 12)
	require.NotNil(t, cd.Performance[0].ThisYearActual)
	assert.Equal(t, 12.0, *cd.Performance[0].ThisYearActual)
	require.NotNil(t, cd.Performance[1].ThisYearActual)
	assert.Equal(t, 0.0, *cd.Performance[1].ThisYearActual)
	assert.Nil(t, cd.Performance[2].ThisYearActual)

	stored, err := s.ListPerformance(ctx, model.CategorySunCare)
	require.NoError(t, err)
	assert.Len(t, stored, 12, "replace persists a full year")

	assert.Error(t, s.UpsertMonthlyPerformance(ctx, model.CategorySunCare, model.MonthlyPerformance{Month: 13}))
	assert.True(t, errors.Is(s.ReplacePerformance(ctx, "Lotion", nil), ErrUnknownCategory))
}

func TestStore_CustomersRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	set := model.CustomerSet{
		TopCustomers: []model.CustomerData{
			{ID: "c-0", Name: "Alpha", RevenueYTD: 120, Growth: 20, Status: model.StatusThriving,
				Shares:   []model.MarketShare{{Period: "25", Cosmax: 30, Kolmar: 25, Others: 45}, {Period: "26 Q1", Cosmax: 35, Kolmar: 20, Others: 45}},
				Products: []model.Product{{Name: "SPF50", Revenue: 10, Growth: 2, Share: 40}}},
			{ID: "c-1", Name: "Beta", RevenueYTD: 80},
		},
		Top20AggregateShare: []model.MarketShare{{Period: "25", Cosmax: 30, Kolmar: 25, Others: 45}},
	}
	saved, err := s.ReplaceCustomers(ctx, model.CategoryCream, set)
	require.NoError(t, err)
	assert.NotEqual(t, "c-0", saved.TopCustomers[0].ID)
	assert.Equal(t, "c-0", set.TopCustomers[0].ID, "input must not be mutated")

	got, err := s.ListCustomers(ctx, model.CategoryCream)
	require.NoError(t, err)
	require.Len(t, got.TopCustomers, 2)
	alpha := got.TopCustomers[0]
	assert.Equal(t, "Alpha", alpha.Name)
	assert.Equal(t, model.StatusThriving, alpha.Status)
	require.Len(t, alpha.Shares, 2)
	assert.Equal(t, "26 Q1", alpha.Shares[1].Period)
	require.Len(t, alpha.Products, 1)
	assert.Equal(t, "SPF50", alpha.Products[0].Name)
	assert.Equal(t, model.StatusStable, got.TopCustomers[1].Status, "empty status defaults to Stable")
	require.Len(t, got.Top20AggregateShare, 1)

	// 替换时旧客户与份额全部移除
	_, err = s.ReplaceCustomers(ctx, model.CategoryCream, model.CustomerSet{TopCustomers: []model.CustomerData{{Name: "Gamma"}}})
	require.NoError(t, err)
	got, err = s.ListCustomers(ctx, model.CategoryCream)
	require.NoError(t, err)
	require.Len(t, got.TopCustomers, 1)
	assert.Empty(t, got.Top20AggregateShare)
}

func TestStore_UpsertAndDeleteCustomer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.UpsertCustomer(ctx, model.CategoryEssence, model.CustomerData{Name: "Alpha", RevenueYTD: 5})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.RevenueYTD = 7
	_, err = s.UpsertCustomer(ctx, model.CategoryEssence, created)
	require.NoError(t, err)

	set, err := s.ListCustomers(ctx, model.CategoryEssence)
	require.NoError(t, err)
	require.Len(t, set.TopCustomers, 1)
	assert.Equal(t, 7.0, set.TopCustomers[0].RevenueYTD)

	_, err = s.UpsertCustomer(ctx, model.CategoryEssence, model.CustomerData{ID: "missing", Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteCustomer(ctx, model.CategoryEssence, created.ID))
	assert.ErrorIs(t, s.DeleteCustomer(ctx, model.CategoryEssence, created.ID), ErrNotFound)
}

func TestStore_FacilitatorsClearAndStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)
	c := model.CategoryFoundation

	require.NoError(t, s.UpsertFacilitator(ctx, c, model.Facilitator{Role: model.RoleMarketing, Name: "Kim"}))
	require.NoError(t, s.UpsertFacilitator(ctx, c, model.Facilitator{Role: model.RoleMarketing, Name: "Lee"}))
	assert.Error(t, s.UpsertFacilitator(ctx, c, model.Facilitator{Role: "영업", Name: "Park"}))

	fs, err := s.ListFacilitators(ctx, c)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, "Lee", fs[0].Name)

	require.NoError(t, s.ReplacePerformance(ctx, c, []model.MonthlyPerformance{{Month: 3, ThisYearActual: model.Float(1)}}))
	_, err = s.UpsertCustomer(ctx, c, model.CustomerData{Name: "Alpha"})
	require.NoError(t, err)

	stats, err := s.Status(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 4)
	assert.Equal(t, model.CategoryStats{Category: c, ReportedThrough: 3, Customers: 1, Facilitators: 1}, stats[1])

	require.NoError(t, s.ClearCategory(ctx, c))
	cd, err := s.GetCategoryData(ctx, c)
	require.NoError(t, err)
	assert.Empty(t, cd.Customers.TopCustomers)
	assert.Empty(t, cd.Facilitators)
	assert.Equal(t, 0, model.MaxReportedMonth(cd.Performance))
}

func TestStore_ImportLog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(t)

	last, err := s.LastImport(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	id, err := s.CreateImportLog(ctx, "batch-1", "auto", 3)
	require.NoError(t, err)
	require.NoError(t, s.FinishImportLog(ctx, id, 2, 0, 1, "partial", "1 file failed"))

	last, err = s.LastImport(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "batch-1", last.BatchID)
	assert.Equal(t, 2, last.ImportedFiles)
	assert.Equal(t, 1, last.ErrorFiles)
	assert.Equal(t, "partial", last.Status)
	assert.NotEmpty(t, last.FinishedAt)
}
