package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/domain/deal"
	"github.com/ventureflow/backend/internal/domain/filefolder"
	"github.com/ventureflow/backend/internal/domain/shared"
)

func newDeal(t *testing.T, repo *GormDealRepository, tenantID uuid.UUID, name string, stage deal.StageCode, pic *uuid.UUID) *deal.Deal {
	t.Helper()
	seq, err := repo.NextSequence(context.Background(), tenantID)
	require.NoError(t, err)
	d, err := deal.NewDeal(tenantID, seq, stage, deal.Input{Name: name, PICID: pic})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), d))
	return d
}

func TestGormDealRepository_StageHistory(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormDealRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	actor := uuid.New()

	d := newDeal(t, repo, tenantID, "Project Falcon", "", nil)
	assert.Equal(t, "DL-00001", d.Code)
	assert.Equal(t, deal.StageK, d.StageCode)

	entry, err := d.ChangeStage(deal.StageF, actor)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithHistory(ctx, d, entry))

	entry, err = d.ChangeStage(deal.StageH, actor)
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithHistory(ctx, d, entry))

	found, err := repo.FindByID(ctx, tenantID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, deal.StageH, found.StageCode)
	assert.Equal(t, deal.StageH.Progress(), found.ProgressPercent)

	history, err := repo.History(ctx, tenantID, d.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, deal.StageF, history[0].FromStage)
	assert.Equal(t, deal.StageH, history[0].ToStage)
	assert.Equal(t, deal.StageK, history[1].FromStage)
	require.NotNil(t, history[0].ChangedBy)
	assert.Equal(t, actor, *history[0].ChangedBy)

	t.Run("same stage writes no history", func(t *testing.T) {
		entry, err := d.ChangeStage(deal.StageH, actor)
		require.NoError(t, err)
		assert.Nil(t, entry)
		require.NoError(t, repo.SaveWithHistory(ctx, d, entry))
		history, err := repo.History(ctx, tenantID, d.ID)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("delete removes history and links", func(t *testing.T) {
		files := NewGormFileFolderRepository(db)
		folder, err := filefolder.NewFolder(tenantID, "Deal Documents", nil)
		require.NoError(t, err)
		link, err := filefolder.NewLink(tenantID, folder.ID, filefolder.OwnerDeal, d.ID)
		require.NoError(t, err)
		require.NoError(t, files.SaveFolder(ctx, folder, link))

		require.NoError(t, repo.Delete(ctx, tenantID, d.ID))
		assert.Equal(t, int64(0), countRows(t, db, "deal_stage_histories", "deal_id = ?", d.ID))
		assert.Equal(t, int64(0), countRows(t, db, "file_folder_links", "owner_id = ?", d.ID))
		_, err = repo.FindByID(ctx, tenantID, d.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, tenantID, d.ID), shared.ErrNotFound)
	})
}

func TestGormDealRepository_Pipeline(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormDealRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	pic := uuid.New()

	newDeal(t, repo, tenantID, "Alpha", deal.StageK, &pic)
	newDeal(t, repo, tenantID, "Beta", deal.StageK, nil)
	newDeal(t, repo, tenantID, "Gamma", deal.StageB, &pic)
	newDeal(t, repo, uuid.New(), "Elsewhere", deal.StageK, nil)

	columns, err := repo.CountByStage(ctx, tenantID, shared.DefaultFilter())
	require.NoError(t, err)
	counts := map[deal.StageCode]int64{}
	for _, c := range columns {
		counts[c.StageCode] = c.Count
	}
	assert.Equal(t, map[deal.StageCode]int64{deal.StageK: 2, deal.StageB: 1}, counts)

	filter := shared.DefaultFilter()
	filter.Filters["pic_id"] = pic
	deals, total, err := repo.FindAll(ctx, tenantID, filter)
	require.NoError(t, err)
	assert.Len(t, deals, 2)
	assert.Equal(t, int64(2), total)

	filter = shared.DefaultFilter()
	filter.Filters["stage_codes"] = []deal.StageCode{deal.StageB}
	board, err := repo.FindByStages(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "Gamma", board[0].Name)

	filter = shared.DefaultFilter()
	filter.Search = "bet"
	deals, total, err = repo.FindAll(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "Beta", deals[0].Name)
	assert.Equal(t, int64(1), total)
}
