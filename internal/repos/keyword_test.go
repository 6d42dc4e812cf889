package repos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambasci/marketing-tools-backend/internal/types"
)

func TestKeywordUpsertRefreshesMetrics(t *testing.T) {
	db := newTestDB(t)
	repo := NewKeywordRepo(db, newTestLogger())
	ctx := context.Background()

	_, err := repo.Upsert(ctx, nil, []*types.Keyword{{
		Keyword:      "seo tools",
		SearchVolume: 1000,
		CPC:          1.5,
	}})
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, nil, []*types.Keyword{{
		Keyword:      "seo tools",
		SearchVolume: 2400,
		CPC:          1.8,
	}})
	require.NoError(t, err)

	var rows []*types.Keyword
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 2400, rows[0].SearchVolume)
	assert.InDelta(t, 1.8, rows[0].CPC, 0.001)
}

func TestKeywordUpsertRejectsEmptyKeyword(t *testing.T) {
	db := newTestDB(t)
	repo := NewKeywordRepo(db, newTestLogger())

	_, err := repo.Upsert(context.Background(), nil, []*types.Keyword{{Keyword: ""}})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}
