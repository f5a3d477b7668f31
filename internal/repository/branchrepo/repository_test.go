package branchrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotransfer/internal/domain"
	apperror "gotransfer/internal/errors"
	"gotransfer/internal/pkg/database"
	"gotransfer/internal/pkg/logger"
	"gotransfer/internal/repository/branchrepo"
)

func TestBranchRepository_CreateAndGet(t *testing.T) {
	repo := branchrepo.NewBranchRepository(database.NewTestDB(t), 5*time.Second, logger.NewNop())
	ctx := context.Background()

	created, err := repo.CreateBranch(ctx, domain.Branch{ID: "B1", Name: "Loja Centro"})
	require.NoError(t, err)
	assert.Equal(t, "B1", created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetBranchByID(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Loja Centro", got.Name)

	_, err = repo.CreateBranch(ctx, domain.Branch{ID: "B1", Name: "Duplicada"})
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestBranchRepository_GetBranchByID_NotFound(t *testing.T) {
	repo := branchrepo.NewBranchRepository(database.NewTestDB(t), 5*time.Second, logger.NewNop())

	_, err := repo.GetBranchByID(context.Background(), "nao-existe")
	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestBranchRepository_GetAllBranches_OrderedByName(t *testing.T) {
	repo := branchrepo.NewBranchRepository(database.NewTestDB(t), 5*time.Second, logger.NewNop())
	ctx := context.Background()

	all, err := repo.GetAllBranches(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = repo.CreateBranch(ctx, domain.Branch{ID: "B2", Name: "Depósito Norte"})
	require.NoError(t, err)
	_, err = repo.CreateBranch(ctx, domain.Branch{ID: "B1", Name: "Centro"})
	require.NoError(t, err)

	all, err = repo.GetAllBranches(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Centro", all[0].Name)
	assert.Equal(t, "Depósito Norte", all[1].Name)

	_, err = repo.CreateBranch(ctx, domain.Branch{Name: "  "})
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}
