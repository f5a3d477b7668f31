package credentialrepo_test

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
	"gotransfer/internal/repository/credentialrepo"
)

func TestCredentialRepository_SaveAndFind(t *testing.T) {
	repo := credentialrepo.NewCredentialRepository(database.NewTestDB(t), 5*time.Second, logger.NewNop())
	ctx := context.Background()

	_, err := repo.Save(ctx, domain.StaffCredential{BranchID: "B2", StaffID: "maria", PINHash: "hash-1"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, domain.StaffCredential{BranchID: "B2", StaffID: "joao", PINHash: "hash-2"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, domain.StaffCredential{BranchID: "B1", StaffID: "ana", PINHash: "hash-3"})
	require.NoError(t, err)

	creds, err := repo.FindByBranch(ctx, "B2")
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, "joao", creds[0].StaffID)
	assert.Equal(t, "maria", creds[1].StaffID)
	assert.Equal(t, "hash-1", creds[1].PINHash)

	none, err := repo.FindByBranch(ctx, "B9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCredentialRepository_Save_Duplicate(t *testing.T) {
	repo := credentialrepo.NewCredentialRepository(database.NewTestDB(t), 5*time.Second, logger.NewNop())
	ctx := context.Background()

	cred := domain.StaffCredential{BranchID: "B2", StaffID: "maria", PINHash: "hash-1"}
	_, err := repo.Save(ctx, cred)
	require.NoError(t, err)

	_, err = repo.Save(ctx, cred)
	var conflict *apperror.ConflictError
	assert.ErrorAs(t, err, &conflict)

	_, err = repo.Save(ctx, domain.StaffCredential{BranchID: "B2"})
	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}
