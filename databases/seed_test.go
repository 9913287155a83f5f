package databases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/lexmatch-api/databases"
	"github.com/linesmerrill/lexmatch-api/models"
)

func TestDefaultSeed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seed, err := databases.DefaultSeed(now)
	require.NoError(t, err)

	assert.Len(t, seed.Users, 2)
	assert.Len(t, seed.Lawyers, 4)
	require.Len(t, seed.Cases, 2)

	first := seed.Cases[0]
	assert.Equal(t, "case-001", first.ID)
	assert.Equal(t, models.CaseStatusOpen, first.Status)
	assert.Equal(t, now.Add(-24*time.Hour), first.CreatedAt)
	assert.Empty(t, first.Bids)
	assert.NotNil(t, first.Bids)

	second := seed.Cases[1]
	assert.Equal(t, "client-1", second.ClientID)
	require.Len(t, second.Bids, 1)
	assert.Equal(t, 2000.0, second.Bids[0].Amount)
	assert.Equal(t, "Sarah Jenkins, Esq.", second.Bids[0].LawyerName)
}

func TestParseSeedRejectsBadAge(t *testing.T) {
	_, err := databases.ParseSeed([]byte("cases:\n  - id: x\n    age: yesterday\n"), time.Now())
	assert.Error(t, err)
}

func TestParseSeedRejectsUnknownRole(t *testing.T) {
	_, err := databases.ParseSeed([]byte("users:\n  - id: u\n    role: ADMIN\n"), time.Now())
	assert.Error(t, err)
}

func TestParseSeedRejectsUnknownStatus(t *testing.T) {
	_, err := databases.ParseSeed([]byte("cases:\n  - id: x\n    status: open\n"), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown status "open"`)

	seed, err := databases.ParseSeed([]byte("cases:\n  - id: x\n  - id: y\n    status: COMPLETED\n"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusOpen, seed.Cases[0].Status)
	assert.Equal(t, models.CaseStatusCompleted, seed.Cases[1].Status)
}

func TestParseSeedRejectsInvalidYAML(t *testing.T) {
	_, err := databases.ParseSeed([]byte("cases: [\n"), time.Now())
	assert.Error(t, err)
}

func TestLoadSeedFileMissing(t *testing.T) {
	_, err := databases.LoadSeedFile("does-not-exist.yaml", time.Now())
	assert.Error(t, err)
}

func TestNewDatabaseFromSeed(t *testing.T) {
	ctx := context.Background()
	seed, err := databases.DefaultSeed(time.Now())
	require.NoError(t, err)
	db := databases.NewDatabase(seed)

	lawyers, err := db.Lawyers.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, lawyers, 4)

	l, err := db.Lawyers.FindOne(ctx, "l2")
	require.NoError(t, err)
	assert.Equal(t, "David Chen", l.Name)

	_, err = db.Lawyers.FindOne(ctx, "l9")
	assert.True(t, errors.Is(err, databases.ErrLawyerNotFound))

	client, err := db.Users.FindByRole(ctx, models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, "client-1", client.ID)
	assert.Equal(t, "TechStartup Inc.", client.Company)

	lawyer, err := db.Users.FindOne(ctx, "lawyer-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleLawyer, lawyer.Role)

	_, err = db.Users.FindOne(ctx, "nobody")
	assert.True(t, errors.Is(err, databases.ErrUserNotFound))

	cases, err := db.Cases.Find(ctx, databases.CaseFilter{})
	require.NoError(t, err)
	assert.Len(t, cases, 2)
}

func TestNewDatabaseNilSeed(t *testing.T) {
	db := databases.NewDatabase(nil)
	cases, err := db.Cases.Find(context.Background(), databases.CaseFilter{})
	require.NoError(t, err)
	assert.Empty(t, cases)
}
