package sqlite

import (
	"context"
	"database/sql/driver"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/auditshield/internal/domain/entities"
	"github.com/ersonp/auditshield/internal/infrastructure/config"
)

func openFileRepo(t *testing.T, path string) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestDataSourceName(t *testing.T) {
	assert.Equal(t, "audit.db?"+connPragmas, dataSourceName("audit.db"))
	assert.Equal(t, "file:audit.db?cache=shared&"+connPragmas, dataSourceName("file:audit.db?cache=shared"))
}

func TestRepository_PragmasOnNewConnection(t *testing.T) {
	repo := openFileRepo(t, filepath.Join(t.TempDir(), "audit.db"))
	ctx := context.Background()

	// Throw away the pooled connection so the next query dials a fresh one.
	conn, err := repo.db.Conn(ctx)
	require.NoError(t, err)
	err = conn.Raw(func(any) error { return driver.ErrBadConn })
	require.ErrorIs(t, err, driver.ErrBadConn)
	conn.Close()

	var foreignKeys, busyTimeout int
	require.NoError(t, repo.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
	require.NoError(t, repo.db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 1, foreignKeys)
	assert.Equal(t, 5000, busyTimeout)

	qs := seedQuestions(t, repo, entities.Question{Text: "Q1", ControlRef: "A.5"})
	auditID := newAudit(t, repo, "cascade")
	require.NoError(t, repo.InsertAnswers(ctx, []entities.Answer{{AuditID: auditID, QuestionID: qs[0].ID}}))

	_, err = repo.DeleteAudit(ctx, auditID)
	require.NoError(t, err)
	answers, err := repo.ListAllAnswers(ctx)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestRepository_Watch_WritesFromOtherConnection(t *testing.T) {
	old := pollInterval
	pollInterval = 10 * time.Millisecond
	t.Cleanup(func() { pollInterval = old })

	path := filepath.Join(t.TempDir(), "audit.db")
	reader := openFileRepo(t, path)
	writer := openFileRepo(t, path)
	ctx := context.Background()

	rec := &recorder[[]entities.Audit]{}
	sub, err := reader.WatchAudits(ctx, rec.listen)
	require.NoError(t, err)
	t.Cleanup(sub.Close)

	assert.Eventually(t, func() bool {
		_, n := rec.last()
		return n >= 1
	}, time.Second, 5*time.Millisecond)

	_, err = writer.InsertAudit(ctx, entities.NewAudit("from elsewhere", "", time.Now()))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		v, n := rec.last()
		return n >= 2 && len(v) == 1 && v[0].Title == "from elsewhere"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRepository_Close_StopsPolling(t *testing.T) {
	repo, err := NewRepository(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "audit.db")})
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(context.Background()))

	sub, err := repo.WatchAudits(context.Background(), func([]entities.Audit, error) {})
	require.NoError(t, err)
	sub.Close()

	require.NoError(t, repo.startPolling())
	require.NoError(t, repo.Close())
	assert.Nil(t, repo.pollStop)
}

func TestInMemory(t *testing.T) {
	assert.True(t, inMemory(":memory:"))
	assert.True(t, inMemory("file:test?mode=memory&cache=shared"))
	assert.False(t, inMemory("/tmp/audit.db"))
}
