package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/granada-os/backend/internal/domain/funding"
	"github.com/granada-os/backend/internal/domain/shared"
)

// newMockOpportunityRepository creates a GormOpportunityRepository with a mocked SQL connection
func newMockOpportunityRepository(t *testing.T) (*GormOpportunityRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormOpportunityRepository(gormDB), mock, mockDB
}

func opportunityRows(id uuid.UUID, title string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version", "donor_id", "title", "description",
		"source_name", "source_url", "country", "sector", "content_hash",
		"is_verified", "verification_score", "status", "scraped_at",
	}).AddRow(
		id, now, now, 1, uuid.New(), title, "Small grants for community health projects",
		"UNDP Procurement", "https://procurement.undp.org", "Kenya", "Health", "abc123",
		true, 0.85, "active", now,
	)
}

func TestGormOpportunityRepository_FindByContentHash(t *testing.T) {
	t.Run("finds opportunity by dedupe hash", func(t *testing.T) {
		repo, mock, mockDB := newMockOpportunityRepository(t)
		defer mockDB.Close()

		oppID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "donor_opportunities" WHERE content_hash = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("abc123", 1).
			WillReturnRows(opportunityRows(oppID, "Community Health Grant"))

		opp, err := repo.FindByContentHash(context.Background(), "abc123")

		assert.NoError(t, err)
		assert.Equal(t, oppID, opp.ID)
		assert.Equal(t, "Community Health Grant", opp.Title)
		assert.True(t, opp.IsVerified)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown hash", func(t *testing.T) {
		repo, mock, mockDB := newMockOpportunityRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "donor_opportunities" WHERE content_hash = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		opp, err := repo.FindByContentHash(context.Background(), "missing")

		assert.Nil(t, opp)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for empty hash without querying", func(t *testing.T) {
		repo, mock, mockDB := newMockOpportunityRepository(t)
		defer mockDB.Close()

		opp, err := repo.FindByContentHash(context.Background(), "")

		assert.Nil(t, opp)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOpportunityRepository_Search(t *testing.T) {
	t.Run("defaults to active status", func(t *testing.T) {
		repo, mock, mockDB := newMockOpportunityRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "donor_opportunities" WHERE status = \$1`).
			WithArgs(funding.OpportunityStatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		oppID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "donor_opportunities" WHERE status = \$1 ORDER BY created_at DESC LIMIT .*`).
			WillReturnRows(opportunityRows(oppID, "Community Health Grant"))

		opps, total, err := repo.Search(context.Background(), funding.OpportunityFilter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, opps, 1)
		assert.Equal(t, oppID, opps[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOpportunityRepository_FindExpiring(t *testing.T) {
	t.Run("queries active postings past the cutoff", func(t *testing.T) {
		repo, mock, mockDB := newMockOpportunityRepository(t)
		defer mockDB.Close()

		cutoff := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "donor_opportunities" WHERE status = \$1 AND deadline IS NOT NULL AND deadline < \$2 ORDER BY deadline ASC LIMIT .*`).
			WithArgs(funding.OpportunityStatusActive, cutoff, 50).
			WillReturnRows(opportunityRows(uuid.New(), "Closing Grant"))

		opps, err := repo.FindExpiring(context.Background(), cutoff, 50)

		assert.NoError(t, err)
		assert.Len(t, opps, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOpportunityRepository_CountBySameSource(t *testing.T) {
	t.Run("excludes the posting itself", func(t *testing.T) {
		repo, mock, mockDB := newMockOpportunityRepository(t)
		defer mockDB.Close()

		excludeID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "donor_opportunities" WHERE source_name = \$1 AND title = \$2 AND id <> \$3`).
			WithArgs("UNDP Procurement", "Community Health Grant", excludeID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

		count, err := repo.CountBySameSource(context.Background(), "UNDP Procurement", "Community Health Grant", excludeID)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOpportunityRepository_CountByStatus(t *testing.T) {
	t.Run("groups counts by status", func(t *testing.T) {
		repo, mock, mockDB := newMockOpportunityRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"status", "count"}).
			AddRow("active", 120).
			AddRow("expired", 30).
			AddRow("archived", 5)

		mock.ExpectQuery(`SELECT status, COUNT\(\*\) as count FROM "donor_opportunities" GROUP BY .*`).
			WillReturnRows(rows)

		counts, err := repo.CountByStatus(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(120), counts[funding.OpportunityStatusActive])
		assert.Equal(t, int64(30), counts[funding.OpportunityStatusExpired])
		assert.Equal(t, int64(5), counts[funding.OpportunityStatusArchived])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOpportunityRepository_CountVerified(t *testing.T) {
	t.Run("counts verified postings", func(t *testing.T) {
		repo, mock, mockDB := newMockOpportunityRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "donor_opportunities" WHERE is_verified = \$1`).
			WithArgs(true).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(80))

		count, err := repo.CountVerified(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(80), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
