package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguedesk/officiating-system/models"
)

// Минимальный драйвер, умеющий только открывать транзакции: коммиты
// батча идут через фейковый репозиторий, самой базе делать нечего.

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

type noopConn struct{}

func (noopConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (noopConn) Close() error                        { return nil }
func (noopConn) Begin() (driver.Tx, error)           { return noopTx{}, nil }

type noopConnector struct{}

func (noopConnector) Connect(context.Context) (driver.Conn, error) { return noopConn{}, nil }
func (noopConnector) Driver() driver.Driver                        { return nil }

func newBatchFixture(t *testing.T, matches []*models.Match) (*assignmentService, *fakeMatchRepo) {
	t.Helper()
	matchRepo := newFakeMatchRepo(matches...)
	svc := NewAssignmentService(
		sql.OpenDB(noopConnector{}),
		matchRepo,
		newFakeRefereeRepo(),
		&fakeLeagueRepo{league: testLeague("NONE", 0)},
		fixedDifficulty(1),
		nil,
		nil,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return svc.(*assignmentService), matchRepo
}

func TestConfirmCrews_EmptyBatch(t *testing.T) {
	svc, _ := newBatchFixture(t, nil)

	_, err := svc.ConfirmCrews(context.Background(), 1, 42, nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestConfirmCrews_SkipsInvalidPairsAndCountsCommitted(t *testing.T) {
	matches := make([]*models.Match, 0, 8)
	for i := 1; i <= 8; i++ {
		matches = append(matches, scheduledMatch(i, i, i, 10+i, 20+i, nil))
	}
	svc, matchRepo := newBatchFixture(t, matches)

	pairs := make([]CrewConfirmation, 0, 10)
	for i := 1; i <= 8; i++ {
		pairs = append(pairs, CrewConfirmation{
			MatchID: i,
			Crew:    fullCrew(i*10+1, i*10+2, i*10+3),
		})
	}
	// Структурно негодная пара: незанятый основной слот.
	badCrew := fullCrew(901, 902, 903)
	badCrew.Central = models.SlotAssignee{}
	pairs = append(pairs, CrewConfirmation{MatchID: 1, Crew: badCrew})
	// Пара с матчем, которого нет в лиге.
	pairs = append(pairs, CrewConfirmation{MatchID: 999, Crew: fullCrew(911, 912, 913)})

	committed, err := svc.ConfirmCrews(context.Background(), 1, 42, pairs)
	require.NoError(t, err)
	assert.Equal(t, 8, committed)

	// Каждый валидный матч получил свою бригаду.
	for i := 1; i <= 8; i++ {
		m := matchRepo.matches[i]
		require.NotNil(t, m.RefereeID, "match %d", i)
		assert.Equal(t, i*10+1, *m.RefereeID)
	}
}

func TestConfirmCrews_DuplicateIDsWithinPairSkipped(t *testing.T) {
	svc, matchRepo := newBatchFixture(t, []*models.Match{scheduledMatch(1, 1, 1, 10, 20, nil)})

	committed, err := svc.ConfirmCrews(context.Background(), 1, 42, []CrewConfirmation{
		{MatchID: 1, Crew: fullCrew(5, 5, 6)},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, committed)
	assert.Nil(t, matchRepo.matches[1].RefereeID)
}

func TestConfirmCrews_NoGuardsRun(t *testing.T) {
	// Оба матча в один день с одним судьёй: полный пайплайн бы отказал,
	// батч-путь сознательно пишет как есть.
	m1 := scheduledMatch(1, 8, 8, 10, 20, kickoffAt(14, 15))
	m2 := scheduledMatch(2, 8, 8, 30, 40, kickoffAt(14, 15))
	svc, _ := newBatchFixture(t, []*models.Match{m1, m2})

	committed, err := svc.ConfirmCrews(context.Background(), 1, 42, []CrewConfirmation{
		{MatchID: 1, Crew: fullCrew(1, 2, 3)},
		{MatchID: 2, Crew: fullCrew(1, 4, 5)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, committed)
	require.NotNil(t, m1.RefereeID)
	require.NotNil(t, m2.RefereeID)
	assert.Equal(t, *m1.RefereeID, *m2.RefereeID)
}
