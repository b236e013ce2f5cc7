package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"online-voting-backend/internal/core/auth"
	"online-voting-backend/internal/domain"
	"online-voting-backend/internal/repo"
	"online-voting-backend/internal/testutil"
	"online-voting-backend/pkg/utils"
)

type fixture struct {
	db         *gorm.DB
	store      *repo.Store
	jwter      *auth.JWTer
	accounts   *AccountService
	candidates *CandidateService
	ballots    *BallotService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	store := repo.NewStore(db)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "voting-test", TTL: time.Hour}
	l := zap.NewNop()
	return &fixture{
		db:         db,
		store:      store,
		jwter:      jwter,
		accounts:   NewAccountService(store, utils.BcryptHasher{Cost: 4}, jwter, l),
		candidates: NewCandidateService(store, l),
		ballots:    NewBallotService(store, l),
	}
}

func (f *fixture) register(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := f.accounts.Register(context.Background(), RegisterInput{Email: email, Name: email, Password: "pw"})
	require.NoError(t, err)
	return u
}

func (f *fixture) addCandidate(t *testing.T, id int64, name string) {
	t.Helper()
	_, err := f.candidates.Add(context.Background(), domain.Candidate{ID: id, Name: name, Party: "P" + name})
	require.NoError(t, err)
}

func requireKind(t *testing.T, want domain.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, domain.KindOf(err), "error: %v", err)
}

func (f *fixture) votesOf(t *testing.T, userID string) int64 {
	t.Helper()
	return testutil.CountRows(t, f.db, &domain.Vote{}, "user_id = ?", userID)
}

// staleStore 让事务内的检查读到交错发生前的旧状态，
// 用来确定性地复现“检查之后、写入之前”被并发修改的情形
type staleStore struct {
	domain.Store
	candidateExists bool // Candidates().FindByID 总能查到
	noVotes         bool // Votes().CountForCandidate 总是 0
}

func (s staleStore) Candidates() domain.CandidateRepository {
	if s.candidateExists {
		return seenCandidates{s.Store.Candidates()}
	}
	return s.Store.Candidates()
}

func (s staleStore) Votes() domain.VoteRepository {
	if s.noVotes {
		return uncountedVotes{s.Store.Votes()}
	}
	return s.Store.Votes()
}

func (s staleStore) Tx(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.Store.Tx(ctx, func(tx domain.Store) error {
		return fn(staleStore{Store: tx, candidateExists: s.candidateExists, noVotes: s.noVotes})
	})
}

type seenCandidates struct{ domain.CandidateRepository }

func (seenCandidates) FindByID(_ context.Context, id int64) (*domain.Candidate, error) {
	return &domain.Candidate{ID: id, Name: "stale"}, nil
}

type uncountedVotes struct{ domain.VoteRepository }

func (uncountedVotes) CountForCandidate(context.Context, int64) (int64, error) { return 0, nil }
