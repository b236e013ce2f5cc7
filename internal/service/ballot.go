package service

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"online-voting-backend/internal/domain"
	"online-voting-backend/pkg/utils"
)

var votesCast = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "votes_cast_total", Help: "Vote cast attempts by outcome"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(votesCast) }

type BallotService struct {
	store domain.Store
	log   *zap.Logger
}

func NewBallotService(store domain.Store, l *zap.Logger) *BallotService {
	return &BallotService{store: store, log: l}
}

// Cast 每个用户只能投一次。检查与插入同一事务；
// 并发的第二次插入由 votes.user_id 唯一索引拦下，候选人被并发删除由外键拦下
func (s *BallotService) Cast(ctx context.Context, userID string, candidateID int64) (*domain.Vote, error) {
	v := &domain.Vote{ID: utils.NewID(), UserID: userID, CandidateID: candidateID}

	err := s.store.Tx(ctx, func(tx domain.Store) error {
		c, err := tx.Candidates().FindByID(ctx, candidateID)
		if err != nil {
			return domain.Internal("lookup candidate failed", err)
		}
		if c == nil {
			return domain.NotFound(domain.MsgCandidateNotFound)
		}
		u, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return domain.Internal("lookup user failed", err)
		}
		if u == nil {
			return domain.NotFound(domain.MsgUserNotFound)
		}
		prev, err := tx.Votes().FindByUser(ctx, userID)
		if err != nil {
			return domain.Internal("lookup vote failed", err)
		}
		if prev != nil {
			return domain.Conflict(domain.MsgAlreadyVoted)
		}
		if err := tx.Votes().Create(ctx, v); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.Conflict(domain.MsgAlreadyVoted)
			}
			// 查到候选人之后、插入之前被并发删除
			if errors.Is(err, domain.ErrForeignKey) {
				return domain.NotFound(domain.MsgCandidateNotFound)
			}
			return domain.Internal("cast vote failed", err)
		}
		return nil
	})

	votesCast.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.log.Info("vote cast", zap.String("user_id", userID), zap.Int64("candidate_id", candidateID))
	return v, nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.KindOf(err).String()
}
