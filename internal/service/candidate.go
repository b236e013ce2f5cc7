package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"online-voting-backend/internal/domain"
)

type CandidateService struct {
	store domain.Store
	log   *zap.Logger
}

func NewCandidateService(store domain.Store, l *zap.Logger) *CandidateService {
	return &CandidateService{store: store, log: l}
}

func (s *CandidateService) Add(ctx context.Context, c domain.Candidate) (*domain.Candidate, error) {
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		existing, err := tx.Candidates().FindByID(ctx, c.ID)
		if err != nil {
			return domain.Internal("lookup candidate failed", err)
		}
		if existing != nil {
			return domain.Conflict(domain.MsgCandidateExists)
		}
		if err := tx.Candidates().Create(ctx, &c); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.Conflict(domain.MsgCandidateExists)
			}
			return domain.Internal("create candidate failed", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("candidate added", zap.Int64("candidate_id", c.ID))
	return &c, nil
}

func (s *CandidateService) Update(ctx context.Context, id int64, name, party string) (*domain.Candidate, error) {
	var out *domain.Candidate
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		c, err := tx.Candidates().FindByID(ctx, id)
		if err != nil {
			return domain.Internal("lookup candidate failed", err)
		}
		if c == nil {
			return domain.NotFound(domain.MsgCandidateNotFound)
		}
		c.Name, c.Party = name, party
		if err := tx.Candidates().Update(ctx, c); err != nil {
			return domain.Internal("update candidate failed", err)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete 有票的候选人不允许删除
func (s *CandidateService) Delete(ctx context.Context, id int64) error {
	err := s.store.Tx(ctx, func(tx domain.Store) error {
		c, err := tx.Candidates().FindByID(ctx, id)
		if err != nil {
			return domain.Internal("lookup candidate failed", err)
		}
		if c == nil {
			return domain.NotFound(domain.MsgCandidateNotFound)
		}
		n, err := tx.Votes().CountForCandidate(ctx, id)
		if err != nil {
			return domain.Internal("count votes failed", err)
		}
		if n > 0 {
			return domain.Conflict(domain.MsgCandidateHasVotes)
		}
		if _, err := tx.Candidates().Delete(ctx, id); err != nil {
			// 计数之后有票并发写入，外键兜底
			if errors.Is(err, domain.ErrForeignKey) {
				return domain.Conflict(domain.MsgCandidateHasVotes)
			}
			return domain.Internal("delete candidate failed", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("candidate deleted", zap.Int64("candidate_id", id))
	return nil
}

func (s *CandidateService) Tally(ctx context.Context, id int64) (*domain.Tally, error) {
	c, err := s.store.Candidates().FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("lookup candidate failed", err)
	}
	if c == nil {
		return nil, domain.NotFound(domain.MsgCandidateNotFound)
	}
	n, err := s.store.Votes().CountForCandidate(ctx, id)
	if err != nil {
		return nil, domain.Internal("count votes failed", err)
	}
	return &domain.Tally{CandidateID: c.ID, Name: c.Name, VoteCount: n}, nil
}

func (s *CandidateService) ListTallies(ctx context.Context) ([]domain.Tally, error) {
	out, err := s.store.Candidates().Tallies(ctx)
	if err != nil {
		return nil, domain.Internal("list tallies failed", err)
	}
	return out, nil
}
