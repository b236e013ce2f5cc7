package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"online-voting-backend/internal/domain"
)

type VoteRepo struct{ db *gorm.DB }

func NewVoteRepo(db *gorm.DB) *VoteRepo { return &VoteRepo{db: db} }

func (r *VoteRepo) Create(ctx context.Context, v *domain.Vote) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *VoteRepo) FindByUser(ctx context.Context, userID string) (*domain.Vote, error) {
	var v domain.Vote
	err := r.db.WithContext(ctx).First(&v, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VoteRepo) CountForCandidate(ctx context.Context, candidateID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Vote{}).
		Where("candidate_id = ?", candidateID).
		Count(&n).Error
	return n, err
}
