package domain

import (
	"context"
	"time"
)

// Vote 投出后不可改不可删。
// candidate_id 带外键（RESTRICT）：有票的候选人删不掉，已删的候选人投不进；
// user_id 不建外键，注销账号后票仍计数
type Vote struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	CandidateID int64      `gorm:"index;not null" json:"candidate_id"`
	Candidate   *Candidate `gorm:"foreignKey:CandidateID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Vote) TableName() string { return "votes" }

type VoteRepository interface {
	Create(ctx context.Context, v *Vote) error
	FindByUser(ctx context.Context, userID string) (*Vote, error)
	CountForCandidate(ctx context.Context, candidateID int64) (int64, error)
}
