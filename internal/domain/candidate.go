package domain

import "context"

type Candidate struct {
	ID    int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name  string `gorm:"size:128;not null" json:"name"`
	Party string `gorm:"size:128" json:"party"`
}

func (Candidate) TableName() string { return "candidates" }

// Tally 候选人得票汇总（只读模型）
type Tally struct {
	CandidateID int64  `gorm:"column:candidate_id" json:"candidate_id"`
	Name        string `gorm:"column:name" json:"name"`
	VoteCount   int64  `gorm:"column:vote_count" json:"vote_count"`
}

type CandidateRepository interface {
	Create(ctx context.Context, c *Candidate) error
	FindByID(ctx context.Context, id int64) (*Candidate, error)
	Update(ctx context.Context, c *Candidate) error
	Delete(ctx context.Context, id int64) (bool, error)
	// Tallies 每个候选人一行，按 id 升序，0 票也返回
	Tallies(ctx context.Context) ([]Tally, error)
}
