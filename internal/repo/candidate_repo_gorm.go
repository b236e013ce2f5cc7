package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"online-voting-backend/internal/domain"
)

type CandidateRepo struct{ db *gorm.DB }

func NewCandidateRepo(db *gorm.DB) *CandidateRepo { return &CandidateRepo{db: db} }

func (r *CandidateRepo) Create(ctx context.Context, c *domain.Candidate) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CandidateRepo) FindByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	var c domain.Candidate
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	return r.db.WithContext(ctx).Model(&domain.Candidate{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"name": c.Name, "party": c.Party}).Error
}

func (r *CandidateRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Candidate{})
	return res.RowsAffected > 0, translate(res.Error)
}

func (r *CandidateRepo) Tallies(ctx context.Context) ([]domain.Tally, error) {
	out := make([]domain.Tally, 0)
	err := r.db.WithContext(ctx).
		Table("candidates AS c").
		Select("c.id AS candidate_id, c.name AS name, COUNT(v.id) AS vote_count").
		Joins("LEFT JOIN votes AS v ON v.candidate_id = c.id").
		Group("c.id, c.name").
		Order("c.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
