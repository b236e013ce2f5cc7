package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"online-voting-backend/internal/domain"
)

// Store 持有同一个 *gorm.DB（或事务句柄）上的全部仓储
type Store struct {
	db         *gorm.DB
	users      *UserRepo
	candidates *CandidateRepo
	votes      *VoteRepo
}

var _ domain.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		users:      NewUserRepo(db),
		candidates: NewCandidateRepo(db),
		votes:      NewVoteRepo(db),
	}
}

func (s *Store) Users() domain.UserRepository           { return s.users }
func (s *Store) Candidates() domain.CandidateRepository { return s.candidates }
func (s *Store) Votes() domain.VoteRepository           { return s.votes }

func (s *Store) Tx(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Migrate 建表 + 唯一索引（users.email / votes.user_id）+ votes.candidate_id 外键
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Candidate{}, &domain.Vote{})
}

// translate 唯一约束 → domain.ErrDuplicate，外键约束 → domain.ErrForeignKey，其余原样返回
func translate(err error) error {
	switch {
	case IsDupKey(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	case IsFKViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrForeignKey, err)
	}
	return err
}

// IsDupKey 唯一约束冲突：优先 gorm 翻译后的错误，再按驱动消息兜底
func IsDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

// IsFKViolation 外键约束冲突（删被引用的行 / 插入悬空引用）
func IsFKViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
