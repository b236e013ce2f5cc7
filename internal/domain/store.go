package domain

import "context"

// Store 聚合各仓储，并提供事务作用域
type Store interface {
	Users() UserRepository
	Candidates() CandidateRepository
	Votes() VoteRepository
	// Tx fn 返回错误即回滚
	Tx(ctx context.Context, fn func(tx Store) error) error
}
