package domain

import "errors"

// 仓储层哨兵错误（以 %w 包装返回）
var (
	ErrDuplicate  = errors.New("duplicate key")
	ErrForeignKey = errors.New("foreign key violation")
)

// Kind 业务错误分类，由传输层映射为 HTTP 状态码
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalid
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error 业务错误：分类 + 对外消息 + 可选底层原因
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func Invalid(msg string) error   { return &Error{Kind: KindInvalid, Msg: msg} }
func Conflict(msg string) error  { return &Error{Kind: KindConflict, Msg: msg} }
func NotFound(msg string) error  { return &Error{Kind: KindNotFound, Msg: msg} }
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

func Unauthorized(msg string, err error) error {
	return &Error{Kind: KindUnauthorized, Msg: msg, Err: err}
}

// KindOf 非 *Error 一律视为 internal
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// 对外消息（service 与 handler 共用）
const (
	MsgUserExists         = "User already exists"
	MsgUserNotFound       = "User not found"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserLoggedIn       = "User logged in successfully"
	MsgUserUpdated        = "User updated successfully"
	MsgUserDeleted        = "User deleted successfully"
	MsgCandidateNotFound  = "Candidate not found"
	MsgCandidateExists    = "Candidate already exists"
	MsgCandidateDeleted   = "Candidate deleted successfully"
	MsgCandidateHasVotes  = "Candidate has votes and cannot be deleted"
	MsgAlreadyVoted       = "User has already voted"
	MsgInvalidToken       = "Invalid or expired token"
	MsgMissingToken       = "Missing bearer token"
	MsgInvalidAdminKey    = "Invalid admin API key"
	MsgInvalidCandidateID = "Invalid candidate id"
)
