package domain

import "errors"

var (
	// ErrMalformedTurn はターンの観測に必須のフィールドが欠けている場合に返されるエラーです。
	ErrMalformedTurn = errors.New("malformed turn observation")
	// ErrSessionClosed は終了済みのセッションに呼び出しが届いた場合に返されるエラーです。
	ErrSessionClosed = errors.New("session is closed")
	// ErrNotJoined はJoin完了前に呼び出しが届いた場合に返されるエラーです。
	ErrNotJoined = errors.New("session has not joined a game")
)
