package domain

import (
	"context"
)

//go:generate go tool mockgen -destination=./mocks/transport_mock.go -package=mocks . GameClient,Endpoint

// GameClient はゲームサーバーへ呼び出しを送る側のポートです。
type GameClient interface {
	Join(ctx context.Context, player NewPlayer) (PlayerID, error)
}

// GameHandler はゲームサーバーから届く呼び出しを処理する側のポートです。
type GameHandler interface {
	Join(ctx context.Context, player NewPlayer) error
	InitialState(ctx context.Context, state InitialState) (bool, error)
	Turn(ctx context.Context, turn Turn) (Action, error)
}

// Endpoint はGameHandlerを外部に公開します。
// Serve はctxがキャンセルされるまでブロックし、終了時にリスナーを解放します。
type Endpoint interface {
	Serve(ctx context.Context, handler GameHandler) error
}

// TurnObserver は処理済みのターンを受け取ります。実装はブロックしてはいけません。
type TurnObserver interface {
	ObserveTurn(ctx context.Context, record TurnRecord)
}
