package adaptergrpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"lighthousebot/domain"
)

// Client はゲームサーバーへの送信側スタブです。
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

var _ domain.GameClient = (*Client)(nil)

// NewClient はtargetへの接続を用意します。接続自体は最初の呼び出しまで遅延されます。
// timeout は呼び出し1回ごとの上限で、0 以下なら上限なしです。
func NewClient(target string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
	}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client %s: %w", target, err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

func (c *Client) Join(ctx context.Context, player domain.NewPlayer) (domain.PlayerID, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	in := &NewPlayer{Name: player.Name, ServerAddress: player.ServerAddress}
	out := new(PlayerID)
	if err := c.conn.Invoke(ctx, joinMethod, in, out); err != nil {
		return domain.NoPlayer, fmt.Errorf("join %s: %w", c.conn.Target(), err)
	}
	return domain.PlayerID(out.PlayerID), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
