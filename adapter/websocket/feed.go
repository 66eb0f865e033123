package adapterwebsocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"lighthousebot/domain"
)

const defaultViewerBuffer = 32

// Feed は処理済みのターンを接続中のビューアへ配信します。
// ObserveTurn はブロックせず、バッファが埋まったビューアへのメッセージは捨てます。
type Feed struct {
	history func() []domain.TurnRecord
	buffer  int
	logger  *slog.Logger

	mu      sync.Mutex
	viewers map[string]chan domain.TurnRecord
}

var _ domain.TurnObserver = (*Feed)(nil)

// NewFeed は history で接続直後に再送する記録を取得します。history は nil でもかまいません。
func NewFeed(history func() []domain.TurnRecord, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		history: history,
		buffer:  defaultViewerBuffer,
		logger:  logger,
		viewers: make(map[string]chan domain.TurnRecord),
	}
}

func (f *Feed) ObserveTurn(ctx context.Context, record domain.TurnRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.viewers {
		select {
		case ch <- record:
		default:
			f.logger.WarnContext(ctx, "viewer buffer full, turn dropped", "viewerID", id, "turn", record.Number)
		}
	}
}

// Viewers は接続中のビューア数を返します。
func (f *Feed) Viewers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.viewers)
}

func (f *Feed) subscribe() (string, <-chan domain.TurnRecord) {
	id := uuid.NewString()
	ch := make(chan domain.TurnRecord, f.buffer)
	f.mu.Lock()
	f.viewers[id] = ch
	f.mu.Unlock()
	return id, ch
}

func (f *Feed) unsubscribe(id string) {
	f.mu.Lock()
	delete(f.viewers, id)
	f.mu.Unlock()
}

func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // 開発用: Origin チェックをスキップ
	})
	if err != nil {
		f.logger.ErrorContext(r.Context(), "failed to accept", "err", err)
		return
	}
	defer conn.CloseNow()

	id, ch := f.subscribe()
	defer f.unsubscribe(id)
	logger := f.logger.With("viewerID", id)
	logger.DebugContext(r.Context(), "viewer connected")

	// ビューアからの受信は読み捨て、切断を ctx で検知する
	ctx := conn.CloseRead(r.Context())

	last := 0
	if f.history != nil {
		for _, rec := range f.history() {
			if err := wsjson.Write(ctx, conn, rec); err != nil {
				logger.DebugContext(ctx, "viewer gone during replay", "err", err)
				return
			}
			last = rec.Number
		}
	}

	for {
		select {
		case <-ctx.Done():
			logger.DebugContext(r.Context(), "viewer disconnected")
			return
		case rec := <-ch:
			// 再送済みの記録と重複したものは送らない
			if rec.Number <= last {
				continue
			}
			if err := wsjson.Write(ctx, conn, rec); err != nil {
				logger.DebugContext(ctx, "write to viewer failed", "err", err)
				return
			}
		}
	}
}
