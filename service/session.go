package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lighthousebot/application"
	"lighthousebot/domain"
)

var (
	// ErrMissingDependency は必要な依存が渡されなかった場合に返されるエラーです。
	ErrMissingDependency = errors.New("service: missing dependency")
)

const defaultRetryDelay = time.Second

type Config struct {
	BotName string
	// CallbackAddr はJoinで登録する自分の待ち受けアドレスです。
	CallbackAddr string
	RetryDelay   time.Duration
	HistorySize  int
	Logger       *slog.Logger
	Observer     domain.TurnObserver
}

// GameSession はJoinからターン処理までのボットのライフサイクルを管理します。
// ボットAIの状態は mu で保護され、ターンは1つずつ処理されます。
type GameSession struct {
	cfg     Config
	client  domain.GameClient
	session *domain.Session
	history *application.History

	mu      sync.Mutex
	logger  *slog.Logger
	bot     *application.LighthouseBotController
	initial *domain.InitialState
}

var _ domain.GameHandler = (*GameSession)(nil)

func NewGameSession(cfg Config, client domain.GameClient) (*GameSession, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: game client", ErrMissingDependency)
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	session := domain.NewSession()
	return &GameSession{
		cfg:     cfg,
		client:  client,
		session: session,
		history: application.NewHistory(cfg.HistorySize),
		logger:  logger.With("sessionID", session.ID()),
	}, nil
}

// Run はゲームに参加してから endpoint で待ち受けを行い、ctx がキャンセルされるまでブロックします。
func (s *GameSession) Run(ctx context.Context, endpoint domain.Endpoint) error {
	defer func() {
		if s.session.Terminate() {
			s.log().InfoContext(ctx, "session terminated")
		}
	}()

	if err := s.JoinGame(ctx); err != nil {
		return err
	}
	if err := endpoint.Serve(ctx, s); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// JoinGame は参加に成功するまで RetryDelay 間隔で Join を繰り返します。
// 失敗は回数無制限で再試行し、ctx のキャンセルでのみ諦めます。
func (s *GameSession) JoinGame(ctx context.Context) error {
	if err := s.session.Transition(domain.StateUnjoined, domain.StateJoining); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	player := domain.NewPlayer{Name: s.cfg.BotName, ServerAddress: s.cfg.CallbackAddr}

	for attempt := 1; ; attempt++ {
		id, err := s.client.Join(ctx, player)
		if err == nil {
			s.assign(id)
			s.log().InfoContext(ctx, "joined game", "attempts", attempt)
			return s.session.Transition(domain.StateJoining, domain.StateWaitingInitial)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log().WarnContext(ctx, "could not join game, retrying",
			"attempt", attempt,
			"retryIn", s.cfg.RetryDelay,
			"err", err,
		)

		timer := time.NewTimer(s.cfg.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *GameSession) assign(id domain.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Assign(id)
	s.bot = application.NewLighthouseBotController(id, s.history)
	s.logger = s.logger.With("playerID", id)
}

// Join はゲームサーバー側のインターフェースに合わせて公開しているだけで、何もしません。
func (s *GameSession) Join(ctx context.Context, player domain.NewPlayer) error {
	s.log().DebugContext(ctx, "ignoring inbound join", "name", player.Name, "serverAddress", player.ServerAddress)
	return nil
}

func (s *GameSession) InitialState(ctx context.Context, state domain.InitialState) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.session.State() {
	case domain.StateTerminated:
		return false, domain.ErrSessionClosed
	case domain.StateUnjoined, domain.StateJoining:
		return false, domain.ErrNotJoined
	case domain.StateServing:
		s.logger.WarnContext(ctx, "initial state received again, replacing")
	}

	s.initial = &state
	if s.session.State() == domain.StateWaitingInitial {
		if err := s.session.Transition(domain.StateWaitingInitial, domain.StateServing); err != nil {
			return false, err
		}
	}
	s.logger.InfoContext(ctx, "receiving initial state",
		"playerCount", state.PlayerCount,
		"position", state.Position,
		"lighthouses", len(state.Lighthouses),
	)
	return true, nil
}

func (s *GameSession) Turn(ctx context.Context, turn domain.Turn) (domain.Action, error) {
	s.mu.Lock()
	switch s.session.State() {
	case domain.StateTerminated:
		s.mu.Unlock()
		return domain.Action{}, domain.ErrSessionClosed
	case domain.StateUnjoined, domain.StateJoining:
		s.mu.Unlock()
		return domain.Action{}, domain.ErrNotJoined
	case domain.StateWaitingInitial:
		s.logger.WarnContext(ctx, "turn received before initial state")
	}

	s.logger.InfoContext(ctx, "processing turn", "turn", s.bot.TurnCount())
	action := s.bot.Decide(turn)
	record, _ := s.bot.LastRecord()
	s.session.TouchTurn()
	// 記録の順序を決定順と揃えるため、ロックを持ったまま通知する
	if s.cfg.Observer != nil {
		s.cfg.Observer.ObserveTurn(ctx, record)
	}
	s.mu.Unlock()
	return action, nil
}

func (s *GameSession) log() *slog.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger
}

func (s *GameSession) SessionID() string {
	return s.session.ID()
}

func (s *GameSession) State() domain.SessionState {
	return s.session.State()
}

func (s *GameSession) PlayerID() domain.PlayerID {
	return s.session.PlayerID()
}

func (s *GameSession) JoinedAt() time.Time {
	return s.session.JoinedAt()
}

func (s *GameSession) LastTurnAt() time.Time {
	return s.session.LastTurnAt()
}

// InitialStateSnapshot は受信済みの初期状態を返します。
func (s *GameSession) InitialStateSnapshot() (domain.InitialState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initial == nil {
		return domain.InitialState{}, false
	}
	return *s.initial, true
}

// History は直近のターン記録を古い順に返します。
func (s *GameSession) History() []domain.TurnRecord {
	return s.history.Snapshot()
}
