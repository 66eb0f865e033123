package application

import "lighthousebot/domain"

// BotController はボットの意思決定インターフェースです。
// 実装は内部状態を持つため、呼び出し側で1ターンずつ直列化してください。
type BotController interface {
	Decide(turn domain.Turn) domain.Action
}
