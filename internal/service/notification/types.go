package notification

import (
	"context"

	"github.com/wickmon/wickmon/internal/entity"
)

// Service 报警通道, 所有发送都是尽力而为, 失败由调用方记录日志
type Service interface {
	SetWebhook(url string)
	HasWebhook() bool
	SendText(ctx context.Context, content string) error
	SendMarkdown(ctx context.Context, title, text string) error
	SendSignalAlert(ctx context.Context, signal entity.Signal) error
	SendTradingSignal(ctx context.Context, signal entity.TradingSignal) error
}
