package audit

import (
	"context"
	"log"
	"time"
)

// LogDispatcher はイベントをその場でログに書き出します。
type LogDispatcher struct {
	logger *log.Logger
}

// NewLogDispatcher は LogDispatcher を作成します。logger が nil なら標準ロガーを使います。
func NewLogDispatcher(logger *log.Logger) *LogDispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &LogDispatcher{logger: logger}
}

// Dispatch はイベントを1行で出力します。
func (d *LogDispatcher) Dispatch(ctx context.Context, event Event) error {
	writeEvent(d.logger, event)
	return nil
}

func writeEvent(logger *log.Logger, event Event) {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	logger.Printf("audit type=%s user=%q reason=%s ip=%s at=%s",
		event.Type, event.Username, event.Reason, event.ClientIP, at.UTC().Format(time.RFC3339))
}
