package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

const (
	taskTypeAudit = "audit:event"
	queueName     = "audit"
)

// Queue は監査イベントを Asynq に投入し、ワーカーでログに書き出します。
type Queue struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *log.Logger
}

// NewQueue は redisURL に接続する Queue を初期化します。
func NewQueue(redisURL string, logger *log.Logger) (*Queue, error) {
	if redisURL == "" {
		return nil, errors.New("redis url is empty")
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	server := asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				queueName: 1,
			},
		},
	)

	q := &Queue{
		client: asynq.NewClient(opt),
		server: server,
		mux:    asynq.NewServeMux(),
		logger: logger,
	}
	q.mux.HandleFunc(taskTypeAudit, q.handleAuditTask)
	return q, nil
}

// StartWorkers は Asynq サーバーをバックグラウンドで起動します。
func (q *Queue) StartWorkers() {
	go func() {
		if err := q.server.Run(q.mux); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			q.logger.Printf("audit worker stopped with error: %v", err)
		}
	}()
}

// Shutdown はサーバーとクライアントを閉じます。
func (q *Queue) Shutdown() error {
	q.server.Shutdown()
	return q.client.Close()
}

// Dispatch はイベントをキューに投入します。
func (q *Queue) Dispatch(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	task := asynq.NewTask(taskTypeAudit, body, asynq.Queue(queueName))
	if _, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue audit event: %w", err)
	}
	return nil
}

func (q *Queue) handleAuditTask(ctx context.Context, task *asynq.Task) error {
	var event Event
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		// 再試行しても解釈できないので捨てる
		return fmt.Errorf("invalid audit payload: %v: %w", err, asynq.SkipRetry)
	}
	if event.Type == "" {
		return fmt.Errorf("missing event type: %w", asynq.SkipRetry)
	}
	writeEvent(q.logger, event)
	return nil
}
