package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

func TestLogDispatcherWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDispatcher(log.New(&buf, "", 0))

	err := d.Dispatch(context.Background(), Event{
		Type:     EventLoginFailed,
		Username: "admin",
		Reason:   "invalid_credentials",
		ClientIP: "192.0.2.1",
		At:       time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	line := buf.String()
	for _, want := range []string{"type=login_failed", `user="admin"`, "reason=invalid_credentials", "ip=192.0.2.1", "at=2026-01-01T09:00:00Z"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q does not contain %q", line, want)
		}
	}
}

func TestHandleAuditTask(t *testing.T) {
	var buf bytes.Buffer
	q := &Queue{logger: log.New(&buf, "", 0)}

	body, err := json.Marshal(Event{Type: EventLogout, Username: "user1"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := q.handleAuditTask(context.Background(), asynq.NewTask(taskTypeAudit, body)); err != nil {
		t.Fatalf("handleAuditTask returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "type=logout") {
		t.Fatalf("unexpected log output: %q", buf.String())
	}
}

func TestHandleAuditTaskRejectsBadPayload(t *testing.T) {
	q := &Queue{logger: log.New(&bytes.Buffer{}, "", 0)}

	for _, payload := range [][]byte{[]byte("not-json"), []byte(`{"username":"x"}`)} {
		err := q.handleAuditTask(context.Background(), asynq.NewTask(taskTypeAudit, payload))
		if !errors.Is(err, asynq.SkipRetry) {
			t.Fatalf("expected SkipRetry for %q, got %v", payload, err)
		}
	}
}

func TestNewQueueRequiresURL(t *testing.T) {
	if _, err := NewQueue("", nil); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewQueue("http://not-redis", nil); err == nil {
		t.Fatal("expected error for invalid scheme")
	}
}

func TestQueueDispatchEnqueuesAuditTask(t *testing.T) {
	mr := miniredis.RunT(t)
	q, err := NewQueue("redis://"+mr.Addr()+"/0", log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("NewQueue returned error: %v", err)
	}
	defer q.Shutdown()

	err = q.Dispatch(context.Background(), Event{
		Type:     EventLoginSucceeded,
		Username: "admin",
		At:       time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	// asynq はキューごとに asynq:{<queue>}:pending へタスクIDを積む
	ids, err := mr.List("asynq:{" + queueName + "}:pending")
	if err != nil {
		t.Fatalf("pending list missing: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected one pending task, got %d", len(ids))
	}

	msg := mr.HGet("asynq:{"+queueName+"}:t:"+ids[0], "msg")
	if !strings.Contains(msg, taskTypeAudit) {
		t.Fatalf("task type %q not found in stored message", taskTypeAudit)
	}
	if !strings.Contains(msg, `"type":"login_succeeded"`) || !strings.Contains(msg, `"username":"admin"`) {
		t.Fatalf("event payload not found in stored message: %q", msg)
	}
}
