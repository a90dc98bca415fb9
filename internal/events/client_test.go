package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{64, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"closed connection", errors.New("connection closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"amqp closed", fmt.Errorf("start consuming: %w", amqp091.ErrClosed), true},
		{"message channel closed", errors.New("message channel closed"), true},
		{"other error", errors.New("some other error"), false},
		{"validation error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "test_exchange", queueName: "test_queue"}

	t.Run("initial state is closed", func(t *testing.T) {
		if client.isCircuitOpen() {
			t.Error("circuit should be closed initially")
		}
	})

	t.Run("success resets state", func(t *testing.T) {
		atomic.StoreInt64(&client.failureCount, 3)
		atomic.StoreInt32(&client.state, StateOpen)

		client.recordSuccess()

		if client.isCircuitOpen() {
			t.Error("circuit should be closed after success")
		}
		if n := atomic.LoadInt64(&client.failureCount); n != 0 {
			t.Errorf("failure count = %d, want 0", n)
		}
	})

	t.Run("max failures open circuit", func(t *testing.T) {
		client.recordSuccess()
		for i := 0; i < maxFailures; i++ {
			client.recordFailure()
		}
		if !client.isCircuitOpen() {
			t.Error("circuit should be open after max failures")
		}
	})

	t.Run("half-open after timeout", func(t *testing.T) {
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now().Add(-openTimeout - time.Second)

		if client.isCircuitOpen() {
			t.Error("circuit should let a probe through after timeout")
		}
		if s := atomic.LoadInt32(&client.state); s != StateHalfOpen {
			t.Errorf("state = %d, want StateHalfOpen", s)
		}
	})

	t.Run("failure while half-open reopens", func(t *testing.T) {
		client.recordFailure()
		if s := atomic.LoadInt32(&client.state); s != StateOpen {
			t.Errorf("state = %d, want StateOpen", s)
		}
	})
}

func TestClient_Publish_FailsFast(t *testing.T) {
	client := &Client{exchangeName: "test_exchange", queueName: "test_queue"}
	ev := Deleted("abc")

	t.Run("open circuit", func(t *testing.T) {
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now()

		err := client.Publish(context.Background(), ev)
		if !errors.Is(err, ErrCircuitOpen) {
			t.Errorf("Publish() error = %v, want ErrCircuitOpen", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		client.recordSuccess()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := client.Publish(ctx, ev); !errors.Is(err, context.Canceled) {
			t.Errorf("Publish() error = %v, want context.Canceled", err)
		}
	})
}
