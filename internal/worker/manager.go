package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"forumfront/internal/queue"
)

const (
	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 50

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second

	// DefaultRetryDelay is the pause after a failed read
	DefaultRetryDelay = time.Second
)

// Manager runs the relay loop that forwards session stream entries to the handler.
type Manager struct {
	consumer   queue.Consumer
	handler    *Handler
	batchSize  int64
	blockTime  time.Duration
	retryDelay time.Duration
	logger     *zap.Logger

	// lastID is only touched by the relay goroutine
	lastID string

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	BatchSize    int64
	BlockTimeout time.Duration
	RetryDelay   time.Duration
	// StartID is the stream id to read after. "$" is resolved to the
	// stream's newest id at Start.
	StartID string
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
		RetryDelay:   DefaultRetryDelay,
		StartID:      "$",
	}
}

// NewManager creates a new relay manager.
func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig, logger *zap.Logger) *Manager {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.StartID == "" {
		cfg.StartID = "$"
	}

	return &Manager{
		consumer:   consumer,
		handler:    handler,
		batchSize:  cfg.BatchSize,
		blockTime:  cfg.BlockTimeout,
		retryDelay: cfg.RetryDelay,
		lastID:     cfg.StartID,
		logger:     logger.Named("worker"),
	}
}

// Start begins the relay goroutine. Call Stop to shut it down.
func (m *Manager) Start(ctx context.Context) {
	if m.lastID == "$" {
		m.pinCursor(ctx)
	}
	ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go m.run(ctx)

	m.logger.Info("relay started", zap.String("stream", queue.StreamSession), zap.String("after", m.lastID))
}

// pinCursor replaces "$" with a concrete id. XREAD with "$" only sees entries
// added after each call starts. On failure "$" stays until the first entry
// arrives.
func (m *Manager) pinCursor(ctx context.Context) {
	id, err := m.consumer.Tail(ctx)
	if err != nil {
		m.logger.Warn("resolve stream tail failed, reading new entries only", zap.Error(err))
		return
	}
	m.lastID = id
}

// Stop cancels the relay and blocks until it has exited.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	m.logger.Info("relay stopped")
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			m.processMessages(ctx)
		}
	}
}

// processMessages reads one batch and handles it.
func (m *Manager) processMessages(ctx context.Context) {
	messages, next, err := m.consumer.Read(ctx, m.lastID, m.batchSize, m.blockTime)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Warn("read failed", zap.Error(err))
		// Back off on error
		select {
		case <-ctx.Done():
		case <-time.After(m.retryDelay):
		}
		return
	}
	m.lastID = next

	for _, msg := range messages {
		if err := m.handler.HandleEvent(ctx, msg.Event); err != nil {
			m.logger.Warn("handler error", zap.String("msg_id", msg.ID), zap.Error(err))
		}
	}
}
