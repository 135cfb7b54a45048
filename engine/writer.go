package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrWriterClosed は停止済みのWriterに変更を投入した場合のエラーです。
var ErrWriterClosed = errors.New("writer is closed")

// Receipt は変更操作の受領情報です。
type Receipt struct {
	RequestID string `json:"requestId"`
	Op        string `json:"op"`
	Revision  int64  `json:"revision"`
}

// TaskFunc はWriter上で実行される変更操作です。
type TaskFunc func(ctx context.Context) (any, error)

type outcome struct {
	result  any
	err     error
	receipt Receipt
}

type task struct {
	ctx       context.Context
	requestID string
	op        string
	fn        TaskFunc
	done      chan outcome
}

// Writer はすべての変更操作を単一のゴルーチンで到着順に実行します。
// 同時に複数のセッションから変更が来ても、後勝ちで直列に適用されます。
type Writer struct {
	engine    *Engine
	logger    *slog.Logger
	tasks     chan *task
	closed    chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	runOnce   sync.Once
}

// NewWriter は新しいWriterを作成します。backlog は待機できる変更操作の数です。
func NewWriter(e *Engine, backlog int) *Writer {
	if backlog < 0 {
		backlog = 0
	}
	return &Writer{
		engine:  e,
		logger:  e.logger,
		tasks:   make(chan *task, backlog),
		closed:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Run はctxが終了するかCloseが呼ばれるまで変更操作を処理します。
func (w *Writer) Run(ctx context.Context) error {
	defer w.runOnce.Do(func() { close(w.stopped) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.closed:
			return nil
		case t := <-w.tasks:
			w.execute(t)
		}
	}
}

func (w *Writer) execute(t *task) {
	start := time.Now()
	// 開始した変更は呼び出し元がキャンセルしても最後まで実行する
	ctx := context.WithoutCancel(t.ctx)
	result, err := t.fn(ctx)
	receipt := Receipt{
		RequestID: t.requestID,
		Op:        t.op,
	}
	// 書き込みはこのゴルーチンだけが行うため、直後の値がこの操作の結果を表す
	if rev, revErr := w.engine.Revision(ctx); revErr != nil {
		w.logger.Warn("failed to read revision", "requestId", t.requestID, "error", revErr)
	} else {
		receipt.Revision = rev
	}

	attrs := []any{
		"requestId", t.requestID,
		"op", t.op,
		"revision", receipt.Revision,
		"duration", time.Since(start),
	}
	if err != nil {
		w.logger.Warn("write failed", append(attrs, "error", err)...)
	} else {
		w.logger.Debug("write applied", attrs...)
	}

	t.done <- outcome{result: result, err: err, receipt: receipt}
}

// Submit は変更操作を投入し、その完了を待ちます。
// requestID が空の場合は新しいIDを発行します。ctx がキャンセルされると待機を中断しますが、
// 実行を開始した操作は取り消されません。
func (w *Writer) Submit(ctx context.Context, requestID, op string, fn TaskFunc) (any, Receipt, error) {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	receipt := Receipt{RequestID: requestID, Op: op}

	t := &task{
		ctx:       ctx,
		requestID: requestID,
		op:        op,
		fn:        fn,
		done:      make(chan outcome, 1),
	}

	// 投入
	select {
	case <-w.closed:
		return nil, receipt, ErrWriterClosed
	case <-w.stopped:
		return nil, receipt, ErrWriterClosed
	case <-ctx.Done():
		return nil, receipt, ctx.Err()
	case w.tasks <- t:
	}

	// 完了待ち
	select {
	case out := <-t.done:
		return out.result, out.receipt, out.err
	case <-w.stopped:
		// 停止直前に完了していた場合はその結果を返す
		select {
		case out := <-t.done:
			return out.result, out.receipt, out.err
		default:
		}
		return nil, receipt, ErrWriterClosed
	case <-ctx.Done():
		return nil, receipt, ctx.Err()
	}
}

// Close はWriterを停止します。複数回呼び出しても安全です。
func (w *Writer) Close() {
	w.closeOnce.Do(func() { close(w.closed) })
}
