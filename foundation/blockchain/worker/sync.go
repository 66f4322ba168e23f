package worker

import (
	"context"
)

// syncOperations handles resolving conflicts with the known peers.
func (w *Worker) syncOperations() {
	w.evHandler("worker: syncOperations: G started")
	defer w.evHandler("worker: syncOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.Sync()
			}
		case <-w.resolve:
			if !w.isShutdown() {
				w.Sync()
			}
		case <-w.shut:
			w.evHandler("worker: syncOperations: received shut signal")
			return
		}
	}
}

// Sync asks the known peers for their chains and adopts the longest
// valid one.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	ctx, cancel := w.shutContext()
	defer cancel()

	replaced, err := w.state.ResolveConflicts(ctx)
	if err != nil {
		w.evHandler("worker: sync: ResolveConflicts: ERROR: %s", err)
		return
	}

	if replaced {
		w.evHandler("worker: sync: chain replaced: length[%d]", len(w.state.RetrieveChain()))

		// Anything still pending belongs on top of the new chain.
		if w.state.QueryPendingLength() > 0 {
			w.SignalStartMining()
		}
	}
}

// shutContext returns a context that is canceled when the worker is
// shut down.
func (w *Worker) shutContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		select {
		case <-w.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
