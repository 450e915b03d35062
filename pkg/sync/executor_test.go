package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rajivm1991/DroidDock/pkg/models"
)

// fakeTransfer records calls and fails on configured paths
type fakeTransfer struct {
	copies  []string
	deletes []string
	renames []string
	failOn  map[string]error

	// started/release let a test hold a copy mid-flight
	started chan struct{}
	release chan struct{}
}

func newFakeTransfer() *fakeTransfer {
	return &fakeTransfer{failOn: make(map[string]error)}
}

func (f *fakeTransfer) Copy(ctx context.Context, path string, direction models.Direction, size int64) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if err := f.failOn[path]; err != nil {
		return err
	}
	f.copies = append(f.copies, path)
	return nil
}

func (f *fakeTransfer) Delete(ctx context.Context, path string, direction models.Direction) error {
	if err := f.failOn[path]; err != nil {
		return err
	}
	f.deletes = append(f.deletes, path)
	return nil
}

func (f *fakeTransfer) Rename(ctx context.Context, from, to string, direction models.Direction) error {
	if err := f.failOn[from]; err != nil {
		return err
	}
	f.renames = append(f.renames, fmt.Sprintf("%s=>%s", from, to))
	return nil
}

func copyAction(path string, size int64) models.SyncAction {
	return models.SyncAction{
		FilePath:  path,
		Type:      models.ActionCopy,
		Direction: models.LocalToRemote,
		Size:      size,
		Reason:    "missing on device",
	}
}

func previewOf(actions ...models.SyncAction) *models.SyncPreview {
	preview := &models.SyncPreview{Actions: actions}
	for _, action := range actions {
		if action.Type == models.ActionCopy || action.Type == models.ActionUpdate {
			preview.TotalTransferBytes += action.Size
		}
	}
	return preview
}

// TestExecutePartialFailure tests that one failing action does not stop
// the run and ends up in the error list
func TestExecutePartialFailure(t *testing.T) {
	transfer := newFakeTransfer()
	transfer.failOn["b.txt"] = errors.New("device write failed")

	executor := NewExecutor(transfer, nil)
	preview := previewOf(
		copyAction("a.txt", 10),
		copyAction("b.txt", 20),
		copyAction("c.txt", 30),
	)

	result, err := executor.Execute(context.Background(), preview, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.SuccessCount != 2 || result.ErrorCount != 1 || result.SkipCount != 0 {
		t.Errorf("result = success %d error %d skip %d, want 2/1/0",
			result.SuccessCount, result.ErrorCount, result.SkipCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one entry", result.Errors)
	}
	if result.Errors[0] != "copy b.txt: device write failed" {
		t.Errorf("Errors[0] = %q, want the action, path and cause", result.Errors[0])
	}
	if result.Status() != models.StatusPartial {
		t.Errorf("Status() = %s, want partial", result.Status())
	}

	// The remaining actions still ran
	if len(transfer.copies) != 2 {
		t.Errorf("copies = %v, want a.txt and c.txt", transfer.copies)
	}
}

// TestExecuteSkipsAreNotDispatched tests that skip actions only count
func TestExecuteSkipsAreNotDispatched(t *testing.T) {
	transfer := newFakeTransfer()
	executor := NewExecutor(transfer, nil)

	preview := previewOf(
		copyAction("a.txt", 10),
		models.SyncAction{FilePath: "b.txt", Type: models.ActionSkip, Direction: models.LocalToRemote, Reason: "already in sync"},
	)

	result, err := executor.Execute(context.Background(), preview, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.SuccessCount != 1 || result.SkipCount != 1 {
		t.Errorf("result = success %d skip %d, want 1/1", result.SuccessCount, result.SkipCount)
	}
	if len(transfer.copies) != 1 {
		t.Errorf("copies = %v, want only a.txt", transfer.copies)
	}
}

// TestExecuteDispatch tests that each action type reaches the matching
// transfer operation
func TestExecuteDispatch(t *testing.T) {
	transfer := newFakeTransfer()
	executor := NewExecutor(transfer, nil)

	preview := previewOf(
		copyAction("new.txt", 10),
		models.SyncAction{FilePath: "changed.txt", Type: models.ActionUpdate, Direction: models.LocalToRemote, Size: 5},
		models.SyncAction{FilePath: "to.txt", Type: models.ActionRename, Direction: models.LocalToRemote, RenameFrom: "from.txt"},
		models.SyncAction{FilePath: "gone.txt", Type: models.ActionDelete, Direction: models.LocalToRemote},
	)

	result, err := executor.Execute(context.Background(), preview, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.SuccessCount != 4 {
		t.Errorf("SuccessCount = %d, want 4", result.SuccessCount)
	}

	if len(transfer.copies) != 2 {
		t.Errorf("copies = %v, want new.txt and changed.txt", transfer.copies)
	}
	if len(transfer.deletes) != 1 || transfer.deletes[0] != "gone.txt" {
		t.Errorf("deletes = %v, want gone.txt", transfer.deletes)
	}
	if len(transfer.renames) != 1 || transfer.renames[0] != "from.txt=>to.txt" {
		t.Errorf("renames = %v, want from.txt=>to.txt", transfer.renames)
	}
}

// TestExecuteBusyGuard tests that re-entering a running executor fails
// fast with ErrSyncInProgress
func TestExecuteBusyGuard(t *testing.T) {
	transfer := newFakeTransfer()
	transfer.started = make(chan struct{})
	transfer.release = make(chan struct{})

	executor := NewExecutor(transfer, nil)
	preview := previewOf(copyAction("a.txt", 10))

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		executor.Execute(context.Background(), preview, nil)
	}()

	// Wait until the first run is inside its copy, then probe
	<-transfer.started

	_, err := executor.Execute(context.Background(), previewOf(copyAction("b.txt", 5)), nil)
	if !errors.Is(err, ErrSyncInProgress) {
		t.Errorf("second Execute() error = %v, want ErrSyncInProgress", err)
	}

	close(transfer.release)
	<-firstDone
	transfer.started = nil

	// A finished executor accepts a new run
	if _, err := executor.Execute(context.Background(), previewOf(copyAction("c.txt", 1)), nil); err != nil {
		t.Errorf("Execute() after completion error = %v", err)
	}
}

// TestExecuteBusyClosesProgress tests that a rejected run still closes
// the caller's progress channel so a draining consumer can finish
func TestExecuteBusyClosesProgress(t *testing.T) {
	transfer := newFakeTransfer()
	transfer.started = make(chan struct{})
	transfer.release = make(chan struct{})

	executor := NewExecutor(transfer, nil)

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		executor.Execute(context.Background(), previewOf(copyAction("a.txt", 10)), nil)
	}()
	<-transfer.started

	progress := make(chan models.SyncProgress, 16)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range progress {
		}
	}()

	_, err := executor.Execute(context.Background(), previewOf(copyAction("b.txt", 5)), progress)
	if !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("second Execute() error = %v, want ErrSyncInProgress", err)
	}

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("progress channel left open on the busy rejection")
	}

	close(transfer.release)
	<-firstDone
}

// TestExecuteCancellation tests that cancelling mid-run returns the
// partial result without an error
func TestExecuteCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	transfer := newFakeTransfer()
	executor := NewExecutor(transfer, nil)

	// Cancel after the first action by hooking its success path
	transfer.failOn["b.txt"] = errors.New("never reached")
	preview := previewOf(copyAction("a.txt", 10), copyAction("b.txt", 20))

	// Cancel before execution of the second action
	cancelAfterFirst := &cancellingTransfer{inner: transfer, cancel: cancel, after: "a.txt"}
	executor = NewExecutor(cancelAfterFirst, nil)

	result, err := executor.Execute(ctx, preview, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil on cancellation", err)
	}

	if result.SuccessCount != 1 || result.ErrorCount != 0 {
		t.Errorf("result = success %d error %d, want 1/0 partial result", result.SuccessCount, result.ErrorCount)
	}
}

// cancellingTransfer cancels the run's context after a given path
type cancellingTransfer struct {
	inner  TransferPort
	cancel context.CancelFunc
	after  string
}

func (c *cancellingTransfer) Copy(ctx context.Context, path string, direction models.Direction, size int64) error {
	err := c.inner.Copy(ctx, path, direction, size)
	if path == c.after {
		c.cancel()
	}
	return err
}

func (c *cancellingTransfer) Delete(ctx context.Context, path string, direction models.Direction) error {
	return c.inner.Delete(ctx, path, direction)
}

func (c *cancellingTransfer) Rename(ctx context.Context, from, to string, direction models.Direction) error {
	return c.inner.Rename(ctx, from, to, direction)
}

// TestExecuteProgress tests that progress events arrive monotonically
// and that the channel is closed at the end
func TestExecuteProgress(t *testing.T) {
	transfer := newFakeTransfer()
	executor := NewExecutor(transfer, nil)

	preview := previewOf(
		copyAction("a.txt", 10),
		copyAction("b.txt", 20),
		copyAction("c.txt", 30),
	)

	progress := make(chan models.SyncProgress, 16)
	received := make([]models.SyncProgress, 0, 3)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range progress {
			received = append(received, event)
		}
	}()

	if _, err := executor.Execute(context.Background(), preview, progress); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	<-done

	if len(received) == 0 {
		t.Fatal("no progress events received")
	}

	var lastCount int
	var lastBytes int64
	for i, event := range received {
		if event.CompletedCount < lastCount || event.CompletedBytes < lastBytes {
			t.Errorf("event %d went backwards: %+v", i, event)
		}
		lastCount = event.CompletedCount
		lastBytes = event.CompletedBytes
		if event.TotalCount != 3 || event.TotalBytes != 60 {
			t.Errorf("event %d totals = %d/%d, want 3/60", i, event.TotalCount, event.TotalBytes)
		}
	}

	final := received[len(received)-1]
	if final.CompletedCount != 3 || final.CompletedBytes != 60 {
		t.Errorf("final event = %+v, want all actions and bytes accounted", final)
	}
}

// TestExecuteFailedActionBytesExcluded tests that failed copies do not
// advance the byte counter
func TestExecuteFailedActionBytesExcluded(t *testing.T) {
	transfer := newFakeTransfer()
	transfer.failOn["b.txt"] = errors.New("boom")

	executor := NewExecutor(transfer, nil)
	preview := previewOf(copyAction("a.txt", 10), copyAction("b.txt", 20))

	progress := make(chan models.SyncProgress, 16)
	var final models.SyncProgress
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range progress {
			final = event
		}
	}()

	if _, err := executor.Execute(context.Background(), preview, progress); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	<-done

	if final.CompletedBytes != 10 {
		t.Errorf("final CompletedBytes = %d, want 10 (failed copy excluded)", final.CompletedBytes)
	}
	if final.CompletedCount != 2 {
		t.Errorf("final CompletedCount = %d, want 2 (every action processed)", final.CompletedCount)
	}
}
