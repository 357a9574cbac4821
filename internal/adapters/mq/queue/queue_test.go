package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/debut/internal/domain/model"
)

func touch(ms int64) model.SyncTask {
	return model.SyncTask{ID: fmt.Sprintf("t%d", ms), Op: model.SyncTouchProfile, LastPlayed: ms}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if !q.Enqueue(ctx, touch(1)) {
		t.Fatal("expected enqueue to succeed")
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	task := <-q.Dequeue(ctx)
	if task.ID != "t1" {
		t.Errorf("expected t1, got %v", task.ID)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, touch(1)) || !q.Enqueue(ctx, touch(2)) {
		t.Fatal("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, touch(3)) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
	if c := q.Capacity(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}
}

func TestInMemoryQueue_DefaultCapacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(0))
	if c := q.Capacity(); c != defaultCapacity {
		t.Errorf("expected default capacity %d, got %d", defaultCapacity, c)
	}
}

func TestInMemoryQueue_RefusesInvalidAndCanceled(t *testing.T) {
	q := NewInMemoryQueue()

	if q.Enqueue(context.Background(), model.SyncTask{Op: model.SyncSelectAgency}) {
		t.Error("expected a task without an agency to be refused")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if q.Enqueue(ctx, touch(1)) {
		t.Error("expected enqueue with a canceled context to fail")
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_PreservesOrder(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		q.Enqueue(ctx, touch(i))
	}
	_ = q.Close()

	var got []int64
	for task := range q.Dequeue(ctx) {
		got = append(got, task.LastPlayed)
	}
	want := []int64{1, 2, 3, 4, 5}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()
	producers, perProducer := 8, 50

	var consumed sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		consumed.Add(1)
		go func() {
			defer consumed.Done()
			for task := range q.Dequeue(ctx) {
				mu.Lock()
				seen[task.ID] = true
				mu.Unlock()
			}
		}()
	}

	var produced sync.WaitGroup
	for p := 0; p < producers; p++ {
		produced.Add(1)
		go func(p int) {
			defer produced.Done()
			for j := 0; j < perProducer; j++ {
				task := touch(int64(p*perProducer + j + 1))
				for !q.Enqueue(ctx, task) {
					time.Sleep(time.Millisecond)
				}
			}
		}(p)
	}

	produced.Wait()
	_ = q.Close()
	consumed.Wait()

	if len(seen) != producers*perProducer {
		t.Errorf("expected %d tasks consumed, got %d", producers*perProducer, len(seen))
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	q.Enqueue(ctx, touch(1))
	q.Enqueue(ctx, touch(2))

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, touch(3)) {
		t.Error("expected enqueue to fail after closing")
	}

	// Tasks queued before Close are still delivered.
	drained := 0
	timeout := time.After(time.Second)
	ch := q.Dequeue(ctx)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				if drained != 2 {
					t.Errorf("expected 2 drained tasks, got %d", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			drained++
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}
