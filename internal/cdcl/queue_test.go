package cdcl

import (
	"reflect"
	"testing"
)

func TestQueue_Push_WithResizeAndRotation(t *testing.T) {
	q := &queue[int]{
		ring:  []int{3, 4, 1, 2},
		start: 2,
		end:   2,
		size:  4,
		mask:  0b11,
	}
	want := &queue[int]{
		ring:  []int{1, 2, 3, 4, 5, 0, 0, 0},
		start: 0,
		end:   5,
		size:  5,
		mask:  0b111,
	}

	q.Push(5)

	if !reflect.DeepEqual(want, q) {
		t.Errorf("Mismatch: want %#v, got %#v", want, q)
	}
}

func TestQueue_PushPop_FIFOOrder(t *testing.T) {
	q := newQueue[int](2)
	for i := 0; i < 10; i++ {
		q.Push(i)
	}
	for i := 0; i < 10; i++ {
		if q.IsEmpty() {
			t.Fatalf("queue emptied early at i=%d", i)
		}
		if got := q.Pop(); got != i {
			t.Errorf("Pop() = %d, want %d", got, i)
		}
	}
	if !q.IsEmpty() {
		t.Errorf("IsEmpty() = false after draining, want true")
	}
}

func TestQueue_Clear(t *testing.T) {
	q := newQueue[int](4)
	q.Push(1)
	q.Push(2)
	q.Clear()
	if q.Size() != 0 || !q.IsEmpty() {
		t.Errorf("Clear() did not reset size/IsEmpty")
	}
	q.Push(3)
	if got := q.Pop(); got != 3 {
		t.Errorf("Pop() after Clear() = %d, want 3", got)
	}
}
