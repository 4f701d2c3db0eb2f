package physics

import (
	"sync/atomic"
	"testing"
)

func TestTask_VisitsEveryElementOnce(t *testing.T) {
	for _, workers := range []int{1, 3, 8, 100} {
		data := make([]*int32, 37)
		for i := range data {
			data[i] = new(int32)
		}

		task(workers, data, func(counter *int32) {
			atomic.AddInt32(counter, 1)
		})

		for i, counter := range data {
			if *counter != 1 {
				t.Errorf("workers=%d: element %d visited %d times, want 1", workers, i, *counter)
			}
		}
	}
}

func TestTaskIndexed_CoversAllSlots(t *testing.T) {
	for _, workers := range []int{1, 4, 50} {
		results := make([]int, 37)

		taskIndexed(workers, len(results), func(i int) {
			results[i] = i + 1
		})

		for i, v := range results {
			if v != i+1 {
				t.Errorf("workers=%d: slot %d = %d, want %d", workers, i, v, i+1)
			}
		}
	}
}

func TestTask_EmptyInput(t *testing.T) {
	task(4, []int(nil), func(int) {
		t.Error("fn called for empty input")
	})
	taskIndexed(4, 0, func(int) {
		t.Error("fn called for zero slots")
	})
}
