package fifo

import (
	"errors"
	"runtime"
	"sync"
	"testing"
)

type record struct {
	kind    uint8
	channel int32
	number  int32
	value   int32
}

func TestNewRejectsSmallCapacity(t *testing.T) {
	for _, c := range []int{-1, 0, 1} {
		_, _, err := New[record](c)
		if !errors.Is(err, ErrCapacity) {
			t.Errorf("capacity %d: expected ErrCapacity, got %v", c, err)
		}
	}
}

func TestPushPopSingle(t *testing.T) {
	p, c, err := New[record](10)
	if err != nil {
		t.Fatal(err)
	}

	in := record{0, 1, 2, 3}
	if !p.TryPush(in) {
		t.Fatal("expected push to succeed")
	}
	if p.NumReady() != 1 || c.NumReady() != 1 {
		t.Errorf("expected 1 ready, got producer=%d consumer=%d", p.NumReady(), c.NumReady())
	}

	var out record
	if !c.TryPop(&out) {
		t.Fatal("expected pop to succeed")
	}
	if out != in {
		t.Errorf("expected %+v, got %+v", in, out)
	}
	if c.NumReady() != 0 {
		t.Errorf("expected empty queue, got %d ready", c.NumReady())
	}
}

func TestPopEmpty(t *testing.T) {
	_, c, _ := New[record](10)

	out := record{kind: 9}
	if c.TryPop(&out) {
		t.Fatal("expected pop from empty queue to fail")
	}
	if out.kind != 9 {
		t.Error("failed pop must not touch the destination")
	}
}

func TestCapacityKeepsOneSlotFree(t *testing.T) {
	for _, capacity := range []int{2, 3, 10, 128} {
		p, _, _ := New[record](capacity)

		for i := 0; i < capacity-1; i++ {
			if !p.TryPush(record{number: int32(i)}) {
				t.Fatalf("capacity %d: push %d failed early", capacity, i)
			}
		}
		if p.TryPush(record{}) {
			t.Errorf("capacity %d: push %d should fail", capacity, capacity)
		}
		if p.NumReady() != capacity-1 {
			t.Errorf("capacity %d: expected %d ready, got %d", capacity, capacity-1, p.NumReady())
		}
		if p.Free() != 0 {
			t.Errorf("capacity %d: expected 0 free, got %d", capacity, p.Free())
		}
		if p.Cap() != capacity {
			t.Errorf("expected cap %d, got %d", capacity, p.Cap())
		}
	}
}

func TestFullThenPopThenPush(t *testing.T) {
	p, c, _ := New[record](10)
	msg := record{0, 1, 117, 1}

	for i := 0; i < 9; i++ {
		if !p.TryPush(msg) {
			t.Fatalf("push %d failed", i)
		}
	}
	if p.TryPush(msg) {
		t.Fatal("10th push should fail")
	}

	var out record
	if !c.TryPop(&out) {
		t.Fatal("pop failed")
	}
	if !p.TryPush(msg) {
		t.Error("push after pop should succeed")
	}
}

func TestFIFOOrder(t *testing.T) {
	p, c, _ := New[record](8)

	// Several laps so cursors wrap past the slot count.
	next := int32(0)
	want := int32(0)
	for lap := 0; lap < 5; lap++ {
		for i := 0; i < 7; i++ {
			if !p.TryPush(record{kind: 0, channel: 1, number: next, value: next * 2}) {
				t.Fatalf("lap %d push %d failed", lap, i)
			}
			next++
		}
		var out record
		for i := 0; i < 7; i++ {
			if !c.TryPop(&out) {
				t.Fatalf("lap %d pop %d failed", lap, i)
			}
			expected := record{kind: 0, channel: 1, number: want, value: want * 2}
			if out != expected {
				t.Fatalf("expected %+v, got %+v", expected, out)
			}
			want++
		}
	}
}

func TestConcurrentPushPop(t *testing.T) {
	const total = 20000
	p, c, _ := New[record](16)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			r := record{kind: 0, channel: int32(i%16 + 1), number: int32(i), value: int32(i) ^ 0x5a5a}
			for !p.TryPush(r) {
				runtime.Gosched()
			}
		}
	}()

	popped := 0
	var bad []record
	go func() {
		defer wg.Done()
		var out record
		expect := int32(0)
		for popped < total {
			if !c.TryPop(&out) {
				runtime.Gosched()
				continue
			}
			want := record{kind: 0, channel: expect%16 + 1, number: expect, value: expect ^ 0x5a5a}
			if out != want {
				bad = append(bad, out)
			}
			expect++
			popped++
		}
	}()

	wg.Wait()

	if popped != total {
		t.Errorf("expected %d pops, got %d", total, popped)
	}
	if len(bad) > 0 {
		t.Errorf("%d torn or out-of-order records, first %+v", len(bad), bad[0])
	}
	if c.NumReady() != 0 {
		t.Errorf("expected empty queue, got %d", c.NumReady())
	}
}

func BenchmarkPushPop(b *testing.B) {
	p, c, _ := New[record](128)
	var out record
	r := record{0, 1, 117, 1}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.TryPush(r)
		c.TryPop(&out)
	}
}
