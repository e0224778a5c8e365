package trigger

import "testing"

func TestBusSubscribe(t *testing.T) {
	var b Bus[int]
	var got []int
	sub := b.Subscribe(func(v int) { got = append(got, v) })

	b.Emit(1)
	b.Emit(2)
	sub.Unsubscribe()
	b.Emit(3)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
}

func TestBusOnce(t *testing.T) {
	var b Bus[string]
	calls := 0
	b.Once(func(string) { calls++ })

	if n := b.Emit("first"); n != 1 {
		t.Errorf("Emit delivered to %d handlers, want 1", n)
	}
	b.Emit("second")

	if calls != 1 {
		t.Errorf("once handler called %d times, want 1", calls)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d after once delivery, want 0", b.Len())
	}
}

func TestBusUnsubscribeIdempotent(t *testing.T) {
	var b Bus[int]
	s1 := b.Subscribe(func(int) {})
	b.Subscribe(func(int) {})

	s1.Unsubscribe()
	s1.Unsubscribe()
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}

	once := b.Once(func(int) {})
	b.Emit(0)
	once.Unsubscribe() // already fired
	if b.Len() != 1 {
		t.Errorf("Len() = %d after fired once-handler unsubscribes, want 1", b.Len())
	}

	var nilSub *Subscription
	nilSub.Unsubscribe()
}

func TestBusOrderAndReentrancy(t *testing.T) {
	var b Bus[int]
	var order []string
	b.Subscribe(func(int) { order = append(order, "a") })
	b.Once(func(v int) {
		order = append(order, "b")
		if v == 0 {
			b.Emit(1) // must not reach this once-handler again
		}
	})
	b.Subscribe(func(int) { order = append(order, "c") })

	b.Emit(0)

	want := []string{"a", "b", "a", "c", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
