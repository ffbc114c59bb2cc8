package ecs

import "testing"

func TestSameValue(t *testing.T) {
	shared := []int{1, 2, 3}
	m := map[string]int{}
	p := new(int)
	fn := func() {}
	type pair struct{ A, B int }
	type boxed struct{ V any }

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"different types", int32(1), int64(1), false},
		{"both nil", nil, nil, true},
		{"one nil", nil, 0, false},
		{"strings", "a", "a", true},
		{"structs", pair{1, 2}, pair{1, 2}, true},
		{"same slice", shared, shared, true},
		{"resliced", shared, shared[:2], false},
		{"equal contents", shared, []int{1, 2, 3}, false},
		{"same map", m, m, true},
		{"other map", m, map[string]int{}, false},
		{"same pointer", p, p, true},
		{"other pointer", p, new(int), false},
		{"funcs", fn, fn, false},
		{"nil funcs", (func())(nil), (func())(nil), true},
		{"uncomparable field", boxed{[]int{1}}, boxed{[]int{1}}, false},
		{"comparable field", boxed{1}, boxed{1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameValue(tt.a, tt.b); got != tt.want {
				t.Errorf("sameValue(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSameDeps(t *testing.T) {
	if !sameDeps([]any{1, "a"}, []any{1, "a"}) {
		t.Error("expected equal deps")
	}
	if sameDeps([]any{1}, []any{1, 2}) {
		t.Error("length mismatch must differ")
	}
	if !sameDeps([]any{}, []any{}) {
		t.Error("empty deps are equal")
	}
}

func TestTaskQueue(t *testing.T) {
	q := NewTaskQueue()
	var order []int

	q.Defer(func() {
		order = append(order, 1)
		q.Defer(func() { order = append(order, 3) })
		if n := q.Flush(); n != 0 {
			t.Errorf("reentrant flush ran %d tasks", n)
		}
	})
	q.Defer(func() { order = append(order, 2) })

	if n := q.Flush(); n != 3 {
		t.Errorf("expected 3 tasks, got %d", n)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("unexpected order %v", order)
	}
	if q.Len() != 0 {
		t.Errorf("queue not drained, %d left", q.Len())
	}
}
