package observable

import "testing"

func TestValue_GetSet(t *testing.T) {
	v := NewValue(1)
	if v.Get() != 1 {
		t.Fatalf("expected 1, got %d", v.Get())
	}
	v.Set(2)
	if v.Get() != 2 {
		t.Errorf("expected 2, got %d", v.Get())
	}
}

func TestValue_SubscribeOrder(t *testing.T) {
	v := NewValue("")
	var got []string

	v.Subscribe(func(s string) { got = append(got, "a:"+s) })
	v.Subscribe(func(s string) { got = append(got, "b:"+s) })

	v.Set("x")

	if len(got) != 2 || got[0] != "a:x" || got[1] != "b:x" {
		t.Errorf("unexpected notifications: %v", got)
	}
}

func TestValue_Unsubscribe(t *testing.T) {
	v := NewValue(0)
	calls := 0
	unsub := v.Subscribe(func(int) { calls++ })

	v.Set(1)
	unsub()
	unsub() // second call is a no-op
	v.Set(2)

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if v.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", v.SubscriberCount())
	}
}

func TestValue_UnsubscribeDuringNotify(t *testing.T) {
	v := NewValue(0)
	var unsub func()
	calls := 0
	unsub = v.Subscribe(func(int) {
		calls++
		unsub()
	})

	v.Set(1)
	v.Set(2)

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestValue_Update(t *testing.T) {
	v := NewValue([]int{1})
	v.Update(func(s []int) []int { return append(s, 2) })

	if got := v.Get(); len(got) != 2 || got[1] != 2 {
		t.Errorf("unexpected value: %v", got)
	}
}
