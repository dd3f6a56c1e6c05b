package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_OrderAndUnsubscribe(t *testing.T) {
	var n Notifier[int]
	var got []string

	unsubA := n.Subscribe(func(v int) { got = append(got, "a") })
	n.Subscribe(func(v int) { got = append(got, "b") })

	n.Notify(1)
	assert.Equal(t, []string{"a", "b"}, got)

	unsubA()
	unsubA()
	assert.Equal(t, 1, n.Len())

	got = nil
	n.Notify(2)
	assert.Equal(t, []string{"b"}, got)
}

func TestNotifier_ListenerMaySubscribeDuringNotify(t *testing.T) {
	var n Notifier[string]
	calls := 0
	n.Subscribe(func(string) {
		calls++
		n.Subscribe(func(string) { calls++ })
	})

	n.Notify("x")
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, n.Len())
}
