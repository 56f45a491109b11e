package statusbus

import (
	"testing"
	"time"
)

func TestSubscribeReceivesCurrentValueImmediately(t *testing.T) {
	t.Parallel()

	b := NewConnectivityBus(nil)
	defer b.Close()

	b.Publish(true)
	time.Sleep(10 * time.Millisecond)

	ch := b.Subscribe("a")
	defer b.Unsubscribe("a")

	select {
	case v := <-ch:
		if !v {
			t.Errorf("expected initial value true, got false")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial value")
	}
}

func TestPublishNotifiesAllSubscribers(t *testing.T) {
	t.Parallel()

	b := NewConnectivityBus(nil)
	defer b.Close()

	chA := b.Subscribe("a")
	chB := b.Subscribe("b")
	defer b.Unsubscribe("a")
	defer b.Unsubscribe("b")

	<-chA // drain initial false
	<-chB

	b.Publish(true)

	for name, ch := range map[string]<-chan bool{"a": chA, "b": chB} {
		select {
		case v := <-ch:
			if !v {
				t.Errorf("subscriber %s: expected true", name)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s: timed out waiting for publish", name)
		}
	}
}

func TestSnapshotReflectsLastPublish(t *testing.T) {
	t.Parallel()

	b := NewConnectivityBus(nil)
	defer b.Close()

	if b.Snapshot() {
		t.Fatal("expected initial snapshot false")
	}
	b.Publish(true)
	time.Sleep(10 * time.Millisecond)
	if !b.Snapshot() {
		t.Error("expected snapshot true after publish")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	b := NewConnectivityBus(nil)
	defer b.Close()

	ch := b.Subscribe("a")
	<-ch
	b.Unsubscribe("a")

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed after unsubscribe")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
