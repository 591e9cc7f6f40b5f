package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := New(4)
	sub := b.Subscribe(context.Background(), TopicQuery)
	defer sub.Close()

	b.Publish(TopicQuery, "example.com.")

	select {
	case ev := <-sub.Ch:
		if ev.Topic != TopicQuery || ev.Data != "example.com." {
			t.Fatalf("got %+v, want Topic=%s Data=example.com.", ev, TopicQuery)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestPublishIgnoresOtherTopics(t *testing.T) {
	b := New(4)
	sub := b.Subscribe(context.Background(), TopicQuery)
	defer sub.Close()

	b.Publish(TopicReferral, "example.com.")

	select {
	case ev := <-sub.Ch:
		t.Fatalf("received unexpected event %+v on a TopicQuery subscriber", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishDropsWhenSubscriberBufferIsFull(t *testing.T) {
	b := New(1)
	sub := b.Subscribe(context.Background(), TopicCache)
	defer sub.Close()

	b.Publish(TopicCache, 1)
	b.Publish(TopicCache, 2) // buffer already full: dropped, not blocked

	ev := <-sub.Ch
	if ev.Data != 1 {
		t.Fatalf("Data = %v, want 1 (the second publish should have been dropped)", ev.Data)
	}
}

func TestSubscriberCloseStopsDelivery(t *testing.T) {
	b := New(4)
	sub := b.Subscribe(context.Background(), TopicQuery)
	sub.Close()

	select {
	case _, ok := <-sub.Ch:
		if ok {
			t.Fatal("expected channel to be closed after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel to close")
	}

	// A publish after Close must not panic or deliver anywhere; this just
	// exercises the unsubscribe path with no remaining listeners.
	b.Publish(TopicQuery, "after-close.")
}
