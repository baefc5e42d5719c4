package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisPermissionLifecycle(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	n := NewRedis(client, "duoboard:alerts")
	if n.Permission() != PermissionUndetermined {
		t.Fatalf("expected undetermined before request, got %s", n.Permission())
	}
	if got := n.RequestPermission(context.Background()); got != PermissionGranted {
		t.Fatalf("expected granted, got %s", got)
	}
}

func TestRedisPermissionDeniedWhenUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	n := NewRedis(client, "duoboard:alerts")
	if got := n.RequestPermission(context.Background()); got != PermissionDenied {
		t.Fatalf("expected denied, got %s", got)
	}
}

func TestRedisNotifyPublishes(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sub := client.Subscribe(context.Background(), "duoboard:alerts")
	t.Cleanup(func() { _ = sub.Close() })
	if _, err := sub.Receive(context.Background()); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	n := NewRedis(client, "duoboard:alerts")
	alert := Alert{CardID: "c9", Title: "Book vet appointment", Body: "due soon", State: "soon"}
	if err := n.Notify(context.Background(), alert); err != nil {
		t.Fatalf("notify: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var got Alert
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("decode alert: %v", err)
		}
		if got != alert {
			t.Fatalf("published %+v, want %+v", got, alert)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published alert")
	}
}
