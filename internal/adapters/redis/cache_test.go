package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "dealerhub/internal/adapters/redis"
	"dealerhub/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	d := domain.Dealer{ID: 7, FullName: "Midtown Autos", City: "Austin", State: "TX", Zip: "78701"}
	if err := c.Set(ctx, "dealer:7", d, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.Dealer
	ok, err := c.Get(ctx, "dealer:7", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.ID != 7 || got.FullName != "Midtown Autos" {
		t.Fatalf("unexpected dealer: %+v", got)
	}

	if err := c.Del(ctx, "dealer:7"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "dealer:7", &got)
	if err != nil {
		t.Fatalf("get after del: %v", err)
	}
	if ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)

	var got domain.Dealer
	ok, err := c.Get(context.Background(), "dealer:404", &got)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}
}
