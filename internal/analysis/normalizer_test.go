package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTrace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "timestamp port and id",
			in:   "Connected at 2024-01-01T10:00:00Z port :8080 id=42",
			want: "Connected at <TIMESTAMP> port <PORT> id=<ID>",
		},
		{
			name: "iso timestamp with offset",
			in:   "started 2024-03-15 08:30:12.431+02:00 ok",
			want: "started <TIMESTAMP> ok",
		},
		{
			name: "epoch milliseconds",
			in:   "ts=1704067200000 done",
			want: "ts=<TIMESTAMP> done",
		},
		{
			name: "durations",
			in:   "request took 1.5s then 300ms then 2 seconds",
			want: "request took <DURATION> then <DURATION> then <DURATION>",
		},
		{
			name: "uuid and hex",
			in:   "object 550e8400-e29b-41d4-a716-446655440000 at 0x7f3a2c",
			want: "object <UUID> at <HEX>",
		},
		{
			name: "entity id",
			in:   "lookup entity_913 failed",
			want: "lookup entity_<ID> failed",
		},
		{
			name: "absolute path collapses to filename",
			in:   "in /home/ci/build/src/cart.py something broke",
			want: "in cart.py something broke",
		},
		{
			name: "thread marker",
			in:   "deadlock on thread-17",
			want: "deadlock on <THREAD>",
		},
		{
			name: "expected but got template",
			in:   "expected 5 items but got 3 items",
			want: "expected <VALUE> but got <VALUE>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTrace(tt.in))
		})
	}
}

func TestNormalizeTraceIdempotent(t *testing.T) {
	inputs := []string{
		"Connected at 2024-01-01T10:00:00Z port :8080 id=42",
		"object 550e8400-e29b-41d4-a716-446655440000 at 0x7f3a2c took 300ms",
		"in /home/ci/build/src/cart.py on thread-17 entity_913",
	}
	for _, in := range inputs {
		once := NormalizeTrace(in)
		assert.Equal(t, once, NormalizeTrace(once))
	}
}

func TestNormalizeMessage(t *testing.T) {
	assert.Equal(t, "assert <NUM> == <NUM>", NormalizeMessage("assert 5 == 3"))
	assert.Equal(t, "got <STR> want <STR>", NormalizeMessage("got 'foo' want 'bar'"))
	assert.Equal(t, "expected <VALUE> but got <VALUE>",
		NormalizeMessage("expected 'apple' but got 'orange'"))

	// masking makes value-differing messages identical
	a := NormalizeMessage("timeout after 30 on 'orders'")
	b := NormalizeMessage("timeout after 45 on 'billing'")
	assert.Equal(t, a, b)
}

func TestNormalizeMessageIdempotent(t *testing.T) {
	in := "expected 'apple' but got 'orange' after 2 seconds on thread-3"
	once := NormalizeMessage(in)
	assert.Equal(t, once, NormalizeMessage(once))
}
