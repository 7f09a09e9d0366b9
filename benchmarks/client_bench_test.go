package benchmarks

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ajitpratap0/discord-ipc-go/pkg/ipc"
	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
)

// BenchmarkFrameCodec benchmarks the binary frame encode and decode paths.
func BenchmarkFrameCodec(b *testing.B) {
	payload := []byte(`{"cmd":"SET_ACTIVITY","args":{"pid":4242,"activity":{"state":"In a Group","details":"Competitive Match","instance":true}},"nonce":"bench-nonce"}`)

	b.Run("Encode", func(b *testing.B) {
		f := protocol.NewFrame(protocol.OpcodeFrame, payload)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			_ = f.Encode()
		}
	})

	b.Run("Decode", func(b *testing.B) {
		raw := protocol.NewFrame(protocol.OpcodeFrame, payload).Encode()

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := protocol.Decode(raw); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkDecodeMessage benchmarks inbound payload classification.
func BenchmarkDecodeMessage(b *testing.B) {
	b.Run("Reply", func(b *testing.B) {
		payload := []byte(`{"cmd":"SET_ACTIVITY","data":{"state":"In a Group"},"nonce":"bench-nonce"}`)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := protocol.DecodeMessage(payload); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Dispatch", func(b *testing.B) {
		payload := []byte(`{"cmd":"DISPATCH","evt":"ACTIVITY_JOIN","data":{"secret":"join-me"},"nonce":""}`)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := protocol.DecodeMessage(payload); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkActivityMarshal benchmarks the conditional presence shaping.
func BenchmarkActivityMarshal(b *testing.B) {
	a := benchActivity()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(a); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkClientOperations benchmarks live-connection command paths over
// an in-memory pipe.
func BenchmarkClientOperations(b *testing.B) {
	b.Run("SetActivity", func(b *testing.B) {
		benchmarkSetActivity(b)
	})

	b.Run("SetActivityAcknowledged", func(b *testing.B) {
		benchmarkSetActivityAcknowledged(b)
	})

	b.Run("Ping", func(b *testing.B) {
		benchmarkPing(b)
	})

	b.Run("ConcurrentCommands", func(b *testing.B) {
		benchmarkConcurrentCommands(b)
	})
}

// benchmarkSetActivity measures the fire-and-forget send path.
func benchmarkSetActivity(b *testing.B) {
	c := newBenchClient(b, discardFrames)
	a := benchActivity()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := c.SetActivity(a, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// benchmarkSetActivityAcknowledged measures one full command round trip:
// marshal, write, peer reply, callback resolution.
func benchmarkSetActivityAcknowledged(b *testing.B) {
	c := newBenchClient(b, ackFrames)
	a := benchActivity()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		done := make(chan error, 1)
		cb := &ipc.Callback{
			OnSuccess: func(json.RawMessage) { done <- nil },
			OnError:   func(err error) { done <- err },
		}
		if err := c.SetActivity(a, cb); err != nil {
			b.Fatal(err)
		}
		if err := <-done; err != nil {
			b.Fatal(err)
		}
	}
}

// benchmarkPing measures liveness round trips.
func benchmarkPing(b *testing.B) {
	c := newBenchClient(b, ackFrames)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := c.Ping(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

// benchmarkConcurrentCommands measures acknowledged commands issued from
// many goroutines against one connection.
func benchmarkConcurrentCommands(b *testing.B) {
	c := newBenchClient(b, ackFrames)
	a := benchActivity()

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			done := make(chan error, 1)
			cb := &ipc.Callback{
				OnSuccess: func(json.RawMessage) { done <- nil },
				OnError:   func(err error) { done <- err },
			}
			if err := c.SetActivity(a, cb); err != nil {
				b.Fatal(err)
			}
			if err := <-done; err != nil {
				b.Fatal(err)
			}
		}
	})
}
