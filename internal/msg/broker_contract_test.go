package msg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The Publisher contract: one publish of K/V to topic T yields exactly one
// record for a subscriber of T, with key and value observable as text.
func TestPublishSubscribe_ExactlyOneRecord(t *testing.T) {
	broker := newMemBroker()
	defer broker.Close()

	var _ Publisher = broker

	sub := broker.Subscribe("user.events")
	other := broker.Subscribe("other.topic")

	payload := map[string]any{"name": "alice", "age": float64(30)}
	err := broker.Publish(context.Background(), "user.events", "user-1", payload)
	require.NoError(t, err)

	select {
	case rec := <-sub:
		assert.Equal(t, "user.events", rec.Topic)
		assert.Equal(t, "user-1", rec.Key)
		assert.JSONEq(t, `{"name":"alice","age":30}`, string(rec.Value))
	case <-time.After(time.Second):
		t.Fatal("subscriber did not observe the record")
	}

	// Exactly one record: nothing further on either channel.
	select {
	case rec := <-sub:
		t.Fatalf("unexpected extra record: %+v", rec)
	case rec := <-other:
		t.Fatalf("record leaked to unrelated topic: %+v", rec)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishSubscribe_OffsetsIncrease(t *testing.T) {
	broker := newMemBroker()
	defer broker.Close()

	sub := broker.Subscribe("t")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, broker.Publish(ctx, "t", "k", map[string]any{"i": i}))
	}

	for want := int64(0); want < 3; want++ {
		rec := <-sub
		assert.Equal(t, want, rec.Offset)
	}
}
