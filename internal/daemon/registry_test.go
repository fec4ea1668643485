package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emi-kkobayashi/gstd-1.x/internal/protocol"
)

const testDescription = "videotestsrc name=v0 ! xvimagesink"

func TestRegistryCreateDelete(t *testing.T) {
	r := newRegistry()

	assert.Equal(t, protocol.StatusOK, r.create("p0", testDescription))
	assert.Equal(t, 1, r.count())

	// Same name without an intervening delete must fail.
	assert.Equal(t, protocol.StatusExistingName, r.create("p0", testDescription))
	assert.Equal(t, 1, r.count())

	assert.Equal(t, protocol.StatusMissingName, r.create("", testDescription))
	assert.Equal(t, protocol.StatusBadDescription, r.create("p1", ""))
	assert.Equal(t, protocol.StatusBadDescription, r.create("p1", "videotestsrc ! "))

	assert.Equal(t, protocol.StatusOK, r.delete("p0"))
	assert.Equal(t, protocol.StatusNoPipeline, r.delete("p0"))
	assert.Equal(t, 0, r.count())

	// Name is reusable after deletion.
	assert.Equal(t, protocol.StatusOK, r.create("p0", testDescription))
}

func TestRegistryStateMachine(t *testing.T) {
	r := newRegistry()
	require.Equal(t, protocol.StatusOK, r.create("p0", testDescription))

	info, code := r.getState("p0")
	require.Equal(t, protocol.StatusOK, code)
	assert.Equal(t, protocol.StateNull, info.State)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, testDescription, info.Description)

	assert.Equal(t, protocol.StatusOK, r.setState("p0", protocol.StatePlaying))
	info, _ = r.getState("p0")
	assert.Equal(t, protocol.StatePlaying, info.State)

	// Stop is idempotent: a second transition to NULL still succeeds.
	assert.Equal(t, protocol.StatusOK, r.setState("p0", protocol.StateNull))
	assert.Equal(t, protocol.StatusOK, r.setState("p0", protocol.StateNull))

	assert.Equal(t, protocol.StatusNoPipeline, r.setState("ghost", protocol.StatePlaying))
	_, code = r.getState("ghost")
	assert.Equal(t, protocol.StatusNoPipeline, code)
}

func TestRegistryList(t *testing.T) {
	r := newRegistry()
	require.Equal(t, protocol.StatusOK, r.create("b", testDescription))
	require.Equal(t, protocol.StatusOK, r.create("a", testDescription))
	require.Equal(t, protocol.StatusOK, r.setState("a", protocol.StatePlaying))

	infos := r.list()
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Name)
	assert.Equal(t, protocol.StatePlaying, infos[0].State)
	assert.Equal(t, "b", infos[1].Name)
	assert.Equal(t, protocol.StateNull, infos[1].State)
}

func TestRegistryElementAccess(t *testing.T) {
	r := newRegistry()
	require.Equal(t, protocol.StatusOK, r.create("p0", "videotestsrc name=v0 pattern=ball ! fakesink"))

	value, code := r.elementGet("p0", "v0", "pattern")
	require.Equal(t, protocol.StatusOK, code)
	assert.Equal(t, "ball", value.Value)

	assert.Equal(t, protocol.StatusOK, r.elementSet("p0", "v0", "pattern", "snow"))
	value, _ = r.elementGet("p0", "v0", "pattern")
	assert.Equal(t, "snow", value.Value)

	_, code = r.elementGet("p0", "v0", "nosuch")
	assert.Equal(t, protocol.StatusNoResource, code)
	_, code = r.elementGet("p0", "ghost", "pattern")
	assert.Equal(t, protocol.StatusNoResource, code)
	_, code = r.elementGet("ghost", "v0", "pattern")
	assert.Equal(t, protocol.StatusNoPipeline, code)
	assert.Equal(t, protocol.StatusNoPipeline, r.elementSet("ghost", "v0", "pattern", "snow"))
}

func TestRegistryFlushStopKeepsState(t *testing.T) {
	r := newRegistry()
	require.Equal(t, protocol.StatusOK, r.create("p0", testDescription))
	require.Equal(t, protocol.StatusOK, r.setState("p0", protocol.StatePlaying))
	require.Equal(t, protocol.StatusOK, r.eventSeek("p0", 30*time.Second))

	assert.Equal(t, protocol.StatusOK, r.eventFlushStart("p0"))
	assert.Equal(t, protocol.StatusOK, r.eventFlushStop("p0", true))

	info, code := r.getState("p0")
	require.Equal(t, protocol.StatusOK, code)
	assert.Equal(t, protocol.StatePlaying, info.State, "flush-stop must not change the play state")

	r.mu.Lock()
	p := r.pipelines["p0"]
	r.mu.Unlock()
	assert.Equal(t, time.Duration(0), p.position)
	assert.False(t, p.flushing)
}

func TestRegistryFlushStopOnIdlePipeline(t *testing.T) {
	r := newRegistry()
	require.Equal(t, protocol.StatusOK, r.create("p0", testDescription))

	// Never played: the event is still accepted, state stays NULL.
	assert.Equal(t, protocol.StatusOK, r.eventFlushStop("p0", true))
	info, _ := r.getState("p0")
	assert.Equal(t, protocol.StateNull, info.State)

	assert.Equal(t, protocol.StatusNoPipeline, r.eventFlushStop("ghost", true))
	assert.Equal(t, protocol.StatusNoPipeline, r.eventFlushStart("ghost"))
	assert.Equal(t, protocol.StatusNoPipeline, r.eventEOS("ghost"))
}

func TestRegistryBusMessages(t *testing.T) {
	r := newRegistry()
	require.Equal(t, protocol.StatusOK, r.create("p0", testDescription))

	b, code := r.busFor("p0")
	require.Equal(t, protocol.StatusOK, code)

	require.Equal(t, protocol.StatusOK, r.setState("p0", protocol.StatePlaying))
	msg := b.read()
	require.NotNil(t, msg)
	assert.Equal(t, "state-changed", msg.Type)
	assert.Equal(t, "p0", msg.Source)
	assert.Equal(t, "NULL -> PLAYING", msg.Message)

	require.Equal(t, protocol.StatusOK, r.eventEOS("p0"))
	msg = b.read()
	require.NotNil(t, msg)
	assert.Equal(t, "eos", msg.Type)

	// Queue drained, non-blocking read returns nothing.
	assert.Nil(t, b.read())

	// Flush-stop discards queued messages.
	require.Equal(t, protocol.StatusOK, r.eventEOS("p0"))
	require.Equal(t, protocol.StatusOK, r.eventFlushStop("p0", false))
	assert.Nil(t, b.read())

	_, code = r.busFor("ghost")
	assert.Equal(t, protocol.StatusNoPipeline, code)
}

func TestBusFilterAndTimeout(t *testing.T) {
	b := newBus()
	b.setFilter([]string{"eos"})

	b.post("state-changed", "p0", "NULL -> PLAYING")
	b.post("eos", "p0", "end of stream")

	msg := b.read()
	require.NotNil(t, msg)
	assert.Equal(t, "eos", msg.Type, "filtered types are skipped")

	// Blocking read delivers a message posted while waiting.
	b.setFilter(nil)
	b.setTimeout(2 * time.Second)
	go func() {
		time.Sleep(20 * time.Millisecond)
		b.post("warning", "p0", "late")
	}()
	start := time.Now()
	msg = b.read()
	require.NotNil(t, msg)
	assert.Equal(t, "warning", msg.Type)
	assert.Less(t, time.Since(start), 2*time.Second)

	// Short timeout expires with no message.
	b.setTimeout(10 * time.Millisecond)
	assert.Nil(t, b.read())
}

func TestBusCloseReleasesBlockedReader(t *testing.T) {
	b := newBus()
	b.setTimeout(-1)

	got := make(chan *protocol.BusMessage, 1)
	go func() { got <- b.read() }()

	// No message arrives; only close may release the reader.
	time.Sleep(20 * time.Millisecond)
	b.close()
	b.close() // closing twice is safe

	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("reader still blocked after bus close")
	}
}

func TestRegistryDeleteReleasesBlockedReader(t *testing.T) {
	r := newRegistry()
	require.Equal(t, protocol.StatusOK, r.create("p0", testDescription))

	b, code := r.busFor("p0")
	require.Equal(t, protocol.StatusOK, code)
	b.setTimeout(-1)

	got := make(chan *protocol.BusMessage, 1)
	go func() { got <- b.read() }()

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, protocol.StatusOK, r.delete("p0"))

	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("reader still blocked after pipeline delete")
	}
}

func TestBusOverflowDropsOldest(t *testing.T) {
	b := newBus()
	for i := 0; i < busCapacity+8; i++ {
		b.post("info", "p0", "m")
	}
	msg := b.read()
	require.NotNil(t, msg)
	assert.Equal(t, uint64(9), msg.Seqnum, "oldest messages are dropped on overflow")
}
