package client_test

import (
	"context"
	"io"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emi-kkobayashi/gstd-1.x/internal/client"
	"github.com/emi-kkobayashi/gstd-1.x/internal/daemon"
	"github.com/emi-kkobayashi/gstd-1.x/internal/protocol"
)

const testPipeline = "videotestsrc name=v0 ! xvimagesink"

// startDaemon runs an in-process daemon on an ephemeral port and returns a
// client wired to it.
func startDaemon(t *testing.T, opts ...client.Option) *client.Client {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)
	srv := daemon.New(daemon.Config{Network: "tcp", Address: "127.0.0.1:0", Logger: log})
	require.NoError(t, srv.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	opts = append([]client.Option{
		client.WithAddress(srv.Addr()),
		client.WithTimeout(2 * time.Second),
		client.WithLogLevel(client.LogQuiet),
	}, opts...)
	c, err := client.New(opts...)
	require.NoError(t, err)
	return c
}

// The canonical end-to-end scenario: create, play, flush-stop, stop, each
// returning status 0 in order.
func TestFlushStopSequence(t *testing.T) {
	c := startDaemon(t, client.WithLogLevel(client.LogDebug), client.WithLogOutput(io.Discard))
	ctx := context.Background()

	code, err := c.PipelineCreate(ctx, "p0", testPipeline)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, code)

	code, err = c.PipelinePlay(ctx, "p0")
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, code)

	code, err = c.EventFlushStop(ctx, "p0", true)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, code)

	code, err = c.PipelineStop(ctx, "p0")
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, code)
}

func TestCreateThenPlay(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	code, err := c.PipelineCreate(ctx, "p0", testPipeline)
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)

	code, err = c.PipelinePlay(ctx, "p0")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)

	info, code, err := c.PipelineGetState(ctx, "p0")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)
	assert.Equal(t, protocol.StatePlaying, info.State)
}

func TestFlushStopKeepsPlayingState(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	_, err := c.PipelineCreate(ctx, "p0", testPipeline)
	require.NoError(t, err)
	_, err = c.PipelinePlay(ctx, "p0")
	require.NoError(t, err)

	code, err := c.EventFlushStop(ctx, "p0", true)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, code)

	info, _, err := c.PipelineGetState(ctx, "p0")
	require.NoError(t, err)
	assert.Equal(t, protocol.StatePlaying, info.State)
}

func TestDuplicateCreateFails(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	code, err := c.PipelineCreate(ctx, "p0", testPipeline)
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)

	code, err = c.PipelineCreate(ctx, "p0", testPipeline)
	assert.ErrorIs(t, err, client.ErrExistingName)
	assert.NotEqual(t, protocol.StatusOK, code)

	// Delete frees the name for reuse.
	_, err = c.PipelineDelete(ctx, "p0")
	require.NoError(t, err)
	code, err = c.PipelineCreate(ctx, "p0", testPipeline)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, code)
}

func TestUnknownHandle(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (protocol.Status, error)
	}{
		{"play", func() (protocol.Status, error) { return c.PipelinePlay(ctx, "ghost") }},
		{"pause", func() (protocol.Status, error) { return c.PipelinePause(ctx, "ghost") }},
		{"stop", func() (protocol.Status, error) { return c.PipelineStop(ctx, "ghost") }},
		{"delete", func() (protocol.Status, error) { return c.PipelineDelete(ctx, "ghost") }},
		{"eos", func() (protocol.Status, error) { return c.EventEOS(ctx, "ghost") }},
		{"flush-start", func() (protocol.Status, error) { return c.EventFlushStart(ctx, "ghost") }},
		{"flush-stop", func() (protocol.Status, error) { return c.EventFlushStop(ctx, "ghost", true) }},
		{"seek", func() (protocol.Status, error) { return c.EventSeek(ctx, "ghost", 1.0, 0) }},
		{"bus-filter", func() (protocol.Status, error) { return c.BusFilter(ctx, "ghost", "eos") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := tt.call()
			assert.ErrorIs(t, err, client.ErrNoPipeline)
			assert.Equal(t, protocol.StatusNoPipeline, code)
		})
	}
}

func TestBadDescription(t *testing.T) {
	c := startDaemon(t)

	code, err := c.PipelineCreate(context.Background(), "p0", "videotestsrc ! ")
	assert.ErrorIs(t, err, client.ErrBadDescription)
	assert.Equal(t, protocol.StatusBadDescription, code)
}

func TestStopTwiceIsIdempotent(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	_, err := c.PipelineCreate(ctx, "p0", testPipeline)
	require.NoError(t, err)
	_, err = c.PipelinePlay(ctx, "p0")
	require.NoError(t, err)

	code, err := c.PipelineStop(ctx, "p0")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)

	code, err = c.PipelineStop(ctx, "p0")
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, code)
}

func TestListPipelines(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	infos, code, err := c.ListPipelines(ctx)
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)
	assert.Empty(t, infos)

	_, err = c.PipelineCreate(ctx, "p0", testPipeline)
	require.NoError(t, err)
	_, err = c.PipelineCreate(ctx, "p1", testPipeline)
	require.NoError(t, err)
	_, err = c.PipelinePlay(ctx, "p1")
	require.NoError(t, err)

	infos, _, err = c.ListPipelines(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "p0", infos[0].Name)
	assert.Equal(t, protocol.StateNull, infos[0].State)
	assert.Equal(t, "p1", infos[1].Name)
	assert.Equal(t, protocol.StatePlaying, infos[1].State)
}

func TestElementGetSet(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	_, err := c.PipelineCreate(ctx, "p0", "videotestsrc name=v0 pattern=ball ! fakesink")
	require.NoError(t, err)

	value, code, err := c.ElementGet(ctx, "p0", "v0", "pattern")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)
	assert.Equal(t, "ball", value)

	code, err = c.ElementSet(ctx, "p0", "v0", "pattern", "snow")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)

	value, _, err = c.ElementGet(ctx, "p0", "v0", "pattern")
	require.NoError(t, err)
	assert.Equal(t, "snow", value)

	_, code, err = c.ElementGet(ctx, "p0", "ghost", "pattern")
	require.Error(t, err)
	var remote *client.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, protocol.StatusNoResource, code)
}

func TestBusReadAfterPlay(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	_, err := c.PipelineCreate(ctx, "p0", testPipeline)
	require.NoError(t, err)
	_, err = c.PipelinePlay(ctx, "p0")
	require.NoError(t, err)

	msg, code, err := c.BusRead(ctx, "p0")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)
	require.NotNil(t, msg)
	assert.Equal(t, "state-changed", msg.Type)
	assert.Equal(t, "p0", msg.Source)

	// Nothing queued: non-blocking read yields a null payload.
	msg, code, err = c.BusRead(ctx, "p0")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)
	assert.Nil(t, msg)
}

func TestBusFilterAndEOS(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	_, err := c.PipelineCreate(ctx, "p0", testPipeline)
	require.NoError(t, err)

	code, err := c.BusFilter(ctx, "p0", "eos")
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)
	code, err = c.BusTimeout(ctx, "p0", 500*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, protocol.StatusOK, code)

	_, err = c.PipelinePlay(ctx, "p0")
	require.NoError(t, err)
	_, err = c.EventEOS(ctx, "p0")
	require.NoError(t, err)

	msg, _, err := c.BusRead(ctx, "p0")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "eos", msg.Type, "state-changed must be filtered out")
}

func TestTransportError(t *testing.T) {
	// Nothing listens on this port.
	c, err := client.New(
		client.WithAddress("127.0.0.1:1"),
		client.WithTimeout(200*time.Millisecond),
		client.WithLogLevel(client.LogQuiet),
	)
	require.NoError(t, err)

	code, err := c.PipelinePlay(context.Background(), "p0")
	assert.Equal(t, protocol.StatusNoConnection, code)
	var terr *client.TransportError
	assert.ErrorAs(t, err, &terr)
}

func TestContextCancellation(t *testing.T) {
	c := startDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code, err := c.PipelinePlay(ctx, "p0")
	assert.Equal(t, protocol.StatusNoConnection, code)
	assert.Error(t, err)
}

func TestUnknownLogLevel(t *testing.T) {
	_, err := client.New(client.WithLogLevel("LOUD"))
	assert.Error(t, err)
}

func TestUnixSocketClient(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix domain sockets")
	}
	sock := filepath.Join(t.TempDir(), "gstd.sock")

	log := logrus.New()
	log.SetOutput(io.Discard)
	srv := daemon.New(daemon.Config{Network: "unix", Address: sock, Logger: log})
	require.NoError(t, srv.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	c, err := client.New(client.WithUnixSocket(sock), client.WithLogLevel(client.LogQuiet))
	require.NoError(t, err)

	code, err := c.PipelineCreate(context.Background(), "p0", testPipeline)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusOK, code)
}
