// Package client implements the control client for a pipeline-management
// daemon. The client is a stateless request translator: every method
// performs one synchronous request/response round trip and returns the
// daemon's status code plus a typed error classification. All pipeline
// state lives in the daemon.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emi-kkobayashi/gstd-1.x/internal/protocol"
)

// Client issues control commands against one daemon endpoint. It is safe
// for concurrent use; each call dials its own connection. The client never
// retries: a failed command surfaces to the caller and remote state is
// unchanged (transport failures excepted, where the outcome is unknown).
type Client struct {
	opts options
	log  *logrus.Logger
}

// New builds a client. Without options it targets tcp://127.0.0.1:5000
// with a 5s timeout at ERROR verbosity.
func New(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log, err := newLogger(o)
	if err != nil {
		return nil, err
	}
	return &Client{opts: o, log: log}, nil
}

// call performs one round trip. Transport problems are reported as
// StatusNoConnection with a *TransportError.
func (c *Client) call(ctx context.Context, verb string, args ...string) (*protocol.Response, protocol.Status, error) {
	dialer := net.Dialer{Timeout: c.opts.dialTimeout}
	conn, err := dialer.DialContext(ctx, c.opts.network, c.opts.address)
	if err != nil {
		c.log.WithError(err).WithField("verb", verb).Error("dial failed")
		return nil, protocol.StatusNoConnection, &TransportError{Op: verb, Err: err}
	}
	defer conn.Close()

	deadline := time.Now().Add(c.opts.dialTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, protocol.StatusNoConnection, &TransportError{Op: verb, Err: err}
	}

	req := protocol.EncodeRequest(verb, args...)
	c.log.WithField("verb", verb).Debug("sending command")
	if _, err := conn.Write([]byte(req)); err != nil {
		return nil, protocol.StatusNoConnection, &TransportError{Op: verb, Err: err}
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, protocol.StatusNoConnection, &TransportError{Op: verb, Err: err}
	}
	resp, err := protocol.ParseResponse(line)
	if err != nil {
		return nil, protocol.StatusIPCError, &TransportError{Op: verb, Err: err}
	}

	c.log.WithFields(logrus.Fields{
		"verb": verb,
		"code": int(resp.Code),
	}).Debug("command answered")
	return resp, resp.Code, nil
}

// exec runs a verb whose payload is ignored and classifies the result.
func (c *Client) exec(ctx context.Context, verb, subject string, args ...string) (protocol.Status, error) {
	_, code, err := c.call(ctx, verb, args...)
	if err != nil {
		return code, err
	}
	return code, statusError(verb, code, subject)
}

// PipelineCreate registers a new pipeline handle bound to a gst-launch
// style description. The description is opaque to the client; the daemon
// parses and validates it.
func (c *Client) PipelineCreate(ctx context.Context, name, description string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbPipelineCreate, name, name, description)
}

// PipelineDelete destroys the handle and every resource behind it.
func (c *Client) PipelineDelete(ctx context.Context, name string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbPipelineDelete, name, name)
}

// PipelinePlay transitions the pipeline to PLAYING.
func (c *Client) PipelinePlay(ctx context.Context, name string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbPipelinePlay, name, name)
}

// PipelinePause transitions the pipeline to PAUSED.
func (c *Client) PipelinePause(ctx context.Context, name string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbPipelinePause, name, name)
}

// PipelineStop transitions the pipeline to NULL without destroying the
// handle. Stopping an already stopped pipeline succeeds.
func (c *Client) PipelineStop(ctx context.Context, name string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbPipelineStop, name, name)
}

// PipelineGetState reports the pipeline's current state and description.
func (c *Client) PipelineGetState(ctx context.Context, name string) (*protocol.PipelineInfo, protocol.Status, error) {
	resp, code, err := c.call(ctx, protocol.VerbPipelineGetState, name)
	if err != nil {
		return nil, code, err
	}
	if err := statusError(protocol.VerbPipelineGetState, code, name); err != nil {
		return nil, code, err
	}
	var info protocol.PipelineInfo
	if err := json.Unmarshal(resp.Response, &info); err != nil {
		return nil, protocol.StatusIPCError, &TransportError{Op: protocol.VerbPipelineGetState, Err: err}
	}
	return &info, code, nil
}

// ListPipelines enumerates every live handle with its state.
func (c *Client) ListPipelines(ctx context.Context) ([]protocol.PipelineInfo, protocol.Status, error) {
	resp, code, err := c.call(ctx, protocol.VerbListPipelines)
	if err != nil {
		return nil, code, err
	}
	if err := statusError(protocol.VerbListPipelines, code, ""); err != nil {
		return nil, code, err
	}
	var infos []protocol.PipelineInfo
	if err := json.Unmarshal(resp.Response, &infos); err != nil {
		return nil, protocol.StatusIPCError, &TransportError{Op: protocol.VerbListPipelines, Err: err}
	}
	return infos, code, nil
}

// ElementGet reads a property of an element inside the pipeline graph.
func (c *Client) ElementGet(ctx context.Context, name, element, property string) (string, protocol.Status, error) {
	resp, code, err := c.call(ctx, protocol.VerbElementGet, name, element, property)
	if err != nil {
		return "", code, err
	}
	if err := statusError(protocol.VerbElementGet, code, name); err != nil {
		return "", code, err
	}
	var value protocol.PropertyValue
	if err := json.Unmarshal(resp.Response, &value); err != nil {
		return "", protocol.StatusIPCError, &TransportError{Op: protocol.VerbElementGet, Err: err}
	}
	return value.Value, code, nil
}

// ElementSet writes a property of an element inside the pipeline graph.
func (c *Client) ElementSet(ctx context.Context, name, element, property, value string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbElementSet, name, name, element, property, value)
}

// BusRead pops the next bus message matching the configured filter, or nil
// when the daemon-side read timeout expires first.
func (c *Client) BusRead(ctx context.Context, name string) (*protocol.BusMessage, protocol.Status, error) {
	resp, code, err := c.call(ctx, protocol.VerbBusRead, name)
	if err != nil {
		return nil, code, err
	}
	if err := statusError(protocol.VerbBusRead, code, name); err != nil {
		return nil, code, err
	}
	if string(resp.Response) == "null" {
		return nil, code, nil
	}
	var msg protocol.BusMessage
	if err := json.Unmarshal(resp.Response, &msg); err != nil {
		return nil, protocol.StatusIPCError, &TransportError{Op: protocol.VerbBusRead, Err: err}
	}
	return &msg, code, nil
}

// BusFilter restricts BusRead to the given comma separated message types.
// An empty filter clears the restriction.
func (c *Client) BusFilter(ctx context.Context, name, filter string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbBusFilter, name, name, filter)
}

// BusTimeout sets how long a BusRead waits for a message. Zero makes reads
// non-blocking, negative waits forever.
func (c *Client) BusTimeout(ctx context.Context, name string, timeout time.Duration) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbBusTimeout, name, name, strconv.FormatInt(int64(timeout), 10))
}

// EventEOS posts an end-of-stream event to the pipeline.
func (c *Client) EventEOS(ctx context.Context, name string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbEventEOS, name, name)
}

// EventSeek repositions the stream. Rate scales playback speed; start is
// the new stream position.
func (c *Client) EventSeek(ctx context.Context, name string, rate float64, start time.Duration) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbEventSeek, name,
		name,
		strconv.FormatFloat(rate, 'f', -1, 64),
		strconv.FormatInt(int64(start), 10))
}

// EventFlushStart tells the pipeline to start discarding in-flight data.
func (c *Client) EventFlushStart(ctx context.Context, name string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbEventFlushStart, name, name)
}

// EventFlushStop ends flushing: buffered in-flight data is discarded and,
// when reset is true, the stream position is rewound. The play/pause state
// is not altered. Whether the event is meaningful in the pipeline's current
// state is the daemon's decision; the client does not pre-validate.
func (c *Client) EventFlushStop(ctx context.Context, name string, reset bool) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbEventFlushStop, name, name, strconv.FormatBool(reset))
}

// DebugEnable toggles daemon-side debug logging.
func (c *Client) DebugEnable(ctx context.Context, enable bool) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbDebugEnable, "", strconv.FormatBool(enable))
}

// DebugThreshold sets the daemon-side debug threshold string.
func (c *Client) DebugThreshold(ctx context.Context, threshold string) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbDebugThreshold, "", threshold)
}

// DebugColor toggles color in the daemon debug output.
func (c *Client) DebugColor(ctx context.Context, enable bool) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbDebugColor, "", strconv.FormatBool(enable))
}

// DebugReset toggles resetting the threshold before applying a new one.
func (c *Client) DebugReset(ctx context.Context, enable bool) (protocol.Status, error) {
	return c.exec(ctx, protocol.VerbDebugReset, "", strconv.FormatBool(enable))
}
