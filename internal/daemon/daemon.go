// Package daemon implements a reference pipeline-control daemon speaking the
// gstc wire protocol. It is protocol-complete but carries no media engine:
// pipelines are control-plane records (graph, state, bus), not running
// element graphs. It backs the `gstc daemon` command and the test suite.
package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emi-kkobayashi/gstd-1.x/internal/protocol"
)

// maxLineBytes bounds a single request line. Pipeline descriptions are the
// only unbounded argument and rarely exceed a few hundred bytes.
const maxLineBytes = 1 << 20

// Config carries the daemon listen configuration.
type Config struct {
	// Network is "tcp" or "unix".
	Network string
	// Address is a host:port for tcp or a socket path for unix.
	Address string
	// MetricsAddress optionally exposes Prometheus metrics over HTTP.
	MetricsAddress string
	// Logger defaults to the standard logrus logger when nil.
	Logger *logrus.Logger
}

type debugSettings struct {
	mu        sync.Mutex
	enabled   bool
	threshold string
	color     bool
	reset     bool
}

// Server accepts client connections and serves control commands.
type Server struct {
	cfg     Config
	log     *logrus.Logger
	reg     *registry
	metrics *metrics
	debug   debugSettings

	handlers map[string]func(args string) *protocol.Response

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	msrv     *http.Server
	wg       sync.WaitGroup
	closed   bool
}

// New builds a server; call Start to begin listening.
func New(cfg Config) *Server {
	if cfg.Network == "" {
		cfg.Network = "tcp"
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		cfg:   cfg,
		log:   log,
		reg:   newRegistry(),
		conns: make(map[net.Conn]struct{}),
	}
	s.metrics = newMetrics(s.reg.count)
	s.handlers = map[string]func(string) *protocol.Response{
		protocol.VerbPipelineCreate:   s.handlePipelineCreate,
		protocol.VerbPipelineDelete:   s.handlePipelineDelete,
		protocol.VerbPipelinePlay:     s.stateHandler(protocol.StatePlaying),
		protocol.VerbPipelinePause:    s.stateHandler(protocol.StatePaused),
		protocol.VerbPipelineStop:     s.stateHandler(protocol.StateNull),
		protocol.VerbPipelineGetState: s.handlePipelineGetState,
		protocol.VerbListPipelines:    s.handleListPipelines,
		protocol.VerbElementGet:       s.handleElementGet,
		protocol.VerbElementSet:       s.handleElementSet,
		protocol.VerbBusRead:          s.handleBusRead,
		protocol.VerbBusFilter:        s.handleBusFilter,
		protocol.VerbBusTimeout:       s.handleBusTimeout,
		protocol.VerbEventEOS:         s.handleEventEOS,
		protocol.VerbEventSeek:        s.handleEventSeek,
		protocol.VerbEventFlushStart:  s.handleEventFlushStart,
		protocol.VerbEventFlushStop:   s.handleEventFlushStop,
		protocol.VerbDebugEnable:      s.handleDebugEnable,
		protocol.VerbDebugThreshold:   s.handleDebugThreshold,
		protocol.VerbDebugColor:       s.handleDebugColor,
		protocol.VerbDebugReset:       s.handleDebugReset,
	}
	return s
}

// Start begins accepting connections. It returns once the listeners are
// bound; serving happens on background goroutines.
func (s *Server) Start() error {
	ln, err := net.Listen(s.cfg.Network, s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s %s: %w", s.cfg.Network, s.cfg.Address, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	if s.cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.handler())
		msrv := &http.Server{Addr: s.cfg.MetricsAddress, Handler: mux}
		s.mu.Lock()
		s.msrv = msrv
		s.mu.Unlock()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := msrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.log.WithError(err).Error("metrics listener failed")
			}
		}()
	}

	s.log.WithFields(logrus.Fields{
		"network": s.cfg.Network,
		"address": ln.Addr().String(),
	}).Info("pipeline daemon listening")

	s.wg.Add(1)
	go s.acceptLoop(ln)
	return nil
}

// Addr reports the bound listen address, useful with ":0" listeners.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown closes the listeners and every open connection, then waits for
// the serving goroutines to drain or the context to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.listener != nil {
		s.listener.Close()
	}
	for c := range s.conns {
		c.Close()
	}
	msrv := s.msrv
	s.mu.Unlock()

	// Handlers parked in a blocking bus_read do not notice the closed
	// connection until they try to write; release them directly.
	s.reg.closeAll()

	if msrv != nil {
		_ = msrv.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				s.log.WithError(err).Error("accept failed")
			}
			return
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.metrics.connectionsTotal.Inc()
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxLineBytes)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		resp := s.dispatch(line)
		out, err := json.Marshal(resp)
		if err != nil {
			out, _ = json.Marshal(protocol.NewResponse(protocol.StatusIPCError, nil))
		}
		out = append(out, '\n')
		if _, err := conn.Write(out); err != nil {
			s.log.WithError(err).Debug("write failed, dropping connection")
			return
		}
	}
}

// dispatch routes one request line through the closed verb table.
func (s *Server) dispatch(line string) *protocol.Response {
	verb, args, _ := strings.Cut(line, " ")

	handler, ok := s.handlers[verb]
	var resp *protocol.Response
	metricVerb := verb
	if !ok {
		// One shared label keeps arbitrary client input from minting
		// unbounded metric series.
		metricVerb = "unknown"
		resp = protocol.NewResponse(protocol.StatusBadCommand, nil)
	} else {
		resp = handler(strings.TrimSpace(args))
	}

	s.metrics.commandsTotal.WithLabelValues(metricVerb, strconv.Itoa(int(resp.Code))).Inc()
	s.log.WithFields(logrus.Fields{
		"verb": verb,
		"code": int(resp.Code),
	}).Debug("command served")
	return resp
}

func (s *Server) handlePipelineCreate(args string) *protocol.Response {
	name, description, _ := strings.Cut(args, " ")
	if name == "" {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	code := s.reg.create(name, description)
	if code == protocol.StatusOK {
		s.log.WithField("pipeline", name).Info("pipeline created")
	}
	return protocol.NewResponse(code, nil)
}

func (s *Server) handlePipelineDelete(args string) *protocol.Response {
	if args == "" {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	code := s.reg.delete(args)
	if code == protocol.StatusOK {
		s.log.WithField("pipeline", args).Info("pipeline deleted")
	}
	return protocol.NewResponse(code, nil)
}

// stateHandler builds the play/pause/stop handlers, which differ only in
// their target state. Re-entering the current state succeeds, so stop and
// play are idempotent.
func (s *Server) stateHandler(state string) func(string) *protocol.Response {
	return func(args string) *protocol.Response {
		if args == "" {
			return protocol.NewResponse(protocol.StatusMissingName, nil)
		}
		return protocol.NewResponse(s.reg.setState(args, state), nil)
	}
}

func (s *Server) handlePipelineGetState(args string) *protocol.Response {
	if args == "" {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	info, code := s.reg.getState(args)
	if code != protocol.StatusOK {
		return protocol.NewResponse(code, nil)
	}
	return protocol.NewResponse(code, info)
}

func (s *Server) handleListPipelines(string) *protocol.Response {
	return protocol.NewResponse(protocol.StatusOK, s.reg.list())
}

func (s *Server) handleElementGet(args string) *protocol.Response {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return protocol.NewResponse(protocol.StatusMissingArgument, nil)
	}
	value, code := s.reg.elementGet(fields[0], fields[1], fields[2])
	if code != protocol.StatusOK {
		return protocol.NewResponse(code, nil)
	}
	return protocol.NewResponse(code, value)
}

func (s *Server) handleElementSet(args string) *protocol.Response {
	fields := strings.SplitN(args, " ", 4)
	if len(fields) != 4 {
		return protocol.NewResponse(protocol.StatusMissingArgument, nil)
	}
	code := s.reg.elementSet(fields[0], fields[1], fields[2], fields[3])
	return protocol.NewResponse(code, nil)
}

func (s *Server) handleBusRead(args string) *protocol.Response {
	if args == "" {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	b, code := s.reg.busFor(args)
	if code != protocol.StatusOK {
		return protocol.NewResponse(code, nil)
	}
	msg := b.read()
	if msg == nil {
		return protocol.NewResponse(protocol.StatusOK, nil)
	}
	return protocol.NewResponse(protocol.StatusOK, msg)
}

func (s *Server) handleBusFilter(args string) *protocol.Response {
	name, filter, _ := strings.Cut(args, " ")
	if name == "" {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	b, code := s.reg.busFor(name)
	if code != protocol.StatusOK {
		return protocol.NewResponse(code, nil)
	}
	var types []string
	for _, t := range strings.Split(filter, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	b.setFilter(types)
	return protocol.NewResponse(protocol.StatusOK, nil)
}

func (s *Server) handleBusTimeout(args string) *protocol.Response {
	name, raw, _ := strings.Cut(args, " ")
	if name == "" {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	b, code := s.reg.busFor(name)
	if code != protocol.StatusOK {
		return protocol.NewResponse(code, nil)
	}
	ns, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return protocol.NewResponse(protocol.StatusBadValue, nil)
	}
	b.setTimeout(time.Duration(ns))
	return protocol.NewResponse(protocol.StatusOK, nil)
}

func (s *Server) handleEventEOS(args string) *protocol.Response {
	if args == "" {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	return protocol.NewResponse(s.reg.eventEOS(args), nil)
}

func (s *Server) handleEventSeek(args string) *protocol.Response {
	fields := strings.Fields(args)
	if len(fields) < 1 {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	if len(fields) != 3 {
		return protocol.NewResponse(protocol.StatusMissingArgument, nil)
	}
	if _, err := strconv.ParseFloat(fields[1], 64); err != nil {
		return protocol.NewResponse(protocol.StatusBadValue, nil)
	}
	startNS, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return protocol.NewResponse(protocol.StatusBadValue, nil)
	}
	return protocol.NewResponse(s.reg.eventSeek(fields[0], time.Duration(startNS)), nil)
}

func (s *Server) handleEventFlushStart(args string) *protocol.Response {
	if args == "" {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	return protocol.NewResponse(s.reg.eventFlushStart(args), nil)
}

func (s *Server) handleEventFlushStop(args string) *protocol.Response {
	name, raw, _ := strings.Cut(args, " ")
	if name == "" {
		return protocol.NewResponse(protocol.StatusMissingName, nil)
	}
	reset := true
	if raw != "" {
		var err error
		reset, err = strconv.ParseBool(raw)
		if err != nil {
			return protocol.NewResponse(protocol.StatusBadValue, nil)
		}
	}
	return protocol.NewResponse(s.reg.eventFlushStop(name, reset), nil)
}

func (s *Server) handleDebugEnable(args string) *protocol.Response {
	v, err := strconv.ParseBool(args)
	if err != nil {
		return protocol.NewResponse(protocol.StatusBadValue, nil)
	}
	s.debug.mu.Lock()
	s.debug.enabled = v
	s.debug.mu.Unlock()
	s.log.WithField("enabled", v).Info("debug logging toggled")
	return protocol.NewResponse(protocol.StatusOK, nil)
}

func (s *Server) handleDebugThreshold(args string) *protocol.Response {
	if args == "" {
		return protocol.NewResponse(protocol.StatusMissingArgument, nil)
	}
	s.debug.mu.Lock()
	s.debug.threshold = args
	s.debug.mu.Unlock()
	s.log.WithField("threshold", args).Info("debug threshold updated")
	return protocol.NewResponse(protocol.StatusOK, nil)
}

func (s *Server) handleDebugColor(args string) *protocol.Response {
	v, err := strconv.ParseBool(args)
	if err != nil {
		return protocol.NewResponse(protocol.StatusBadValue, nil)
	}
	s.debug.mu.Lock()
	s.debug.color = v
	s.debug.mu.Unlock()
	return protocol.NewResponse(protocol.StatusOK, nil)
}

func (s *Server) handleDebugReset(args string) *protocol.Response {
	v, err := strconv.ParseBool(args)
	if err != nil {
		return protocol.NewResponse(protocol.StatusBadValue, nil)
	}
	s.debug.mu.Lock()
	s.debug.reset = v
	s.debug.mu.Unlock()
	return protocol.NewResponse(protocol.StatusOK, nil)
}
