// Package protocol defines the wire contract shared by the gstc client and
// the pipeline daemon: the command verbs, the status codes and the JSON
// response envelope.
//
// A request is a single text line `VERB arg1 arg2 ...` terminated by '\n'.
// The last argument of description-valued verbs may contain spaces. The
// daemon answers with a single JSON line:
//
//	{"code": 0, "description": "Success", "response": null}
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Verbs understood by the daemon. The set is closed: each verb maps to
// exactly one client method and one daemon handler.
const (
	VerbPipelineCreate   = "pipeline_create"
	VerbPipelineDelete   = "pipeline_delete"
	VerbPipelinePlay     = "pipeline_play"
	VerbPipelinePause    = "pipeline_pause"
	VerbPipelineStop     = "pipeline_stop"
	VerbPipelineGetState = "pipeline_get_state"
	VerbListPipelines    = "list_pipelines"
	VerbElementGet       = "element_get"
	VerbElementSet       = "element_set"
	VerbBusRead          = "bus_read"
	VerbBusFilter        = "bus_filter"
	VerbBusTimeout       = "bus_timeout"
	VerbEventEOS         = "event_eos"
	VerbEventSeek        = "event_seek"
	VerbEventFlushStart  = "event_flush_start"
	VerbEventFlushStop   = "event_flush_stop"
	VerbDebugEnable      = "debug_enable"
	VerbDebugThreshold   = "debug_threshold"
	VerbDebugColor       = "debug_color"
	VerbDebugReset       = "debug_reset"
)

// Status is the normalized result code of a control command. Zero means the
// command took effect; any other value means it did not and the remote state
// is unchanged.
type Status int

const (
	StatusOK Status = iota
	StatusNullArgument
	StatusBadDescription
	StatusExistingName
	StatusMissingInitialization
	StatusNoPipeline
	StatusNoResource
	StatusExistingResource
	StatusBadCommand
	StatusNoConnection
	StatusBadValue
	StatusStateError
	StatusIPCError
	StatusEventError
	StatusMissingArgument
	StatusMissingName
)

var statusDescriptions = map[Status]string{
	StatusOK:                    "Success",
	StatusNullArgument:          "Required argument is NULL",
	StatusBadDescription:        "Bad pipeline description",
	StatusExistingName:          "Name already exists",
	StatusMissingInitialization: "Missing initialization",
	StatusNoPipeline:            "Pipeline requested doesn't exist",
	StatusNoResource:            "Resource requested doesn't exist",
	StatusExistingResource:      "Resource already exists",
	StatusBadCommand:            "Unknown command",
	StatusNoConnection:          "Could not connect to the daemon",
	StatusBadValue:              "Bad value",
	StatusStateError:            "State error",
	StatusIPCError:              "IPC error",
	StatusEventError:            "Event error",
	StatusMissingArgument:       "Missing argument",
	StatusMissingName:           "Missing name",
}

// Description returns the human readable text the daemon reports for s.
func (s Status) Description() string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return fmt.Sprintf("Unknown code %d", int(s))
}

func (s Status) String() string {
	return fmt.Sprintf("%d (%s)", int(s), s.Description())
}

// Pipeline states reported by pipeline_get_state and list_pipelines.
const (
	StateNull    = "NULL"
	StateReady   = "READY"
	StatePaused  = "PAUSED"
	StatePlaying = "PLAYING"
)

// Response is the envelope the daemon writes for every request.
type Response struct {
	Code        Status          `json:"code"`
	Description string          `json:"description"`
	Response    json.RawMessage `json:"response"`
}

// NewResponse builds a response for code with an optional payload. A nil
// payload is encoded as JSON null. Payload marshalling failures degrade to a
// null payload rather than dropping the status code.
func NewResponse(code Status, payload interface{}) *Response {
	r := &Response{Code: code, Description: code.Description()}
	if payload == nil {
		r.Response = json.RawMessage("null")
		return r
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		r.Response = json.RawMessage("null")
		return r
	}
	r.Response = raw
	return r
}

// PipelineInfo is the list_pipelines / pipeline_get_state payload.
type PipelineInfo struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	State       string `json:"state"`
	Description string `json:"description,omitempty"`
}

// PropertyValue is the element_get payload.
type PropertyValue struct {
	Pipeline string `json:"pipeline"`
	Element  string `json:"element"`
	Property string `json:"property"`
	Value    string `json:"value"`
}

// BusMessage is a single message read from a pipeline bus.
type BusMessage struct {
	Type    string `json:"type"`
	Source  string `json:"source"`
	Seqnum  uint64 `json:"seqnum"`
	Message string `json:"message,omitempty"`
}

// EncodeRequest renders a request line for verb. Arguments are joined with
// single spaces; the caller is responsible for putting any space-containing
// argument last.
func EncodeRequest(verb string, args ...string) string {
	if len(args) == 0 {
		return verb + "\n"
	}
	return verb + " " + strings.Join(args, " ") + "\n"
}

// ParseResponse decodes one response line.
func ParseResponse(line []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(line, &r); err != nil {
		return nil, fmt.Errorf("malformed daemon response: %w", err)
	}
	return &r, nil
}
