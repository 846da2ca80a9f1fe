/*
Package rpc implements the stdio JSON-RPC surface of the adaptive loop.

External event sources (editor, terminal, voice front-ends) connect here:
they push interactions through "track" and drive tasks through "run". The
transport is newline-delimited JSON-RPC 2.0 over stdin/stdout.

Methods:
  - track        - record one interaction event
  - run          - plan, gate, and (when allowed) execute a task
  - plan         - plan and gate a task without executing
  - suggestions  - ephemeral suggestions for a user
  - insights     - stored insights for a user
  - insights/ack - acknowledge an insight
  - analyze      - force an analysis pass
  - stats        - metrics, model state, and capability statistics
  - status       - runtime settings and recorder queue depth
*/
package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/khanglvm/autopilot/internal/autopilot"
	"github.com/khanglvm/autopilot/internal/engine"
	"github.com/khanglvm/autopilot/internal/recorder"
	"github.com/khanglvm/autopilot/internal/storage"
)

// Server wires the loop's components behind the stdio transport.
type Server struct {
	store     storage.Store
	recorder  *recorder.Recorder
	engine    *engine.Engine
	suggester *engine.Suggester
	pilot     *autopilot.Autopilot

	in  io.Reader
	out io.Writer
}

// NewServer creates a server over the given transport streams.
func NewServer(store storage.Store, rec *recorder.Recorder, eng *engine.Engine, sug *engine.Suggester, pilot *autopilot.Autopilot, in io.Reader, out io.Writer) *Server {
	return &Server{
		store:     store,
		recorder:  rec,
		engine:    eng,
		suggester: sug,
		pilot:     pilot,
		in:        in,
		out:       out,
	}
}

// Request represents an incoming JSON-RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents an outgoing JSON-RPC response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents a JSON-RPC error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON-RPC error codes used by the server.
const (
	codeParse          = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
)

// Run serves requests until the input stream closes.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp := s.Handle(ctx, scanner.Bytes())
		if resp != nil {
			s.send(resp)
		}
	}

	return scanner.Err()
}

// Handle processes one raw request and returns the response.
func (s *Server) Handle(ctx context.Context, data []byte) *Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return &Response{
			JSONRPC: "2.0",
			Error:   &Error{Code: codeParse, Message: fmt.Sprintf("invalid request: %v", err)},
		}
	}

	result, rpcErr := s.dispatch(ctx, &req)
	resp := &Response{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	return resp
}

func (s *Server) dispatch(ctx context.Context, req *Request) (interface{}, *Error) {
	switch req.Method {
	case "track":
		return s.handleTrack(req.Params)
	case "run":
		return s.handleRun(ctx, req.Params)
	case "plan":
		return s.handlePlan(req.Params)
	case "suggestions":
		return s.handleSuggestions(req.Params)
	case "insights":
		return s.handleInsights(req.Params)
	case "insights/ack":
		return s.handleInsightAck(req.Params)
	case "analyze":
		return s.handleAnalyze(req.Params)
	case "stats":
		return s.handleStats()
	case "status":
		return s.handleStatus()
	default:
		return nil, &Error{Code: codeMethodNotFound, Message: "Method not found"}
	}
}

// trackParams is the payload of a track request.
type trackParams struct {
	UserID string            `json:"user_id"`
	Type   string            `json:"type"`
	AppID  string            `json:"app_id,omitempty"`
	Data   map[string]string `json:"data,omitempty"`
}

func (s *Server) handleTrack(raw json.RawMessage) (interface{}, *Error) {
	var p trackParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Code: codeInvalidParams, Message: err.Error()}
	}
	if p.UserID == "" {
		return nil, &Error{Code: codeInvalidParams, Message: "user_id is required"}
	}

	switch storage.InteractionType(p.Type) {
	case storage.InteractionAppOpen:
		s.recorder.TrackAppOpen(p.UserID, p.AppID)
	case storage.InteractionAppClose:
		s.recorder.TrackAppClose(p.UserID, p.AppID)
	case storage.InteractionWindowMove:
		s.recorder.TrackWindowMove(p.UserID, p.AppID, atoi(p.Data["x"]), atoi(p.Data["y"]))
	case storage.InteractionWindowResize:
		s.recorder.TrackWindowResize(p.UserID, p.AppID, atoi(p.Data["width"]), atoi(p.Data["height"]))
	case storage.InteractionAIQuery:
		s.recorder.TrackAIQuery(p.UserID, p.Data["query"])
	case storage.InteractionCommand:
		s.recorder.TrackCommand(p.UserID, p.Data["command"])
	case storage.InteractionError:
		s.recorder.TrackError(p.UserID, p.Data["error"])
	case storage.InteractionSuccess:
		s.recorder.TrackSuccess(p.UserID, p.Data["action"])
	default:
		return nil, &Error{Code: codeInvalidParams, Message: fmt.Sprintf("unknown interaction type %q", p.Type)}
	}

	return map[string]bool{"tracked": true}, nil
}

// runParams is the payload of run and plan requests.
type runParams struct {
	UserID      string `json:"user_id"`
	Description string `json:"description"`
}

func (s *Server) handleRun(ctx context.Context, raw json.RawMessage) (interface{}, *Error) {
	var p runParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Code: codeInvalidParams, Message: err.Error()}
	}
	if p.Description == "" {
		return nil, &Error{Code: codeInvalidParams, Message: "description is required"}
	}
	if p.UserID == "" {
		p.UserID = "default"
	}

	// A step failure surfaces on the task itself, not as an RPC error.
	task, decision, _ := s.pilot.Run(ctx, p.UserID, p.Description)

	return map[string]interface{}{"task": task, "decision": decision}, nil
}

func (s *Server) handlePlan(raw json.RawMessage) (interface{}, *Error) {
	var p runParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Code: codeInvalidParams, Message: err.Error()}
	}
	if p.Description == "" {
		return nil, &Error{Code: codeInvalidParams, Message: "description is required"}
	}

	task, decision, err := s.pilot.PlanTask(p.Description)
	if err != nil {
		return nil, &Error{Code: codeInternal, Message: err.Error()}
	}

	return map[string]interface{}{"task": task, "decision": decision}, nil
}

// userParams is the payload of per-user queries.
type userParams struct {
	UserID string `json:"user_id"`
	Limit  int    `json:"limit,omitempty"`
}

func (s *Server) handleSuggestions(raw json.RawMessage) (interface{}, *Error) {
	var p userParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Code: codeInvalidParams, Message: err.Error()}
	}

	suggestions, err := s.suggester.Suggest(p.UserID)
	if err != nil {
		return nil, &Error{Code: codeInternal, Message: err.Error()}
	}
	return map[string]interface{}{"suggestions": suggestions}, nil
}

func (s *Server) handleInsights(raw json.RawMessage) (interface{}, *Error) {
	var p userParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Code: codeInvalidParams, Message: err.Error()}
	}

	insights, err := s.store.GetInsights(p.UserID, p.Limit)
	if err != nil {
		return nil, &Error{Code: codeInternal, Message: err.Error()}
	}
	return map[string]interface{}{"insights": insights}, nil
}

// ackParams is the payload of an insight acknowledgment.
type ackParams struct {
	ID string `json:"id"`
}

func (s *Server) handleInsightAck(raw json.RawMessage) (interface{}, *Error) {
	var p ackParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Code: codeInvalidParams, Message: err.Error()}
	}
	if p.ID == "" {
		return nil, &Error{Code: codeInvalidParams, Message: "id is required"}
	}

	if err := s.store.AcknowledgeInsight(p.ID, time.Now()); err != nil {
		return nil, &Error{Code: codeInternal, Message: err.Error()}
	}
	return map[string]bool{"acknowledged": true}, nil
}

func (s *Server) handleAnalyze(raw json.RawMessage) (interface{}, *Error) {
	var p userParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &Error{Code: codeInvalidParams, Message: err.Error()}
	}

	result, err := s.engine.Analyze(p.UserID)
	if err != nil {
		return nil, &Error{Code: codeInternal, Message: err.Error()}
	}
	return map[string]interface{}{
		"pattern":  result.Pattern,
		"insights": result.Insights,
	}, nil
}

func (s *Server) handleStats() (interface{}, *Error) {
	metrics, err := s.store.GetMetrics()
	if err != nil {
		return nil, &Error{Code: codeInternal, Message: err.Error()}
	}
	state, err := s.store.GetModelState()
	if err != nil {
		return nil, &Error{Code: codeInternal, Message: err.Error()}
	}

	return map[string]interface{}{
		"metrics":      metrics,
		"model_state":  state,
		"capabilities": s.pilot.Registry().List(),
	}, nil
}

func (s *Server) handleStatus() (interface{}, *Error) {
	return map[string]interface{}{
		"settings":    s.pilot.Settings(),
		"queue_depth": s.recorder.QueueDepth(),
		"tracking":    s.recorder.IsEnabled(),
	}, nil
}

// send writes one response line.
func (s *Server) send(resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	s.out.Write(data)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
