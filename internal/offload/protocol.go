package offload

import (
	"encoding/json"
	"fmt"

	"github.com/colonyops/patchwork/internal/core/hunk"
)

// Kind names the computation a request asks the worker to run.
type Kind string

const (
	KindParseHunks         Kind = "parseHunks"
	KindApplySelectedHunks Kind = "applySelectedHunks"
)

// Outcome tells whether a response carries a result or an error.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Request is the envelope posted to the worker.
type Request struct {
	ID      int64           `json:"id"`
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Response is the envelope posted back by the worker.
type Response struct {
	ID      int64           `json:"id"`
	Outcome Outcome         `json:"outcome"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ParseRequest is the payload of a parseHunks request.
type ParseRequest struct {
	OldContent    string             `json:"oldContent"`
	NewContent    string             `json:"newContent"`
	Path          string             `json:"path"`
	OperationKind hunk.OperationKind `json:"operationKind"`
}

// ApplyRequest is the payload of an applySelectedHunks request.
type ApplyRequest struct {
	OldContent          string           `json:"oldContent"`
	ParsedHunks         hunk.ParsedHunks `json:"parsedHunks"`
	SelectedHunkIndices []int            `json:"selectedHunkIndices"`
}

// RequestError is the rejection of a request the worker answered with an
// error outcome.
type RequestError struct {
	Kind    Kind
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Handle runs a request on the calling goroutine and builds its response.
// Malformed payloads and unknown kinds produce an error outcome.
func Handle(req Request) Response {
	var (
		result any
		err    error
	)

	switch req.Kind {
	case KindParseHunks:
		var p ParseRequest
		if err = json.Unmarshal(req.Payload, &p); err == nil {
			result = hunk.Parse(p.OldContent, p.NewContent, p.Path, p.OperationKind)
		}
	case KindApplySelectedHunks:
		var p ApplyRequest
		if err = json.Unmarshal(req.Payload, &p); err == nil {
			result = hunk.Apply(p.OldContent, p.ParsedHunks, p.SelectedHunkIndices)
		}
	default:
		err = fmt.Errorf("unknown request kind %q", req.Kind)
	}

	if err != nil {
		return Response{ID: req.ID, Outcome: OutcomeError, Error: err.Error()}
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return Response{ID: req.ID, Outcome: OutcomeError, Error: fmt.Sprintf("encode result: %v", err)}
	}

	return Response{ID: req.ID, Outcome: OutcomeSuccess, Result: raw}
}
