package module

import (
	"encoding/json"
	"io"
)

// Result is the host-protocol payload written to stdout: a success result
// carries changed and meta, a failure carries failed and msg. Nothing else
// may be written to stdout during an invocation.
type Result struct {
	Changed bool                   `json:"changed"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
	Failed  bool                   `json:"failed,omitempty"`
	Msg     string                 `json:"msg,omitempty"`
}

// ExitJSON reports a successful invocation.
func ExitJSON(w io.Writer, changed bool, meta map[string]interface{}) error {
	return writeResult(w, &Result{Changed: changed, Meta: meta})
}

// FailJSON reports a failed invocation.
func FailJSON(w io.Writer, err error) error {
	return writeResult(w, &Result{Failed: true, Msg: err.Error()})
}

func writeResult(w io.Writer, result *Result) error {
	return json.NewEncoder(w).Encode(result)
}
