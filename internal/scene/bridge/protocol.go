package bridge

import "encoding/json"

// request is one protocol line sent to the engine bridge.
type request struct {
	ID   int64          `json:"id"`
	Op   string         `json:"op"`
	Args map[string]any `json:"args,omitempty"`
}

// response is one protocol line received from the engine bridge. Event lines
// carry no ID and are forwarded to the logger; everything else answers the
// single in-flight request.
type response struct {
	ID     int64           `json:"id,omitempty"`
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Event  string          `json:"event,omitempty"`
	Level  string          `json:"level,omitempty"`
	Msg    string          `json:"msg,omitempty"`
}
