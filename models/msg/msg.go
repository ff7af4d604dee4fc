package msg

import "encoding/json"

const (
	TypeSwitch = "switch"
	TypeDelete = "delete"
	TypeList   = "list"
	TypeSystem = "system"
)

type Msg struct {
	Type     string `json:"type"`
	Time     int64  `json:"time"`
	TryTimes int8   `json:"try_times"`
	Data     string `json:"data"`
}

// CollectRequest is the data of a "switch" or "delete" message.
type CollectRequest struct {
	IP        string `json:"ip"`
	Community string `json:"community"`
	Version   string `json:"version"`
	Port      int    `json:"port"`
}

// Reply is the data of a message published back on the return queue.
type Reply struct {
	IP       string          `json:"ip,omitempty"`
	Source   string          `json:"source,omitempty"`
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
	Error    string          `json:"error,omitempty"`
	Kind     string          `json:"kind,omitempty"`
}
