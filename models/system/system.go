package system

import "time"

type Parame struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

type SystemInfo struct {
	SlaveID string    `json:"slave_id"`
	Parames []Parame  `json:"parames"`
	Time    time.Time `json:"time"`
}
