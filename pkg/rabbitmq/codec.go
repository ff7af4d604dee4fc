package rabbitmq

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	model_msg "switch-collector/models/msg"
)

// Encrypter seals outgoing payloads before they are base64 encoded.
type Encrypter interface {
	EncryptViaPub(input []byte) ([]byte, error)
}

// DecodeBody parses an incoming "<header>|<base64 json>" body.
func DecodeBody(body []byte) (model_msg.Msg, error) {
	var msg model_msg.Msg
	splited := bytes.SplitN(body, []byte{'|'}, 2)
	if len(splited) < 2 {
		return msg, errors.New("message body has no payload separator")
	}
	decodedBytes, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(splited[1])))
	if err != nil {
		return msg, fmt.Errorf("unable to decode base64 data: %w", err)
	}
	if err := json.Unmarshal(decodedBytes, &msg); err != nil {
		return msg, fmt.Errorf("unable to parse json data: %w", err)
	}
	return msg, nil
}

// EncodeBody is the inverse of DecodeBody for messages this collector
// publishes. The header carries the slave id.
func EncodeBody(slaveID string, msg model_msg.Msg, enc Encrypter) ([]byte, error) {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("cannot be encoded in json format: %w", err)
	}
	if enc != nil {
		if jsonData, err = enc.EncryptViaPub(jsonData); err != nil {
			return nil, fmt.Errorf("cannot encrypt data: %w", err)
		}
	}
	return []byte("slave-" + slaveID + "|" + base64.StdEncoding.EncodeToString(jsonData)), nil
}
