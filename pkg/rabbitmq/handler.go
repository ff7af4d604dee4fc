package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	model_msg "switch-collector/models/msg"
	model_system "switch-collector/models/system"
	"switch-collector/pkg/collector"
	"switch-collector/pkg/logger"
	"switch-collector/pkg/network_switch"
	"switch-collector/pkg/system"
	"switch-collector/pkg/transport"
	"switch-collector/services"
)

const (
	KindInvalidAddress    = "invalid_address"
	KindDeviceUnreachable = "device_unreachable"
	KindTransportFault    = "transport_fault"
	KindBadRequest        = "bad_request"
	KindInternal          = "internal"
)

// Handler turns one request message into its reply.
type Handler struct {
	Collector services.ICollector
	SlaveID   string
	CacheDir  string
	Now       func() time.Time
	Log       zerolog.Logger

	// System builds the host report for "system" messages.
	System func(ctx context.Context, info *model_system.SystemInfo) error
}

func NewHandler(c services.ICollector, slaveID, cacheDir string) *Handler {
	h := &Handler{
		Collector: c,
		SlaveID:   slaveID,
		CacheDir:  cacheDir,
		Now:       time.Now,
		Log:       logger.WithComponent("rabbitmq"),
	}
	h.System = func(ctx context.Context, info *model_system.SystemInfo) error {
		return system.NewSystemCollector(info, h.CacheDir).Collect(ctx)
	}
	return h
}

// Handle returns the reply for msg; ok is false for message types that
// have no reply.
func (h *Handler) Handle(ctx context.Context, msg model_msg.Msg) (reply model_msg.Msg, ok bool) {
	var data interface{}

	switch msg.Type {
	case model_msg.TypeSwitch:
		data = h.collect(ctx, msg.Data)
	case model_msg.TypeDelete:
		data = h.delete(ctx, msg.Data)
	case model_msg.TypeList:
		data = h.list(ctx)
	case model_msg.TypeSystem:
		data = h.system(ctx)
	default:
		h.Log.Warn().Str("type", msg.Type).Msg("unknown message type")
		return reply, false
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		h.Log.Error().Err(err).Str("type", msg.Type).Msg("cannot encode reply")
		return reply, false
	}
	return model_msg.Msg{Type: msg.Type, Time: h.Now().Unix(), Data: string(jsonData)}, true
}

func (h *Handler) collect(ctx context.Context, data string) model_msg.Reply {
	var req model_msg.CollectRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return errorReply("", fmt.Errorf("switch request: %w", err))
	}

	ns, source, err := h.Collector.Collect(ctx, req.IP, collector.Credentials{
		Community: req.Community,
		Version:   req.Version,
		Port:      req.Port,
	})
	if err != nil {
		h.Log.Warn().Err(err).Str("ip", req.IP).Msg("collect failed")
		return errorReply(req.IP, err)
	}

	snapshot, err := json.Marshal(ns)
	if err != nil {
		return errorReply(req.IP, err)
	}
	ip, _ := collector.ValidateAddress(req.IP)
	return model_msg.Reply{IP: ip, Source: string(source), Snapshot: snapshot}
}

func (h *Handler) delete(ctx context.Context, data string) model_msg.Reply {
	var req model_msg.CollectRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return errorReply("", fmt.Errorf("delete request: %w", err))
	}
	if err := h.Collector.Delete(ctx, req.IP); err != nil {
		return errorReply(req.IP, err)
	}
	return model_msg.Reply{IP: req.IP}
}

type listReply struct {
	Devices interface{} `json:"devices,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) list(ctx context.Context) listReply {
	summaries, err := h.Collector.List(ctx)
	if err != nil {
		h.Log.Error().Err(err).Msg("list failed")
		return listReply{Error: err.Error()}
	}
	return listReply{Devices: summaries}
}

func (h *Handler) system(ctx context.Context) *model_system.SystemInfo {
	info := &model_system.SystemInfo{SlaveID: h.SlaveID}
	if err := h.System(ctx, info); err != nil {
		h.Log.Warn().Err(err).Msg("system report incomplete")
	}
	return info
}

func errorReply(ip string, err error) model_msg.Reply {
	return model_msg.Reply{IP: ip, Error: err.Error(), Kind: ErrorKind(err)}
}

// ErrorKind classifies a collect failure for the reply.
func ErrorKind(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, collector.ErrInvalidAddress):
		return KindInvalidAddress
	case errors.Is(err, network_switch.ErrDeviceUnreachable):
		return KindDeviceUnreachable
	case errors.Is(err, transport.ErrTransportFault):
		return KindTransportFault
	case errors.Is(err, collector.ErrUnsupportedVersion), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return KindBadRequest
	default:
		return KindInternal
	}
}
