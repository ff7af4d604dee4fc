package services

import (
	"context"

	model_ns "switch-collector/models/network_switch"
	"switch-collector/pkg/collector"
)

// ICollector is what the queue front-end needs from the engine.
type ICollector interface {
	Collect(ctx context.Context, address string, creds collector.Credentials) (model_ns.NetworkSwitch, model_ns.Source, error)
	Delete(ctx context.Context, address string) error
	List(ctx context.Context) ([]model_ns.Summary, error)
}

var _ ICollector = (*collector.Collector)(nil)

var localCollector ICollector

func Collector() ICollector {
	if localCollector == nil {
		panic("impl not found for ICollector")
	}
	return localCollector
}

func RegisterCollector(i ICollector) {
	localCollector = i
}
