package heartbeatengine

import (
	"context"
	"sync"
	"time"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/core/services/node"
)

type HeartbeatEngine struct {
	interval time.Duration
	nodeSvc  node.INodeService
	logger   primary.Logger
	wg       sync.WaitGroup
}

func NewHeartbeatEngine(interval time.Duration, nodeSvc node.INodeService, logger primary.Logger) *HeartbeatEngine {
	return &HeartbeatEngine{
		interval: interval,
		nodeSvc:  nodeSvc,
		logger:   logger,
	}
}

// Start registers the node and keeps the registration fresh until ctx is done
func (e *HeartbeatEngine) Start(ctx context.Context) error {
	if err := e.nodeSvc.Register(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(e.interval)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := e.nodeSvc.Heartbeat(ctx); err != nil {
					e.logger.Error("Failed to send heartbeat", "error", err)
				}
			}
		}
	}()
	return nil
}

// Stop waits for the heartbeat loop to exit and removes the registration
func (e *HeartbeatEngine) Stop(ctx context.Context) {
	e.wg.Wait()
	if err := e.nodeSvc.Deregister(ctx); err != nil {
		e.logger.Error("Failed to deregister node", "error", err)
	}
}
