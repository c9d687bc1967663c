package node

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/executor/internal/domain"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

var _ INodeService = &NodeService{}

// LoadReporter exposes the in-flight and maximum number of submissions
type LoadReporter interface {
	InFlight() int
	Capacity() int
}

// NodeService implements the INodeService interface
type NodeService struct {
	nodeRepo          secondary.NodeRepository
	load              LoadReporter
	logger            primary.Logger
	nodeID            string
	version           string
	heartbeatInterval time.Duration
	now               func() time.Time
}

// NewNodeService creates a new node registration service
func NewNodeService(
	nodeRepo secondary.NodeRepository,
	load LoadReporter,
	nodeID, version string,
	heartbeatInterval time.Duration,
	logger primary.Logger,
) *NodeService {
	return &NodeService{
		nodeRepo:          nodeRepo,
		load:              load,
		logger:            logger,
		nodeID:            nodeID,
		version:           version,
		heartbeatInterval: heartbeatInterval,
		now:               time.Now,
	}
}

// Register publishes this node
func (s *NodeService) Register(ctx context.Context) error {
	s.logger.Info("Registering node", "nodeId", s.nodeID, "capacity", s.load.Capacity())

	if err := s.nodeRepo.SaveNode(ctx, s.snapshot()); err != nil {
		s.logger.Error("Failed to save node", "error", err)
		return fmt.Errorf("failed to register node: %w", err)
	}

	return nil
}

// Heartbeat updates the node's registration with its current load
func (s *NodeService) Heartbeat(ctx context.Context) error {
	s.logger.Debug("Sending node heartbeat", "nodeId", s.nodeID, "load", s.load.InFlight())

	existing, err := s.nodeRepo.GetNode(ctx, s.nodeID)
	if err != nil {
		return fmt.Errorf("failed to get node: %w", err)
	}
	if existing == nil {
		// Registration expired (e.g. registry restart); re-register transparently
		s.logger.Warn("Node registration missing, re-registering", "nodeId", s.nodeID)
	}

	if err := s.nodeRepo.SaveNode(ctx, s.snapshot()); err != nil {
		s.logger.Error("Failed to update node heartbeat", "nodeId", s.nodeID, "error", err)
		return fmt.Errorf("failed to update node heartbeat: %w", err)
	}

	return nil
}

// Deregister removes this node from the registry
func (s *NodeService) Deregister(ctx context.Context) error {
	s.logger.Info("Deregistering node", "nodeId", s.nodeID)

	if err := s.nodeRepo.RemoveNode(ctx, s.nodeID); err != nil {
		return fmt.Errorf("failed to deregister node: %w", err)
	}
	return nil
}

// GetAllNodes gets every registered node annotated with its liveness
func (s *NodeService) GetAllNodes(ctx context.Context) ([]*domain.NodeInfo, error) {
	nodes, err := s.nodeRepo.GetAllNodes(ctx)
	if err != nil {
		s.logger.Error("Failed to get all nodes", "error", err)
		return nil, fmt.Errorf("failed to get all nodes: %w", err)
	}

	heartbeatThreshold := s.now().Add(-2 * s.heartbeatInterval)
	for _, node := range nodes {
		node.IsActive = node.LastHeartbeat.After(heartbeatThreshold)
	}

	return nodes, nil
}

// GetNode returns a single node or errs.ErrNodeNotFound
func (s *NodeService) GetNode(ctx context.Context, nodeID string) (*domain.NodeInfo, error) {
	node, err := s.nodeRepo.GetNode(ctx, nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get node: %w", err)
	}
	if node == nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrNodeNotFound, nodeID)
	}
	return node, nil
}

func (s *NodeService) snapshot() *domain.NodeInfo {
	host, _ := os.Hostname()
	return &domain.NodeInfo{
		ID:            s.nodeID,
		Capacity:      s.load.Capacity(),
		CurrentLoad:   s.load.InFlight(),
		LastHeartbeat: s.now(),
		Host:          host,
		OS:            runtime.GOOS,
		Version:       s.version,
		IsActive:      true,
	}
}
