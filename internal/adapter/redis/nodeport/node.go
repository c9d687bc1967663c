package nodeport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/fcv-2025.net/executor/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/executor/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/executor/internal/domain"
)

const (
	nodeKeyPrefix  = "executor:node:"
	nodeIndexKey   = "executor:nodes"
	nodeExpiration = 2 * time.Minute
)

var _ secondary.NodeRepository = (*NodeRepository)(nil)

// NodeRepository implements the NodeRepository interface with Redis
type NodeRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
	expiration  time.Duration
}

// NewNodeRepository creates a new Redis node repository
func NewNodeRepository(redisClient *redis.Client, logger primary.Logger) *NodeRepository {
	return &NodeRepository{
		redisClient: redisClient,
		logger:      logger,
		expiration:  nodeExpiration,
	}
}

// WithExpiration overrides how long a registration survives without a heartbeat
func (r *NodeRepository) WithExpiration(expiration time.Duration) *NodeRepository {
	r.expiration = expiration
	return r
}

// SaveNode saves node information to Redis
func (r *NodeRepository) SaveNode(ctx context.Context, node *domain.NodeInfo) error {
	nodeJSON, err := json.Marshal(node)
	if err != nil {
		r.logger.Error("Failed to marshal node info", "error", err)
		return fmt.Errorf("failed to marshal node info: %w", err)
	}

	_, err = r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, nodeKey(node.ID), nodeJSON, r.expiration)
		pipe.SAdd(ctx, nodeIndexKey, node.ID)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save node info", "nodeId", node.ID, "error", err)
		return fmt.Errorf("failed to save node info: %w", err)
	}

	return nil
}

// GetNode retrieves node information from Redis by ID; nil when absent or expired
func (r *NodeRepository) GetNode(ctx context.Context, nodeID string) (*domain.NodeInfo, error) {
	nodeJSON, err := r.redisClient.Get(ctx, nodeKey(nodeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		r.logger.Error("Failed to get node info", "nodeId", nodeID, "error", err)
		return nil, fmt.Errorf("failed to get node info: %w", err)
	}

	var node domain.NodeInfo
	if err := json.Unmarshal(nodeJSON, &node); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node info: %w", err)
	}

	return &node, nil
}

// GetAllNodes retrieves all live nodes and prunes expired ones from the index
func (r *NodeRepository) GetAllNodes(ctx context.Context) ([]*domain.NodeInfo, error) {
	nodeIDs, err := r.redisClient.SMembers(ctx, nodeIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get node IDs: %w", err)
	}

	nodes := make([]*domain.NodeInfo, 0, len(nodeIDs))
	if len(nodeIDs) == 0 {
		return nodes, nil
	}

	keys := make([]string, len(nodeIDs))
	for i, id := range nodeIDs {
		keys[i] = nodeKey(id)
	}

	nodeData, err := r.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve node data: %w", err)
	}

	for i, data := range nodeData {
		raw, ok := data.(string)
		if data == nil || !ok {
			// Registration expired, drop it from the index
			if err := r.redisClient.SRem(ctx, nodeIndexKey, nodeIDs[i]).Err(); err != nil {
				r.logger.Error("Failed to prune expired node", "nodeId", nodeIDs[i], "error", err)
			}
			continue
		}
		var node domain.NodeInfo
		if err := json.Unmarshal([]byte(raw), &node); err != nil {
			return nil, fmt.Errorf("failed to unmarshal node data: %w", err)
		}
		nodes = append(nodes, &node)
	}

	return nodes, nil
}

// RemoveNode deletes a node registration
func (r *NodeRepository) RemoveNode(ctx context.Context, nodeID string) error {
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, nodeKey(nodeID))
		pipe.SRem(ctx, nodeIndexKey, nodeID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove node: %w", err)
	}
	return nil
}

func nodeKey(nodeID string) string {
	return fmt.Sprintf("%s%s", nodeKeyPrefix, nodeID)
}
