package node

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gitlab.com/fcv-2025.net/executor/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/executor/internal/domain"
	"gitlab.com/fcv-2025.net/executor/internal/static/errs"
)

type memoryNodeRepo struct {
	mu      sync.Mutex
	nodes   map[string]domain.NodeInfo
	saveErr error
	saves   int
}

func newMemoryNodeRepo() *memoryNodeRepo {
	return &memoryNodeRepo{nodes: make(map[string]domain.NodeInfo)}
}

func (r *memoryNodeRepo) SaveNode(ctx context.Context, node *domain.NodeInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.nodes[node.ID] = *node
	return nil
}

func (r *memoryNodeRepo) GetNode(ctx context.Context, nodeID string) (*domain.NodeInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	node, ok := r.nodes[nodeID]
	if !ok {
		return nil, nil
	}
	return &node, nil
}

func (r *memoryNodeRepo) GetAllNodes(ctx context.Context) ([]*domain.NodeInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	nodes := make([]*domain.NodeInfo, 0, len(r.nodes))
	for _, node := range r.nodes {
		node := node
		nodes = append(nodes, &node)
	}
	return nodes, nil
}

func (r *memoryNodeRepo) RemoveNode(ctx context.Context, nodeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.nodes, nodeID)
	return nil
}

type staticLoad struct {
	inFlight, capacity int
}

func (l staticLoad) InFlight() int { return l.inFlight }
func (l staticLoad) Capacity() int { return l.capacity }

func newTestNodeService(repo *memoryNodeRepo) *NodeService {
	return NewNodeService(repo, staticLoad{inFlight: 1, capacity: 4}, "node-a", "v1", 30*time.Second, logging.NewNopLogger())
}

func TestRegisterPublishesSnapshot(t *testing.T) {
	repo := newMemoryNodeRepo()
	service := newTestNodeService(repo)

	if err := service.Register(context.Background()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	node := repo.nodes["node-a"]
	if node.Capacity != 4 || node.CurrentLoad != 1 || node.Version != "v1" || !node.IsActive || node.OS == "" {
		t.Fatalf("unexpected snapshot: %+v", node)
	}
}

func TestRegisterPropagatesRepositoryError(t *testing.T) {
	repo := newMemoryNodeRepo()
	repo.saveErr = errors.New("connection refused")

	if err := newTestNodeService(repo).Register(context.Background()); err == nil {
		t.Fatal("expected register to fail")
	}
}

func TestHeartbeatReRegistersMissingNode(t *testing.T) {
	repo := newMemoryNodeRepo()
	service := newTestNodeService(repo)

	if err := service.Heartbeat(context.Background()); err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}
	if _, ok := repo.nodes["node-a"]; !ok {
		t.Fatal("heartbeat did not restore the registration")
	}
}

func TestHeartbeatRefreshesTimestamp(t *testing.T) {
	repo := newMemoryNodeRepo()
	service := newTestNodeService(repo)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	if err := service.Register(context.Background()); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	now = now.Add(time.Minute)
	if err := service.Heartbeat(context.Background()); err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}

	if got := repo.nodes["node-a"].LastHeartbeat; !got.Equal(now) {
		t.Fatalf("last heartbeat = %s, want %s", got, now)
	}
}

func TestGetAllNodesMarksStaleInactive(t *testing.T) {
	repo := newMemoryNodeRepo()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.nodes["fresh"] = domain.NodeInfo{ID: "fresh", LastHeartbeat: now.Add(-10 * time.Second)}
	repo.nodes["stale"] = domain.NodeInfo{ID: "stale", LastHeartbeat: now.Add(-5 * time.Minute), IsActive: true}
	service := newTestNodeService(repo)
	service.now = func() time.Time { return now }

	nodes, err := service.GetAllNodes(context.Background())
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	for _, node := range nodes {
		if want := node.ID == "fresh"; node.IsActive != want {
			t.Fatalf("node %s active = %v, want %v", node.ID, node.IsActive, want)
		}
	}
}

func TestGetNodeNotFound(t *testing.T) {
	service := newTestNodeService(newMemoryNodeRepo())

	if _, err := service.GetNode(context.Background(), "ghost"); !errors.Is(err, errs.ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestDeregisterRemovesNode(t *testing.T) {
	repo := newMemoryNodeRepo()
	service := newTestNodeService(repo)
	if err := service.Register(context.Background()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := service.Deregister(context.Background()); err != nil {
		t.Fatalf("deregister failed: %v", err)
	}
	if len(repo.nodes) != 0 {
		t.Fatal("node still registered")
	}
}
