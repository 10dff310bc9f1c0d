package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles workflow persistence in PostgreSQL. Node and edge
// lists are stored as JSONB so the definition round-trips exactly as the
// editor produced it.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// InitSchema creates the workflows table if it does not exist.
func (r *Repository) InitSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS workflows (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			nodes      JSONB NOT NULL DEFAULT '[]',
			edges      JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Seed inserts the sample price-alert swap workflow if it does not
// already exist.
func (r *Repository) Seed(ctx context.Context) error {
	nodesJSON, err := json.Marshal(sampleNodes)
	if err != nil {
		return fmt.Errorf("marshal seed nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(sampleEdges)
	if err != nil {
		return fmt.Errorf("marshal seed edges: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO workflows (id, name, nodes, edges)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, sampleWorkflowID, "SOL Price Alert Swap", nodesJSON, edgesJSON)
	if err != nil {
		return fmt.Errorf("seed workflow: %w", err)
	}
	return nil
}

// Get retrieves a workflow by ID. Returns nil, nil if not found.
func (r *Repository) Get(ctx context.Context, id string) (*Workflow, error) {
	var wf Workflow
	var nodesJSON, edgesJSON []byte

	err := r.db.QueryRow(ctx, `
		SELECT id, name, nodes, edges, created_at, updated_at
		FROM workflows WHERE id = $1
	`, id).Scan(&wf.ID, &wf.Name, &nodesJSON, &edgesJSON, &wf.CreatedAt, &wf.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}

	// Lenient decode: damaged JSONB degrades to empty collections.
	if err := json.Unmarshal(nodesJSON, &wf.Nodes); err != nil || wf.Nodes == nil {
		wf.Nodes = []Node{}
	}
	if err := json.Unmarshal(edgesJSON, &wf.Edges); err != nil || wf.Edges == nil {
		wf.Edges = []Edge{}
	}
	return &wf, nil
}

// Create inserts a new workflow with the given name and definition and
// returns its generated id.
func (r *Repository) Create(ctx context.Context, name string, def Definition) (string, error) {
	nodesJSON, err := json.Marshal(def.Nodes)
	if err != nil {
		return "", fmt.Errorf("marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(def.Edges)
	if err != nil {
		return "", fmt.Errorf("marshal edges: %w", err)
	}

	id := uuid.New().String()
	_, err = r.db.Exec(ctx, `
		INSERT INTO workflows (id, name, nodes, edges)
		VALUES ($1, $2, $3, $4)
	`, id, name, nodesJSON, edgesJSON)
	if err != nil {
		return "", fmt.Errorf("create workflow: %w", err)
	}
	return id, nil
}

// SaveDefinition replaces the stored node/edge lists for a workflow.
// Returns false if the workflow does not exist.
func (r *Repository) SaveDefinition(ctx context.Context, id string, def Definition) (bool, error) {
	nodesJSON, err := json.Marshal(def.Nodes)
	if err != nil {
		return false, fmt.Errorf("marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(def.Edges)
	if err != nil {
		return false, fmt.Errorf("marshal edges: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE workflows
		SET nodes = $2, edges = $3, updated_at = NOW()
		WHERE id = $1
	`, id, nodesJSON, edgesJSON)
	if err != nil {
		return false, fmt.Errorf("save definition: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InitDB creates the schema and seeds initial data. Called from main on startup.
func InitDB(ctx context.Context, pool *pgxpool.Pool) error {
	repo := NewRepository(pool)
	if err := repo.InitSchema(ctx); err != nil {
		return err
	}
	return repo.Seed(ctx)
}

const sampleWorkflowID = "7b2e6c1a-4f0d-4c53-9a8e-2d5b1f7e3c90"

var sampleNodes = []Node{
	{
		ID: "node-timer", Type: "timer_trigger",
		Position: Position{X: 120, Y: 40},
		Data: NodeData{
			Label: "Every 10 Minutes",
			Config: map[string]any{
				"intervalSeconds": 600,
			},
		},
	},
	{
		ID: "node-price", Type: "price_lookup",
		Position: Position{X: 120, Y: 220},
		Data: NodeData{
			Label: "SOL/USDC Price",
			Config: map[string]any{
				"token": "SOL",
				"vs":    "USDC",
			},
		},
	},
	{
		ID: "node-branch", Type: "branch",
		Position: Position{X: 120, Y: 400},
		Data: NodeData{
			Label: "Price Below Target?",
			Config: map[string]any{
				"left":     "{{nodes.node-price.output.price}}",
				"operator": "less_than",
				"right":    120,
			},
		},
	},
	{
		ID: "node-swap", Type: "jupiter_swap",
		Position: Position{X: -60, Y: 580},
		Data: NodeData{
			Label: "Buy SOL",
			Config: map[string]any{
				"inputMint":   "USDC",
				"outputMint":  "SOL",
				"amount":      250,
				"slippageBps": 50,
			},
		},
	},
	{
		ID: "node-notify", Type: "notification",
		Position: Position{X: -60, Y: 760},
		Data: NodeData{
			Label: "Notify Swap",
			Config: map[string]any{
				"channel": "telegram",
				"message": "Bought SOL at {{nodes.node-price.output.price}}, tx {{nodes.node-swap.output.signature}}",
			},
		},
	},
}

var sampleEdges = []Edge{
	{ID: "edge-timer-price", Source: "node-timer", Target: "node-price", Type: "smoothstep", Animated: true},
	{ID: "edge-price-branch", Source: "node-price", Target: "node-branch", Type: "smoothstep", Animated: true},
	{ID: "edge-branch-swap", Source: "node-branch", Target: "node-swap", Type: "smoothstep", Label: "true"},
	{ID: "edge-swap-notify", Source: "node-swap", Target: "node-notify", Type: "smoothstep"},
}
