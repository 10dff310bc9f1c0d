package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkflowID = "550e8400-e29b-41d4-a716-446655440000"

// stubRepo implements WorkflowRepo for testing without a database.
type stubRepo struct {
	workflow *Workflow
	saved    *Definition
	created  string
	err      error
}

func (r *stubRepo) Get(_ context.Context, _ string) (*Workflow, error) {
	return r.workflow, r.err
}

func (r *stubRepo) Create(_ context.Context, name string, def Definition) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.created = name
	r.saved = &def
	return testWorkflowID, nil
}

func (r *stubRepo) SaveDefinition(_ context.Context, _ string, def Definition) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.workflow == nil {
		return false, nil
	}
	r.saved = &def
	return true, nil
}

func testStoredWorkflow() *Workflow {
	def := testDefinition()
	return &Workflow{
		ID:    testWorkflowID,
		Name:  "Test Workflow",
		Nodes: def.Nodes,
		Edges: def.Edges,
	}
}

func setupRouter(repo WorkflowRepo) *mux.Router {
	svc := &Service{repo: repo}
	router := mux.NewRouter()
	svc.LoadRoutes(router.PathPrefix("/api/v1").Subrouter())
	return router
}

func TestHandleGetWorkflow_Success(t *testing.T) {
	router := setupRouter(&stubRepo{workflow: testStoredWorkflow()})

	req := httptest.NewRequest("GET", "/api/v1/workflows/"+testWorkflowID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result Workflow
	err := json.NewDecoder(w.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, testWorkflowID, result.ID)
	assert.Len(t, result.Nodes, 4)
	assert.Len(t, result.Edges, 3)
}

func TestHandleGetWorkflow_NotFound(t *testing.T) {
	router := setupRouter(&stubRepo{})

	req := httptest.NewRequest("GET", "/api/v1/workflows/00000000-0000-0000-0000-000000000000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var result map[string]string
	json.NewDecoder(w.Body).Decode(&result)
	assert.Equal(t, "workflow not found", result["message"])
}

func TestHandleGetWorkflow_InvalidID(t *testing.T) {
	router := setupRouter(&stubRepo{})

	req := httptest.NewRequest("GET", "/api/v1/workflows/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result map[string]string
	json.NewDecoder(w.Body).Decode(&result)
	assert.Equal(t, "invalid workflow id", result["message"])
}

func TestHandleCreateWorkflow_Success(t *testing.T) {
	repo := &stubRepo{}
	router := setupRouter(repo)

	body, _ := json.Marshal(map[string]any{
		"name":  "Price Alert",
		"nodes": testDefinition().Nodes,
		"edges": testDefinition().Edges,
	})

	req := httptest.NewRequest("POST", "/api/v1/workflows", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var result map[string]string
	json.NewDecoder(w.Body).Decode(&result)
	assert.Equal(t, testWorkflowID, result["id"])
	assert.Equal(t, "Price Alert", repo.created)
	require.NotNil(t, repo.saved)
	assert.Len(t, repo.saved.Nodes, 4)
}

func TestHandleCreateWorkflow_MissingName(t *testing.T) {
	router := setupRouter(&stubRepo{})

	req := httptest.NewRequest("POST", "/api/v1/workflows", bytes.NewReader([]byte(`{"nodes": []}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result map[string]string
	json.NewDecoder(w.Body).Decode(&result)
	assert.Contains(t, result["message"], "required")
}

func TestHandleCreateWorkflow_MalformedGraphDefaultsEmpty(t *testing.T) {
	repo := &stubRepo{}
	router := setupRouter(repo)

	req := httptest.NewRequest("POST", "/api/v1/workflows",
		bytes.NewReader([]byte(`{"name": "Broken", "nodes": "oops"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.saved)
	assert.Empty(t, repo.saved.Nodes)
	assert.Empty(t, repo.saved.Edges)
}

func TestHandleSaveDefinition_Success(t *testing.T) {
	repo := &stubRepo{workflow: testStoredWorkflow()}
	router := setupRouter(repo)

	def := testDefinition()
	def.Nodes = append(def.Nodes, Node{ID: "X", Type: "branch"})
	body, _ := json.Marshal(def)

	req := httptest.NewRequest("PATCH", "/api/v1/workflows/"+testWorkflowID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, repo.saved)
	assert.Len(t, repo.saved.Nodes, 5)
}

func TestHandleSaveDefinition_NotFound(t *testing.T) {
	router := setupRouter(&stubRepo{})

	req := httptest.NewRequest("PATCH", "/api/v1/workflows/"+testWorkflowID,
		bytes.NewReader([]byte(`{"nodes": [], "edges": []}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSaveDefinition_InvalidJSON(t *testing.T) {
	router := setupRouter(&stubRepo{workflow: testStoredWorkflow()})

	req := httptest.NewRequest("PATCH", "/api/v1/workflows/"+testWorkflowID,
		bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleReferenceOptions_Success(t *testing.T) {
	router := setupRouter(&stubRepo{workflow: testStoredWorkflow()})

	req := httptest.NewRequest("GET", "/api/v1/workflows/"+testWorkflowID+"/nodes/B/references", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result ReferenceResponse
	err := json.NewDecoder(w.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "B", result.NodeID)

	exprs := expressions(result.Options)
	assert.Contains(t, exprs, "nodes.T.output")
	assert.Contains(t, exprs, "nodes.A.output")
	assert.Contains(t, exprs, "nodes.A.output.price")
}

func TestHandleReferenceOptions_TriggerHasNoCandidates(t *testing.T) {
	router := setupRouter(&stubRepo{workflow: testStoredWorkflow()})

	req := httptest.NewRequest("GET", "/api/v1/workflows/"+testWorkflowID+"/nodes/T/references", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result ReferenceResponse
	json.NewDecoder(w.Body).Decode(&result)
	assert.Empty(t, result.Options)
}

func TestHandleReferenceOptions_NodeNotFound(t *testing.T) {
	router := setupRouter(&stubRepo{workflow: testStoredWorkflow()})

	req := httptest.NewRequest("GET", "/api/v1/workflows/"+testWorkflowID+"/nodes/ghost/references", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var result map[string]string
	json.NewDecoder(w.Body).Decode(&result)
	assert.Equal(t, "node not found", result["message"])
}

func TestHandleCompatibility_Devnet(t *testing.T) {
	router := setupRouter(&stubRepo{workflow: testStoredWorkflow()})

	req := httptest.NewRequest("GET", "/api/v1/workflows/"+testWorkflowID+"/compatibility?network=devnet", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result CompatibilityResponse
	err := json.NewDecoder(w.Body).Decode(&result)
	require.NoError(t, err)
	assert.Equal(t, "devnet", result.Network)
	assert.ElementsMatch(t, []string{"price_lookup", "jupiter_swap"}, result.IncompatibleTypes)
}

func TestHandleCompatibility_MainnetAlwaysClean(t *testing.T) {
	router := setupRouter(&stubRepo{workflow: testStoredWorkflow()})

	req := httptest.NewRequest("GET", "/api/v1/workflows/"+testWorkflowID+"/compatibility?network=mainnet", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result CompatibilityResponse
	json.NewDecoder(w.Body).Decode(&result)
	assert.Empty(t, result.IncompatibleTypes)
}

func TestHandleCompatibility_InvalidNetwork(t *testing.T) {
	router := setupRouter(&stubRepo{workflow: testStoredWorkflow()})

	req := httptest.NewRequest("GET", "/api/v1/workflows/"+testWorkflowID+"/compatibility?network=testnet", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result map[string]string
	json.NewDecoder(w.Body).Decode(&result)
	assert.Contains(t, result["message"], "network")
}
