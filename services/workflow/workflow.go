package workflow

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// HandleGetWorkflow loads a workflow definition from the database and returns it as JSON.
func (s *Service) HandleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	slog.Debug("Getting workflow", "id", id)

	if uuid.Validate(id) != nil {
		writeError(w, http.StatusBadRequest, "invalid workflow id")
		return
	}

	wf, err := s.repo.Get(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get workflow", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if wf == nil {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(wf)
}

// HandleCreateWorkflow inserts a new workflow and returns its id. Nodes
// and edges decode leniently via Definition so a partial payload still
// creates an editable workflow.
func (s *Service) HandleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	// Definition decodes leniently; malformed graph fields become empty.
	var def Definition
	_ = json.Unmarshal(body, &def)

	id, err := s.repo.Create(r.Context(), req.Name, def)
	if err != nil {
		slog.Error("Failed to create workflow", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Debug("Created workflow", "id", id, "name", req.Name)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// HandleSaveDefinition replaces the stored node/edge lists for a
// workflow. This is the editor's explicit save: the whole definition is
// staged client-side on every mutation and PATCHed back here.
func (s *Service) HandleSaveDefinition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	slog.Debug("Saving workflow definition", "id", id)

	if uuid.Validate(id) != nil {
		writeError(w, http.StatusBadRequest, "invalid workflow id")
		return
	}

	var def Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	found, err := s.repo.SaveDefinition(r.Context(), id, def)
	if err != nil {
		slog.Error("Failed to save workflow definition", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(def)
}

// ReferenceResponse lists the output-reference expressions selectable
// when configuring a node. An empty Options list means the caller falls
// back to free-text entry.
type ReferenceResponse struct {
	NodeID  string            `json:"nodeId"`
	Options []ReferenceOption `json:"options"`
}

// HandleReferenceOptions returns the reference expressions available to a
// node's configuration: one per ancestor output plus one per documented
// output field.
func (s *Service) HandleReferenceOptions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, nodeID := vars["id"], vars["nodeId"]

	if uuid.Validate(id) != nil {
		writeError(w, http.StatusBadRequest, "invalid workflow id")
		return
	}

	wf, err := s.repo.Get(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get workflow for references", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if wf == nil {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}

	def := wf.Definition()
	if !hasNode(def.Nodes, nodeID) {
		writeError(w, http.StatusNotFound, "node not found")
		return
	}

	options := ReferenceOptions(def, nodeID)
	if options == nil {
		options = []ReferenceOption{}
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ReferenceResponse{NodeID: nodeID, Options: options})
}

// CompatibilityResponse reports the step types in a workflow that cannot
// run on the requested network. Advisory only, never a hard error.
type CompatibilityResponse struct {
	Network           string   `json:"network"`
	IncompatibleTypes []string `json:"incompatibleTypes"`
}

// HandleCompatibility checks every step type in the workflow against the
// network given by the "network" query parameter.
func (s *Service) HandleCompatibility(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	network := r.URL.Query().Get("network")

	if uuid.Validate(id) != nil {
		writeError(w, http.StatusBadRequest, "invalid workflow id")
		return
	}
	if !ValidNetwork(network) {
		writeError(w, http.StatusBadRequest, "network is invalid")
		return
	}

	wf, err := s.repo.Get(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get workflow for compatibility check", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if wf == nil {
		writeError(w, http.StatusNotFound, "workflow not found")
		return
	}

	types := make([]string, 0, len(wf.Nodes))
	for _, n := range wf.Nodes {
		types = append(types, n.Type)
	}
	incompatible := IncompatibleTypes(types, Network(network))
	if incompatible == nil {
		incompatible = []string{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(CompatibilityResponse{Network: network, IncompatibleTypes: incompatible})
}

func hasNode(nodes []Node, id string) bool {
	for i := range nodes {
		if nodes[i].ID == id {
			return true
		}
	}
	return false
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
