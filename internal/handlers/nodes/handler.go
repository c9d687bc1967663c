package nodes

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/fcv-2025.net/executor/internal/core/services/node"
	"gitlab.com/fcv-2025.net/executor/internal/handlers"
)

type ApiHandler struct {
	NodeService node.INodeService
}

func NewHandler(nodeService node.INodeService) *ApiHandler {
	return &ApiHandler{
		NodeService: nodeService,
	}
}

func (api *ApiHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/nodes", api.GetNodes).Methods("GET")
	r.HandleFunc("/api/nodes/{nodeId}", api.GetNode).Methods("GET")
}

func (api *ApiHandler) GetNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := api.NodeService.GetAllNodes(r.Context())
	if err != nil {
		handlers.ResponseError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, nodes)
}

func (api *ApiHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	n, err := api.NodeService.GetNode(r.Context(), mux.Vars(r)["nodeId"])
	if err != nil {
		handlers.ResponseError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, n)
}
