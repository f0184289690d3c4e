package handler

import (
	"net/http"
	"time"

	"taskcrafter/internal/relay"

	"github.com/gin-gonic/gin"
)

// SyncStatus is the part of the relay client the API reports on.
type SyncStatus interface {
	State() relay.State
	LastUpdate() (time.Time, bool)
}

type SyncHandler struct {
	status SyncStatus
	policy string
}

func NewSyncHandler(status SyncStatus, mergePolicy string) *SyncHandler {
	return &SyncHandler{status: status, policy: mergePolicy}
}

type syncResponse struct {
	State       string  `json:"state"`
	Connected   bool    `json:"connected"`
	LastUpdate  *string `json:"lastUpdate"`
	MergePolicy string  `json:"mergePolicy"`
}

// Status godoc
// @Summary  Relay connection state and time of the last remote update
// @Tags     Sync
// @Produce  json
// @Success  200 {object} syncResponse
// @Router   /sync [get]
func (h *SyncHandler) Status(c *gin.Context) {
	state := h.status.State()
	resp := syncResponse{
		State:       state.String(),
		Connected:   state == relay.Connected,
		MergePolicy: h.policy,
	}
	if at, ok := h.status.LastUpdate(); ok {
		formatted := at.UTC().Format(time.RFC3339)
		resp.LastUpdate = &formatted
	}
	c.JSON(http.StatusOK, resp)
}
