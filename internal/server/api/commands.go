package api

import (
	"net/http"

	"github.com/ayusman/airdraw/internal/control"
)

// CommandHandler forwards a single command to the drawing loop.
type CommandHandler struct {
	queue   *control.Queue
	command control.Command
}

// NewCommandHandler creates a handler that sends c on q for every POST.
func NewCommandHandler(q *control.Queue, c control.Command) *CommandHandler {
	return &CommandHandler{queue: q, command: c}
}

type commandResponse struct {
	Command string `json:"command"`
	Queued  bool   `json:"queued"`
}

// ServeHTTP handles POST requests. The command runs at the next tick; a full
// queue is reported as 503.
func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.queue.Send(h.command) {
		writeError(w, http.StatusServiceUnavailable, "Command queue is full")
		return
	}

	writeJSON(w, http.StatusAccepted, commandResponse{Command: h.command.String(), Queued: true})
}
