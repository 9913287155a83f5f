package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/intake"
	"github.com/linesmerrill/lexmatch-api/models"
)

const streamWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Intake exported for testing purposes
type Intake struct {
	Analyzer *intake.Analyzer
	Tasks    *intake.Tasks
}

// AnalyzeHandler turns a description into a brief and waits for the answer.
// Provider failures still return 200 with the fallback brief.
func (i Intake) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if err := intake.ValidateIntake(req.Description); err != nil {
		config.ErrorStatus("invalid description", http.StatusBadRequest, w, err)
		return
	}

	out := i.Analyzer.Diagnose(r.Context(), req.Description)
	writeJSON(w, http.StatusOK, models.AnalyzeResponse{
		Brief:    out.Brief,
		Degraded: out.Degraded(),
		Failure:  string(out.Failure),
	})
}

// CreateTaskHandler starts a background analysis and returns the pending task
func (i Intake) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	task, err := i.Tasks.Start(req.Description)
	if err != nil {
		writeError("invalid description", w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/intake/tasks/"+task.ID)
	writeJSON(w, http.StatusAccepted, task)
}

// TaskHandler returns the current state of a task
func (i Intake) TaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["task_id"]
	task, err := i.Tasks.Get(taskID)
	if err != nil {
		writeError("failed to get task", w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// TaskStreamHandler sends the task snapshot on connect and the terminal
// snapshot when the analysis finishes, then closes the socket
func (i Intake) TaskStreamHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["task_id"]
	task, err := i.Tasks.Get(taskID)
	if err != nil {
		writeError("failed to get task", w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade error", "taskID", taskID, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// the client only ever reads; a read error means it went away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := writeTask(conn, task); err != nil {
		zap.S().Debugw("failed to send task snapshot", "taskID", taskID, "error", err)
		return
	}
	if !task.Terminal() {
		task, err = i.Tasks.Wait(ctx, taskID)
		if err != nil {
			zap.S().Debugw("task stream ended early", "taskID", taskID, "error", err)
			return
		}
		if err := writeTask(conn, task); err != nil {
			zap.S().Debugw("failed to send task snapshot", "taskID", taskID, "error", err)
			return
		}
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(task.State)),
		time.Now().Add(streamWriteWait))
}

func writeTask(conn *websocket.Conn, task models.AnalysisTask) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(task)
}
