// Package ws serves the frame preview, control and diagnostics websockets.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-raymarch/internal/control"
	diag "github.com/coreman2200/arcaluminis-raymarch/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
)

const writeWait = 200 * time.Millisecond

// Health is the /health payload and the reply to every control message.
type Health struct {
	FrameID  uint64     `json:"frame_id"`
	UptimeS  float64    `json:"uptime_s"`
	FPS      float64    `json:"fps"`
	Width    int        `json:"w"`
	Height   int        `json:"h"`
	Camera   [3]float64 `json:"camera"`
	Phase    float64    `json:"phase"`
	Scene    string     `json:"scene"`
	Renderer string     `json:"renderer"`
	Show     string     `json:"show,omitempty"`
}

// Controller is the running core as seen from the network.
type Controller interface {
	Camera() *control.Camera
	UseScene(name string) error
	LoadScene(doc []byte) error
	SetParam(name string, v float64)
	RunTest(pattern string) error
	Health() Health
}

// Hub broadcasts frames to preview clients and diagnostics to diag clients. It is a
// render.Driver.
type Hub struct {
	mu          sync.Mutex
	ctrl        Controller
	upgrader    websocket.Upgrader
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
}

func NewHub(c Controller) *Hub {
	return &Hub{
		ctrl:        c,
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
	}
}

// Routes registers /ws, /control, /diag and /health.
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/control", h.HandleControlWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/health", h.HandleHealth)
}

type frameMsg struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	W       int    `json:"w"`
	H       int    `json:"h"`
	RGB     []byte `json:"rgb"`
}

// Write implements render.Driver. Slow clients are skipped, never waited on past writeWait.
func (h *Hub) Write(f render.Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return nil
	}
	b, err := json.Marshal(frameMsg{T: f.Time.UnixNano(), FrameID: f.ID, W: f.Dim.W, H: f.Dim.H, RGB: render.RGB(f.Pix)})
	if err != nil {
		return err
	}
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
	return nil
}

// Push sends a diagnostic to every diag client.
func (h *Hub) Push(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.diagClients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

// Clients returns the number of frame and diag subscribers.
func (h *Hub) Clients() (frames, diags int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients), len(h.diagClients)
}

func (h *Hub) subscribe(w http.ResponseWriter, r *http.Request, set map[*websocket.Conn]bool) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	set[conn] = true
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(set, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	h.subscribe(w, r, h.clients)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	h.subscribe(w, r, h.diagClients)
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.ctrl.Health())
}
