package ws

import (
	"encoding/json"
	"net/http"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-raymarch/internal/control"
	diag "github.com/coreman2200/arcaluminis-raymarch/internal/diagnostics"
)

// ControlMsg is one message on /control. Several fields may be set at once; they are
// applied in declaration order.
type ControlMsg struct {
	Key      string             `json:"key,omitempty"`
	Move     *[3]float64        `json:"move,omitempty"`
	Camera   *[3]float64        `json:"camera,omitempty"`
	Scene    string             `json:"scene,omitempty"`
	SceneDoc json.RawMessage    `json:"scene_doc,omitempty"`
	Param    map[string]float64 `json:"param,omitempty"`
	Test     string             `json:"test,omitempty"`
}

// ControlReply answers every control message.
type ControlReply struct {
	Health
	Error string `json:"error,omitempty"`
}

func (h *Hub) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ControlMsg
		reply := ControlReply{}
		if err := json.Unmarshal(data, &msg); err != nil {
			reply.Error = err.Error()
		} else if err := h.Apply(msg); err != nil {
			reply.Error = err.Error()
		}
		reply.Health = h.ctrl.Health()
		b, _ := json.Marshal(reply)
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

type unknownKeyError string

func (e unknownKeyError) Error() string { return "unknown key " + string(e) }

// Apply executes a control message against the controller.
func (h *Hub) Apply(msg ControlMsg) error {
	cam := h.ctrl.Camera()
	if msg.Key != "" {
		cmd, ok := control.CommandForKey(msg.Key)
		if !ok {
			h.Push(diag.UnknownCommand(msg.Key))
			return unknownKeyError(msg.Key)
		}
		cam.Apply(cmd)
	}
	if msg.Move != nil {
		cam.Move(mgl64.Vec3(*msg.Move))
	}
	if msg.Camera != nil {
		cam.Set(mgl64.Vec3(*msg.Camera))
	}
	if msg.Scene != "" {
		if err := h.ctrl.UseScene(msg.Scene); err != nil {
			return err
		}
	}
	if len(msg.SceneDoc) > 0 {
		if err := h.ctrl.LoadScene(msg.SceneDoc); err != nil {
			h.Push(diag.SceneLoadFailed("control", err))
			return err
		}
	}
	for k, v := range msg.Param {
		h.ctrl.SetParam(k, v)
	}
	if msg.Test != "" {
		if err := h.ctrl.RunTest(msg.Test); err != nil {
			h.Push(diag.UnknownCommand("test " + msg.Test))
			return err
		}
	}
	log.Debug().Str("key", msg.Key).Str("scene", msg.Scene).Msg("control")
	return nil
}
