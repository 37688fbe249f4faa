package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/arken-engineering/evolution-realm/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// session is one connected game client. writeMu serializes frame writes;
// gorilla connections do not allow concurrent writers.
type session struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *session) writeFrame(frame outboundFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(frame)
}

func (s *session) writeEvents(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(outboundFrame{Name: "Events", Data: json.RawMessage(payload)})
}

// Hub owns every live socket. It is the Sim's emitter and its observer
// registry; the Sim is wired in after construction because each needs
// the other.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*session
	realms   int

	sim *game.Sim
}

func NewHub() *Hub {
	return &Hub{sessions: map[string]*session{}}
}

func (h *Hub) SetSim(sim *game.Sim) { h.sim = sim }

func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	targets := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		if err := s.writeEvents(payload); err != nil {
			log.Printf("broadcast to %s: %v", s.id, err)
		}
	}
}

func (h *Hub) Send(clientID string, payload []byte) {
	h.mu.Lock()
	s := h.sessions[clientID]
	h.mu.Unlock()
	if s == nil {
		return
	}
	if err := s.writeEvents(payload); err != nil {
		log.Printf("send to %s: %v", clientID, err)
	}
}

func (h *Hub) Close(clientID string) {
	h.mu.Lock()
	s := h.sessions[clientID]
	delete(h.sessions, clientID)
	h.mu.Unlock()
	if s != nil {
		s.conn.Close()
	}
}

func (h *Hub) ConnectedObservers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.realms
}

func (h *Hub) realmAttached() {
	h.mu.Lock()
	h.realms++
	h.mu.Unlock()
}

func (h *Hub) realmDetached() {
	h.mu.Lock()
	h.realms--
	h.mu.Unlock()
}

// hashIP derives the network fingerprint used for duplicate-session
// detection. Only the tail half of the address feeds the digest so
// clients on one household NAT collide.
func hashIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip[len(ip)/2:]))
	hexSum := hex.EncodeToString(sum[:])
	return hexSum[len(hexSum)-10 : len(hexSum)-1]
}

func remoteIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func serveWS(h *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	id := uuid.NewString()
	sess := &session{id: id, conn: conn}

	h.mu.Lock()
	h.sessions[id] = sess
	h.mu.Unlock()

	if !h.sim.Connect(id, hashIP(remoteIP(r))) {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var inbound inboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			log.Printf("invalid frame from %s: %v", id, err)
			continue
		}
		dispatchClient(h, sess, inbound)
	}

	h.mu.Lock()
	_, open := h.sessions[id]
	h.mu.Unlock()
	if open {
		h.sim.DisconnectPlayer(id, "client disconnected")
	}
}

func dispatchClient(h *Hub, sess *session, msg inboundMessage) {
	switch msg.Name {
	case "Load":
		h.sim.Load(sess.id)

	case "Spectate":
		h.sim.Spectate(sess.id)

	case "SetInfo":
		var pack setInfoDTO
		if err := json.Unmarshal(msg.Data, &pack); err != nil {
			log.Printf("invalid SetInfo payload: %v", err)
			return
		}
		h.sim.SetInfo(sess.id, game.SetInfoPack{
			Name:      pack.Name,
			Network:   pack.Network,
			Address:   pack.Address,
			Device:    pack.Device,
			Signature: pack.Signature,
			Version:   pack.Version,
		})

	case "JoinRoom":
		h.sim.JoinRoom(sess.id)

	case "Ping":
		h.sim.EmitDirect(sess.id, "OnPong")

	case "UpdateMyself":
		var pack updateMyselfDTO
		if err := json.Unmarshal(msg.Data, &pack); err != nil {
			log.Printf("invalid UpdateMyself payload: %v", err)
			return
		}
		posX, posY, err := parseCoord(pack.Position)
		if err != nil {
			return
		}
		targetX, targetY, err := parseCoord(pack.Target)
		if err != nil {
			return
		}
		h.sim.ReportPosition(sess.id, posX, posY, targetX, targetY, pack.Time)

	default:
		log.Printf("unknown client message %q from %s", msg.Name, sess.id)
	}
}
