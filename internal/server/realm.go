package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arken-engineering/evolution-realm/internal/game"
	"github.com/arken-engineering/evolution-realm/internal/rpc"
)

// realmConn is the authority's socket. It carries our outbound requests
// and the authority's admin requests in both directions on one connection.
// The socket only counts as the authority once the Connected handshake
// has passed admin verification.
type realmConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	stateMu  sync.Mutex
	greeted  bool
	verified bool
}

func (rc *realmConn) SendRequest(id, name string, data interface{}) error {
	rc.writeMu.Lock()
	defer rc.writeMu.Unlock()
	return rc.conn.WriteJSON(outboundFrame{ID: id, Name: name, Data: data})
}

// reply answers an inbound request with its named response event, so
// RS_SetConfigRequest comes back as RS_SetConfigResponse and the bare
// RS_Connected as RS_ConnectedResponse.
func (rc *realmConn) reply(id, request string, data interface{}) {
	rc.writeMu.Lock()
	defer rc.writeMu.Unlock()
	frame := outboundFrame{ID: id, Name: responseName(request), Data: data}
	if err := rc.conn.WriteJSON(frame); err != nil {
		log.Printf("realm reply: %v", err)
	}
}

func responseName(request string) string {
	return strings.TrimSuffix(request, "Request") + "Response"
}

func (rc *realmConn) isVerified() bool {
	rc.stateMu.Lock()
	defer rc.stateMu.Unlock()
	return rc.verified
}

type statusReply struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func okReply() statusReply { return statusReply{Status: 1} }
func okDataReply(data interface{}) statusReply { return statusReply{Status: 1, Data: data} }
func failReply(message string) statusReply { return statusReply{Status: 0, Message: message} }

func serveRealm(h *Hub, correlator *rpc.Correlator, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("realm upgrade:", err)
		return
	}
	rc := &realmConn{conn: conn}

	log.Printf("realm connecting from %s", r.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("invalid realm frame: %v", err)
			continue
		}

		// Frames without a name are replies to our own requests.
		if msg.Name == "" && msg.ID != "" {
			if !correlator.Resolve(msg.ID, msg.Data) {
				log.Printf("dropping late realm reply %s", msg.ID)
			}
			continue
		}

		if msg.Name == "RS_Connected" {
			go handleRealmHandshake(h, correlator, rc, msg)
			continue
		}

		if !rc.isVerified() {
			rc.reply(msg.ID, msg.Name, failReply("Not connected"))
			continue
		}

		// Signed requests round-trip their verification over this same
		// socket, so dispatch must not block the read loop.
		go dispatchRealm(h, rc, msg)
	}

	log.Printf("realm disconnected")
	rc.stateMu.Lock()
	greeted, verified := rc.greeted, rc.verified
	rc.stateMu.Unlock()
	if greeted {
		correlator.Detach()
	}
	if verified {
		h.realmDetached()
	}
	conn.Close()
}

// handleRealmHandshake adopts the socket as the authority. The admin
// signature check itself travels over the connecting socket, so the
// correlator is pointed at it before the verdict; a failed check tears
// the socket back down.
func handleRealmHandshake(h *Hub, correlator *rpc.Correlator, rc *realmConn, msg inboundMessage) {
	rc.stateMu.Lock()
	if rc.greeted {
		verified := rc.verified
		rc.stateMu.Unlock()
		if verified {
			rc.reply(msg.ID, msg.Name, okReply())
		}
		return
	}
	rc.greeted = true
	rc.stateMu.Unlock()

	correlator.Attach(rc)
	if !verifiedAdmin(h, msg.Data) {
		log.Printf("rejected realm handshake")
		correlator.Detach()
		rc.reply(msg.ID, msg.Name, failReply("Invalid signature"))
		rc.conn.Close()
		return
	}

	rc.stateMu.Lock()
	rc.verified = true
	rc.stateMu.Unlock()

	h.realmAttached()
	rc.reply(msg.ID, msg.Name, okReply())
	initWithRealm(h, correlator)
}

// initWithRealm announces this shard to the authority and adopts the
// identity it assigns.
func initWithRealm(h *Hub, correlator *rpc.Correlator) {
	res := correlator.Call("GS_InitRequest", map[string]string{"version": game.ServerVersion})
	if res.Status != 1 {
		log.Printf("realm init failed: %s", res.Message)
		return
	}
	var payload struct {
		ID      string `json:"id"`
		RoundID int    `json:"roundId"`
	}
	if err := json.Unmarshal(res.Raw, &payload); err != nil {
		log.Printf("bad realm init payload: %v", err)
		return
	}
	h.sim.ApplyInit(payload.ID, payload.RoundID)
}

func verifiedAdmin(h *Hub, raw json.RawMessage) bool {
	var signed signedRequestDTO
	if err := json.Unmarshal(raw, &signed); err != nil {
		return false
	}
	data := signed.Signature.Data
	if data == "" {
		data = "evolution"
	}
	return h.sim.IsValidAdminRequest(signed.Signature.Address, signed.Signature.Hash, data)
}

func dispatchRealm(h *Hub, rc *realmConn, msg inboundMessage) {
	sim := h.sim

	// RS_PingRequest is the liveness check; everything else is signed.
	if msg.Name == "RS_PingRequest" {
		rc.reply(msg.ID, msg.Name, okReply())
		return
	}

	if !verifiedAdmin(h, msg.Data) {
		log.Printf("rejected unsigned %s", msg.Name)
		rc.reply(msg.ID, msg.Name, failReply("Invalid signature"))
		return
	}

	switch msg.Name {
	case "RS_ApiConnected":
		sim.Broadcast("API connected")
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_ApiDisconnected":
		sim.Broadcast("API disconnected")
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_SetConfigRequest":
		var pack setConfigDTO
		if err := json.Unmarshal(msg.Data, &pack); err != nil {
			rc.reply(msg.ID, msg.Name, failReply("Invalid request"))
			return
		}
		applied := sim.SetConfig(pack.Config)
		rc.reply(msg.ID, msg.Name, okDataReply(map[string]interface{}{"applied": applied}))

	case "RS_GetConfigRequest":
		rc.reply(msg.ID, msg.Name, okDataReply(sim.SharedConfig()))

	case "RS_InfoRequest":
		rc.reply(msg.ID, msg.Name, okDataReply(sim.Info()))

	case "RS_MaintenanceRequest":
		sim.SetMaintenance(true)
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_UnmaintenanceRequest":
		sim.SetMaintenance(false)
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_StartBattleRoyaleRequest":
		sim.StartBattleRoyale()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_StopBattleRoyaleRequest":
		sim.StopBattleRoyale()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_PauseRoundRequest":
		sim.PauseRound()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_StartRoundRequest":
		var pack startRoundDTO
		if err := json.Unmarshal(msg.Data, &pack); err != nil {
			rc.reply(msg.ID, msg.Name, failReply("Invalid request"))
			return
		}
		sim.StartRound(pack.GameMode)
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_EnableForceLevel2Request":
		sim.EnableForceLevel2()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_DisableForceLevel2Request":
		sim.DisableForceLevel2()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_StartGodPartyRequest":
		sim.StartGodParty()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_StopGodPartyRequest":
		sim.StopGodParty()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_StartRuneRoyaleRequest":
		sim.StartRuneRoyale()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_PauseRuneRoyaleRequest":
		sim.PauseRuneRoyale()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_UnpauseRuneRoyaleRequest":
		sim.UnpauseRuneRoyale()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_StopRuneRoyaleRequest":
		sim.StopRuneRoyale()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_MakeBattleHarderRequest":
		sim.MakeBattleHarder()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_MakeBattleEasierRequest":
		sim.MakeBattleEasier()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_ResetBattleDifficultyRequest":
		sim.ResetBattleDifficulty()
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_MessageUserRequest":
		var pack targetUserDTO
		if err := json.Unmarshal(msg.Data, &pack); err != nil {
			rc.reply(msg.ID, msg.Name, failReply("Invalid request"))
			return
		}
		if !sim.MessageUser(pack.Target, pack.Message) {
			rc.reply(msg.ID, msg.Name, failReply("User not found"))
			return
		}
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_ChangeUserRequest":
		var pack targetUserDTO
		if err := json.Unmarshal(msg.Data, &pack); err != nil {
			rc.reply(msg.ID, msg.Name, failReply("Invalid request"))
			return
		}
		if !sim.ChangeUser(pack.Target, pack.Config) {
			rc.reply(msg.ID, msg.Name, failReply("User not found"))
			return
		}
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_BroadcastRequest":
		var pack broadcastDTO
		if err := json.Unmarshal(msg.Data, &pack); err != nil {
			rc.reply(msg.ID, msg.Name, failReply("Invalid request"))
			return
		}
		sim.Broadcast(pack.Message)
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_KickUserRequest":
		var pack targetUserDTO
		if err := json.Unmarshal(msg.Data, &pack); err != nil {
			rc.reply(msg.ID, msg.Name, failReply("Invalid request"))
			return
		}
		if !sim.KickUser(pack.Target) {
			rc.reply(msg.ID, msg.Name, failReply("User not found"))
			return
		}
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_SetPlayerCharacterRequest":
		var pack struct {
			signedRequestDTO
			Address   string         `json:"address"`
			Character game.Character `json:"character"`
		}
		if err := json.Unmarshal(msg.Data, &pack); err != nil {
			rc.reply(msg.ID, msg.Name, failReply("Invalid request"))
			return
		}
		if !sim.SetPlayerCharacter(pack.Address, pack.Character) {
			rc.reply(msg.ID, msg.Name, failReply("User not found"))
			return
		}
		rc.reply(msg.ID, msg.Name, okReply())

	case "RS_AnnounceRebootRequest":
		sim.AnnounceReboot()
		rc.reply(msg.ID, msg.Name, okReply())

	default:
		log.Printf("unknown realm message %q", msg.Name)
		rc.reply(msg.ID, msg.Name, failReply("Unknown request"))
	}
}

// profileResolver looks up display names on the public profile API.
type profileResolver struct {
	baseURL string
	client  *http.Client
}

func newProfileResolver(baseURL string) *profileResolver {
	return &profileResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *profileResolver) Lookup(address string) (string, error) {
	res, err := p.client.Get(fmt.Sprintf("%s/users/%s", p.baseURL, address))
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("profile lookup for %s: %s", address, res.Status)
	}
	var payload struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Username, nil
}
