package game

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/arken-engineering/evolution-realm/internal/rpc"
)

type fakeResolver struct {
	name string
	err  error
}

func (f fakeResolver) Lookup(address string) (string, error) { return f.name, f.err }

const testAddress = "0x1111111111111111111111111111111111111111"

func scriptAuth(env *testEnv, address string, verified bool) {
	env.realm.replies["GS_NormalizeAddressRequest"] = rpc.Reply{
		Status: 1,
		Raw:    json.RawMessage(`{"status":1,"address":"` + address + `"}`),
	}
	verifiedStr := "false"
	if verified {
		verifiedStr = "true"
	}
	env.realm.replies["GS_VerifySignatureRequest"] = rpc.Reply{
		Status: 1,
		Raw:    json.RawMessage(`{"status":1,"verified":` + verifiedStr + `}`),
	}
}

func validPack() SetInfoPack {
	return SetInfoPack{
		Name:      "ignored",
		Network:   "bsc",
		Address:   testAddress,
		Device:    "desktop",
		Signature: "0xsig",
		Version:   "2.0.0",
	}
}

func TestSetInfoAssignsIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "Hero"}
	scriptAuth(env, testAddress, true)
	env.sim.Connect("c1", "h1")

	env.sim.SetInfo("c1", validPack())

	env.sim.mu.Lock()
	p := env.sim.lookup["c1"]
	env.sim.mu.Unlock()
	if p == nil {
		t.Fatal("session dropped during SetInfo")
	}
	if p.Name != "Hero" {
		t.Errorf("name = %q, want Hero", p.Name)
	}
	if p.Address != testAddress {
		t.Errorf("address = %q", p.Address)
	}
	env.sim.FlushEvents()
	if !env.em.sawBroadcast("OnSetInfo") {
		t.Error("no OnSetInfo broadcast")
	}
	if !env.realm.called("GS_VerifySignatureRequest") {
		t.Error("signature never verified with the authority")
	}
}

func TestSetInfoRejectsIncompletePack(t *testing.T) {
	env := newTestEnv(t)
	env.sim.Connect("c1", "h1")
	pack := validPack()
	pack.Signature = ""

	env.sim.SetInfo("c1", pack)

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	if _, connected := env.sim.lookup["c1"]; connected {
		t.Error("session kept with a missing signature")
	}
	if env.realm.called("GS_VerifySignatureRequest") {
		t.Error("authority asked to verify an incomplete pack")
	}
}

func TestSetInfoRejectsBadSignature(t *testing.T) {
	env := newTestEnv(t)
	scriptAuth(env, testAddress, false)
	env.sim.Connect("c1", "h1")

	env.sim.SetInfo("c1", validPack())

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	if _, connected := env.sim.lookup["c1"]; connected {
		t.Error("session kept with a rejected signature")
	}
}

func TestSetInfoBouncesBannedPlayer(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "Hero"}
	scriptAuth(env, testAddress, true)
	env.sim.Connect("c1", "h1")
	env.sim.mu.Lock()
	env.sim.lookup["c1"].IsBanned = true
	env.sim.mu.Unlock()

	env.sim.SetInfo("c1", validPack())

	env.em.mu.Lock()
	var banned bool
	for _, frame := range env.em.sends["c1"] {
		if strings.Contains(string(frame), "OnBanned") {
			banned = true
		}
	}
	env.em.mu.Unlock()
	if !banned {
		t.Error("banned player not told why")
	}
}

func TestSetInfoMaintenanceBlocksNonMods(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "Hero"}
	scriptAuth(env, testAddress, true)
	env.sim.cfg.IsMaintenance = true
	env.sim.Connect("c1", "h1")

	env.sim.SetInfo("c1", validPack())

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	if _, connected := env.sim.lookup["c1"]; connected {
		t.Error("non-mod admitted during maintenance")
	}
}

func TestSetInfoInheritsRoundSession(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "Hero"}
	scriptAuth(env, testAddress, true)

	prior := env.addAlivePlayer("Hero", playerSpawnPoints[0])
	prior.Address = testAddress
	prior.Points = 66
	prior.Kills = 3
	env.clock.Advance(10 * time.Second)

	env.sim.Connect("c2", "other-hash")
	env.sim.SetInfo("c2", validPack())

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	p := env.sim.lookup["c2"]
	if p == nil {
		t.Fatal("reconnecting session dropped")
	}
	if p.Points != 66 || p.Kills != 3 {
		t.Errorf("points/kills = %v/%d, round progress not inherited", p.Points, p.Kills)
	}
	if p.Log.Connects != 1 {
		t.Errorf("Connects = %d, want 1", p.Log.Connects)
	}
}

func TestSetInfoRejectsRapidRejoin(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "Hero"}
	scriptAuth(env, testAddress, true)

	prior := env.addAlivePlayer("Hero", playerSpawnPoints[0])
	prior.Address = testAddress
	prior.LastUpdate = env.clock.Now()

	env.sim.Connect("c2", "other-hash")
	env.sim.SetInfo("c2", validPack())

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	if _, connected := env.sim.lookup["c2"]; connected {
		t.Error("rejoin inside the cooldown accepted")
	}
}

func TestJoinRoomAdmitsAndReplaysSnapshot(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "Hero"}
	scriptAuth(env, testAddress, true)

	other := env.addAlivePlayer("veteran", playerSpawnPoints[1])

	env.sim.Connect("c1", "h1")
	env.sim.SetInfo("c1", validPack())
	env.sim.JoinRoom("c1")

	env.sim.mu.Lock()
	p := env.sim.lookup["c1"]
	env.sim.mu.Unlock()
	if p == nil {
		t.Fatal("session dropped during join")
	}
	if !p.IsJoining {
		t.Error("player not put into the joining state")
	}
	if p.Avatar != env.sim.Settings().StartAvatar {
		t.Errorf("avatar = %d, want the start tier", p.Avatar)
	}

	env.em.mu.Lock()
	joined := false
	sawOther := false
	for _, frame := range env.em.sends["c1"] {
		text := string(frame)
		if strings.Contains(text, "OnJoinGame") {
			joined = true
		}
		if strings.Contains(text, other.ID) {
			sawOther = true
		}
	}
	env.em.mu.Unlock()
	if !joined {
		t.Error("no OnJoinGame frame")
	}
	if !sawOther {
		t.Error("existing player missing from the snapshot replay")
	}
	if !env.realm.called("GS_ConfirmUserRequest") {
		t.Error("user never confirmed with the authority")
	}
}

func TestJoinRoomRejectsUnconfirmedUser(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "Hero"}
	scriptAuth(env, testAddress, true)
	env.realm.replies["GS_ConfirmUserRequest"] = rpc.Reply{
		Status: 0, Message: "Not found",
		Raw: json.RawMessage(`{"status":0,"message":"Not found"}`),
	}

	env.sim.Connect("c1", "h1")
	env.sim.SetInfo("c1", validPack())
	env.sim.JoinRoom("c1")

	env.sim.mu.Lock()
	defer env.sim.mu.Unlock()
	if _, connected := env.sim.lookup["c1"]; connected {
		t.Error("unconfirmed user admitted")
	}
}

func TestResolveUsernameCachesLookups(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "Hero"}

	if got := env.sim.resolveUsername(testAddress); got != "Hero" {
		t.Fatalf("resolved %q, want Hero", got)
	}

	env.sim.usernames = fakeResolver{name: "Changed"}
	if got := env.sim.resolveUsername(testAddress); got != "Hero" {
		t.Errorf("resolved %q, cache not used", got)
	}
}

func TestResolveUsernameFallsBackToGuest(t *testing.T) {
	env := newTestEnv(t)
	env.sim.usernames = fakeResolver{name: "", err: nil}

	got := env.sim.resolveUsername(testAddress)
	if !strings.HasPrefix(got, "Guest") {
		t.Errorf("resolved %q, want a Guest fallback", got)
	}

	// Guest names are placeholders and get re-resolved next time.
	env.sim.usernames = fakeResolver{name: "Hero"}
	if got := env.sim.resolveUsername(testAddress); got != "Hero" {
		t.Errorf("resolved %q, guest placeholder should not stick", got)
	}
}
