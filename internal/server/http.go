package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/arken-engineering/evolution-realm/internal/game"
	"github.com/arken-engineering/evolution-realm/internal/rpc"
)

func startServer(h *Hub, correlator *rpc.Correlator, addr string) {
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":    "evolution-realm",
			"version": game.ServerVersion,
			"realm":   correlator.Connected(),
		})
	})
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(h, w, r)
	})
	http.HandleFunc("/realm", func(w http.ResponseWriter, r *http.Request) {
		serveRealm(h, correlator, w, r)
	})
	log.Fatal(http.ListenAndServe(addr, nil))
}
