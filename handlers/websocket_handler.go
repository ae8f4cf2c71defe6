package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/leaguedesk/officiating-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: ограничить origin списком доменов фронтенда.
		return true
	},
}

// ServeLeagueWs подключает клиента к комнате лиги с live-обновлениями бригад.
func ServeLeagueWs(hub *live.Hub, w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &live.Client{
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.LeagueRoom(leagueID),
	}
	hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
