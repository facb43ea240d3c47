package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"minesweeper-backend/internal/models"
)

const (
	clientSendBuffer = 16
	writeWait        = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type   string      `json:"type"`
	Player string      `json:"player,omitempty"`
	GameID string      `json:"game_id,omitempty"`
	Data   interface{} `json:"data"`
}

type Client struct {
	Player string
	Conn   *websocket.Conn
	send   chan *Message
}

// WebSocketHub tracks connected clients per player. The client map is only
// touched from run.
type WebSocketHub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	counts     chan countQuery
}

type countQuery struct {
	player string
	reply  chan int
}

// WebSocketHandler pushes board updates to the owning player's connections.
type WebSocketHandler struct {
	hub *WebSocketHub
}

func NewWebSocketHandler() *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		counts:     make(chan countQuery),
	}

	go hub.run()

	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	player := c.GetString("player_name")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("failed to upgrade to websocket")
		return
	}

	client := &Client{
		Player: player,
		Conn:   conn,
		send:   make(chan *Message, clientSendBuffer),
	}

	h.hub.register <- client
	go client.writeLoop()

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithField("player", player).WithError(err).Warn("websocket read failed")
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		// send is only closed after this goroutine unregisters the client
		pong := &Message{
			Type:   "PONG",
			Player: client.Player,
			Data: gin.H{
				"timestamp": time.Now().Unix(),
			},
		}
		select {
		case client.send <- pong:
		default:
			log.WithField("player", client.Player).Warn("websocket client too slow, dropping pong")
		}
	default:
		log.WithFields(log.Fields{"player": client.Player, "type": msg.Type}).Debug("ignoring websocket message")
	}
}

// writeLoop is the only writer on the connection.
func (c *Client) writeLoop() {
	for msg := range c.send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteJSON(msg); err != nil {
			log.WithField("player", c.Player).WithError(err).Warn("websocket write failed")
			c.Conn.Close()
			break
		}
	}
	// drain until the hub closes send
	for range c.send {
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			if hub.clients[client.Player] == nil {
				hub.clients[client.Player] = make(map[*Client]bool)
			}
			hub.clients[client.Player][client] = true
			log.WithField("player", client.Player).Debug("websocket client registered")

		case client := <-hub.unregister:
			if clients, ok := hub.clients[client.Player]; ok && clients[client] {
				delete(clients, client)
				close(client.send)
				if len(clients) == 0 {
					delete(hub.clients, client.Player)
				}
				log.WithField("player", client.Player).Debug("websocket client unregistered")
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)

		case query := <-hub.counts:
			query.reply <- len(hub.clients[query.player])
		}
	}
}

func (hub *WebSocketHub) broadcastMessage(message *Message) {
	for client := range hub.clients[message.Player] {
		select {
		case client.send <- message:
		default:
			log.WithField("player", client.Player).Warn("websocket client too slow, dropping message")
		}
	}
}

// Connections reports how many live connections a player has open.
func (h *WebSocketHandler) Connections(player string) int {
	reply := make(chan int, 1)
	h.hub.counts <- countQuery{player: player, reply: reply}
	return <-reply
}

func (h *WebSocketHandler) BroadcastBoardUpdate(player string, update *models.BoardUpdate) {
	h.hub.broadcast <- &Message{
		Type:   "BOARD_UPDATE",
		Player: player,
		GameID: update.GameID,
		Data:   update,
	}
}

func (h *WebSocketHandler) BroadcastGameOver(player string, result *models.GameResult) {
	h.hub.broadcast <- &Message{
		Type:   "GAME_OVER",
		Player: player,
		GameID: result.GameID,
		Data:   result,
	}
}
