package websocket

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents one authenticated WebSocket connection.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	// OnMessage, when set, receives every text frame the client sends.
	OnMessage func(client *Client, payload []byte)
	// OnClose runs after the client is unregistered; used to tear down
	// room subscriptions tied to this connection.
	OnClose func(client *Client)
}

// Manager tracks active connections and their room membership.
type Manager struct {
	clients    map[string]*Client
	rooms      map[string]map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.UserID] = client
				m.mutex.Unlock()
				log.Printf("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.UserID]; ok {
					delete(m.clients, client.UserID)
					for _, members := range m.rooms {
						delete(members, client.UserID)
					}
					close(client.Send)
				}
				m.mutex.Unlock()
				if client.OnClose != nil {
					client.OnClose(client)
				}
				log.Printf("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// JoinRoom adds the client to a room's fan-out set.
func (m *Manager) JoinRoom(roomID string, client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.rooms[roomID] == nil {
		m.rooms[roomID] = make(map[string]*Client)
	}
	m.rooms[roomID][client.UserID] = client
}

func (m *Manager) LeaveRoom(roomID string, client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if members, ok := m.rooms[roomID]; ok {
		delete(members, client.UserID)
		if len(members) == 0 {
			delete(m.rooms, roomID)
		}
	}
}

// SendToUser sends a message to a specific user, dropping it if the user's
// send buffer is full rather than blocking a writer.
func (m *Manager) SendToUser(userID string, message []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		log.Printf("Dropping message for slow client %s", userID)
	}
}

// SendToRoom broadcasts to every connection joined to the room, except the
// excluded user (usually the sender, whose UI already has the message).
func (m *Manager) SendToRoom(roomID string, message []byte, excludeUserID string) {
	m.mutex.RLock()
	members := make([]*Client, 0, len(m.rooms[roomID]))
	for userID, client := range m.rooms[roomID] {
		if userID == excludeUserID {
			continue
		}
		members = append(members, client)
	}
	m.mutex.RUnlock()

	for _, client := range members {
		select {
		case client.Send <- message:
		default:
			log.Printf("Dropping room message for slow client %s", client.UserID)
		}
	}
}

// ReadPump reads messages from the WebSocket connection.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			break
		}

		if c.OnMessage != nil {
			c.OnMessage(c, message)
		}
	}
}

// WritePump sends messages to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("websocket write error: %v", err)
			return
		}
	}
}
