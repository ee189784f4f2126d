package ws

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotel-server/events"
	"hotel-server/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// dashboard owns one socket. Only its writer goroutine writes to conn.
type dashboard struct {
	conn *websocket.Conn
	send chan []byte
}

func (d *dashboard) writeLoop(clientID string) {
	for payload := range d.send {
		_ = d.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := d.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("dashboard write failed", "client_id", clientID, "error", err)
			// the read loop sees the closed socket and unregisters
			_ = d.conn.Close()
			for range d.send {
			}
			return
		}
	}
}

// Manager fans hotel events out to every connected dashboard. Publish only
// queues; a dashboard whose queue is full is dropped.
type Manager struct {
	mu         sync.RWMutex
	dashboards map[string]*dashboard
}

func NewManager() *Manager {
	return &Manager{dashboards: make(map[string]*dashboard)}
}

// Register adds a dashboard. A reconnect under the same id closes the
// previous socket.
func (m *Manager) Register(clientID string, conn *websocket.Conn) {
	d := &dashboard{conn: conn, send: make(chan []byte, sendBuffer)}
	go d.writeLoop(clientID)

	m.mu.Lock()
	previous := m.dashboards[clientID]
	m.dashboards[clientID] = d
	if previous != nil {
		close(previous.send)
	}
	m.mu.Unlock()

	if previous != nil && previous.conn != conn {
		_ = previous.conn.Close()
	}
	logger.Info("dashboard connected", "client_id", clientID)
}

// Unregister closes conn and forgets it, unless clientID has since been
// taken over by a newer socket.
func (m *Manager) Unregister(clientID string, conn *websocket.Conn) {
	_ = conn.Close()

	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.dashboards[clientID]; ok && d.conn == conn {
		delete(m.dashboards, clientID)
		close(d.send)
		logger.Info("dashboard disconnected", "client_id", clientID)
	}
}

// Publish implements events.Publisher.
func (m *Manager) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := events.Encode(subject, data)
	if err != nil {
		return err
	}

	var slow []string
	m.mu.RLock()
	for id, d := range m.dashboards {
		select {
		case d.send <- payload:
		default:
			slow = append(slow, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range slow {
		logger.WarnContext(ctx, "dropping slow dashboard", "client_id", id, "subject", subject)
		m.drop(id)
	}
	return nil
}

func (m *Manager) drop(clientID string) {
	m.mu.Lock()
	d, ok := m.dashboards[clientID]
	if ok {
		delete(m.dashboards, clientID)
		close(d.send)
	}
	m.mu.Unlock()

	if ok {
		_ = d.conn.Close()
	}
}

func (m *Manager) IsConnected(clientID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dashboards[clientID]
	return ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.dashboards)
}

// List returns the connected dashboard ids in sorted order.
func (m *Manager) List() []string {
	m.mu.RLock()
	ids := make([]string, 0, len(m.dashboards))
	for id := range m.dashboards {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	sort.Strings(ids)
	return ids
}
