package lsm6web

import (
	"github.com/gorilla/websocket"
)

// client is one websocket subscriber. Clients only listen; anything they
// send is read and discarded to keep the connection's control frames
// flowing.
type client struct {
	socket *websocket.Conn
	send   chan []byte
	hub    *Hub
}

func (c *client) read() {
	defer c.socket.Close()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) write() {
	defer c.socket.Close()
	for msg := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
