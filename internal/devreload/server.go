// Package devreload pushes reload notifications to open pages while the
// server runs with --dev.
//
// A Watcher reports debounced file changes; the Server broadcasts them over
// a websocket to the script returned by ClientScript.
package devreload

import (
	"encoding/json"
	"html/template"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Path is the websocket endpoint.
const Path = "/_dev/reload"

// MessageType identifies a reload message.
type MessageType string

const (
	TypeReload MessageType = "reload"
	TypeCSS    MessageType = "css"
	TypeError  MessageType = "error"
	TypeClear  MessageType = "clear"
)

// Message is sent to browsers over the websocket.
type Message struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error,omitempty"`
	File  string      `json:"file,omitempty"`
}

const writeWait = 5 * time.Second

// client serializes writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Server manages the live-reload websocket connections.
type Server struct {
	clients  map[*client]struct{}
	mu       sync.RWMutex
	upgrader websocket.Upgrader

	// OnCount, if set, is called with the client count after it changes.
	OnCount func(n int)
}

// NewServer creates a reload server.
func NewServer() *Server {
	return &Server{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // dev only
			},
		},
	}
}

// ServeHTTP upgrades the connection and holds it until the client leaves.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	s.add(c)
	defer s.remove(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) add(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	s.count(n)
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	n := len(s.clients)
	s.mu.Unlock()
	if ok {
		c.conn.Close()
		s.count(n)
	}
}

func (s *Server) count(n int) {
	if s.OnCount != nil {
		s.OnCount(n)
	}
}

// NotifyReload asks every page to reload.
func (s *Server) NotifyReload() {
	s.Broadcast(Message{Type: TypeReload})
}

// NotifyCSS asks every page to refresh its stylesheets.
func (s *Server) NotifyCSS(file string) {
	s.Broadcast(Message{Type: TypeCSS, File: file})
}

// NotifyError shows an error overlay, e.g. for invalid content.
func (s *Server) NotifyError(msg string) {
	s.Broadcast(Message{Type: TypeError, Error: msg})
}

// ClearError removes the error overlay.
func (s *Server) ClearError() {
	s.Broadcast(Message{Type: TypeClear})
}

// Broadcast sends msg to every client. Clients that fail are dropped.
func (s *Server) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			s.remove(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	for c := range s.clients {
		c.conn.Close()
		delete(s.clients, c)
	}
	s.mu.Unlock()
	s.count(0)
}

// ClientScript returns the script tag injected into pages in dev mode.
func ClientScript() template.HTML {
	return template.HTML(clientScript)
}

const clientScript = `<script>
(function() {
  'use strict';
  var delay = 1000;

  function connect() {
    var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(proto + '//' + location.host + '` + Path + `');

    ws.onopen = function() { delay = 1000; clear(); };
    ws.onmessage = function(e) {
      var msg;
      try { msg = JSON.parse(e.data); } catch (err) { return; }
      switch (msg.type) {
        case 'reload': location.reload(); break;
        case 'css': reloadCSS(); break;
        case 'error': show(msg.error); break;
        case 'clear': clear(); break;
      }
    };
    ws.onclose = function() {
      setTimeout(function() { delay = Math.min(delay * 2, 30000); connect(); }, delay);
    };
    ws.onerror = function() { ws.close(); };
  }

  function reloadCSS() {
    document.querySelectorAll('link[rel="stylesheet"]').forEach(function(link) {
      var url = new URL(link.href);
      url.searchParams.set('_reload', Date.now());
      link.href = url.toString();
    });
  }

  function show(text) {
    clear();
    var el = document.createElement('pre');
    el.id = 'dev-error-overlay';
    el.style.cssText = 'position:fixed;inset:0;margin:0;padding:24px;background:rgba(0,0,0,.9);color:#f55;font:14px monospace;white-space:pre-wrap;z-index:999999';
    el.textContent = text;
    document.body.appendChild(el);
  }

  function clear() {
    var el = document.getElementById('dev-error-overlay');
    if (el) { el.remove(); }
  }

  if (document.readyState === 'loading') {
    document.addEventListener('DOMContentLoaded', connect);
  } else {
    connect();
  }
})();
</script>`

// Dispatch returns a Watcher callback that notifies s. Before notifying it
// calls prepare, if set, so the server can reload content; a prepare error
// is shown in the overlay instead of reloading.
func Dispatch(s *Server, prepare func(Change) error) func(Change) {
	return func(c Change) {
		if prepare != nil {
			if err := prepare(c); err != nil {
				s.NotifyError(err.Error())
				return
			}
		}
		s.ClearError()
		if c.CSSOnly() {
			for _, f := range c.Files {
				s.NotifyCSS(filepath.Base(f))
			}
			return
		}
		s.NotifyReload()
	}
}
