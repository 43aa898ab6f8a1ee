// Package web is the WebSocket solve shell: a thin network front end over
// the exploration driver. One connection carries one solve session; the
// server streams progress frames while the search runs and a final result
// or error frame when it stops.
package web

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"bfsym/internal/explore"
	"bfsym/internal/program"
	"bfsym/internal/smt"
)

// SolveRequest is the single JSON message a client sends after connecting.
type SolveRequest struct {
	Program   string `json:"program"`
	Output    string `json:"output"`
	TapeSize  int    `json:"tape_size"`
	MaxVisits int    `json:"max_visits"`
}

// Frame is every JSON message the server sends.
type Frame struct {
	Type    string `json:"type"` // "progress", "result" or "error"
	Session string `json:"session"`

	// Progress counters, present on progress and result frames.
	Pops      int `json:"pops,omitempty"`
	Enqueued  int `json:"enqueued,omitempty"`
	Pruned    int `json:"pruned,omitempty"`
	Expanded  int `json:"expanded,omitempty"`
	CacheHits int `json:"cache_hits,omitempty"`

	// Result fields.
	Found bool   `json:"found,omitempty"`
	Input []int  `json:"input,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	defaultTapeSize  = 16
	defaultMaxVisits = 1 << 20
	writeTimeout     = 10 * time.Second
)

// Server serves solve sessions over WebSocket.
type Server struct {
	upgrader websocket.Upgrader
}

func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ListenAndServe mounts the solve handler and blocks.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/solve", s.HandleSolve)
	log.Printf("web: listening on %s", addr)
	return errors.Wrap(http.ListenAndServe(addr, mux), "web server failed")
}

// HandleSolve upgrades the connection, reads one solve request and runs
// the search to completion, streaming progress along the way.
func (s *Server) HandleSolve(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()

	var req SolveRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.sendError(conn, session, errors.Wrap(err, "reading solve request"))
		return
	}
	if req.TapeSize <= 0 {
		req.TapeSize = defaultTapeSize
	}
	if req.MaxVisits <= 0 {
		req.MaxVisits = defaultMaxVisits
	}

	prog, err := program.Parse(req.Program)
	if err != nil {
		s.sendError(conn, session, errors.Wrap(err, "parsing program"))
		return
	}

	ctx := smt.NewContext()
	group := explore.MakeEntry(ctx, prog, req.TapeSize)
	group.MaxVisits = req.MaxVisits
	group.Progress = func(stats explore.Stats) {
		s.send(conn, s.statsFrame("progress", session, stats, group.Cache()))
	}

	concrete, found := group.ExploreUntilOutput([]byte(req.Output))

	result := s.statsFrame("result", session, group.Stats(), group.Cache())
	result.Found = found
	if found {
		result.Input = make([]int, len(concrete.Input))
		for i, b := range concrete.Input {
			result.Input[i] = int(b)
		}
	}
	s.send(conn, result)
}

func (s *Server) statsFrame(kind, session string, stats explore.Stats, cache *smt.Cache) Frame {
	return Frame{
		Type:      kind,
		Session:   session,
		Pops:      stats.Pops,
		Enqueued:  stats.Enqueued,
		Pruned:    stats.Pruned,
		Expanded:  stats.Expanded,
		CacheHits: cache.Hits(),
	}
}

func (s *Server) sendError(conn *websocket.Conn, session string, err error) {
	log.Printf("web: session %s: %v", session, err)
	s.send(conn, Frame{Type: "error", Session: session, Error: err.Error()})
}

func (s *Server) send(conn *websocket.Conn, frame Frame) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("web: write failed: %v", err)
	}
}
