package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"beltforge/internal/protocol"
	"beltforge/internal/sim/session"
)

// Server upgrades participant connections and feeds joins/leaves into the
// session loop. Participants are passive in this scenario: they receive
// TICK and PRINT broadcasts and their presence makes the session
// multiplayer.
type Server struct {
	sess *session.Session
	log  *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(sess *session.Session, logger *log.Logger) *Server {
	return &Server{
		sess: sess,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		participantID, out := s.handshake(conn)
		if participantID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop. Incoming frames only keep the connection alive;
		// this scenario has no participant actions.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				break
			}
		}

		s.sess.Leave() <- participantID
	}
}

func (s *Server) handshake(conn *websocket.Conn) (string, chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var hello protocol.HelloMsg
	if err := conn.ReadJSON(&hello); err != nil {
		return "", nil
	}
	if hello.Type != protocol.TypeHello || hello.ProtocolVersion != protocol.Version {
		s.log.Printf("rejecting handshake: type=%q version=%q", hello.Type, hello.ProtocolVersion)
		return "", nil
	}

	out := make(chan []byte, 64)
	resp := make(chan session.JoinResponse, 1)
	s.sess.Join() <- session.JoinRequest{Name: hello.Name, Out: out, Resp: resp}

	select {
	case r := <-resp:
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(r.Welcome); err != nil {
			return "", nil
		}
		return r.Welcome.ParticipantID, out
	case <-time.After(10 * time.Second):
		return "", nil
	}
}
