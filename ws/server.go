package ws

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"tavern.club/faro/game"
)

var serverLogger = log.With().Str("logger_name", "ws::server").Logger()

// Server accepts websocket connections and runs one Client per
// connection until it drops.
type Server struct {
	manager *game.Manager
}

func NewServer(manager *game.Manager) *Server {
	return &Server{manager: manager}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// Browser wallets connect from arbitrary origins; trust is
		// established above this layer.
		InsecureSkipVerify: true,
	})
	if err != nil {
		serverLogger.Error().Msgf("Unable to accept websocket connection: %v", err)
		return
	}

	client := newClient(conn, s.manager)
	serverLogger.Info().Str("clientID", client.ID()).Msg("Client connected")
	client.run(context.Background())
	serverLogger.Info().Str("clientID", client.ID()).Msg("Client disconnected")
}

// Run blocks serving websocket connections on the given port.
func Run(manager *game.Manager, port int) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", NewServer(manager))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("Tavern realtime OK"))
	})

	serverLogger.Info().Msgf("Websocket server listening on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
