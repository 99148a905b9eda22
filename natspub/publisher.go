package natspub

import (
	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

var natsLogger = log.With().Str("logger_name", "natspub::publisher").Logger()

// Publisher mirrors table broadcast frames onto NATS subjects so
// out-of-process consumers (dashboards, auditors) can follow table
// activity without holding a websocket.
type Publisher struct {
	natsConn *natsgo.Conn
}

func NewPublisher(natsURL string) (*Publisher, error) {
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		return nil, err
	}
	natsLogger.Info().Msgf("Connected to NATS at %s", natsURL)
	return &Publisher{natsConn: nc}, nil
}

// PublishTableEvent is fire-and-forget; a publish failure never blocks
// or fails table progression.
func (p *Publisher) PublishTableEvent(tableID string, frame interface{}) {
	data, err := jsoniter.Marshal(frame)
	if err != nil {
		natsLogger.Error().Str("tableID", tableID).Msgf("Unable to marshal table event: %v", err)
		return
	}
	err = p.natsConn.Publish(GetTableEventSubject(tableID), data)
	if err != nil {
		natsLogger.Error().Str("tableID", tableID).Msgf("Unable to publish table event: %v", err)
	}
}

func (p *Publisher) Close() {
	p.natsConn.Close()
}
