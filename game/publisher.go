package game

// EventPublisher mirrors every broadcast frame to an external stream
// for consumers outside the table's socket population (dashboards,
// auditors). Publishing is fire-and-forget.
type EventPublisher interface {
	PublishTableEvent(tableID string, frame interface{})
}

// NoopEventPublisher is used when no external stream is configured.
type NoopEventPublisher struct{}

func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

func (p *NoopEventPublisher) PublishTableEvent(tableID string, frame interface{}) {}
