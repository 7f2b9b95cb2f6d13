package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
)

// Publisher is the subset of *nats.Conn used for reminder events.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the JSON body published for each reminder.
type Event struct {
	ID     string    `json:"id"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// NATS publishes reminder events so other devices or bots can relay them.
type NATS struct {
	pub     Publisher
	subject string
	now     func() time.Time
}

func NewNATS(pub Publisher, subject string) *NATS {
	if subject == "" {
		subject = constants.DefaultNATSSubject
	}
	return &NATS{pub: pub, subject: subject, now: time.Now}
}

// DialNATS connects to url and returns a notifier plus a close function.
func DialNATS(url, subject string) (*NATS, func(), error) {
	conn, err := nats.Connect(url,
		nats.Name(constants.AppName),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS", "url", conn.ConnectedUrlRedacted(), "subject", subject)

	closeFn := func() {
		if err := conn.Drain(); err != nil {
			conn.Close()
		}
	}
	return NewNATS(conn, subject), closeFn, nil
}

func (n *NATS) Notify(text string) error {
	event := Event{
		ID:     uuid.NewString(),
		Text:   text,
		SentAt: n.now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.pub.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish reminder: %w", err)
	}
	logger.Debug("Published reminder event", "id", event.ID, "subject", n.subject)
	return nil
}
