package publisher

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable"
)

const DefaultSubject = "blackjack"

var (
	ErrInvalidSubject = errors.New("publisher: invalid subject")
)

// Connect dials a NATS server with reconnects enabled.
func Connect(url string, name string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
	}
	return nats.Connect(url, opts...)
}

type PublisherOpt func(*NatsPublisher)

func WithLogger(logger *logrus.Entry) PublisherOpt {
	return func(p *NatsPublisher) {
		p.logger = logger
	}
}

/*
NatsPublisher mirrors table events onto NATS for spectators
  - subject is <prefix>.<table id>.<event type in lower case>
  - private events are never published
*/
type NatsPublisher struct {
	nc     *nats.Conn
	prefix string
	logger *logrus.Entry
}

func NewNatsPublisher(nc *nats.Conn, prefix string, opts ...PublisherOpt) (*NatsPublisher, error) {
	if prefix == "" {
		prefix = DefaultSubject
	}
	if strings.ContainsAny(prefix, " *>") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSubject, prefix)
	}

	p := &NatsPublisher{
		nc:     nc,
		prefix: prefix,
		logger: logrus.WithField("component", "publisher"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *NatsPublisher) Subject(ev *blackjacktable.Event) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, ev.TableID, strings.ToLower(string(ev.Type)))
}

func (p *NatsPublisher) Publish(ev *blackjacktable.Event) error {
	if ev.To != "" {
		return nil
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.nc.Publish(p.Subject(ev), data)
}

// OnEvent is an engine event callback. Failures are logged and dropped.
func (p *NatsPublisher) OnEvent(ev *blackjacktable.Event) {
	if err := p.Publish(ev); err != nil {
		p.logger.WithFields(logrus.Fields{
			"table": ev.TableID,
			"event": ev.Type,
		}).WithError(err).Warn("failed to publish event")
	}
}

// Flush waits until the server processed every published event.
func (p *NatsPublisher) Flush() error {
	return p.nc.Flush()
}

// Subscribe delivers the events of one table, or of every table when tableID
// is empty.
func Subscribe(nc *nats.Conn, prefix string, tableID string, fn func(*blackjacktable.Event)) (*nats.Subscription, error) {
	if prefix == "" {
		prefix = DefaultSubject
	}
	if tableID == "" {
		tableID = "*"
	}

	logger := logrus.WithField("component", "subscriber")
	return nc.Subscribe(fmt.Sprintf("%s.%s.*", prefix, tableID), func(m *nats.Msg) {
		var ev blackjacktable.Event
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			logger.WithField("subject", m.Subject).WithError(err).Warn("dropping malformed event")
			return
		}
		fn(&ev)
	})
}
