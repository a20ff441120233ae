package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
	"github.com/mpapenbr/f1-visual-simulator/pkg/race"
)

const DefaultSubjectPrefix = "f1sim"

type (
	// Conn is the part of *nats.Conn used by the publisher
	Conn interface {
		Publish(subj string, data []byte) error
	}
	Publisher struct {
		conn   Conn
		prefix string
		l      *log.Logger
	}
	Option func(*Publisher)

	// LapMessage is the payload sent for every completed lap and on finish
	LapMessage struct {
		RaceID    string        `json:"raceId"`
		Lap       int           `json:"lap"`
		TotalLaps int           `json:"totalLaps"`
		Phase     race.Phase    `json:"phase"`
		Standings []model.Car   `json:"standings"`
		Events    []model.Event `json:"events"`
	}
)

func WithSubjectPrefix(prefix string) Option {
	return func(p *Publisher) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Publisher) {
		p.l = l
	}
}

func NewPublisher(conn Conn, opts ...Option) *Publisher {
	ret := &Publisher{
		conn:   conn,
		prefix: DefaultSubjectPrefix,
		l:      log.Default().Named("nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Connect opens a connection which keeps reconnecting until closed
func Connect(url string, l *log.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("f1sim"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				l.Warn("nats disconnected", log.ErrorField(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			l.Info("nats reconnected", log.String("url", c.ConnectedUrl()))
		}))
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return conn, nil
}

func (p *Publisher) LapSubject() string {
	return p.prefix + ".lap"
}

func (p *Publisher) FinishedSubject() string {
	return p.prefix + ".finished"
}

// Publish sends the lap message. A finished race is additionally
// announced on the finished subject.
func (p *Publisher) Publish(snap race.Snapshot) error {
	data, err := json.Marshal(LapMessage{
		RaceID:    snap.RaceID,
		Lap:       snap.Lap,
		TotalLaps: snap.TotalLaps,
		Phase:     snap.Phase,
		Standings: snap.Standings,
		Events:    snap.Events,
	})
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.LapSubject(), data); err != nil {
		return fmt.Errorf("publish %s: %w", p.LapSubject(), err)
	}
	if snap.Phase == race.PhaseFinished {
		if err := p.conn.Publish(p.FinishedSubject(), data); err != nil {
			return fmt.Errorf("publish %s: %w", p.FinishedSubject(), err)
		}
	}
	p.l.Debug("published",
		log.String("raceId", snap.RaceID),
		log.Int("lap", snap.Lap))
	return nil
}

// Run publishes every snapshot received on ch until ch is closed or ctx is done.
// Publish errors are logged, they do not stop the loop.
func (p *Publisher) Run(ctx context.Context, ch <-chan race.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if err := p.Publish(snap); err != nil {
				p.l.Warn("could not publish lap", log.ErrorField(err))
			}
		}
	}
}
