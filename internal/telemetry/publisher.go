package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/okuda/tinysense/internal/logger"
	"github.com/okuda/tinysense/internal/mqtt"
	"github.com/okuda/tinysense/internal/spool"
)

const publishQOS = 1

// envelope is the wire shape, one JSON object per frame.
type envelope struct {
	Timestamp string `json:"timestamp"`
	NodeID    string `json:"node_id"`
	Frame
}

// Publisher spools frames and drains them to the broker from its own
// goroutine, so a dead broker never stalls the control loop.
type Publisher struct {
	log     *logger.Logger
	client  mqtt.Client
	topic   string
	nodeID  string
	sp      *spool.Spool
	notify  chan struct{}
	backoff time.Duration
}

func NewPublisher(client mqtt.Client, nodeID string, sp *spool.Spool, log *logger.Logger) *Publisher {
	return &Publisher{
		log:     log,
		client:  client,
		topic:   "telemetry/" + nodeID,
		nodeID:  nodeID,
		sp:      sp,
		notify:  make(chan struct{}, 1),
		backoff: time.Second,
	}
}

// Emit encodes the frame into the spool. Called from the control loop; the
// only work here is marshalling and a RAM append.
func (p *Publisher) Emit(f Frame) {
	payload, err := json.Marshal(envelope{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		NodeID:    p.nodeID,
		Frame:     f,
	})
	if err != nil {
		p.log.Error(err, "encode frame")
		return
	}
	if err := p.sp.Append(payload); err != nil {
		p.log.Error(err, "spool frame")
		return
	}
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Run drains the spool until ctx is done. Publish failures back off and
// retry the same record; the spool's segment cap bounds what a long outage
// can accumulate.
func (p *Publisher) Run(ctx context.Context) {
	for {
		payload, ok := p.sp.Peek()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-p.notify:
			}
			continue
		}

		token := p.client.Publish(p.topic, publishQOS, false, payload)
		if token.Wait() && token.Error() != nil {
			p.log.Warn("publish failed, retrying: %v", token.Error())
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.backoff):
			}
			continue
		}
		p.sp.Advance()

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
