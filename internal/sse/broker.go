package sse

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	redisclient "github.com/masjid-annur/dashboard-server-go/internal/redis"
)

const (
	HeartbeatInterval = 30 * time.Second

	EventScheduleUpdated = "schedule_updated"
)

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type Client struct {
	Events chan Event
	Done   chan struct{}
}

// Broker fans schedule-change events out to every connected kiosk display.
// All displays share one channel; Redis pub/sub carries events across server
// instances. With a nil Redis client the broker broadcasts locally, which is
// enough for a single instance and for tests.
type Broker struct {
	redis   *redisclient.Client
	clients map[*Client]bool
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

func NewBroker(redisClient *redisclient.Client) *Broker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Broker{
		redis:   redisClient,
		clients: make(map[*Client]bool),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (b *Broker) Subscribe() *Client {
	client := &Client{
		Events: make(chan Event, 16),
		Done:   make(chan struct{}),
	}

	if b.redis != nil {
		b.once.Do(func() {
			go b.subscribeToRedis()
		})
	}

	b.mu.Lock()
	b.clients[client] = true
	clientCount := len(b.clients)
	b.mu.Unlock()

	log.Info().Int("clientCount", clientCount).Msg("sse client subscribed")

	return client
}

func (b *Broker) Unsubscribe(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client.Done)

		log.Info().Int("clientCount", len(b.clients)).Msg("sse client unsubscribed")
	}
}

// PublishScheduleUpdated tells every display to refetch the schedule. It
// satisfies the publisher contract the kajian service expects.
func (b *Broker) PublishScheduleUpdated(ctx context.Context) {
	data, _ := json.Marshal(map[string]string{
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
	})
	event := Event{Type: EventScheduleUpdated, Data: data}

	if b.redis == nil {
		b.broadcast(event)
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := b.redis.Publish(ctx, redisclient.ScheduleChannel(), payload).Err(); err != nil {
		log.Error().Err(err).Msg("failed to publish schedule event")
	}
}

func (b *Broker) subscribeToRedis() {
	channel := redisclient.ScheduleChannel()
	pubsub := b.redis.Subscribe(b.ctx, channel)
	defer pubsub.Close()

	log.Debug().Str("channel", channel).Msg("redis pubsub subscribed")

	ch := pubsub.Channel()

	for {
		select {
		case <-b.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error().Err(err).Msg("failed to unmarshal event")
				continue
			}

			b.broadcast(event)
		}
	}
}

func (b *Broker) broadcast(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for client := range b.clients {
		select {
		case client.Events <- event:
		default:
			log.Warn().Msg("client event buffer full, dropping event")
		}
	}
}

func (b *Broker) Close() {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	for client := range b.clients {
		close(client.Done)
	}
	b.clients = make(map[*Client]bool)
}

func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
