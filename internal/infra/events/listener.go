package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Event сигнал о том, что список записей устарел.
// Resync=true после переподключения: события могли потеряться
type Event struct {
	AppointmentID string `json:"id"`
	Operation     string `json:"op"`
	Resync        bool   `json:"-"`
}

const (
	subscriberBuffer     = 16
	minReconnectInterval = time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener слушает канал LISTEN/NOTIFY и раздает события подписчикам
type Listener struct {
	dsn     string
	channel string
	log     Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

func NewListener(dsn, channel string, log Logger) *Listener {
	return &Listener{
		dsn:     dsn,
		channel: channel,
		log:     log,
		subs:    make(map[int]chan Event),
	}
}

// Subscribe возвращает канал событий и функцию отписки
func (l *Listener) Subscribe() (<-chan Event, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	ch := make(chan Event, subscriberBuffer)
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subs, id)
			close(ch)
		})
	}
}

// Run блокируется до отмены контекста
func (l *Listener) Run(ctx context.Context) error {
	pl := pq.NewListener(l.dsn, minReconnectInterval, maxReconnectInterval, l.reportProblem)
	defer pl.Close()

	if err := pl.Listen(l.channel); err != nil {
		return fmt.Errorf("events: listen %s: %w", l.channel, err)
	}
	l.log.Info("Events: listening on channel=%s", l.channel)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-pl.Notify:
			if n == nil {
				// соединение восстановлено
				l.publish(Event{Resync: true})
				continue
			}
			l.publish(parsePayload(n.Extra))
		case <-ticker.C:
			go func() {
				if err := pl.Ping(); err != nil {
					l.log.Warn("Events: ping failed: %v", err)
				}
			}()
		}
	}
}

func (l *Listener) reportProblem(ev pq.ListenerEventType, err error) {
	if err != nil {
		l.log.Warn("Events: listener event=%d: %v", ev, err)
	}
}

// publish не блокируется: медленный подписчик пропускает событие
func (l *Listener) publish(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, ch := range l.subs {
		select {
		case ch <- ev:
		default:
			l.log.Warn("Events: subscriber=%d is slow, event dropped", id)
		}
	}
}

// parsePayload ожидает {"id": "...", "op": "INSERT"}; иначе весь payload считается id
func parsePayload(payload string) Event {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{AppointmentID: payload}
	}
	return ev
}
