package appointments_stream

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
	"github.com/m04kA/BarberBookingService/internal/service/appointments"
	"github.com/m04kA/BarberBookingService/internal/service/appointments/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

const msgInvalidFilter = "filtre invalide, valeurs possibles : all, today, upcoming, confirmed, pending"

// StreamMessage снимок списка записей, отправляется при подключении и после каждого изменения
type StreamMessage struct {
	Type         string                          `json:"type"`
	Filter       string                          `json:"filter"`
	Appointments *models.AppointmentListResponse `json:"appointments"`
}

type Handler struct {
	service  AppointmentService
	source   EventSource
	metrics  Metrics
	upgrader websocket.Upgrader
	logger   Logger
}

func NewHandler(service AppointmentService, source EventSource, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		service: service,
		source:  source,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// доступ уже проверен Auth/RequireAdmin
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handle GET /api/v1/admin/appointments/stream?filter=today (websocket)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")

	// первый снимок до апгрейда: некорректный фильтр получает обычный 400
	first, err := h.service.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidFilter) {
			handlers.RespondBadRequest(w, msgInvalidFilter)
			return
		}
		h.logger.Error("GET /admin/appointments/stream - Failed to list appointments: %v", err)
		handlers.RespondFailure(w, r)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам ответил клиенту
		h.logger.Warn("GET /admin/appointments/stream - Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.metrics.AddStreamClients(1)
	defer h.metrics.AddStreamClients(-1)

	events, unsubscribe := h.source.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go h.readLoop(conn, cancel)

	h.logger.Info("GET /admin/appointments/stream - Client connected: filter=%q", filter)

	if err := h.send(conn, filter, first); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("GET /admin/appointments/stream - Client disconnected")
			return

		case _, ok := <-events:
			if !ok {
				return
			}
			drain(events)

			list, err := h.service.List(ctx, filter)
			if err != nil {
				h.logger.Error("GET /admin/appointments/stream - Failed to refresh list: %v", err)
				continue
			}
			if err := h.send(conn, filter, list); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, filter string, list *models.AppointmentListResponse) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := conn.WriteJSON(StreamMessage{Type: "appointments", Filter: filter, Appointments: list})
	if err != nil {
		h.logger.Warn("GET /admin/appointments/stream - Write failed: %v", err)
	}
	return err
}

// readLoop читает только служебные кадры; ошибка чтения значит, что клиент ушел
func (h *Handler) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// drain схлопывает пачку событий в одно обновление
func drain[T any](ch <-chan T) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
