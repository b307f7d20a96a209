// Package realtime рассылает события о записях подключённым по WebSocket клиентам.
// Доставка best-effort: без повторов и подтверждений.
package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// TopicAll получают все события по записям
const TopicAll = "appointments"

// SpecialistTopic топик событий одного мастера
func SpecialistTopic(specialistID int64) string {
	return "specialist/" + strconv.FormatInt(specialistID, 10)
}

// Event событие, отправляемое клиентам
type Event struct {
	Type          string          `json:"type"`
	Topic         string          `json:"topic"`
	AppointmentID int64           `json:"appointmentId"`
	SpecialistID  int64           `json:"specialistId"`
	Date          string          `json:"date"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// ClientMessage входящее сообщение клиента: подписка/отписка от топиков
type ClientMessage struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Client одно WebSocket-подключение
type Client struct {
	ID     string
	Topics []string
	Send   chan []byte
}

// Hub хранит подключения и их подписки. Потокобезопасен.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // topic -> клиенты
	all     map[*Client]struct{}
	logger  Logger
}

// NewHub создает пустой хаб
func NewHub(logger Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		all:     make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register добавляет клиента и подписывает на его начальные топики
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}
	for _, topic := range client.Topics {
		h.addLocked(topic, client)
	}
}

// Unregister удаляет клиента из всех топиков и закрывает его канал Send
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	for _, topic := range client.Topics {
		h.removeLocked(topic, client)
	}

	delete(h.all, client)
	close(client.Send)
}

// Subscribe добавляет топики уже зарегистрированному клиенту
func (h *Hub) Subscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, topic := range topics {
		if h.isSubscribedLocked(topic, client) {
			continue
		}
		h.addLocked(topic, client)
		client.Topics = append(client.Topics, topic)
	}
}

// Unsubscribe убирает топики у зарегистрированного клиента
func (h *Hub) Unsubscribe(client *Client, topics []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	removeSet := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		removeSet[topic] = struct{}{}
		h.removeLocked(topic, client)
	}

	remaining := make([]string, 0, len(client.Topics))
	for _, topic := range client.Topics {
		if _, rm := removeSet[topic]; !rm {
			remaining = append(remaining, topic)
		}
	}
	client.Topics = remaining
}

// ProcessMessage обрабатывает входящее сообщение клиента
func (h *Hub) ProcessMessage(client *Client, msg ClientMessage) {
	switch msg.Action {
	case "subscribe":
		h.Subscribe(client, msg.Topics)
	case "unsubscribe":
		h.Unsubscribe(client, msg.Topics)
	}
}

// Broadcast отправляет событие подписчикам топика.
// Клиент с переполненным буфером пропускает событие.
func (h *Hub) Broadcast(topic string, event Event) {
	event.Topic = topic
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("realtime: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[topic] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("realtime: client %s buffer full, event %s dropped", client.ID, event.Type)
		}
	}
}

// Publish рассылает событие в общий топик и в топик мастера
func (h *Hub) Publish(_ context.Context, event Event) error {
	h.Broadcast(TopicAll, event)
	if event.SpecialistID != 0 {
		h.Broadcast(SpecialistTopic(event.SpecialistID), event)
	}
	return nil
}

// CloseAll отключает всех клиентов (при остановке сервиса)
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.all {
		close(client.Send)
	}
	h.all = make(map[*Client]struct{})
	h.clients = make(map[string]map[*Client]struct{})
}

// ClientCount количество подключённых клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// TopicCount количество подписчиков топика
func (h *Hub) TopicCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

func (h *Hub) addLocked(topic string, client *Client) {
	if h.clients[topic] == nil {
		h.clients[topic] = make(map[*Client]struct{})
	}
	h.clients[topic][client] = struct{}{}
}

func (h *Hub) removeLocked(topic string, client *Client) {
	if subscribers, ok := h.clients[topic]; ok {
		delete(subscribers, client)
		if len(subscribers) == 0 {
			delete(h.clients, topic)
		}
	}
}

func (h *Hub) isSubscribedLocked(topic string, client *Client) bool {
	_, ok := h.clients[topic][client]
	return ok
}
