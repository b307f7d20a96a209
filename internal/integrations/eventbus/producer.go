package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter подмножество *kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

// Producer публикует события о записях в kafka.
// Ключ сообщения - ID записи, поэтому события одной записи идут в одну партицию по порядку.
type Producer struct {
	writer       MessageWriter
	writeTimeout time.Duration
	closed       bool
	mu           sync.RWMutex
}

// NewProducer создает producer поверх kafka.Writer
func NewProducer(brokers []string, topic string, writeTimeout time.Duration, logger Logger) (*Producer, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, fmt.Errorf("%w: brokers and topic are required", ErrInvalidConfig)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: writeTimeout,
		Logger:       kafka.LoggerFunc(func(string, ...interface{}) {}),
		ErrorLogger:  kafka.LoggerFunc(logger.Error),
	}

	return NewProducerWithWriter(writer, writeTimeout), nil
}

// NewProducerWithWriter создает producer с произвольным writer (используется в тестах)
func NewProducerWithWriter(writer MessageWriter, writeTimeout time.Duration) *Producer {
	return &Producer{writer: writer, writeTimeout: writeTimeout}
}

// Publish отправляет событие и ждёт подтверждения брокеров
func (p *Producer) Publish(ctx context.Context, event AppointmentEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrProducerClosed
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AppointmentID, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.New().String())},
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderSource, Value: []byte(source)},
			{Key: HeaderSchemaVersion, Value: []byte(schemaVersion)},
		},
	}

	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s #%d: %v", ErrWrite, event.Type, event.AppointmentID, err)
	}

	return nil
}

// Close закрывает writer; повторный вызов ничего не делает
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
