//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// UniqueTopicAndGroup — топик и группа с суффиксом-временем, одинаковые по имени.
func UniqueTopicAndGroup(base string) (topic, group string) {
	name := base + "-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 36)
	return name, name
}

// EnsureTopic — создаёт топик через контроллер кластера и ждёт, пока у него появятся партиции.
// broker принимает "host:port", "PLAINTEXT://host:port" и списки через запятую.
func EnsureTopic(ctx context.Context, broker, topic string) error {
	addr := bootstrapAddr(broker)

	if err := createTopic(addr, topic); err != nil {
		return err
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)

	var lastErr error
	for {
		if lastErr = hasPartitions(addr, topic); lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("topic %q not ready: %w", topic, lastErr)
		case <-ticker.C:
		}
	}
}

// ProduceJSON — пишет payloads в топик, ключ сообщения равен его номеру.
func ProduceJSON(ctx context.Context, broker, topic string, payloads ...[]byte) error {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(bootstrapAddr(broker)),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	defer w.Close()

	msgs := make([]kafka.Message, len(payloads))
	for i, p := range payloads {
		msgs[i] = kafka.Message{Key: []byte(strconv.Itoa(i)), Value: p}
	}
	return w.WriteMessages(ctx, msgs...)
}

func createTopic(addr, topic string) error {
	conn, err := kafka.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	admin, err := kafka.Dial("tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	return nil
}

func hasPartitions(addr, topic string) error {
	conn, err := kafka.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	parts, err := conn.ReadPartitions(topic)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return errors.New("no partitions yet")
	}
	return nil
}

// bootstrapAddr — первый адрес bootstrap-строки без схемы.
func bootstrapAddr(raw string) string {
	first, _, _ := strings.Cut(raw, ",")
	first = strings.TrimSpace(first)
	if u, err := url.Parse(first); err == nil && u.Host != "" {
		return u.Host
	}
	return first
}
