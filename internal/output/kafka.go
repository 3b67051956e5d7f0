package output

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-gota/gota/dataframe"
)

// KafkaWriter publishes each row of a result table as a JSON message on the
// topic named after the table.
type KafkaWriter struct {
	producer sarama.SyncProducer
}

func NewKafkaWriter(brokerList string) (*KafkaWriter, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokers := strings.Split(brokerList, ",")
	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log.Printf("Sarama producer created successfully with brokers %v", brokers)
	return &KafkaWriter{producer: producer}, nil
}

func (k *KafkaWriter) WriteTable(name string, df dataframe.DataFrame) error {
	if k.producer == nil {
		return fmt.Errorf("Kafka producer is not initialized")
	}

	for _, row := range df.Maps() {
		msg, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal row for topic %s: %w", name, err)
		}
		_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
			Topic: name,
			Value: sarama.ByteEncoder(msg),
		})
		if err != nil {
			return fmt.Errorf("failed to send message to topic %s: %w", name, err)
		}
	}
	return nil
}

func (k *KafkaWriter) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}
