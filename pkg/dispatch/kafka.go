package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/alantheprice/outreach/pkg/utils"
)

const headerJobID = "job-id"

// Pause between failed fetches, doubling per consecutive failure.
const (
	fetchRetryBase = time.Second
	fetchRetryMax  = 30 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaDispatcher publishes jobs to a topic for KafkaWorker to run.
type KafkaDispatcher struct {
	writer messageWriter
	topic  string
}

// NewKafkaDispatcher creates a producer for topic. Jobs are keyed by user so
// one user's jobs stay on one partition.
func NewKafkaDispatcher(brokers []string, topic string) (*KafkaDispatcher, error) {
	if len(brokers) == 0 {
		return nil, utils.NewConfigError("kafka_brokers", fmt.Errorf("at least one broker is required"))
	}
	if topic == "" {
		return nil, utils.NewConfigError("kafka_topic", fmt.Errorf("topic is required"))
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		WriteTimeout:           10 * time.Second,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &KafkaDispatcher{writer: writer, topic: topic}, nil
}

// Dispatch implements Dispatcher.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, job Job) error {
	ensureID(&job)
	msg, err := encodeJob(job)
	if err != nil {
		return err
	}
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		return utils.NewNetworkError("publish job", fmt.Errorf("topic %s: %w", d.topic, err))
	}
	return nil
}

// Close closes the producer.
func (d *KafkaDispatcher) Close() error {
	if err := d.writer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	return nil
}

func encodeJob(job Job) (kafka.Message, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to serialize job: %w", err)
	}
	return kafka.Message{
		Key:     []byte(job.UserID),
		Value:   data,
		Headers: []kafka.Header{{Key: headerJobID, Value: []byte(job.ID)}},
		Time:    time.Now().UTC(),
	}, nil
}

func decodeJob(msg kafka.Message) (Job, error) {
	var job Job
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return Job{}, fmt.Errorf("failed to parse job at offset %d: %w", msg.Offset, err)
	}
	if job.ID == "" {
		for _, h := range msg.Headers {
			if h.Key == headerJobID {
				job.ID = string(h.Value)
			}
		}
	}
	return job, nil
}

// KafkaWorker consumes jobs and runs them one at a time.
type KafkaWorker struct {
	reader     messageReader
	handler    Handler
	logger     *utils.Logger
	retryBase  time.Duration
	retryLimit time.Duration
}

// NewKafkaWorker creates a consumer-group member for topic.
func NewKafkaWorker(brokers []string, topic, groupID string, handler Handler, logger *utils.Logger) (*KafkaWorker, error) {
	if len(brokers) == 0 {
		return nil, utils.NewConfigError("kafka_brokers", fmt.Errorf("at least one broker is required"))
	}
	if topic == "" || groupID == "" {
		return nil, utils.NewConfigError("kafka_topic", fmt.Errorf("topic and group ID are required"))
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        3 * time.Second,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})
	return newKafkaWorker(reader, handler, logger), nil
}

func newKafkaWorker(reader messageReader, handler Handler, logger *utils.Logger) *KafkaWorker {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &KafkaWorker{
		reader:     reader,
		handler:    handler,
		logger:     logger,
		retryBase:  fetchRetryBase,
		retryLimit: fetchRetryMax,
	}
}

// Run processes messages until ctx is cancelled. Jobs that fail to parse or
// to run are logged and committed so the group never stalls on them. Fetch
// failures pause the loop with a growing delay until the broker is back.
func (w *KafkaWorker) Run(ctx context.Context) error {
	failures := 0
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			delay := w.fetchDelay(failures)
			w.logger.LogError(utils.NewNetworkError("fetch job", err))
			w.logger.Logf("Retrying fetch in %s (failure %d)", delay, failures)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}
		failures = 0

		if job, err := decodeJob(msg); err != nil {
			w.logger.LogError(err)
		} else {
			logger := w.logger.WithCorrelationID(job.ID)
			logger.LogProcessStep(fmt.Sprintf("running job from partition %d offset %d", msg.Partition, msg.Offset))
			if err := w.handler.Handle(ctx, job); err != nil {
				logger.LogError(err)
			}
		}

		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Logf("Failed to commit offset %d: %v", msg.Offset, err)
		}
	}
}

func (w *KafkaWorker) fetchDelay(failures int) time.Duration {
	delay := w.retryBase
	for i := 1; i < failures && delay < w.retryLimit; i++ {
		delay *= 2
	}
	if delay > w.retryLimit {
		delay = w.retryLimit
	}
	return delay
}

// Close closes the consumer.
func (w *KafkaWorker) Close() error {
	if err := w.reader.Close(); err != nil {
		return fmt.Errorf("failed to close reader: %w", err)
	}
	return nil
}
