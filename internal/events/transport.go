package events

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// PubSub is a transport that can both publish and subscribe. The in-process
// gochannel satisfies it for single-instance deployments and tests; Kafka
// splits into separate publisher and subscriber when running multi-instance.
type PubSub interface {
	message.Publisher
	message.Subscriber
}

// NewGoChannelPubSub builds the in-process transport. Dashboard subscribers
// and service publishers share the one instance.
func NewGoChannelPubSub(logger *slog.Logger) PubSub {
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
}

// NewKafkaPublisher builds a Kafka-backed publisher for multi-instance runs.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (message.Publisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return publisher, nil
}

// NewKafkaSubscriber builds the matching Kafka subscriber.
func NewKafkaSubscriber(brokers []string, consumerGroup string, logger *slog.Logger) (message.Subscriber, error) {
	subscriber, err := kafka.NewSubscriber(
		kafka.SubscriberConfig{
			Brokers:       brokers,
			ConsumerGroup: consumerGroup,
			Unmarshaler:   kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka subscriber: %w", err)
	}
	return subscriber, nil
}
