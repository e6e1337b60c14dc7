package producer

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type senderStub struct {
	errs []error
	sent []*sarama.ProducerMessage
}

func (s *senderStub) SendMessage(msg *sarama.ProducerMessage) (int32, int64, error) {
	s.sent = append(s.sent, msg)
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return 0, 0, err
		}
	}
	return 0, int64(len(s.sent)), nil
}

func TestProduceMessageUsesKey(t *testing.T) {
	stub := &senderStub{}
	p := newProducer(stub, "calendar.events", zap.NewNop().Sugar(), 3, nil)

	if err := p.ProduceMessage(context.Background(), "evt-1", []byte(`{"type":"event_created"}`)); err != nil {
		t.Fatal(err)
	}
	if len(stub.sent) != 1 {
		t.Fatalf("sent %d messages", len(stub.sent))
	}
	msg := stub.sent[0]
	key, _ := msg.Key.Encode()
	if msg.Topic != "calendar.events" || string(key) != "evt-1" {
		t.Fatalf("topic=%s key=%s", msg.Topic, key)
	}
}

func TestProduceMessagePermanentErrorStops(t *testing.T) {
	stub := &senderStub{errs: []error{sarama.ErrTopicAuthorizationFailed}}
	p := newProducer(stub, "t", zap.NewNop().Sugar(), 5, nil)

	err := p.ProduceMessage(context.Background(), "k", nil)
	if !errors.Is(err, sarama.ErrTopicAuthorizationFailed) {
		t.Fatalf("err = %v", err)
	}
	if len(stub.sent) != 1 {
		t.Fatalf("permanent error retried: %d attempts", len(stub.sent))
	}
}

func TestProduceMessageRetriesTransient(t *testing.T) {
	stub := &senderStub{errs: []error{sarama.ErrLeaderNotAvailable, nil}}
	p := newProducer(stub, "t", zap.NewNop().Sugar(), 2, nil)

	if err := p.ProduceMessage(context.Background(), "k", nil); err != nil {
		t.Fatal(err)
	}
	if len(stub.sent) != 2 {
		t.Fatalf("attempts = %d, want 2", len(stub.sent))
	}
}

func TestProduceMessageCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stub := &senderStub{}
	p := newProducer(stub, "t", zap.NewNop().Sugar(), 3, nil)

	if err := p.ProduceMessage(ctx, "k", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(stub.sent) != 0 {
		t.Fatal("nothing should be sent after cancel")
	}
}

func TestClassifyRetry(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{sarama.ErrLeaderNotAvailable, "leader_not_available"},
		{sarama.ErrRequestTimedOut, "broker_timeout"},
		{sarama.ErrNotEnoughReplicasAfterAppend, "not_enough_replicas"},
		{context.Canceled, "client_deadline"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := ClassifyRetry(tt.err); got != tt.want {
			t.Errorf("ClassifyRetry(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
