package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type PublisherSuite struct {
	suite.Suite
	store     *InMemoryStore
	publisher *Publisher
	ctx       context.Context
}

func (s *PublisherSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.publisher = NewPublisher(s.store)
	s.ctx = context.Background()
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestEmit() {
	s.Run("assigns id and timestamp when missing", func() {
		err := s.publisher.Emit(s.ctx, Event{
			Actor:   "administrator",
			Subject: "0",
			Action:  ActionAssetClassAdded,
		})
		s.Require().NoError(err)

		events, err := s.publisher.List(s.ctx, "0")
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.NotEqual(uuid.Nil, events[0].ID)
		s.False(events[0].Timestamp.IsZero())
	})

	s.Run("preserves caller-supplied id and timestamp", func() {
		eventID := uuid.New()
		at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		err := s.publisher.Emit(s.ctx, Event{
			ID:        eventID,
			Timestamp: at,
			Actor:     "administrator",
			Subject:   "1",
			Action:    ActionAllocationUpdated,
			Detail:    "percent=45",
		})
		s.Require().NoError(err)

		events, err := s.publisher.List(s.ctx, "1")
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(eventID, events[0].ID)
		s.Equal(at, events[0].Timestamp)
		s.Equal("percent=45", events[0].Detail)
	})

	s.Run("events accumulate per subject, oldest first", func() {
		for _, action := range []Action{ActionRetireeRegistered, ActionPaymentRecorded, ActionPaymentRecorded} {
			s.Require().NoError(s.publisher.Emit(s.ctx, Event{Subject: "retiree-a", Action: action}))
		}

		events, err := s.publisher.List(s.ctx, "retiree-a")
		s.Require().NoError(err)
		s.Require().Len(events, 3)
		s.Equal(ActionRetireeRegistered, events[0].Action)
		s.Equal(ActionPaymentRecorded, events[2].Action)
	})

	s.Run("unknown subject lists empty", func() {
		events, err := s.publisher.List(s.ctx, "nobody")
		s.Require().NoError(err)
		s.Empty(events)
	})
}
