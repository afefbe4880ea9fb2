//go:build integration

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pensionledger/pkg/testutil/containers"
)

type PostgresOutboxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *PostgresStore
}

func TestPostgresOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresOutboxSuite))
}

func (s *PostgresOutboxSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = NewPostgresStore(s.postgres.DB)
}

func (s *PostgresOutboxSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "audit_outbox")
	s.Require().NoError(err)
}

func (s *PostgresOutboxSuite) appendEvent(subject string, action Action, at time.Time) Event {
	event := Event{
		ID:        uuid.New(),
		Timestamp: at,
		Actor:     "administrator",
		Subject:   subject,
		Action:    action,
	}
	s.Require().NoError(s.store.Append(context.Background(), event))
	return event
}

func (s *PostgresOutboxSuite) TestAppendAndList() {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	s.appendEvent("0", ActionAssetClassAdded, base)
	s.appendEvent("0", ActionAllocationUpdated, base.Add(time.Minute))
	s.appendEvent("1", ActionAssetClassAdded, base.Add(2*time.Minute))

	events, err := s.store.ListBySubject(ctx, "0")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(ActionAssetClassAdded, events[0].Action)
	s.Equal(ActionAllocationUpdated, events[1].Action)
}

func (s *PostgresOutboxSuite) TestOutboxDrain() {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := s.appendEvent("r-1", ActionPaymentRecorded, base)
	second := s.appendEvent("r-1", ActionPaymentRecorded, base.Add(time.Minute))

	s.Run("unpublished entries surface oldest first", func() {
		entries, err := s.store.FetchUnpublished(ctx, 10)
		s.Require().NoError(err)
		s.Require().Len(entries, 2)
		s.Equal(first.ID, entries[0].ID)
		s.Equal(second.ID, entries[1].ID)
	})

	s.Run("published entries drop out of the batch", func() {
		s.Require().NoError(s.store.MarkPublished(ctx, first.ID, time.Now()))

		entries, err := s.store.FetchUnpublished(ctx, 10)
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Equal(second.ID, entries[0].ID)
	})

	s.Run("limit bounds the batch", func() {
		s.appendEvent("r-1", ActionPaymentRecorded, base.Add(2*time.Minute))

		entries, err := s.store.FetchUnpublished(ctx, 1)
		s.Require().NoError(err)
		s.Len(entries, 1)
	})
}
