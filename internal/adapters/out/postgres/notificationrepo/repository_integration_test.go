package notificationrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

var t0 = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

type NotificationRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *notificationrepo.GormNotificationRepository
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *NotificationRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
	suite.repository = notificationrepo.NewGormNotificationRepository(suite.database.DB)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestAppendAndListByOrder_KeepsAppendOrder() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	first := suite.newIntent(&orderID, notification.TagOrderSubmitted, "stock@acme.test", []string{"crm@acme.test"})
	second := suite.newIntent(&orderID, notification.TagOrderSubmitted, "sales@acme.test", nil)
	other := suite.newIntent(nil, notification.TagStockEscalated, "hod@acme.test", nil)
	for _, intent := range []*notification.Intent{first, second, other} {
		suite.Require().NoError(suite.repository.Append(ctx, intent))
	}

	intents, err := suite.repository.ListByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(intents, 2)
	suite.True(intents[0].ID().IsEqual(first.ID()))
	suite.True(intents[1].ID().IsEqual(second.ID()))
	suite.Equal([]string{"crm@acme.test"}, intents[0].CC())
	suite.Empty(intents[1].CC())
	suite.Equal(notification.DeliveryPending, intents[0].DeliveryStatus())

	err = suite.repository.Append(ctx, first)
	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestListUndelivered_RespectsAttemptsAndLimit() {
	ctx := context.Background()

	exhausted := suite.newIntent(nil, notification.TagStockEscalated, "hod@acme.test", nil)
	retryable := suite.newIntent(nil, notification.TagStockEscalated, "hod@acme.test", nil)
	sent := suite.newIntent(nil, notification.TagStockEscalated, "hod@acme.test", nil)
	for _, intent := range []*notification.Intent{exhausted, retryable, sent} {
		suite.Require().NoError(suite.repository.Append(ctx, intent))
	}

	cause := errs.NewDeliveryFailedError("hod@acme.test", errors.New("broker down"))
	for range 3 {
		exhausted.MarkFailed(cause)
	}
	retryable.MarkFailed(cause)
	sent.MarkSent()
	for _, intent := range []*notification.Intent{exhausted, retryable, sent} {
		suite.Require().NoError(suite.repository.UpdateDelivery(ctx, intent))
	}

	undelivered, err := suite.repository.ListUndelivered(ctx, 3, 10)
	suite.Require().NoError(err)
	suite.Require().Len(undelivered, 1)
	suite.True(undelivered[0].ID().IsEqual(retryable.ID()))
	suite.Equal(1, undelivered[0].Attempts())
	suite.Contains(undelivered[0].LastError(), "broker down")

	undelivered, err = suite.repository.ListUndelivered(ctx, 10, 1)
	suite.Require().NoError(err)
	suite.Require().Len(undelivered, 1)
	suite.True(undelivered[0].ID().IsEqual(exhausted.ID()))
}

func (suite *NotificationRepositoryIntegrationTestSuite) TestIncrementOpenCount_CountsConcurrentOpens() {
	ctx := context.Background()
	intent := suite.newIntent(nil, notification.TagStockEscalated, "hod@acme.test", nil)
	suite.Require().NoError(suite.repository.Append(ctx, intent))

	var g errgroup.Group
	for range 10 {
		g.Go(func() error {
			return suite.repository.IncrementOpenCount(ctx, intent.ID())
		})
	}
	suite.Require().NoError(g.Wait())

	got, err := suite.repository.Get(ctx, intent.ID())
	suite.Require().NoError(err)
	suite.Equal(10, got.OpenCount())

	err = suite.repository.IncrementOpenCount(ctx, kernel.NewUUID())
	var notFound *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFound)
}

func (suite *NotificationRepositoryIntegrationTestSuite) newIntent(
	orderID *kernel.UUID,
	tag notification.Tag,
	recipient string,
	cc []string,
) *notification.Intent {
	intent, err := notification.NewIntent(kernel.NewUUID(), notification.Message{
		Tag:       tag,
		Category:  notification.CategoryStock,
		Recipient: recipient,
		CC:        cc,
		Subject:   "Order update",
		Body:      "<p>update</p>",
		OrderID:   orderID,
	}, t0)
	suite.Require().NoError(err)
	return intent
}

func TestNotificationRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(NotificationRepositoryIntegrationTestSuite))
}
