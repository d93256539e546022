package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	redis_adapter "fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type IdempotencyStoreIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *goredis.Client
	store     *redis_adapter.IdempotencyStore
}

func (suite *IdempotencyStoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	client, err := redis_adapter.NewClient(ctx, endpoint, "", 0)
	suite.Require().NoError(err)
	suite.client = client
}

func (suite *IdempotencyStoreIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushDB(context.Background()).Err())
	suite.store = redis_adapter.NewIdempotencyStore(suite.client, time.Minute)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		_ = suite.client.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestLookup_UnknownKey_IsAMiss() {
	_, found, err := suite.store.Lookup(context.Background(), "never-seen")
	suite.Require().NoError(err)
	suite.False(found)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestRemember_FirstWriterWins() {
	ctx := context.Background()
	first, second := kernel.NewUUID(), kernel.NewUUID()

	suite.Require().NoError(suite.store.Remember(ctx, "form-1", first))
	suite.Require().NoError(suite.store.Remember(ctx, "form-1", second))

	got, found, err := suite.store.Lookup(ctx, "form-1")
	suite.Require().NoError(err)
	suite.True(found)
	suite.True(got.IsEqual(first))

	ttl, err := suite.client.TTL(ctx, fmt.Sprintf(redis_adapter.KeySubmitOrder, "form-1")).Result()
	suite.Require().NoError(err)
	suite.Positive(ttl)
	suite.LessOrEqual(ttl, time.Minute)
}

func (suite *IdempotencyStoreIntegrationTestSuite) TestLookup_CorruptValue_ReturnsError() {
	ctx := context.Background()
	key := fmt.Sprintf(redis_adapter.KeySubmitOrder, "broken")
	suite.Require().NoError(suite.client.Set(ctx, key, "not-a-uuid", time.Minute).Err())

	_, found, err := suite.store.Lookup(ctx, "broken")
	suite.Require().Error(err)
	suite.False(found)
}

func TestIdempotencyStoreIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(IdempotencyStoreIntegrationTestSuite))
}
