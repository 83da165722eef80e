package service

import (
	"context"
	"fmt"
	"strings"
	"sweepstakes-payments/internal/client"
	"sweepstakes-payments/internal/repository"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, client.Migrate(db))
	return db
}

func newTestRepos(t *testing.T) (*gorm.DB, *repository.Repositories) {
	t.Helper()
	db := newTestDB(t)
	return db, repository.NewGormRepositories(db)
}

type fakeStripeClient struct {
	params         []*stripe.CheckoutSessionParams
	err            error
	customerEmails map[string]string
	customerErr    error
}

func (f *fakeStripeClient) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*client.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.params = append(f.params, params)
	id := fmt.Sprintf("cs_test_%d", len(f.params))
	return &client.CheckoutSession{ID: id, URL: "https://checkout.stripe.test/" + id}, nil
}

func (f *fakeStripeClient) GetCustomerEmail(ctx context.Context, customerID string) (string, error) {
	if f.customerErr != nil {
		return "", f.customerErr
	}
	return f.customerEmails[customerID], nil
}
