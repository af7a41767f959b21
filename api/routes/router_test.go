package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartosvlad459-art/inko-shop-bot/internal/catalog"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/notifications"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/orders"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/partners"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/promos"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/reviews"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/config"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/db/models"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/enums"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
)

type nullSender struct{}

func (nullSender) Send(ctx context.Context, msg notifications.Message) error { return nil }

type testServer struct {
	client *db.Client
	server *httptest.Server
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	require.NoError(t, conn.AutoMigrate(
		&models.Category{}, &models.Product{},
		&models.Order{}, &models.OrderItem{},
		&models.PromoCode{}, &models.UserPromo{},
		&models.Partner{}, &models.PartnerRequest{},
		&models.Review{}, &models.ReviewInvite{},
	))

	log := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})

	cfg := &config.Config{}
	cfg.App = config.AppConfig{Env: "dev", Currency: "₽"}
	cfg.Bot = config.BotConfig{AdminChatID: 999}
	cfg.Promo = config.PromoConfig{MaxPercent: 25, ReviewBonusPercent: 5}
	cfg.JWT = config.JWTConfig{Secret: "test-secret", Issuer: "inko-shop", ExpirationMinutes: 10}
	cfg.Storefront = config.StorefrontConfig{AdminAPIKey: "letmein"}

	notifier, err := notifications.NewService(nullSender{}, log, nil, cfg.Bot, cfg.App)
	require.NoError(t, err)

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	require.NoError(t, err)

	partnerSvc, err := partners.NewService(partners.NewRepository(conn), cfg.Promo)
	require.NoError(t, err)
	promoSvc, err := promos.NewService(promos.NewRepository(conn), partnerSvc, cfg.Promo)
	require.NoError(t, err)
	reviewSvc, err := reviews.NewService(reviews.NewRepository(conn), promoSvc, notifier)
	require.NoError(t, err)

	orderSvc, err := orders.NewService(
		client,
		orders.NewRepository(conn),
		promos.NewRepository(conn),
		partners.NewRepository(conn),
		notifier,
		log,
		nil,
		cfg.Bot,
	)
	require.NoError(t, err)

	handler := NewRouter(cfg, log, client, nil, nil, catalogSvc, reviewSvc, orderSvc)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testServer{client: client, server: server, cfg: cfg}
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"api_key": "letmein"})
	resp, err := http.Post(ts.server.URL+"/api/admin/v1/auth/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotEmpty(t, envelope.Data.Token)
	return envelope.Data.Token
}

func TestCatalogFeed(t *testing.T) {
	ts := newTestServer(t)

	category := &models.Category{Name: "Футболки", Slug: "футболки"}
	require.NoError(t, ts.client.DB().Create(category).Error)
	require.NoError(t, ts.client.DB().Create(&models.Product{
		CategoryID: category.ID,
		Title:      "Oversize tee",
		PriceCents: 150000,
	}).Error)

	resp, err := http.Get(ts.server.URL + "/api/v1/catalog/categories")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data []struct {
			Name string `json:"name"`
			ID   string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Футболки", envelope.Data[0].Name)

	productsResp, err := http.Get(ts.server.URL + "/api/v1/catalog/categories/" + envelope.Data[0].ID + "/products")
	require.NoError(t, err)
	defer productsResp.Body.Close()
	require.Equal(t, http.StatusOK, productsResp.StatusCode)

	var productsEnvelope struct {
		Data struct {
			Products []struct {
				Title      string `json:"title"`
				PriceCents int    `json:"price_cents"`
			} `json:"products"`
			NextCursor string `json:"next_cursor"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(productsResp.Body).Decode(&productsEnvelope))
	require.Len(t, productsEnvelope.Data.Products, 1)
	assert.Equal(t, "Oversize tee", productsEnvelope.Data.Products[0].Title)
	assert.Equal(t, 150000, productsEnvelope.Data.Products[0].PriceCents)
	assert.Empty(t, productsEnvelope.Data.NextCursor)
}

func TestAdminOrdersRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.server.URL + "/api/admin/v1/orders")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminConfirmOrderOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t)

	require.NoError(t, ts.client.DB().Create(&models.Order{
		OrderNumber:     1,
		UserChatID:      42,
		Status:          enums.OrderStatusNew,
		TotalCents:      200000,
		FinalTotalCents: 200000,
	}).Error)

	req, err := http.NewRequest(http.MethodPost, ts.server.URL+"/api/admin/v1/orders/1/confirm", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.Order
	require.NoError(t, ts.client.DB().Where("order_number = ?", int64(1)).First(&stored).Error)
	assert.Equal(t, enums.OrderStatusConfirmed, stored.Status)
}

func TestAdminTokenRejectsBadKey(t *testing.T) {
	ts := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"api_key": "wrong"})
	resp, err := http.Post(ts.server.URL+"/api/admin/v1/auth/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
