package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ChallengeCheckout/internal/adapter/merchant"
	"ChallengeCheckout/internal/config"
	"ChallengeCheckout/internal/model"

	"github.com/sirupsen/logrus"
)

// fakeOrderRepo 内存订单仓储，记录每次回写便于断言状态流转
type fakeOrderRepo struct {
	created       *model.Order
	submittedUUID string
	redirectURL   *string
	failedUUID    string
	failReason    string
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	f.created = order
	return nil
}

func (f *fakeOrderRepo) UpdateSubmitted(ctx context.Context, orderUUID string, redirectURL *string, upstreamRaw []byte) error {
	f.submittedUUID = orderUUID
	f.redirectURL = redirectURL
	return nil
}

func (f *fakeOrderRepo) UpdateFailed(ctx context.Context, orderUUID, reason string) error {
	f.failedUUID = orderUUID
	f.failReason = reason
	return nil
}

func (f *fakeOrderRepo) ListByEmail(ctx context.Context, email string, page, pageSize int) ([]*model.Order, int64, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) GetByUUID(ctx context.Context, orderUUID string) (*model.Order, error) {
	return f.created, nil
}

func newCheckoutService(t *testing.T, upstream http.HandlerFunc) (*CheckoutService, *fakeOrderRepo) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	client := merchant.NewClient(&config.BackendConfig{BaseURL: srv.URL, Timeout: 5}, false, logger)
	repo := &fakeOrderRepo{}
	cfg := &config.CheckoutConfig{RegionID: "region-1", DefaultCurrency: "USD", DefaultLeverage: 100}
	return NewCheckoutService(client, repo, cfg, logger), repo
}

func validCheckoutRequest() *CheckoutRequest {
	req := &CheckoutRequest{Amount: 110, Agree: true}
	req.Selection.ChallengeTypeID = "ct-1"
	req.Customer.FirstName = "Ada"
	req.Customer.LastName = "Lovelace"
	req.Customer.Email = "ada@example.com"
	phone := "+1 (555) 123-4567"
	req.Customer.Phone = &phone
	req.Customer.Country = "GB"
	req.Customer.Password = "Abcdef1!"
	req.Customer.ConfirmPassword = "Abcdef1!"
	req.Payment.MerchantID = 1
	req.Payment.Slug = "yobopay"
	return req
}

func TestSubmitValidationError(t *testing.T) {
	svc, repo := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called when the form is invalid")
	})
	req := validCheckoutRequest()
	req.Customer.Email = "not-an-email"
	req.Agree = false

	_, err := svc.Submit(context.Background(), req)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Errors["email"] != "Enter a valid email address" || verr.Errors["agree"] == "" {
		t.Fatalf("field errors incomplete: %v", verr.Errors)
	}
	// 校验失败不落库
	if repo.created != nil {
		t.Fatal("no order must be persisted on validation failure")
	}
}

func TestSubmitRequiresProduct(t *testing.T) {
	svc, repo := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called without a resolved product")
	})
	req := validCheckoutRequest()
	req.Selection.ChallengeTypeID = ""

	_, err := svc.Submit(context.Background(), req)
	if err == nil || err.Error() != "Select valid Platform/Challenge/Capital" {
		t.Fatalf("expected product error, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("no order must be persisted without a product")
	}
}

func TestSubmitRequiresAmount(t *testing.T) {
	svc, _ := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called with a zero amount")
	})
	req := validCheckoutRequest()
	req.Amount = 0

	_, err := svc.Submit(context.Background(), req)
	if err == nil || err.Error() != "Unable to calculate amount" {
		t.Fatalf("expected amount error, got %v", err)
	}
}

func TestSubmitSuccess(t *testing.T) {
	svc, repo := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/challenge-promo" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"data":{"redirectUrl":"https://pay.example/redirect"}}`))
	})

	resp, err := svc.Submit(context.Background(), validCheckoutRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !resp.OK || resp.OrderUUID == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.RedirectURL == nil || *resp.RedirectURL != "https://pay.example/redirect" {
		t.Fatalf("redirect url = %v", resp.RedirectURL)
	}

	// 先落库 pending，上游成功后回写 submitted 与跳转地址
	if repo.created == nil || repo.created.Status != model.OrderStatusPending {
		t.Fatalf("order must be persisted as pending first, got %+v", repo.created)
	}
	if repo.created.Currency != "USD" || repo.created.ChallengeTypeID != "ct-1" {
		t.Fatalf("order fields broken: %+v", repo.created)
	}
	if repo.submittedUUID != repo.created.OrderUUID {
		t.Fatalf("submitted uuid = %q, want %q", repo.submittedUUID, repo.created.OrderUUID)
	}
	if repo.redirectURL == nil || *repo.redirectURL != "https://pay.example/redirect" {
		t.Fatalf("stored redirect url = %v", repo.redirectURL)
	}
	if repo.failedUUID != "" {
		t.Fatal("order must not be marked failed")
	}
}

func TestSubmitUpstreamFailure(t *testing.T) {
	svc, repo := newCheckoutService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"email already registered"}`))
	})

	_, err := svc.Submit(context.Background(), validCheckoutRequest())
	var uerr *merchant.UpstreamError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}

	// pending 订单回写 failed，原因留档
	if repo.created == nil {
		t.Fatal("order must be persisted before the upstream call")
	}
	if repo.failedUUID != repo.created.OrderUUID || repo.failReason == "" {
		t.Fatalf("failure not recorded: %q / %q", repo.failedUUID, repo.failReason)
	}
	if repo.submittedUUID != "" {
		t.Fatal("order must not be marked submitted")
	}
}
