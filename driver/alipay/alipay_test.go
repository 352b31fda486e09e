package alipay

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/webx-top/echo/defaults"
	"github.com/webx-top/echo/testing/test"

	"github.com/webx-top/paygate/config"
)

func testPrivateKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  `RSA PRIVATE KEY`,
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

func testAlipay(t *testing.T) *Alipay {
	t.Helper()
	merchant := config.NewMerchant()
	merchant.Debug = true
	merchant.AppID = `2021000000000001`
	merchant.PrivateKeyPEM = testPrivateKeyPEM(t)
	if err := merchant.SetNotifyURL(config.GatewayAlipay, `https://shop.example.com/notify/alipay`); err != nil {
		t.Fatal(err)
	}
	if err := merchant.SetReturnURL(config.GatewayAlipay, `https://shop.example.com/return/alipay`); err != nil {
		t.Fatal(err)
	}
	order := config.NewOrder()
	order.OutTradeNo = `T1001`
	order.Subject = `测试订单`
	order.Amount = 1280

	a := New().(*Alipay)
	a.SetMerchant(merchant)
	a.SetOrder(order)
	return a
}

func TestTrade(t *testing.T) {
	a := testAlipay(t)
	trade := a.trade(`FAST_INSTANT_TRADE_PAY`)
	test.Eq(t, `T1001`, trade.OutTradeNo)
	test.Eq(t, `12.80`, trade.TotalAmount)
	test.Eq(t, `FAST_INSTANT_TRADE_PAY`, trade.ProductCode)
	test.Eq(t, `https://shop.example.com/notify/alipay`, trade.NotifyURL)
	test.Eq(t, `https://shop.example.com/return/alipay`, trade.ReturnURL)
}

func TestTradeParameterOverride(t *testing.T) {
	a := testAlipay(t)
	a.SetParameter(`timeout_express`, `30m`)
	a.SetParameter(`passback_params`, `channel=web`)
	trade := a.trade(`FAST_INSTANT_TRADE_PAY`)
	test.Eq(t, `30m`, trade.TimeoutExpress)
	test.Eq(t, `channel=web`, trade.PassbackParams)

	a.Order().Extra.Set(`passbackParams`, `channel=app`)
	trade = a.trade(`FAST_INSTANT_TRADE_PAY`)
	test.Eq(t, `channel=app`, trade.PassbackParams)
}

func TestBuildPaymentURL(t *testing.T) {
	a := testAlipay(t)
	payURL, err := a.BuildPaymentURL()
	test.Eq(t, nil, err)
	if !strings.Contains(payURL, `T1001`) {
		t.Fatalf(`payment URL does not carry order number: %s`, payURL)
	}
	parsed, err := url.Parse(payURL)
	test.Eq(t, nil, err)
	query := parsed.Query()
	test.Eq(t, `2021000000000001`, query.Get(`app_id`))
	if len(query.Get(`sign`)) == 0 {
		t.Fatal(`payment URL is not signed`)
	}
}

func TestBuildPaymentForm(t *testing.T) {
	a := testAlipay(t)
	form, err := a.BuildPaymentForm()
	test.Eq(t, nil, err)
	if !strings.Contains(form, `T1001`) {
		t.Fatalf(`form does not carry order number: %s`, form)
	}
	if !strings.Contains(form, `name="sign"`) {
		t.Fatalf(`form is not signed: %s`, form)
	}
	if strings.Contains(form, `.do?`) {
		t.Fatalf(`form action must not carry query parameters: %s`, form)
	}
}

func TestBuildAppParams(t *testing.T) {
	a := testAlipay(t)
	params, err := a.BuildAppParams()
	test.Eq(t, nil, err)
	orderString := params.String(`orderString`)
	if !strings.Contains(orderString, `T1001`) {
		t.Fatalf(`order string does not carry order number: %s`, orderString)
	}
	if !strings.Contains(orderString, `sign=`) {
		t.Fatalf(`order string is not signed: %s`, orderString)
	}
}

func TestVerifyNotifyUnsigned(t *testing.T) {
	a := testAlipay(t)
	ctx := defaults.NewMockContext()
	result, err := a.VerifyNotify(ctx)
	if !errors.Is(err, config.ErrSignature) {
		t.Fatalf(`expected signature error, got %v`, err)
	}
	test.Eq(t, false, result.Verified)
	test.Eq(t, config.GatewayAlipay, result.Gateway)
	test.Eq(t, false, result.IsSuccess())
}

func TestClientInvalidPrivateKey(t *testing.T) {
	merchant := config.NewMerchant()
	merchant.AppID = `2021000000000001`
	merchant.PrivateKeyPEM = `not a pem`
	a := New().(*Alipay)
	a.SetMerchant(merchant)
	_, err := a.Client()
	cfgErr := &config.ConfigurationError{}
	if !errors.As(err, &cfgErr) {
		t.Fatalf(`expected *config.ConfigurationError, got %T`, err)
	}
	test.Eq(t, `privateKeyPEM`, cfgErr.Field)
}

func TestMappingRefundStatus(t *testing.T) {
	test.Eq(t, config.TradeStatusSuccess, mappingRefundStatus(`REFUND_SUCCESS`))
	test.Eq(t, config.TradeStatusException, mappingRefundStatus(`REFUND_FAIL`))
	test.Eq(t, config.TradeStatusProcessing, mappingRefundStatus(`REFUND_PROCESSING`))
	test.Eq(t, config.TradeStatusProcessing, mappingRefundStatus(``))
}

func TestSupports(t *testing.T) {
	a := New()
	test.Eq(t, true, a.IsSupported(config.CapPaymentURL))
	test.Eq(t, true, a.IsSupported(config.CapRefund))
	test.Eq(t, false, a.IsSupported(config.CapWapPaymentURL))
	test.Eq(t, false, a.IsSupported(config.CapQueryForm))
}
