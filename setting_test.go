package paygate

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/webx-top/echo"
	"github.com/webx-top/echo/defaults"
	"github.com/webx-top/echo/engine"
	"github.com/webx-top/echo/param"
	"github.com/webx-top/echo/testing/test"

	"github.com/webx-top/paygate/config"
)

// fakeGateway 实现全部能力接口，通过能力集控制调度行为
type fakeGateway struct {
	*Base
	supports config.Supports
	calls    []string
	refunds  map[string]*config.Refund
}

func newFakeGateway(gateway config.GatewayType, supports ...config.Capability) *fakeGateway {
	return &fakeGateway{
		Base:     NewBase(gateway),
		supports: config.Supports(supports),
		refunds:  map[string]*config.Refund{},
	}
}

func (f *fakeGateway) IsSupported(c config.Capability) bool {
	return f.supports.IsSupported(c)
}

func (f *fakeGateway) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeGateway) called(name string) bool {
	for _, v := range f.calls {
		if v == name {
			return true
		}
	}
	return false
}

func (f *fakeGateway) BuildPaymentURL() (string, error) {
	f.record(`BuildPaymentURL`)
	return `https://pay.example.com/web?out_trade_no=` + f.Order().OutTradeNo, nil
}

func (f *fakeGateway) BuildPaymentForm() (string, error) {
	f.record(`BuildPaymentForm`)
	return AutoSubmitForm(`https://pay.example.com/web`, url.Values{
		`out_trade_no`: []string{f.Order().OutTradeNo},
	}), nil
}

func (f *fakeGateway) BuildWapPaymentURL(extra param.StringMap) (string, error) {
	f.record(`BuildWapPaymentURL`)
	payURL := `https://pay.example.com/wap?out_trade_no=` + f.Order().OutTradeNo
	if v, ok := extra[`redirect_url`]; ok {
		payURL += `&redirect_url=` + url.QueryEscape(v.String())
	}
	return payURL, nil
}

func (f *fakeGateway) BuildWapPaymentForm() (string, error) {
	f.record(`BuildWapPaymentForm`)
	return AutoSubmitForm(`https://pay.example.com/wap`, url.Values{
		`out_trade_no`: []string{f.Order().OutTradeNo},
	}), nil
}

func (f *fakeGateway) PaymentQRCodeContent() (string, error) {
	f.record(`PaymentQRCodeContent`)
	return `https://pay.example.com/qr/` + f.Order().OutTradeNo, nil
}

func (f *fakeGateway) BuildAppParams() (param.StringMap, error) {
	f.record(`BuildAppParams`)
	return param.StringMap{
		`prepayid`: param.String(`prepay_` + f.Order().OutTradeNo),
		`noncestr`: param.String(`fakenonce`),
	}, nil
}

func (f *fakeGateway) BuildQueryURL() (string, error) {
	f.record(`BuildQueryURL`)
	return `https://pay.example.com/query?out_trade_no=` + f.Order().OutTradeNo, nil
}

func (f *fakeGateway) BuildQueryForm() (string, error) {
	f.record(`BuildQueryForm`)
	return AutoSubmitForm(`https://pay.example.com/query`, url.Values{
		`out_trade_no`: []string{f.Order().OutTradeNo},
	}), nil
}

func (f *fakeGateway) QueryNow() (bool, error) {
	f.record(`QueryNow`)
	return true, nil
}

func (f *fakeGateway) BuildRefund(refund *config.Refund) (*config.Refund, error) {
	f.record(`BuildRefund`)
	refund.RefundNo = `rf_` + refund.OutRefundNo
	refund.Status = config.TradeStatusProcessing
	f.refunds[refund.OutRefundNo] = refund
	return refund, nil
}

func (f *fakeGateway) BuildRefundQuery(refund *config.Refund) (*config.Refund, error) {
	f.record(`BuildRefundQuery`)
	stored, ok := f.refunds[refund.OutRefundNo]
	if !ok {
		return nil, config.ErrRefundFailed
	}
	stored.Status = config.TradeStatusSuccess
	return stored, nil
}

func testOrder() *config.Order {
	order := config.NewOrder()
	order.OutTradeNo = `T1001`
	order.Subject = `测试订单`
	order.Amount = 1280
	order.ClientIP = `127.0.0.1`
	return order
}

func newFakeSetting(gateway config.GatewayType, supports ...config.Capability) (*Setting, *fakeGateway) {
	fake := newFakeGateway(gateway, supports...)
	fake.SetOrder(testOrder())
	return NewSettingWithGateway(fake), fake
}

func TestBuildWebPrefersURL(t *testing.T) {
	s, fake := newFakeSetting(config.GatewayAlipay, config.CapPaymentURL, config.CapPaymentForm)
	artifact, err := s.Build(config.TradeWeb, nil)
	test.Eq(t, nil, err)
	test.Eq(t, ArtifactRedirect, artifact.Kind)
	test.Eq(t, `https://pay.example.com/web?out_trade_no=T1001`, artifact.URL)
	test.Eq(t, true, fake.called(`BuildPaymentURL`))
	test.Eq(t, false, fake.called(`BuildPaymentForm`))
}

func TestBuildWebFormFallback(t *testing.T) {
	s, fake := newFakeSetting(config.GatewayUnionPay, config.CapPaymentForm)
	artifact, err := s.Build(config.TradeWeb, nil)
	test.Eq(t, nil, err)
	test.Eq(t, ArtifactHTML, artifact.Kind)
	if !strings.Contains(artifact.HTML, `T1001`) {
		t.Fatalf(`form does not carry order number: %s`, artifact.HTML)
	}
	test.Eq(t, true, fake.called(`BuildPaymentForm`))
}

func TestBuildWapScriptRedirect(t *testing.T) {
	s, _ := newFakeSetting(config.GatewayWeChatPay, config.CapWapPaymentURL)
	artifact, err := s.Build(config.TradeWap, param.StringMap{
		`redirect_url`: param.String(`https://shop.example.com/done`),
	})
	test.Eq(t, nil, err)
	test.Eq(t, ArtifactScriptRedirect, artifact.Kind)
	if !strings.Contains(artifact.URL, `redirect_url=`) {
		t.Fatalf(`extra parameter lost: %s`, artifact.URL)
	}

	s, _ = newFakeSetting(config.GatewayAlipay, config.CapWapPaymentURL)
	artifact, err = s.Build(config.TradeWap, nil)
	test.Eq(t, nil, err)
	test.Eq(t, ArtifactRedirect, artifact.Kind)
}

func TestBuildWapFormFallback(t *testing.T) {
	s, fake := newFakeSetting(config.GatewayUnionPay, config.CapWapPaymentForm)
	artifact, err := s.Build(config.TradeWap, nil)
	test.Eq(t, nil, err)
	test.Eq(t, ArtifactHTML, artifact.Kind)
	test.Eq(t, false, fake.called(`BuildWapPaymentURL`))
	test.Eq(t, true, fake.called(`BuildWapPaymentForm`))
}

func TestBuildAppParams(t *testing.T) {
	s, _ := newFakeSetting(config.GatewayWeChatPay, config.CapAppParams)
	artifact, err := s.Build(config.TradeApp, nil)
	test.Eq(t, nil, err)
	test.Eq(t, ArtifactAppParams, artifact.Kind)
	test.Eq(t, `prepay_T1001`, artifact.Params.String(`prepayid`))
}

func TestPaymentAppReturnsParamsWithoutWriting(t *testing.T) {
	s, _ := newFakeSetting(config.GatewayWeChatPay, config.CapAppParams)
	ctx := defaults.NewMockContext()
	params, err := s.Payment(ctx, config.TradeApp, nil)
	test.Eq(t, nil, err)
	test.Eq(t, `prepay_T1001`, params.String(`prepayid`))
}

func TestBuildQRCodeContent(t *testing.T) {
	s, _ := newFakeSetting(config.GatewayAlipay, config.CapPaymentQRCode)
	artifact, err := s.Build(config.TradeQRCode, nil)
	test.Eq(t, nil, err)
	test.Eq(t, ArtifactQRCode, artifact.Kind)
	test.Eq(t, `https://pay.example.com/qr/T1001`, artifact.QRContent)
}

func TestBuildMissingCapability(t *testing.T) {
	s, fake := newFakeSetting(config.GatewayUnionPay, config.CapPaymentForm)
	_, err := s.Build(config.TradeQRCode, nil)
	if !errors.Is(err, config.ErrUnsupported) {
		t.Fatalf(`expected unsupported capability, got %v`, err)
	}
	capErr := &config.CapabilityError{}
	if !errors.As(err, &capErr) {
		t.Fatalf(`expected *config.CapabilityError, got %T`, err)
	}
	test.Eq(t, config.GatewayUnionPay, capErr.Gateway)
	test.Eq(t, config.TradeQRCode, capErr.Trade)
	test.Eq(t, config.CapPaymentQRCode, capErr.Capability)
	test.Eq(t, false, fake.called(`PaymentQRCodeContent`))
}

func TestBuildReservedTradeTypes(t *testing.T) {
	for _, tradeType := range []config.TradeType{config.TradePublic, config.TradeBarCode, config.TradeApplet} {
		s, _ := newFakeSetting(config.GatewayAlipay, config.CapPaymentURL)
		_, err := s.Build(tradeType, nil)
		if !errors.Is(err, config.ErrNotImplemented) {
			t.Fatalf(`trade type %s: expected not implemented, got %v`, tradeType, err)
		}
		tradeErr := &config.TradeTypeError{}
		if !errors.As(err, &tradeErr) {
			t.Fatalf(`trade type %s: expected *config.TradeTypeError, got %T`, tradeType, err)
		}
		test.Eq(t, true, tradeErr.Reserved)
		test.Eq(t, tradeType, tradeErr.Trade)
	}
}

func TestBuildTradeNone(t *testing.T) {
	s, _ := newFakeSetting(config.GatewayWeChatPay, config.CapPaymentURL)
	_, err := s.Build(config.TradeNone, nil)
	tradeErr := &config.TradeTypeError{}
	if !errors.As(err, &tradeErr) {
		t.Fatalf(`expected *config.TradeTypeError, got %T`, err)
	}
	test.Eq(t, config.GatewayWeChatPay, tradeErr.Gateway)
	test.Eq(t, config.TradeNone, tradeErr.Trade)
	test.Eq(t, false, tradeErr.Reserved)
	if !strings.Contains(err.Error(), `wechatpay`) {
		t.Fatalf(`error does not name the gateway: %v`, err)
	}
}

func TestRenderRedirect(t *testing.T) {
	s, _ := newFakeSetting(config.GatewayAlipay, config.CapPaymentURL)
	ctx := defaults.NewMockContext()
	_, err := s.Payment(ctx, config.TradeWeb, nil)
	test.Eq(t, nil, err)
}

func TestRenderScriptRedirect(t *testing.T) {
	s, _ := newFakeSetting(config.GatewayWeChatPay, config.CapWapPaymentURL)
	artifact, err := s.Build(config.TradeWap, nil)
	test.Eq(t, nil, err)
	ctx := defaults.NewMockContext()
	err = s.Render(ctx, artifact)
	test.Eq(t, nil, err)
}

func TestQueryNotifyPrefersURL(t *testing.T) {
	s, fake := newFakeSetting(config.GatewayAlipay, config.CapQueryURL, config.CapQueryForm)
	ctx := defaults.NewMockContext()
	err := s.QueryNotify(ctx)
	test.Eq(t, nil, err)
	test.Eq(t, true, fake.called(`BuildQueryURL`))
	test.Eq(t, false, fake.called(`BuildQueryForm`))
}

func TestQueryNotifyFormFallback(t *testing.T) {
	s, fake := newFakeSetting(config.GatewayUnionPay, config.CapQueryForm)
	ctx := defaults.NewMockContext()
	err := s.QueryNotify(ctx)
	test.Eq(t, nil, err)
	test.Eq(t, true, fake.called(`BuildQueryForm`))
}

func TestQueryNow(t *testing.T) {
	s, _ := newFakeSetting(config.GatewayAlipay, config.CapQueryNow)
	paid, err := s.QueryNow()
	test.Eq(t, nil, err)
	test.Eq(t, true, paid)

	s, _ = newFakeSetting(config.GatewayAlipay)
	_, err = s.QueryNow()
	if !errors.Is(err, config.ErrUnsupported) {
		t.Fatalf(`expected unsupported capability, got %v`, err)
	}
}

func TestRefundRoundTrip(t *testing.T) {
	s, _ := newFakeSetting(config.GatewayWeChatPay, config.CapRefund)
	refund, err := s.BuildRefund(&config.Refund{
		OutTradeNo:   `T1001`,
		OutRefundNo:  `R1001`,
		TotalAmount:  1280,
		RefundAmount: 1280,
	})
	test.Eq(t, nil, err)
	test.Eq(t, `rf_R1001`, refund.RefundNo)
	test.Eq(t, config.TradeStatusProcessing, refund.Status)

	result, err := s.BuildRefundQuery(&config.Refund{OutRefundNo: `R1001`})
	test.Eq(t, nil, err)
	test.Eq(t, config.TradeStatusSuccess, result.Status)
	test.Eq(t, `T1001`, result.OutTradeNo)
	test.Eq(t, int64(1280), result.RefundAmount)
}

func TestSetGatewayParameterValue(t *testing.T) {
	s, fake := newFakeSetting(config.GatewayAlipay, config.CapPaymentURL)
	s.SetGatewayParameterValue(`timeout_express`, `30m`)
	test.Eq(t, `30m`, fake.Param(`timeout_express`))
	test.Eq(t, `30m`, fake.Params().String(`timeout_express`))
}

var errBrokenPipe = errors.New(`broken pipe`)

// brokenResponse 所有写入都失败的响应
type brokenResponse struct {
	engine.Response
}

func (r *brokenResponse) Write(b []byte) (int, error) {
	return 0, errBrokenPipe
}

// brokenContext 模拟客户端提前断开后的传输层
type brokenContext struct {
	echo.Context
}

func (c *brokenContext) Redirect(url string, codes ...int) error {
	return errBrokenPipe
}

func (c *brokenContext) HTML(body string, codes ...int) error {
	return errBrokenPipe
}

func (c *brokenContext) Response() engine.Response {
	return &brokenResponse{Response: c.Context.Response()}
}

func assertTransportWriteError(t *testing.T, err error) {
	t.Helper()
	writeErr := &config.TransportWriteError{}
	if !errors.As(err, &writeErr) {
		t.Fatalf(`expected *config.TransportWriteError, got %T: %v`, err, err)
	}
	if !errors.Is(err, errBrokenPipe) {
		t.Fatalf(`write error must wrap the transport failure, got %v`, err)
	}
}

// 写响应失败必须以传输错误浮出，不允许记日志后吞掉
func TestPaymentBrokenTransport(t *testing.T) {
	broken := &brokenContext{Context: defaults.NewMockContext()}

	// 跳转
	s, _ := newFakeSetting(config.GatewayAlipay, config.CapPaymentURL)
	_, err := s.Payment(broken, config.TradeWeb, nil)
	assertTransportWriteError(t, err)

	// 脚本跳转
	s, _ = newFakeSetting(config.GatewayWeChatPay, config.CapWapPaymentURL)
	_, err = s.Payment(broken, config.TradeWap, nil)
	assertTransportWriteError(t, err)

	// HTML表单
	s, _ = newFakeSetting(config.GatewayUnionPay, config.CapPaymentForm)
	_, err = s.Payment(broken, config.TradeWeb, nil)
	assertTransportWriteError(t, err)

	// 二维码图片
	s, _ = newFakeSetting(config.GatewayAlipay, config.CapPaymentQRCode)
	_, err = s.Payment(broken, config.TradeQRCode, nil)
	assertTransportWriteError(t, err)
}

func TestQueryNotifyBrokenTransport(t *testing.T) {
	broken := &brokenContext{Context: defaults.NewMockContext()}
	s, _ := newFakeSetting(config.GatewayAlipay, config.CapQueryURL)
	assertTransportWriteError(t, s.QueryNotify(broken))

	s, _ = newFakeSetting(config.GatewayUnionPay, config.CapQueryForm)
	assertTransportWriteError(t, s.QueryNotify(broken))
}

// 未注册的网关类型落到空网关上：所有交易类型都报错，不会panic、不会换网关。
func TestUnregisteredGatewayDispatch(t *testing.T) {
	s := NewSetting(config.GatewayUnionPay)
	s.Gateway().SetOrder(testOrder())
	for _, tradeType := range []config.TradeType{config.TradeApp, config.TradeWap, config.TradeWeb, config.TradeQRCode} {
		_, err := s.Build(tradeType, nil)
		if !errors.Is(err, config.ErrUnsupported) {
			t.Fatalf(`trade type %s: expected unsupported capability, got %v`, tradeType, err)
		}
	}
	for _, tradeType := range []config.TradeType{config.TradePublic, config.TradeBarCode, config.TradeApplet} {
		_, err := s.Build(tradeType, nil)
		if !errors.Is(err, config.ErrNotImplemented) {
			t.Fatalf(`trade type %s: expected not implemented, got %v`, tradeType, err)
		}
	}
	if _, err := s.QueryNow(); !errors.Is(err, config.ErrUnsupported) {
		t.Fatalf(`expected unsupported capability, got %v`, err)
	}
	if _, err := s.BuildRefund(&config.Refund{}); !errors.Is(err, config.ErrUnsupported) {
		t.Fatalf(`expected unsupported capability, got %v`, err)
	}
}
