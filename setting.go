package paygate

import (
	"fmt"

	"github.com/webx-top/echo"
	"github.com/webx-top/echo/param"

	"github.com/webx-top/paygate/config"
)

// ArtifactKind 支付产物形态
type ArtifactKind int

const (
	// ArtifactNone 无产物
	ArtifactNone ArtifactKind = iota
	// ArtifactRedirect HTTP跳转
	ArtifactRedirect
	// ArtifactScriptRedirect 脚本跳转（微信支付手机端网页流程要求脚本导航）
	ArtifactScriptRedirect
	// ArtifactHTML HTML产物（自动提交表单）
	ArtifactHTML
	// ArtifactQRCode 二维码内容
	ArtifactQRCode
	// ArtifactAppParams App端SDK参数
	ArtifactAppParams
)

// Artifact 一次调度解析出的支付产物。解析与写响应分离，产物形态可以独立断言。
type Artifact struct {
	Kind      ArtifactKind
	URL       string
	HTML      string
	QRContent string
	Params    param.StringMap
}

// tradeCapabilities 交易类型到所需能力的映射表，前者优先、后者回退。
// 不在表内且未预留的交易类型没有调度分支。
var tradeCapabilities = map[config.TradeType][]config.Capability{
	config.TradeApp:    {config.CapAppParams},
	config.TradeWap:    {config.CapWapPaymentURL, config.CapWapPaymentForm},
	config.TradeWeb:    {config.CapPaymentURL, config.CapPaymentForm},
	config.TradeQRCode: {config.CapPaymentQRCode},
}

// reservedTradeTypes 已声明但尚未绑定任何能力的交易类型
var reservedTradeTypes = map[config.TradeType]struct{}{
	config.TradePublic:  {},
	config.TradeBarCode: {},
	config.TradeApplet:  {},
}

// NewSetting 按网关类型构造调度器
func NewSetting(gateway config.GatewayType) *Setting {
	return NewSettingWithGateway(Create(gateway))
}

// NewSettingWithGateway 使用现成的网关驱动构造调度器
func NewSettingWithGateway(gateway Driver) *Setting {
	return &Setting{gateway: gateway}
}

// NewSettingWith 构造调度器并绑定商户与订单
func NewSettingWith(gateway config.GatewayType, merchant *config.Merchant, order *config.Order) *Setting {
	s := NewSetting(gateway)
	s.gateway.SetMerchant(merchant)
	s.gateway.SetOrder(order)
	return s
}

// Setting 网关调度器。持有一个网关驱动，生命周期限于一次请求，不跨请求共享。
type Setting struct {
	gateway Driver
}

func (s *Setting) Gateway() Driver {
	return s.gateway
}

func (s *Setting) Merchant() *config.Merchant {
	return s.gateway.Merchant()
}

func (s *Setting) Order() *config.Order {
	return s.gateway.Order()
}

// SetGatewayParameterValue 注入网关专有参数，在调度前调用
func (s *Setting) SetGatewayParameterValue(name string, value string) {
	s.gateway.SetParameter(name, value)
}

// Build 按交易类型解析支付产物。确定性解析：记录交易类型、查映射表、
// 依声明能力取首个可用分支，既不回退到别的交易类型也不猜测产物形态。
func (s *Setting) Build(tradeType config.TradeType, extra param.StringMap) (*Artifact, error) {
	s.gateway.SetTradeType(tradeType)
	if _, reserved := reservedTradeTypes[tradeType]; reserved {
		return nil, &config.TradeTypeError{Gateway: s.gateway.GatewayType(), Trade: tradeType, Reserved: true}
	}
	if _, ok := tradeCapabilities[tradeType]; !ok {
		return nil, &config.TradeTypeError{Gateway: s.gateway.GatewayType(), Trade: tradeType}
	}
	switch tradeType {
	case config.TradeApp:
		return s.buildAppParams()
	case config.TradeWap:
		return s.buildWapPayment(extra)
	case config.TradeWeb:
		return s.buildWebPayment()
	case config.TradeQRCode:
		return s.buildQRCodePayment()
	}
	return nil, &config.TradeTypeError{Gateway: s.gateway.GatewayType(), Trade: tradeType}
}

// Payment 解析并输出支付产物。App类型直接返回SDK参数、不写响应，
// 由调用方自行序列化；其余类型恰好写一次响应（跳转、HTML或二维码图片）。
func (s *Setting) Payment(ctx echo.Context, tradeType config.TradeType, extra param.StringMap) (param.StringMap, error) {
	artifact, err := s.Build(tradeType, extra)
	if err != nil {
		return nil, err
	}
	if artifact.Kind == ArtifactAppParams {
		return artifact.Params, nil
	}
	return nil, s.Render(ctx, artifact)
}

// Render 将支付产物写入响应
func (s *Setting) Render(ctx echo.Context, artifact *Artifact) error {
	switch artifact.Kind {
	case ArtifactRedirect:
		if err := ctx.Redirect(artifact.URL); err != nil {
			return &config.TransportWriteError{Err: err}
		}
	case ArtifactScriptRedirect:
		body := fmt.Sprintf(`<script language='javascript'>window.location='%s'</script>`, artifact.URL)
		return s.writeHTML(ctx, body)
	case ArtifactHTML:
		return s.writeHTML(ctx, artifact.HTML)
	case ArtifactQRCode:
		return RenderQRCode(ctx, artifact.QRContent)
	default:
		return &config.TradeTypeError{Gateway: s.gateway.GatewayType(), Trade: s.gateway.TradeType()}
	}
	return nil
}

func (s *Setting) writeHTML(ctx echo.Context, body string) error {
	ctx.Response().Header().Set(echo.HeaderContentType, `text/html; charset=`+s.gateway.Charset())
	if err := ctx.HTML(body); err != nil {
		return &config.TransportWriteError{Err: err}
	}
	return nil
}

func (s *Setting) buildAppParams() (*Artifact, error) {
	if ap, ok := s.capability(config.CapAppParams).(AppParams); ok {
		params, err := ap.BuildAppParams()
		if err != nil {
			return nil, err
		}
		return &Artifact{Kind: ArtifactAppParams, Params: params}, nil
	}
	return nil, s.errCapability(config.CapAppParams)
}

func (s *Setting) buildWapPayment(extra param.StringMap) (*Artifact, error) {
	if wu, ok := s.capability(config.CapWapPaymentURL).(WapPaymentURL); ok {
		payURL, err := wu.BuildWapPaymentURL(extra)
		if err != nil {
			return nil, err
		}
		if s.gateway.GatewayType() == config.GatewayWeChatPay {
			return &Artifact{Kind: ArtifactScriptRedirect, URL: payURL}, nil
		}
		return &Artifact{Kind: ArtifactRedirect, URL: payURL}, nil
	}
	if wf, ok := s.capability(config.CapWapPaymentForm).(WapPaymentForm); ok {
		form, err := wf.BuildWapPaymentForm()
		if err != nil {
			return nil, err
		}
		return &Artifact{Kind: ArtifactHTML, HTML: form}, nil
	}
	return nil, s.errCapability(config.CapWapPaymentURL)
}

func (s *Setting) buildWebPayment() (*Artifact, error) {
	if pu, ok := s.capability(config.CapPaymentURL).(PaymentURL); ok {
		payURL, err := pu.BuildPaymentURL()
		if err != nil {
			return nil, err
		}
		return &Artifact{Kind: ArtifactRedirect, URL: payURL}, nil
	}
	if pf, ok := s.capability(config.CapPaymentForm).(PaymentForm); ok {
		form, err := pf.BuildPaymentForm()
		if err != nil {
			return nil, err
		}
		return &Artifact{Kind: ArtifactHTML, HTML: form}, nil
	}
	return nil, s.errCapability(config.CapPaymentURL)
}

func (s *Setting) buildQRCodePayment() (*Artifact, error) {
	if qr, ok := s.capability(config.CapPaymentQRCode).(PaymentQRCode); ok {
		content, err := qr.PaymentQRCodeContent()
		if err != nil {
			return nil, err
		}
		return &Artifact{Kind: ArtifactQRCode, QRContent: content}, nil
	}
	return nil, s.errCapability(config.CapPaymentQRCode)
}

// QueryNotify 跳转到网关的订单查询页，查询结果以与支付通知相同的形式回传。
// 优先查询网址，回退查询表单。
func (s *Setting) QueryNotify(ctx echo.Context) error {
	if qu, ok := s.capability(config.CapQueryURL).(QueryURL); ok {
		queryURL, err := qu.BuildQueryURL()
		if err != nil {
			return err
		}
		if err := ctx.Redirect(queryURL); err != nil {
			return &config.TransportWriteError{Err: err}
		}
		return nil
	}
	if qf, ok := s.capability(config.CapQueryForm).(QueryForm); ok {
		form, err := qf.BuildQueryForm()
		if err != nil {
			return err
		}
		return s.writeHTML(ctx, form)
	}
	return s.errCapability(config.CapQueryURL)
}

// QueryNow 同步查询订单状态
func (s *Setting) QueryNow() (bool, error) {
	if qn, ok := s.capability(config.CapQueryNow).(QueryNow); ok {
		return qn.QueryNow()
	}
	return false, s.errCapability(config.CapQueryNow)
}

// BuildRefund 发起退款
func (s *Setting) BuildRefund(refund *config.Refund) (*config.Refund, error) {
	if rr, ok := s.capability(config.CapRefund).(RefundRequester); ok {
		return rr.BuildRefund(refund)
	}
	return nil, s.errCapability(config.CapRefund)
}

// BuildRefundQuery 查询退款结果
func (s *Setting) BuildRefundQuery(refund *config.Refund) (*config.Refund, error) {
	if rr, ok := s.capability(config.CapRefund).(RefundRequester); ok {
		return rr.BuildRefundQuery(refund)
	}
	return nil, s.errCapability(config.CapRefund)
}

// capability 返回声明并实现了指定能力的驱动，否则返回nil
func (s *Setting) capability(c config.Capability) interface{} {
	if !s.gateway.IsSupported(c) {
		return nil
	}
	return s.gateway
}

func (s *Setting) errCapability(c config.Capability) error {
	return &config.CapabilityError{
		Gateway:    s.gateway.GatewayType(),
		Trade:      s.gateway.TradeType(),
		Capability: c,
	}
}
