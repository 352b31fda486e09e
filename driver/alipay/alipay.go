package alipay

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	alipay "github.com/admpub/alipay/v3"
	"github.com/admpub/log"
	"github.com/webx-top/echo"
	"github.com/webx-top/echo/param"

	"github.com/webx-top/paygate"
	"github.com/webx-top/paygate/config"
)

const Name = `alipay`

var supports = config.Supports{
	config.CapPaymentURL,
	config.CapPaymentForm,
	config.CapPaymentQRCode,
	config.CapAppParams,
	config.CapQueryNow,
	config.CapRefund,
	config.CapNotifyVerify,
}

func init() {
	paygate.Register(config.GatewayAlipay, Name, New)
}

func New() paygate.Driver {
	return &Alipay{Base: paygate.NewBase(config.GatewayAlipay)}
}

type Alipay struct {
	*paygate.Base
	client *alipay.Client
}

func (a *Alipay) IsSupported(c config.Capability) bool {
	return supports.IsSupported(c)
}

func (a *Alipay) Client() (*alipay.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	merchant := a.Merchant()
	client, err := alipay.New(
		merchant.AppID,
		merchant.PrivateKeyPEM,
		!merchant.Debug,
		alipay.WithTimeLocation(time.Local),
	)
	if err != nil {
		return nil, &config.ConfigurationError{Gateway: config.GatewayAlipay, Field: `privateKeyPEM`, Err: err}
	}
	if len(merchant.PublicKeyPEM) > 0 {
		if err := client.LoadAliPayPublicKey(merchant.PublicKeyPEM); err != nil {
			return nil, &config.ConfigurationError{Gateway: config.GatewayAlipay, Field: `publicKeyPEM`, Err: err}
		}
	}
	if len(merchant.CertPath) > 0 {
		if err := client.LoadAliPayPublicCertFromFile(merchant.CertPath); err != nil {
			return nil, &config.ConfigurationError{Gateway: config.GatewayAlipay, Field: `certPath`, Err: err}
		}
	}
	a.client = client
	return a.client, nil
}

// BuildPaymentURL 电脑端网页支付跳转网址
func (a *Alipay) BuildPaymentURL() (string, error) {
	client, err := a.Client()
	if err != nil {
		return ``, err
	}
	pay := alipay.TradePagePay{Trade: a.trade(`FAST_INSTANT_TRADE_PAY`)}
	payURL, err := client.TradePagePay(pay)
	if err != nil {
		return ``, err
	}
	return payURL.String(), nil
}

// BuildPaymentForm 电脑端网页支付表单。网关接受GET和POST同一套签名参数，
// 表单字段即签名后跳转网址的查询参数。
func (a *Alipay) BuildPaymentForm() (string, error) {
	rawURL, err := a.BuildPaymentURL()
	if err != nil {
		return ``, err
	}
	payURL, err := url.Parse(rawURL)
	if err != nil {
		return ``, err
	}
	fields := payURL.Query()
	payURL.RawQuery = ``
	return paygate.AutoSubmitForm(payURL.String(), fields), nil
}

// PaymentQRCodeContent 当面付预下单，返回二维码内容
func (a *Alipay) PaymentQRCodeContent() (string, error) {
	client, err := a.Client()
	if err != nil {
		return ``, err
	}
	pay := alipay.TradePreCreate{Trade: a.trade(`FACE_TO_FACE_PAYMENT`)}
	resp, err := client.TradePreCreate(context.Background(), pay)
	if err != nil {
		return ``, err
	}
	if !resp.IsSuccess() {
		return ``, responseError(resp.Msg, resp.SubMsg)
	}
	return resp.QRCode, nil
}

// BuildAppParams App端SDK支付参数。SDK消费整串签名后的请求参数。
func (a *Alipay) BuildAppParams() (param.StringMap, error) {
	client, err := a.Client()
	if err != nil {
		return nil, err
	}
	pay := alipay.TradeAppPay{Trade: a.trade(`QUICK_MSECURITY_PAY`)}
	orderString, err := client.TradeAppPay(pay)
	if err != nil {
		return nil, err
	}
	return param.ToStringMap(map[string]string{
		`orderString`: orderString,
	}), nil
}

// QueryNow 同步查询订单是否支付成功
func (a *Alipay) QueryNow() (bool, error) {
	client, err := a.Client()
	if err != nil {
		return false, err
	}
	query := alipay.TradeQuery{
		OutTradeNo: a.Order().OutTradeNo,
	}
	resp, err := client.TradeQuery(context.Background(), query)
	if err != nil {
		return false, err
	}
	if !resp.IsSuccess() {
		return false, responseError(resp.Msg, resp.SubMsg)
	}
	return string(resp.TradeStatus) == config.TradeStatusSuccess, nil
}

// BuildRefund 发起退款并回填退款记录
func (a *Alipay) BuildRefund(refund *config.Refund) (*config.Refund, error) {
	client, err := a.Client()
	if err != nil {
		return nil, err
	}
	if len(refund.OutRefundNo) == 0 {
		refund.OutRefundNo = fmt.Sprintf("%d%d", time.Now().Local().Unix(), rand.Intn(9999))
	}
	req := alipay.TradeRefund{
		OutTradeNo:   refund.OutTradeNo,
		TradeNo:      refund.TradeNo,
		RefundAmount: paygate.MoneyFeeToString(refund.RefundAmount),
		RefundReason: refund.RefundReason,
		OutRequestNo: refund.OutRefundNo,
	}
	resp, err := client.TradeRefund(context.Background(), req)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, responseError(resp.Msg, resp.SubMsg)
	}
	refund.TradeNo = resp.TradeNo
	refund.OutTradeNo = resp.OutTradeNo
	refund.Status = config.TradeStatusSuccess
	refund.Raw = resp
	return refund, nil
}

// BuildRefundQuery 查询退款结果并回填退款记录
func (a *Alipay) BuildRefundQuery(refund *config.Refund) (*config.Refund, error) {
	client, err := a.Client()
	if err != nil {
		return nil, err
	}
	req := alipay.TradeFastPayRefundQuery{
		OutRequestNo: refund.OutRefundNo,
	}
	if len(refund.TradeNo) > 0 {
		req.TradeNo = refund.TradeNo
	} else {
		req.OutTradeNo = refund.OutTradeNo
	}
	resp, err := client.TradeFastPayRefundQuery(context.Background(), req)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, responseError(resp.Msg, resp.SubMsg)
	}
	refund.TradeNo = resp.TradeNo
	refund.OutTradeNo = resp.OutTradeNo
	refund.Status = mappingRefundStatus(resp.RefundStatus)
	if fee, err := paygate.MoneyFeeFromString(resp.RefundAmount); err == nil && fee > 0 {
		refund.RefundAmount = fee
	}
	refund.Raw = resp
	return refund, nil
}

// VerifyNotify 验证异步通知签名并归一化结果
func (a *Alipay) VerifyNotify(ctx echo.Context) (*config.NotifyResult, error) {
	client, err := a.Client()
	if err != nil {
		return nil, err
	}
	values := url.Values(ctx.Forms())
	result := config.NewNotifyResult(config.GatewayAlipay)
	result.Raw = paygate.FormValues(ctx.Forms())
	if err := client.VerifySign(values); err != nil {
		log.Warnf(`%s notify signature check: %v`, Name, err)
		return result, config.ErrSignature
	}
	result.Verified = true
	result.TradeNo = values.Get(`trade_no`)
	result.OutTradeNo = values.Get(`out_trade_no`)
	result.Status = values.Get(`trade_status`)
	amount, err := paygate.MoneyFeeFromString(values.Get(`total_amount`))
	if err != nil {
		log.Warnf(`%s notify amount %q: %v`, Name, values.Get(`total_amount`), err)
	}
	result.Amount = amount
	return result, nil
}
