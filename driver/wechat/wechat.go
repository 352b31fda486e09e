package wechat

import (
	"io"
	"strconv"

	"github.com/admpub/log"
	"github.com/objcoding/wxpay"
	"github.com/webx-top/echo"
	"github.com/webx-top/echo/param"

	"github.com/webx-top/paygate"
	"github.com/webx-top/paygate/config"
)

const Name = `wechat`

var supports = config.Supports{
	config.CapPaymentURL,
	config.CapWapPaymentURL,
	config.CapPaymentQRCode,
	config.CapAppParams,
	config.CapQueryNow,
	config.CapRefund,
	config.CapNotifyVerify,
}

func init() {
	paygate.Register(config.GatewayWeChatPay, Name, New)
}

func New() paygate.Driver {
	return &Wechat{Base: paygate.NewBase(config.GatewayWeChatPay)}
}

type Wechat struct {
	*paygate.Base
	client *wxpay.Client
}

func (a *Wechat) IsSupported(c config.Capability) bool {
	return supports.IsSupported(c)
}

func (a *Wechat) Client() *wxpay.Client {
	if a.client != nil {
		return a.client
	}
	merchant := a.Merchant()
	account := wxpay.NewAccount(
		merchant.AppID,
		merchant.Partner,
		merchant.Key,
		merchant.Debug,
	)
	if len(merchant.CertPath) > 0 {
		account.SetCertData(merchant.CertPath)
	}
	a.client = wxpay.NewClient(account)
	return a.client
}

// BuildPaymentURL 电脑端支付跳转网址（NATIVE下单返回的收银网址）
func (a *Wechat) BuildPaymentURL() (string, error) {
	params, err := a.unifiedOrder(`NATIVE`, nil)
	if err != nil {
		return ``, err
	}
	return params.GetString(`code_url`), nil
}

// BuildWapPaymentURL 手机端网页支付跳转网址。网关要求脚本导航，
// 调度器会以脚本跳转的形式输出。
func (a *Wechat) BuildWapPaymentURL(extra param.StringMap) (string, error) {
	params, err := a.unifiedOrder(`MWEB`, extra)
	if err != nil {
		return ``, err
	}
	return params.GetString(`mweb_url`), nil
}

// PaymentQRCodeContent 扫码支付内容
func (a *Wechat) PaymentQRCodeContent() (string, error) {
	params, err := a.unifiedOrder(`NATIVE`, nil)
	if err != nil {
		return ``, err
	}
	return params.GetString(`code_url`), nil
}

// BuildAppParams App端SDK支付参数（统一下单后按SDK要求重签名）
func (a *Wechat) BuildAppParams() (param.StringMap, error) {
	params, err := a.unifiedOrder(`APP`, nil)
	if err != nil {
		return nil, err
	}
	return param.ToStringMap(a.translateAppParams(params)), nil
}

// QueryNow 同步查询订单是否支付成功
func (a *Wechat) QueryNow() (bool, error) {
	query := wxpay.Params{
		`out_trade_no`: a.Order().OutTradeNo,
	}
	resp, err := a.Client().OrderQuery(query)
	if err != nil {
		return false, err
	}
	if err := responseError(resp); err != nil {
		return false, err
	}
	return resp.GetString(`trade_state`) == wxpay.Success, nil
}

// BuildRefund 发起退款并回填退款记录
func (a *Wechat) BuildRefund(refund *config.Refund) (*config.Refund, error) {
	req := wxpay.Params{
		`out_trade_no`:  refund.OutTradeNo,
		`out_refund_no`: refund.OutRefundNo,
		`total_fee`:     strconv.FormatInt(refund.TotalAmount, 10),
		`refund_fee`:    strconv.FormatInt(refund.RefundAmount, 10),
	}
	resp, err := a.Client().Refund(req)
	if err != nil {
		return nil, err
	}
	if err := responseError(resp); err != nil {
		return nil, err
	}
	refund.TradeNo = resp.GetString(`transaction_id`)
	refund.RefundNo = resp.GetString(`refund_id`)
	refund.Status = config.TradeStatusProcessing
	refund.Raw = resp
	return refund, nil
}

// BuildRefundQuery 查询退款结果并回填退款记录
func (a *Wechat) BuildRefundQuery(refund *config.Refund) (*config.Refund, error) {
	req := wxpay.Params{
		`out_refund_no`: refund.OutRefundNo,
	}
	if len(refund.OutTradeNo) > 0 {
		req[`out_trade_no`] = refund.OutTradeNo
	}
	resp, err := a.Client().RefundQuery(req)
	if err != nil {
		return nil, err
	}
	if err := responseError(resp); err != nil {
		return nil, err
	}
	refund.TradeNo = resp.GetString(`transaction_id`)
	if v := resp.GetString(`refund_id_0`); len(v) > 0 {
		refund.RefundNo = v
	}
	refund.Status = mappingRefundStatus(resp.GetString(`refund_status_0`))
	if fee, err := strconv.ParseInt(resp.GetString(`refund_fee_0`), 10, 64); err == nil && fee > 0 {
		refund.RefundAmount = fee
	}
	refund.Raw = resp
	return refund, nil
}

// VerifyNotify 验证异步通知签名并归一化结果
func (a *Wechat) VerifyNotify(ctx echo.Context) (*config.NotifyResult, error) {
	body := ctx.Request().Body()
	defer body.Close()
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	return a.verify(wxpay.XmlToMap(string(b)))
}

func (a *Wechat) verify(params wxpay.Params) (*config.NotifyResult, error) {
	result := config.NewNotifyResult(config.GatewayWeChatPay)
	result.Raw = param.ToStringMap(map[string]string(params))
	if !a.Client().ValidSign(params) {
		return result, config.ErrSignature
	}
	result.Verified = true
	result.TradeNo = params.GetString(`transaction_id`)
	result.OutTradeNo = params.GetString(`out_trade_no`)
	if fee := params.GetString(`total_fee`); len(fee) > 0 {
		cents, err := strconv.ParseInt(fee, 10, 64)
		if err != nil {
			log.Warnf(`%s notify total_fee %q: %v`, Name, fee, err)
		}
		result.Amount = cents
		result.Raw[`total_amount`] = param.String(feeToYuan(cents))
	}
	if params.GetString(`return_code`) == wxpay.Success && params.GetString(`result_code`) == wxpay.Success {
		result.Status = config.TradeStatusSuccess
	} else {
		result.Status = config.TradeStatusClosed
	}
	return result, nil
}

// NotifyAnswer 网关要求的通知应答报文
func NotifyAnswer(ok bool) string {
	noti := wxpay.Notifies{}
	if ok {
		return noti.OK()
	}
	return noti.NotOK(`failed`)
}
