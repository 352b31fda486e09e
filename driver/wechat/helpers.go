package wechat

import (
	"errors"
	"strconv"
	"time"

	"github.com/objcoding/wxpay"
	"github.com/shopspring/decimal"
	"github.com/webx-top/echo/param"

	"github.com/webx-top/paygate/config"
)

// unifiedOrder 统一下单。注入参数与调用方追加参数并入签名数据。
func (a *Wechat) unifiedOrder(tradeType string, extra param.StringMap) (wxpay.Params, error) {
	params := a.orderParams(tradeType, extra)
	resp, err := a.Client().UnifiedOrder(params)
	if err != nil {
		return nil, err
	}
	if err := responseError(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *Wechat) orderParams(tradeType string, extra param.StringMap) wxpay.Params {
	merchant := a.Merchant()
	order := a.Order()
	params := wxpay.Params{
		`notify_url`:   merchant.NotifyURLString(),
		`trade_type`:   tradeType,
		`total_fee`:    strconv.FormatInt(order.Amount, 10),
		`out_trade_no`: order.OutTradeNo,
		`body`:         order.Subject,
	}
	if len(order.ClientIP) > 0 {
		params[`spbill_create_ip`] = order.ClientIP
	}
	if len(order.Currency) > 0 {
		params[`fee_type`] = order.Currency.String()
	}
	for name, value := range a.Params() {
		params[name] = value.String()
	}
	for name, value := range extra {
		params[name] = value.String()
	}
	return params
}

// translateAppParams 把统一下单应答转换为App端SDK需要的参数并重新签名
func (a *Wechat) translateAppParams(params wxpay.Params) map[string]string {
	p := make(wxpay.Params)
	p[`appid`] = params[`appid`]
	p[`partnerid`] = params[`mch_id`]
	p[`noncestr`] = params[`nonce_str`]
	p[`prepayid`] = params[`prepay_id`]
	p[`timestamp`] = strconv.FormatInt(time.Now().Unix(), 10)
	p[`package`] = `Sign=WXPay`
	p[`sign`] = a.Client().Sign(p)
	return map[string]string(p)
}

func responseError(params wxpay.Params) error {
	if params.GetString(`return_code`) == wxpay.Fail {
		return errors.New(params.GetString(`return_msg`))
	}
	if code := params.GetString(`result_code`); len(code) > 0 && code == wxpay.Fail {
		msg := params.GetString(`err_code_des`)
		if len(msg) == 0 {
			return config.ErrPaymentFailed
		}
		return errors.New(msg)
	}
	return nil
}

func mappingRefundStatus(refundStatus string) string {
	switch refundStatus {
	case `SUCCESS`:
		return config.TradeStatusSuccess
	case `PROCESSING`:
		return config.TradeStatusProcessing
	case `REFUNDCLOSE`, `CHANGE`:
		return config.TradeStatusException
	default:
		return config.TradeStatusProcessing
	}
}

func feeToYuan(fee int64) string {
	return decimal.New(fee, -2).String()
}
