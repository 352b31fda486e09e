package alipay

import (
	"errors"

	alipay "github.com/admpub/alipay/v3"

	"github.com/webx-top/paygate"
	"github.com/webx-top/paygate/config"
)

// trade 从订单与商户派生交易报文。注入参数只覆盖网关认可的可选字段。
func (a *Alipay) trade(productCode string) alipay.Trade {
	merchant := a.Merchant()
	order := a.Order()
	trade := alipay.Trade{
		NotifyURL:   merchant.NotifyURLString(),
		ReturnURL:   merchant.ReturnURLString(),
		Subject:     order.Subject,
		Body:        order.Body,
		OutTradeNo:  order.OutTradeNo,
		TotalAmount: paygate.MoneyFeeToString(order.Amount),
		ProductCode: productCode,
		GoodsType:   order.GoodsType.String(),
	}
	if v := a.Param(`product_code`); len(v) > 0 {
		trade.ProductCode = v
	}
	if v := a.Param(`passback_params`); len(v) > 0 {
		trade.PassbackParams = v
	}
	if v := a.Param(`timeout_express`); len(v) > 0 {
		trade.TimeoutExpress = v
	}
	if order.Extra != nil {
		if v := order.Extra.String(`passbackParams`); len(v) > 0 {
			trade.PassbackParams = v
		}
	}
	return trade
}

func responseError(msg string, subMsg string) error {
	if len(subMsg) > 0 {
		msg += `: ` + subMsg
	}
	return errors.New(msg)
}

func mappingRefundStatus(refundStatus string) string {
	switch refundStatus {
	case `REFUND_SUCCESS`:
		return config.TradeStatusSuccess
	case `REFUND_FAIL`:
		return config.TradeStatusException
	case `REFUND_PROCESSING`:
		return config.TradeStatusProcessing
	default:
		return config.TradeStatusProcessing
	}
}
