package config

// Refund 退款请求与结果。输入字段由调用方填写，输出字段由网关驱动回填后原样返回。
type Refund struct {
	TradeNo      string      `json:"tradeNo"`      //网关交易号
	OutTradeNo   string      `json:"outTradeNo"`   //业务方交易号
	RefundNo     string      `json:"refundNo"`     //网关退款单号（输出）
	OutRefundNo  string      `json:"outRefundNo"`  //业务方退款单号
	TotalAmount  int64       `json:"totalAmount"`  //订单总金额（最小货币单位）
	RefundAmount int64       `json:"refundAmount"` //退款金额（最小货币单位）
	RefundReason string      `json:"refundReason"` //退款原因（选填）
	Status       string      `json:"status"`       //退款状态（输出）
	Raw          interface{} `json:"-"`            //网关原始应答（输出）
}
