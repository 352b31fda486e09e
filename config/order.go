package config

import "github.com/webx-top/echo"

func NewOrder() *Order {
	return &Order{Extra: echo.H{}}
}

// Order 一笔待支付交易。金额一律使用最小货币单位（分），避免浮点误差。
// 交给网关驱动之后视为只读：驱动从订单派生请求报文，不得回写订单字段。
type Order struct {
	OutTradeNo string    `json:"outTradeNo"` //业务方交易号
	Subject    string    `json:"subject"`    //订单标题
	Body       string    `json:"body"`       //订单描述
	Amount     int64     `json:"amount"`     //订单金额（最小货币单位）
	Currency   Currency  `json:"currency"`   //币种
	GoodsType  GoodsType `json:"goodsType"`  //商品类型
	ClientIP   string    `json:"clientIP"`   //买家IP
	Extra      echo.H    `json:"extra"`      //网关专有扩展参数
}
