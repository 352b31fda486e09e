package paygate

import (
	"github.com/webx-top/echo/param"

	"github.com/webx-top/paygate/config"
)

var _ Driver = NewBase(config.GatewayNone)

// NewBase 构造驱动公共状态。未注册网关类型时 Base 本身就是空网关：
// 不支持任何能力，调度必然以能力错误结束。
func NewBase(gateway config.GatewayType) *Base {
	return &Base{
		gatewayType: gateway,
		charset:     config.CharsetUTF8,
		params:      map[string]string{},
	}
}

type Base struct {
	gatewayType config.GatewayType
	merchant    *config.Merchant
	order       *config.Order
	tradeType   config.TradeType
	charset     string
	params      map[string]string
}

func (b *Base) GatewayType() config.GatewayType {
	return b.gatewayType
}

func (b *Base) SetMerchant(merchant *config.Merchant) {
	b.merchant = merchant
}

func (b *Base) Merchant() *config.Merchant {
	return b.merchant
}

func (b *Base) SetOrder(order *config.Order) {
	b.order = order
}

func (b *Base) Order() *config.Order {
	return b.order
}

func (b *Base) SetTradeType(tradeType config.TradeType) {
	b.tradeType = tradeType
}

func (b *Base) TradeType() config.TradeType {
	return b.tradeType
}

func (b *Base) SetCharset(charset string) {
	b.charset = charset
}

func (b *Base) Charset() string {
	if len(b.charset) == 0 {
		return config.CharsetUTF8
	}
	return b.charset
}

func (b *Base) SetParameter(name string, value string) {
	b.params[name] = value
}

// Param 读取单个注入参数
func (b *Base) Param(name string) string {
	return b.params[name]
}

// Params 注入参数集合，驱动构造请求时并入签名数据
func (b *Base) Params() param.StringMap {
	return param.ToStringMap(b.params)
}

func (b *Base) IsSupported(c config.Capability) bool {
	return false
}
