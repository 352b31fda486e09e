package config

import "strconv"

type (
	// GatewayType 支付网关类型
	GatewayType int
	// TradeType 交易类型（决定支付产物的形态）
	TradeType int
	// GoodsType 商品类型
	GoodsType int
	// Currency 币种
	Currency string
)

const (
	// GatewayNone 未选择网关
	GatewayNone GatewayType = iota
	// GatewayAlipay 支付宝
	GatewayAlipay
	// GatewayWeChatPay 微信支付
	GatewayWeChatPay
	// GatewayUnionPay 银联
	GatewayUnionPay
)

func (g GatewayType) String() string {
	switch g {
	case GatewayAlipay:
		return `alipay`
	case GatewayWeChatPay:
		return `wechatpay`
	case GatewayUnionPay:
		return `unionpay`
	default:
		return `none`
	}
}

// ParseGatewayType 从通知路径等处携带的网关标识解析网关类型
func ParseGatewayType(name string) GatewayType {
	switch name {
	case `alipay`:
		return GatewayAlipay
	case `wechatpay`, `wechat`:
		return GatewayWeChatPay
	case `unionpay`:
		return GatewayUnionPay
	default:
		return GatewayNone
	}
}

func GatewayTypes() []GatewayType {
	return []GatewayType{GatewayAlipay, GatewayWeChatPay, GatewayUnionPay}
}

const (
	// TradeNone 未选择交易类型
	TradeNone TradeType = iota
	// TradeApp 在App内通过SDK支付
	TradeApp
	// TradeWap 在手机端网页上支付
	TradeWap
	// TradeWeb 在电脑端网页上支付
	TradeWeb
	// TradeQRCode 扫码支付
	TradeQRCode
	// TradePublic 公众号支付（预留）
	TradePublic
	// TradeBarCode 条码支付（预留）
	TradeBarCode
	// TradeApplet 小程序支付（预留）
	TradeApplet
)

func (t TradeType) String() string {
	switch t {
	case TradeApp:
		return `app`
	case TradeWap:
		return `wap`
	case TradeWeb:
		return `web`
	case TradeQRCode:
		return `qrcode`
	case TradePublic:
		return `public`
	case TradeBarCode:
		return `barcode`
	case TradeApplet:
		return `applet`
	default:
		return `none`
	}
}

func (a GoodsType) String() string {
	return strconv.FormatInt(int64(a), 10)
}

func (a GoodsType) Name() string {
	switch a {
	case VirtualGoods:
		return "VirtualGoods"
	case PhysicalGoods:
		return "PhysicalGoods"
	default:
		return ""
	}
}

func (c Currency) String() string {
	if len(c) == 0 {
		return `CNY`
	}
	return string(c)
}

const (
	// VirtualGoods 虚拟商品
	VirtualGoods GoodsType = iota
	// PhysicalGoods 实物类商品
	PhysicalGoods
)

const (
	// CNY 人民币
	CNY Currency = `CNY`
	// USD 美元
	USD Currency = `USD`
	// HKD 港元
	HKD Currency = `HKD`
	// EUR 欧元
	EUR Currency = `EUR`
	// GBP 英镑
	GBP Currency = `GBP`
	// JPY 日元
	JPY Currency = `JPY`
)

const (
	// CharsetUTF8 默认字符集
	CharsetUTF8 = `UTF-8`
	// CharsetGBK 部分网关使用的字符集
	CharsetGBK = `GBK`
)
