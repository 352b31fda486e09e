package config

// Capability 网关能力。每个网关驱动显式声明自己支持的能力集合，
// 调度器据此判定某个交易类型能否由该网关完成。
type Capability int

const (
	// CapPaymentURL 生成电脑端支付跳转网址
	CapPaymentURL Capability = iota
	// CapPaymentForm 生成电脑端支付自动提交表单
	CapPaymentForm
	// CapWapPaymentURL 生成手机端支付跳转网址
	CapWapPaymentURL
	// CapWapPaymentForm 生成手机端支付自动提交表单
	CapWapPaymentForm
	// CapPaymentQRCode 生成扫码支付内容
	CapPaymentQRCode
	// CapAppParams 生成App端SDK支付参数
	CapAppParams
	// CapQueryURL 生成订单查询跳转网址
	CapQueryURL
	// CapQueryForm 生成订单查询表单
	CapQueryForm
	// CapQueryNow 同步查询订单状态
	CapQueryNow
	// CapRefund 退款及退款查询
	CapRefund
	// CapNotifyVerify 验证异步通知签名
	CapNotifyVerify
)

func (c Capability) String() string {
	switch c {
	case CapPaymentURL:
		return `PaymentURL`
	case CapPaymentForm:
		return `PaymentForm`
	case CapWapPaymentURL:
		return `WapPaymentURL`
	case CapWapPaymentForm:
		return `WapPaymentForm`
	case CapPaymentQRCode:
		return `PaymentQRCode`
	case CapAppParams:
		return `AppParams`
	case CapQueryURL:
		return `QueryURL`
	case CapQueryForm:
		return `QueryForm`
	case CapQueryNow:
		return `QueryNow`
	case CapRefund:
		return `Refund`
	case CapNotifyVerify:
		return `NotifyVerify`
	default:
		return ``
	}
}

type Supports []Capability

func (a Supports) IsSupported(c Capability) bool {
	for _, v := range a {
		if v == c {
			return true
		}
	}
	return false
}
