package paygate

import (
	"github.com/webx-top/echo"
	"github.com/webx-top/echo/param"

	"github.com/webx-top/paygate/config"
)

// 能力接口。一个网关驱动实现其中任意子集，并通过 config.Supports 声明；
// 声明了能力却未实现对应接口属于驱动缺陷，调度时同样报能力错误。

// PaymentURL 生成电脑端支付跳转网址（已按网关规则签名）
type PaymentURL interface {
	BuildPaymentURL() (string, error)
}

// PaymentForm 生成电脑端支付自动提交表单
type PaymentForm interface {
	BuildPaymentForm() (string, error)
}

// WapPaymentURL 生成手机端支付跳转网址，extra 为调用方追加的请求参数
type WapPaymentURL interface {
	BuildWapPaymentURL(extra param.StringMap) (string, error)
}

// WapPaymentForm 生成手机端支付自动提交表单
type WapPaymentForm interface {
	BuildWapPaymentForm() (string, error)
}

// PaymentQRCode 生成扫码支付内容（二维码图片由调度器渲染）
type PaymentQRCode interface {
	PaymentQRCodeContent() (string, error)
}

// AppParams 生成App端SDK直接消费的支付参数
type AppParams interface {
	BuildAppParams() (param.StringMap, error)
}

// QueryURL 生成订单查询跳转网址
type QueryURL interface {
	BuildQueryURL() (string, error)
}

// QueryForm 生成订单查询表单
type QueryForm interface {
	BuildQueryForm() (string, error)
}

// QueryNow 同步查询订单是否支付成功
type QueryNow interface {
	QueryNow() (bool, error)
}

// RefundRequester 发起退款与查询退款，读取并回填同一份退款记录
type RefundRequester interface {
	BuildRefund(*config.Refund) (*config.Refund, error)
	BuildRefundQuery(*config.Refund) (*config.Refund, error)
}

// NotifyVerifier 验证入站异步通知并归一化结果
type NotifyVerifier interface {
	VerifyNotify(ctx echo.Context) (*config.NotifyResult, error)
}
