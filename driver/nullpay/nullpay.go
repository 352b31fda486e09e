// Package nullpay 提供空网关：表示“尚未选择网关”的显式状态。
// 它不支持任何能力，所有调度都以能力错误结束，而不是吞掉错误的默认实现。
package nullpay

import (
	"github.com/webx-top/paygate"
	"github.com/webx-top/paygate/config"
)

const Name = `null`

func init() {
	paygate.Register(config.GatewayNone, Name, New)
}

func New() paygate.Driver {
	return &NullPay{Base: paygate.NewBase(config.GatewayNone)}
}

type NullPay struct {
	*paygate.Base
}
