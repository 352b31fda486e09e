package paygate

import (
	"github.com/webx-top/echo"

	"github.com/webx-top/paygate/config"
)

// NewNotify 构造通知处理器
func NewNotify() *Notify {
	return &Notify{merchants: map[config.GatewayType]*config.Merchant{}}
}

// Notify 异步通知处理器。一个部署可能同时运行多个网关，
// 因此按网关类型各持有一份商户凭证，先根据请求携带的网关标识选择验证流程。
type Notify struct {
	merchants map[config.GatewayType]*config.Merchant
}

// SetMerchant 绑定某个网关的商户凭证
func (n *Notify) SetMerchant(gateway config.GatewayType, merchant *config.Merchant) *Notify {
	n.merchants[gateway] = merchant
	return n
}

// Merchant 取某个网关的商户凭证
func (n *Notify) Merchant(gateway config.GatewayType) (*config.Merchant, bool) {
	merchant, ok := n.merchants[gateway]
	return merchant, ok
}

// Verify 验证入站通知并归一化结果。签名不符时返回 Verified=false 的结果
// 和 config.ErrSignature，调用方以 Verified 为准，绝不能只凭没有panic就信任载荷。
func (n *Notify) Verify(ctx echo.Context, gateway config.GatewayType) (*config.NotifyResult, error) {
	merchant, ok := n.merchants[gateway]
	if !ok {
		return nil, &config.ConfigurationError{Gateway: gateway, Field: `merchant`}
	}
	driver := Create(gateway)
	driver.SetMerchant(merchant)
	verifier, ok := driver.(NotifyVerifier)
	if !ok || !driver.IsSupported(config.CapNotifyVerify) {
		// 未注册的网关落到空驱动上，错误仍须指认调用方询问的网关
		return nil, &config.CapabilityError{
			Gateway:    gateway,
			Capability: config.CapNotifyVerify,
		}
	}
	result, err := verifier.VerifyNotify(ctx)
	if result == nil {
		result = config.NewNotifyResult(gateway)
	}
	result.Gateway = gateway
	return result, err
}
