package paygate

import (
	"sync"

	"github.com/webx-top/paygate/config"
)

// NewGateways 构造网关装配集合
func NewGateways() *Gateways {
	return &Gateways{merchants: map[config.GatewayType]*config.Merchant{}}
}

// Gateways 一个部署启用的网关及其商户凭证。装配阶段校验凭证（快速失败），
// 之后凭证只读，可被任意数量的并发请求安全共享。
type Gateways struct {
	mu        sync.RWMutex
	merchants map[config.GatewayType]*config.Merchant
}

// Add 启用一个网关。凭证缺失或非法立即返回配置错误，而不是等到首次调度。
func (g *Gateways) Add(gateway config.GatewayType, merchant *config.Merchant) error {
	if err := merchant.Validate(gateway); err != nil {
		return err
	}
	g.mu.Lock()
	g.merchants[gateway] = merchant
	g.mu.Unlock()
	return nil
}

// Merchant 取某个网关的商户凭证
func (g *Gateways) Merchant(gateway config.GatewayType) (*config.Merchant, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	merchant, ok := g.merchants[gateway]
	return merchant, ok
}

// Setting 为一笔订单构造已绑定商户的调度器。网关未启用属于配置错误。
func (g *Gateways) Setting(gateway config.GatewayType, order *config.Order) (*Setting, error) {
	merchant, ok := g.Merchant(gateway)
	if !ok {
		return nil, &config.ConfigurationError{Gateway: gateway, Field: `merchant`}
	}
	return NewSettingWith(gateway, merchant, order), nil
}

// Notify 用已启用网关的商户集合构造通知处理器
func (g *Gateways) Notify() *Notify {
	notify := NewNotify()
	g.mu.RLock()
	for gateway, merchant := range g.merchants {
		notify.SetMerchant(gateway, merchant)
	}
	g.mu.RUnlock()
	return notify
}
