package config

import "github.com/webx-top/echo/param"

// NewNotifyResult 构造一个通知验证结果实例
func NewNotifyResult(gateway GatewayType) *NotifyResult {
	return &NotifyResult{Gateway: gateway, Raw: param.StringMap{}}
}

// NotifyResult 异步通知验证后的归一化结果。每次入站通知新建一份，核心不持久化。
// Verified 为 false 时不得信任其余字段。
type NotifyResult struct {
	Gateway    GatewayType     // 通知来源网关
	Verified   bool            // 签名验证是否通过
	TradeNo    string          // 网关交易号
	OutTradeNo string          // 业务方交易号
	Amount     int64           // 实付金额（最小货币单位）
	Status     string          // 归一化交易状态
	Raw        param.StringMap // 原始参数（审计用）
}

func (r *NotifyResult) IsSuccess() bool {
	return r.Verified && r.Status == TradeStatusSuccess
}
