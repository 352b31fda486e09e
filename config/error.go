package config

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupported    = errors.New("unsupported capability")
	ErrNotImplemented = errors.New("trade type not implemented")
	ErrSignature      = errors.New("signature verification failed")
	ErrPaymentFailed  = errors.New("payment failed")
	ErrRefundFailed   = errors.New("refund failed")
)

// CapabilityError 网关缺少交易类型所要求的能力
type CapabilityError struct {
	Gateway    GatewayType
	Trade      TradeType
	Capability Capability
}

func NewCapabilityError(gateway GatewayType, trade TradeType, capability Capability) *CapabilityError {
	return &CapabilityError{Gateway: gateway, Trade: trade, Capability: capability}
}

func (e *CapabilityError) Error() string {
	if e.Trade == TradeNone {
		return fmt.Sprintf(`gateway %q does not implement %s`, e.Gateway, e.Capability)
	}
	return fmt.Sprintf(`gateway %q does not implement %s (trade type %q)`, e.Gateway, e.Capability, e.Trade)
}

func (e *CapabilityError) Unwrap() error {
	return ErrUnsupported
}

// TradeTypeError 交易类型没有对应的调度分支
type TradeTypeError struct {
	Gateway  GatewayType
	Trade    TradeType
	Reserved bool
}

func (e *TradeTypeError) Error() string {
	if e.Reserved {
		return fmt.Sprintf(`trade type %q is reserved and not implemented (gateway %q)`, e.Trade, e.Gateway)
	}
	return fmt.Sprintf(`gateway %q does not implement trade type %q`, e.Gateway, e.Trade)
}

func (e *TradeTypeError) Unwrap() error {
	return ErrNotImplemented
}

// TransportWriteError 支付产物写入响应失败
type TransportWriteError struct {
	Err error
}

func (e *TransportWriteError) Error() string {
	return fmt.Sprintf(`write payment artifact: %v`, e.Err)
}

func (e *TransportWriteError) Unwrap() error {
	return e.Err
}

// ConfigurationError 商户配置缺失或非法。应在启动装配阶段暴露，而不是等到首次调度。
type ConfigurationError struct {
	Gateway GatewayType
	Field   string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(`gateway %q: invalid merchant field %q: %v`, e.Gateway, e.Field, e.Err)
	}
	return fmt.Sprintf(`gateway %q: merchant field %q is required`, e.Gateway, e.Field)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
