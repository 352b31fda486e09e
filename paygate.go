package paygate

import (
	"sort"
	"sync"

	"github.com/webx-top/paygate/config"
)

// Driver 网关驱动公共状态契约。具体支付能力通过独立的能力接口按需实现，
// 调度器先查询 IsSupported 再断言能力接口，不做任何猜测或回退。
type Driver interface {
	GatewayType() config.GatewayType
	SetMerchant(*config.Merchant)
	Merchant() *config.Merchant
	SetOrder(*config.Order)
	Order() *config.Order
	SetTradeType(config.TradeType)
	TradeType() config.TradeType
	SetCharset(string)
	Charset() string
	// SetParameter 注入网关专有参数，驱动须将其并入待签名请求
	SetParameter(name string, value string)
	IsSupported(config.Capability) bool
}

var (
	mutex   = &sync.RWMutex{}
	drivers = map[config.GatewayType]func() Driver{}
	names   = map[config.GatewayType]string{}
)

// Register 注册网关驱动构造函数
func Register(gateway config.GatewayType, name string, constructor func() Driver) {
	mutex.Lock()
	defer mutex.Unlock()
	drivers[gateway] = constructor
	names[gateway] = name
}

// Get 获取网关驱动构造函数
func Get(gateway config.GatewayType) (constructor func() Driver) {
	mutex.RLock()
	defer mutex.RUnlock()
	constructor = drivers[gateway]
	return constructor
}

// Create 构造网关驱动实例。未注册的网关类型得到空网关：
// 它不支持任何能力，所有调度都会以能力错误结束，而不是悄悄选择别的网关。
func Create(gateway config.GatewayType) Driver {
	if constructor := Get(gateway); constructor != nil {
		return constructor()
	}
	return NewBase(config.GatewayNone)
}

// Names 已注册网关名称列表
func Names() []string {
	mutex.RLock()
	defer mutex.RUnlock()
	r := make([]string, 0, len(names))
	for _, name := range names {
		r = append(r, name)
	}
	sort.Strings(r)
	return r
}
