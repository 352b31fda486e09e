package config

import (
	"net/url"

	"github.com/webx-top/echo"
)

func NewMerchant() *Merchant {
	return &Merchant{}
}

// Merchant 单个网关的商户凭证。装配完成后视为只读，网关驱动不得修改。
type Merchant struct {
	Debug         bool     `json:"debug"`
	AppID         string   `json:"appID"`         //应用ID
	Partner       string   `json:"partner"`       //商户号/合作者ID
	Key           string   `json:"key"`           //对称签名密钥
	Email         string   `json:"email"`         //商户账号（部分网关使用）
	PrivateKeyPEM string   `json:"privateKeyPEM"` //商户私钥
	PublicKeyPEM  string   `json:"publicKeyPEM"`  //网关公钥或证书
	CertPath      string   `json:"certPath"`      //证书路径
	CertID        string   `json:"certID"`        //银联签名证书序列号
	NotifyURL     *url.URL `json:"-"`             //异步通知地址
	ReturnURL     *url.URL `json:"-"`             //同步跳转地址
}

// SetNotifyURL 设置异步通知地址。地址非法属于配置错误。
func (m *Merchant) SetNotifyURL(gateway GatewayType, raw string) error {
	u, err := parseMerchantURL(gateway, `notifyURL`, raw)
	if err != nil {
		return err
	}
	m.NotifyURL = u
	return nil
}

// SetReturnURL 设置同步跳转地址
func (m *Merchant) SetReturnURL(gateway GatewayType, raw string) error {
	u, err := parseMerchantURL(gateway, `returnURL`, raw)
	if err != nil {
		return err
	}
	m.ReturnURL = u
	return nil
}

func parseMerchantURL(gateway GatewayType, field string, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ConfigurationError{Gateway: gateway, Field: field, Err: err}
	}
	if len(u.Scheme) == 0 || len(u.Host) == 0 {
		return nil, &ConfigurationError{Gateway: gateway, Field: field, Err: errURLIncomplete}
	}
	return u, nil
}

var errURLIncomplete = urlError(`scheme and host are required`)

type urlError string

func (e urlError) Error() string {
	return string(e)
}

// FromStore 从配置数据中加载商户凭证
func (m *Merchant) FromStore(gateway GatewayType, v echo.Store) error {
	m.Debug = v.Bool(`debug`)
	m.AppID = v.String(`appID`)
	m.Partner = v.String(`partner`)
	m.Key = v.String(`key`)
	m.Email = v.String(`email`)
	m.PrivateKeyPEM = v.String(`privateKeyPEM`)
	m.PublicKeyPEM = v.String(`publicKeyPEM`)
	m.CertPath = v.String(`certPath`)
	m.CertID = v.String(`certID`)
	if raw := v.String(`notifyURL`); len(raw) > 0 {
		if err := m.SetNotifyURL(gateway, raw); err != nil {
			return err
		}
	}
	if raw := v.String(`returnURL`); len(raw) > 0 {
		if err := m.SetReturnURL(gateway, raw); err != nil {
			return err
		}
	}
	return m.Validate(gateway)
}

// Validate 校验指定网关要求的凭证字段。缺失字段是配置错误而不是运行时错误。
func (m *Merchant) Validate(gateway GatewayType) error {
	for _, field := range requiredMerchantFields[gateway] {
		if !m.has(field) {
			return &ConfigurationError{Gateway: gateway, Field: field}
		}
	}
	return nil
}

var requiredMerchantFields = map[GatewayType][]string{
	GatewayAlipay:    {`appID`, `privateKeyPEM`, `notifyURL`},
	GatewayWeChatPay: {`appID`, `partner`, `key`, `notifyURL`},
	GatewayUnionPay:  {`partner`, `certID`, `privateKeyPEM`, `publicKeyPEM`, `notifyURL`},
}

func (m *Merchant) has(field string) bool {
	switch field {
	case `appID`:
		return len(m.AppID) > 0
	case `partner`:
		return len(m.Partner) > 0
	case `key`:
		return len(m.Key) > 0
	case `privateKeyPEM`:
		return len(m.PrivateKeyPEM) > 0
	case `publicKeyPEM`:
		return len(m.PublicKeyPEM) > 0
	case `certID`:
		return len(m.CertID) > 0
	case `notifyURL`:
		return m.NotifyURL != nil
	case `returnURL`:
		return m.ReturnURL != nil
	default:
		return false
	}
}

// NotifyURLString 异步通知地址字符串形式
func (m *Merchant) NotifyURLString() string {
	if m.NotifyURL == nil {
		return ``
	}
	return m.NotifyURL.String()
}

// ReturnURLString 同步跳转地址字符串形式
func (m *Merchant) ReturnURLString() string {
	if m.ReturnURL == nil {
		return ``
	}
	return m.ReturnURL.String()
}
