package unionpay

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/admpub/resty/v2"
	"github.com/webx-top/com"
	"github.com/webx-top/echo"
	"github.com/webx-top/restyclient"

	"github.com/webx-top/paygate"
	"github.com/webx-top/paygate/config"
)

const Name = `unionpay`

const Version = `5.1.0`

var (
	ProductionURL = `https://gateway.95516.com/gateway/api`
	SandboxURL    = `https://gateway.test.95516.com/gateway/api`
	APIFrontTrans = `/frontTransReq.do`
	APIQueryTrans = `/queryTrans.do`
)

var supports = config.Supports{
	config.CapPaymentForm,
	config.CapQueryForm,
	config.CapQueryNow,
	config.CapNotifyVerify,
}

func init() {
	paygate.Register(config.GatewayUnionPay, Name, New)
}

func New() paygate.Driver {
	return &UnionPay{Base: paygate.NewBase(config.GatewayUnionPay)}
}

type UnionPay struct {
	*paygate.Base
}

func (a *UnionPay) IsSupported(c config.Capability) bool {
	return supports.IsSupported(c)
}

func (a *UnionPay) Client() *resty.Request {
	return restyclient.Retryable()
}

func (a *UnionPay) gatewayURL(endpoint string) string {
	if a.Merchant().Debug {
		return SandboxURL + endpoint
	}
	return ProductionURL + endpoint
}

// BuildPaymentForm 电脑端网页支付表单，自动提交到前台交易网关
func (a *UnionPay) BuildPaymentForm() (string, error) {
	merchant := a.Merchant()
	order := a.Order()
	data := a.baseParams(`01`, `01`, `000201`)
	data.Set(`orderId`, order.OutTradeNo)
	data.Set(`txnTime`, a.txnTime())
	data.Set(`txnAmt`, strconv.FormatInt(order.Amount, 10))
	data.Set(`currencyCode`, currencyCode(order.Currency))
	data.Set(`backUrl`, merchant.NotifyURLString())
	data.Set(`frontUrl`, merchant.ReturnURLString())
	if len(order.Subject) > 0 {
		data.Set(`orderDesc`, order.Subject)
	}
	if len(order.ClientIP) > 0 {
		data.Set(`customerIp`, order.ClientIP)
	}
	sign, err := SignValues(data, merchant.PrivateKeyPEM)
	if err != nil {
		return ``, err
	}
	data.Set(`signature`, sign)
	return paygate.AutoSubmitForm(a.gatewayURL(APIFrontTrans), data), nil
}

// BuildQueryForm 订单查询表单，自动提交到交易状态查询网关
func (a *UnionPay) BuildQueryForm() (string, error) {
	data, err := a.queryParams()
	if err != nil {
		return ``, err
	}
	return paygate.AutoSubmitForm(a.gatewayURL(APIQueryTrans), data), nil
}

// QueryNow 后台交易状态查询，返回订单是否支付成功
func (a *UnionPay) QueryNow() (bool, error) {
	data, err := a.queryParams()
	if err != nil {
		return false, err
	}
	resp, err := a.Client().SetFormDataFromValues(data).Post(a.gatewayURL(APIQueryTrans))
	if err != nil {
		return false, err
	}
	if resp.StatusCode() != http.StatusOK {
		return false, fmt.Errorf("%s: %s", resp.Status(), com.StripTags(resp.String()))
	}
	fields := ParseFields(resp.String())
	if err := VerifyValues(fields, a.Merchant().PublicKeyPEM); err != nil {
		return false, err
	}
	return fields.Get(`respCode`) == respCodeSuccess && fields.Get(`origRespCode`) == respCodeSuccess, nil
}

// VerifyNotify 验证异步通知签名并归一化结果
func (a *UnionPay) VerifyNotify(ctx echo.Context) (*config.NotifyResult, error) {
	values := url.Values(ctx.Forms())
	result := config.NewNotifyResult(config.GatewayUnionPay)
	result.Raw = paygate.FormValues(ctx.Forms())
	if err := VerifyValues(values, a.Merchant().PublicKeyPEM); err != nil {
		return result, config.ErrSignature
	}
	result.Verified = true
	result.TradeNo = values.Get(`queryId`)
	result.OutTradeNo = values.Get(`orderId`)
	if amount, err := strconv.ParseInt(values.Get(`txnAmt`), 10, 64); err == nil {
		result.Amount = amount
	}
	if values.Get(`respCode`) == respCodeSuccess {
		result.Status = config.TradeStatusSuccess
	} else {
		result.Status = config.TradeStatusClosed
	}
	return result, nil
}

func (a *UnionPay) queryParams() (url.Values, error) {
	order := a.Order()
	data := a.baseParams(`00`, `00`, `000000`)
	data.Set(`orderId`, order.OutTradeNo)
	data.Set(`txnTime`, a.txnTime())
	sign, err := SignValues(data, a.Merchant().PrivateKeyPEM)
	if err != nil {
		return nil, err
	}
	data.Set(`signature`, sign)
	return data, nil
}

// baseParams 公共请求参数。注入参数并入签名数据。
func (a *UnionPay) baseParams(txnType string, txnSubType string, bizType string) url.Values {
	merchant := a.Merchant()
	data := url.Values{}
	data.Set(`version`, Version)
	data.Set(`encoding`, a.Charset())
	data.Set(`signMethod`, `01`)
	data.Set(`certId`, merchant.CertID)
	data.Set(`txnType`, txnType)
	data.Set(`txnSubType`, txnSubType)
	data.Set(`bizType`, bizType)
	data.Set(`accessType`, `0`)
	data.Set(`channelType`, `07`)
	data.Set(`merId`, merchant.Partner)
	for name, value := range a.Params() {
		data.Set(name, value.String())
	}
	return data
}

// txnTime 交易时间。查询原交易时须与下单时一致，可通过订单扩展参数传入。
func (a *UnionPay) txnTime() string {
	if order := a.Order(); order != nil && order.Extra != nil {
		if v := order.Extra.String(`txnTime`); len(v) > 0 {
			return v
		}
	}
	if v := a.Param(`txnTime`); len(v) > 0 {
		return v
	}
	return time.Now().Format(`20060102150405`)
}
