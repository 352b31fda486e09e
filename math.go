package paygate

import "github.com/admpub/decimal"

// 金额一律以最小货币单位（分）的整数表示，仅在网关报文边界转换为字符串。

// MoneyFeeToString 将最小货币单位金额转换为以元为单位的字符串
// * fee 金额（分）
func MoneyFeeToString(fee int64) string {
	return decimal.New(fee, -2).StringFixed(2)
}

// MoneyFeeFromString 将以元为单位的金额字符串转换为最小货币单位金额
// * money 金额（元）
func MoneyFeeFromString(money string) (int64, error) {
	if len(money) == 0 {
		return 0, nil
	}
	d, err := decimal.NewFromString(money)
	if err != nil {
		return 0, err
	}
	return d.Shift(2).Round(0).IntPart(), nil
}
