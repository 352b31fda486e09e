package unionpay

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/webx-top/paygate/config"
)

const respCodeSuccess = `00`

// canonicalString 签名原文：剔除signature与空值后按参数名排序拼接
func canonicalString(data url.Values) string {
	names := make([]string, 0, len(data))
	for name, values := range data {
		if name == `signature` || len(values) == 0 || len(values[0]) == 0 {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = name + `=` + data.Get(name)
	}
	return strings.Join(pairs, `&`)
}

// digest 网关签名算法：原文SHA-256的十六进制串再做SHA-256
func digest(data url.Values) []byte {
	first := sha256.Sum256([]byte(canonicalString(data)))
	second := sha256.Sum256([]byte(hex.EncodeToString(first[:])))
	return second[:]
}

// SignValues 用商户私钥对请求参数签名，返回base64签名串
func SignValues(data url.Values, privateKeyPEM string) (string, error) {
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return ``, err
	}
	sign, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest(data))
	if err != nil {
		return ``, err
	}
	return base64.StdEncoding.EncodeToString(sign), nil
}

// VerifyValues 用网关公钥验证参数中的signature字段
func VerifyValues(data url.Values, publicKeyPEM string) error {
	sign, err := base64.StdEncoding.DecodeString(data.Get(`signature`))
	if err != nil {
		return config.ErrSignature
	}
	pub, err := parsePublicKey(publicKeyPEM)
	if err != nil {
		return err
	}
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest(data), sign); err != nil {
		return config.ErrSignature
	}
	return nil
}

func parsePrivateKey(keyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(keyPEM))
	if block == nil {
		return nil, &config.ConfigurationError{Gateway: config.GatewayUnionPay, Field: `privateKeyPEM`, Err: errors.New(`no PEM block`)}
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, &config.ConfigurationError{Gateway: config.GatewayUnionPay, Field: `privateKeyPEM`, Err: err}
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, &config.ConfigurationError{Gateway: config.GatewayUnionPay, Field: `privateKeyPEM`, Err: fmt.Errorf(`unexpected key type %T`, key)}
	}
	return rsaKey, nil
}

// parsePublicKey 接受公钥或证书形式的PEM
func parsePublicKey(keyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(keyPEM))
	if block == nil {
		return nil, &config.ConfigurationError{Gateway: config.GatewayUnionPay, Field: `publicKeyPEM`, Err: errors.New(`no PEM block`)}
	}
	if block.Type == `CERTIFICATE` {
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, &config.ConfigurationError{Gateway: config.GatewayUnionPay, Field: `publicKeyPEM`, Err: err}
		}
		pub, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return nil, &config.ConfigurationError{Gateway: config.GatewayUnionPay, Field: `publicKeyPEM`, Err: fmt.Errorf(`unexpected key type %T`, cert.PublicKey)}
		}
		return pub, nil
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, &config.ConfigurationError{Gateway: config.GatewayUnionPay, Field: `publicKeyPEM`, Err: err}
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, &config.ConfigurationError{Gateway: config.GatewayUnionPay, Field: `publicKeyPEM`, Err: fmt.Errorf(`unexpected key type %T`, pub)}
	}
	return rsaPub, nil
}

// ParseFields 解析网关的k=v&k=v应答
func ParseFields(body string) url.Values {
	fields := url.Values{}
	for _, pair := range strings.Split(body, `&`) {
		if pos := strings.Index(pair, `=`); pos > 0 {
			fields.Set(pair[:pos], pair[pos+1:])
		}
	}
	return fields
}

func currencyCode(currency config.Currency) string {
	switch currency {
	case config.CNY, ``:
		return `156`
	case config.USD:
		return `840`
	case config.HKD:
		return `344`
	default:
		return `156`
	}
}
