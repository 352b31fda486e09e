package paygate

import (
	qrcode "github.com/skip2/go-qrcode"
	"github.com/webx-top/echo"

	"github.com/webx-top/paygate/config"
)

const (
	// QRCodeSize 二维码图片边长（像素）
	QRCodeSize = 300
	// QRCodeContentType 二维码图片响应类型
	QRCodeContentType = `image/x-png`
)

// QRCodeImage 将支付内容编码为PNG图片
func QRCodeImage(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, QRCodeSize)
}

// RenderQRCode 生成二维码图片并写入响应
func RenderQRCode(ctx echo.Context, content string) error {
	image, err := QRCodeImage(content)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentType, QRCodeContentType)
	if _, err := ctx.Response().Write(image); err != nil {
		return &config.TransportWriteError{Err: err}
	}
	return nil
}
