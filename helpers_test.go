package paygate

import (
	"net/url"
	"strings"
	"testing"

	"github.com/webx-top/echo/testing/test"
)

func TestAutoSubmitForm(t *testing.T) {
	form := AutoSubmitForm(`https://gateway.example.com/pay?a=1&b=2`, url.Values{
		`orderId`: []string{`T1001`},
		`attach`:  []string{`<note type="gift">`},
	})
	if !strings.Contains(form, `action="https://gateway.example.com/pay?a=1&amp;b=2"`) {
		t.Fatalf(`action is not escaped: %s`, form)
	}
	if !strings.Contains(form, `value="&lt;note type=&#34;gift&#34;&gt;"`) {
		t.Fatalf(`field value is not escaped: %s`, form)
	}
	// 字段按名称排序，输出必须确定
	if strings.Index(form, `attach`) > strings.Index(form, `orderId`) {
		t.Fatalf(`fields are not sorted: %s`, form)
	}
	if !strings.Contains(form, `document.getElementById('paygateform').submit()`) {
		t.Fatalf(`missing auto submit script: %s`, form)
	}
}

func TestGenerateNonce(t *testing.T) {
	nonce := GenerateNonce()
	test.Eq(t, 16, len(nonce))
	if nonce == GenerateNonce() && nonce == GenerateNonce() {
		t.Fatal(`nonce is not random`)
	}
}

func TestFormValues(t *testing.T) {
	values := FormValues(map[string][]string{
		`out_trade_no`: {`T1001`, `T1002`},
		`empty`:        {},
	})
	test.Eq(t, `T1001`, values.String(`out_trade_no`))
	test.Eq(t, ``, values.String(`empty`))
}
