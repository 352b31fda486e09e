package paygate

import (
	"fmt"
	"html"
	"net/url"
	"sort"
	"strings"

	"github.com/webx-top/com"
	"github.com/webx-top/echo/param"
)

// GenerateNonce 生成一次性随机字符串
func GenerateNonce() string {
	return com.RandomAlphanumeric(16)
}

// AutoSubmitForm 生成自动提交表单。字段按名称排序，输出确定。
func AutoSubmitForm(action string, fields url.Values) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf(`<form id="paygateform" method="post" action="%s">`, html.EscapeString(action)))
	for _, name := range names {
		b.WriteString(fmt.Sprintf(
			`<input type="hidden" name="%s" value="%s" />`,
			html.EscapeString(name), html.EscapeString(fields.Get(name)),
		))
	}
	b.WriteString(`</form><script>document.getElementById('paygateform').submit();</script>`)
	return b.String()
}

// FormValues 取表单参数的首个值，供驱动保留原始通知参数
func FormValues(forms map[string][]string) param.StringMap {
	r := make(map[string]string, len(forms))
	for name, values := range forms {
		if len(values) > 0 {
			r[name] = values[0]
		}
	}
	return param.ToStringMap(r)
}
