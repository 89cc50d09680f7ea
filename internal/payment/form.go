package payment

import (
	"fmt"
	"html/template"
	"io"
)

// Форма отправляется автоматически: пользователь видит только короткое
// "перенаправляем" до ухода на шлюз.
var redirectFormTmpl = template.Must(template.New("webpay-redirect").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>Redirigiendo a Webpay…</title></head>
<body onload="document.forms[0].submit()">
<p>Redirigiendo a Webpay…</p>
<form method="POST" action="{{.URL}}">
<input type="hidden" name="token_ws" value="{{.Token}}">
<noscript><button type="submit">Continuar</button></noscript>
</form>
</body>
</html>
`))

// WriteRedirectForm пишет автосабмит-форму перехода на шлюз. Webpay требует
// именно POST с единственным скрытым полем token_ws, обычный 302 не годится.
func WriteRedirectForm(w io.Writer, gatewayURL, token string) error {
	if gatewayURL == "" || token == "" {
		return fmt.Errorf("payment: redirect form requires both gateway url and token")
	}
	return redirectFormTmpl.Execute(w, struct {
		URL   string
		Token string
	}{URL: gatewayURL, Token: token})
}
