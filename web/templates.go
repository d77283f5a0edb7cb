package web

import "html/template"

var verifyTmpl = template.Must(template.New("verify").Parse(`<h2>Account verification</h2>
<form action="/complete" method="post">
  <input type="hidden" name="token" value="{{.Token}}">
  <button type="submit">Complete verification</button>
</form>
`))

var successTmpl = template.Must(template.New("success").Parse(`<h2>✅ Verification complete!</h2>
`))

var failTmpl = template.Must(template.New("fail").Parse(`<h3>❌ Error: {{.Reason}}</h3>
`))
