package notification

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/funfans/funfans-api/internal/domain"
)

// Email types accepted by the dispatcher. The first three carry a
// verification code; "support" carries a free-form staff notification.
const (
	TypeSignup        = domain.PurposeSignup
	TypePasswordReset = domain.PurposePasswordReset
	TypeEmailChange   = domain.PurposeEmailChange
	TypeSupport       = "support"
)

var subjects = map[string]string{
	TypeSignup:        "Confirme seu cadastro - FunFans",
	TypePasswordReset: "Redefinir sua senha - FunFans",
	TypeEmailChange:   "Confirmar alteração de email - FunFans",
	TypeSupport:       "Mensagem de suporte - FunFans",
}

const header = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #EF4444; text-align: center;">FUN<span style="color: #333;">FANS</span></h1>
  <div style="background-color: #f5f5f5; padding: 30px; border-radius: 10px; margin-top: 20px;">`

const footer = `  </div>
</div>`

const codeBlock = `    <div style="background-color: #fff; padding: 20px; border-radius: 5px; text-align: center; margin: 30px 0;">
      <span style="font-size: 32px; font-weight: bold; color: #EF4444; letter-spacing: 5px;">{{.Code}}</span>
    </div>
    <p style="color: #666; font-size: 14px;">
      Este código expira em 15 minutos.
    </p>`

var bodies = map[string]*template.Template{
	TypeSignup: mustParse(TypeSignup, header+`
    <h2 style="color: #333; margin-bottom: 20px;">Confirme seu cadastro</h2>
    <p style="color: #666; font-size: 16px; line-height: 1.5;">
      Obrigado por se cadastrar na FunFans! Use o código abaixo para confirmar seu email:
    </p>
`+codeBlock+`
    <p style="color: #999; font-size: 12px; margin-top: 30px;">
      Se você não solicitou este cadastro, pode ignorar este email.
    </p>
`+footer),

	TypePasswordReset: mustParse(TypePasswordReset, header+`
    <h2 style="color: #333; margin-bottom: 20px;">Redefinir senha</h2>
    <p style="color: #666; font-size: 16px; line-height: 1.5;">
      Recebemos uma solicitação para redefinir sua senha. Use o código abaixo:
    </p>
`+codeBlock+`
    <p style="color: #999; font-size: 12px; margin-top: 30px;">
      Se você não solicitou esta alteração, ignore este email. Sua senha permanecerá inalterada.
    </p>
`+footer),

	TypeEmailChange: mustParse(TypeEmailChange, header+`
    <h2 style="color: #333; margin-bottom: 20px;">Confirmar novo email</h2>
    <p style="color: #666; font-size: 16px; line-height: 1.5;">
      Para confirmar a alteração do seu email, use o código abaixo:
    </p>
`+codeBlock+`
`+footer),

	TypeSupport: mustParse(TypeSupport, header+`
    <h2 style="color: #333; margin-bottom: 20px;">Nova mensagem do suporte</h2>
    <p style="color: #666; font-size: 16px; line-height: 1.5;">
      {{.Message}}
    </p>
    <p style="color: #999; font-size: 12px; margin-top: 30px;">
      Para responder, acesse sua conta na FunFans.
    </p>
`+footer),
}

func mustParse(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(body))
}

// render selects the subject and body for the request. It fails on an unknown
// type, a code-carrying type without a code, or a support request without a
// message — an empty interpolation never reaches the sender.
func render(req EmailRequest) (subject, html string, err error) {
	tmpl, ok := bodies[req.Type]
	if !ok {
		return "", "", fmt.Errorf("unknown email type %q: %w", req.Type, domain.ErrBadRequest)
	}

	switch req.Type {
	case TypeSupport:
		if strings.TrimSpace(req.Message) == "" {
			return "", "", fmt.Errorf("message is required for type %q: %w", req.Type, domain.ErrBadRequest)
		}
	default:
		if strings.TrimSpace(req.Code) == "" {
			return "", "", fmt.Errorf("code is required for type %q: %w", req.Type, domain.ErrBadRequest)
		}
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, req); err != nil {
		return "", "", fmt.Errorf("render %q template: %w", req.Type, err)
	}
	return subjects[req.Type], b.String(), nil
}
