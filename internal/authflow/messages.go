package authflow

// User-facing PT-BR message catalogue.
const (
	msgInvalidCredentials    = "Email ou senha incorretos"
	msgEmailNotConfirmed     = "Por favor, confirme seu email antes de fazer login"
	msgDuplicateRegistration = "Este email já está cadastrado"

	// NoticeRegistered is shown after a successful registration, back on the
	// login form: no session exists until the email is confirmed.
	NoticeRegistered = "Cadastro realizado! Verifique seu email para confirmar sua conta antes de fazer login."

	// NoticeRecoverySent is always the same, whether or not the email is
	// registered.
	NoticeRecoverySent = "Link de recuperação enviado! Verifique seu email."

	// NoticeContactSupport is the whole of the forgot-email flow: no lookup
	// happens, the user is pointed at support.
	NoticeContactSupport = "Para recuperar o email da sua conta, entre em contato com o suporte."

	msgSupportSendFailed = "Erro ao enviar mensagem. Tente novamente."
	msgEmptyMessage      = "Digite sua mensagem antes de enviar."
	msgGenericFailure    = "Ocorreu um erro. Tente novamente."
)
