package auth

import "fmt"

// ProviderError is a structured failure reported by the identity provider.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

// Provider error codes the translation table knows about.
const (
	CodeEmailInUse          = "auth/email-already-in-use"
	CodeWeakPassword        = "auth/weak-password"
	CodeInvalidEmail        = "auth/invalid-email"
	CodeUserNotFound        = "auth/user-not-found"
	CodeWrongPassword       = "auth/wrong-password"
	CodeTooManyRequests     = "auth/too-many-requests"
	CodeUserDisabled        = "auth/user-disabled"
	CodeOperationNotAllowed = "auth/operation-not-allowed"
	CodeNetworkFailed       = "auth/network-request-failed"
	CodeMissingPassword     = "auth/missing-password"
	CodeMissingEmail        = "auth/missing-email"
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeAccountExists       = "auth/account-exists-with-different-credential"
	CodeRecentLoginRequired = "auth/requires-recent-login"
	CodeCredentialInUse     = "auth/credential-already-in-use"
	CodeTimeout             = "auth/timeout"
)

var providerMessages = map[string]string{
	CodeEmailInUse:          "Este correo ya está registrado. ¿Ya tienes una cuenta? Intenta iniciar sesión.",
	CodeWeakPassword:        "La contraseña debe tener al menos 6 caracteres.",
	CodeInvalidEmail:        "El formato del correo electrónico no es válido.",
	CodeUserNotFound:        "No existe una cuenta con este correo electrónico.",
	CodeWrongPassword:       "La contraseña es incorrecta.",
	CodeTooManyRequests:     "Demasiados intentos fallidos. Intenta nuevamente más tarde.",
	CodeUserDisabled:        "Esta cuenta ha sido deshabilitada.",
	CodeOperationNotAllowed: "Esta operación no está permitida.",
	CodeNetworkFailed:       "Error de conexión. Verifica tu internet.",
	CodeMissingPassword:     "Por favor ingresa una contraseña.",
	CodeMissingEmail:        "Por favor ingresa un correo electrónico.",
	CodeInvalidCredential:   "Las credenciales proporcionadas son incorrectas.",
	CodeAccountExists:       "Ya existe una cuenta con este correo usando un método diferente.",
	CodeRecentLoginRequired: "Por seguridad, necesitas iniciar sesión nuevamente.",
	CodeCredentialInUse:     "Estas credenciales ya están en uso por otra cuenta.",
	CodeTimeout:             "La operación ha tardado demasiado. Intenta nuevamente.",
}

// TranslateProviderError maps a provider error onto its fixed user-readable
// message. Unknown codes keep their original diagnostic so support can still
// see what happened instead of a silent generic failure.
func TranslateProviderError(err *ProviderError) string {
	if msg, ok := providerMessages[err.Code]; ok {
		return msg
	}

	switch {
	case err.Message != "":
		return fmt.Sprintf("Error: %s", err.Message)
	case err.Code != "":
		return fmt.Sprintf("Error: %s", err.Code)
	default:
		return "Error: Error desconocido"
	}
}
