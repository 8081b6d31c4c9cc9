package shared

// Stable error keys returned in data.error. Clients switch on these; msg
// carries the French text shown to visitors.
const (
	KeyAuthRequired       = "AUTH_REQUIRED"
	KeyUnauthorized       = "UNAUTHORIZED"
	KeyForbidden          = "FORBIDDEN"
	KeyUserNotFound       = "USER_NOT_FOUND"
	KeyNotFound           = "NOT_FOUND"
	KeyOptionNotFound     = "OPTION_NOT_FOUND"
	KeyInvalidInput       = "INVALID_INPUT"
	KeyValidation         = "VALIDATION"
	KeyEmptyCart          = "EMPTY_CART"
	KeyInvalidCredentials = "INVALID_CREDENTIALS"
	KeyInvalidToken       = "INVALID_TOKEN"
	KeyEmailExists        = "EMAIL_EXISTS"
	KeyNameExists         = "NAME_EXISTS"
	KeyDiscountExists     = "DISCOUNT_EXISTS"
	KeyDiscountRange      = "DISCOUNT_RANGE"
	KeyDiscountInUse      = "DISCOUNT_IN_USE"
	KeyPaintingInUse      = "PAINTING_IN_USE"
	KeyTaxonomyInUse      = "TAXONOMY_IN_USE"
	KeyWrongPassword      = "WRONG_PASSWORD"
	KeyTooManyRequests    = "TOO_MANY_REQUESTS"
	KeyInternal           = "INTERNAL"
)

var messages = map[string]string{
	KeyAuthRequired:       "Connexion requise",
	KeyUnauthorized:       "Accès refusé",
	KeyForbidden:          "Accès refusé",
	KeyUserNotFound:       "Utilisateur introuvable",
	KeyNotFound:           "Introuvable",
	KeyOptionNotFound:     "Dimensions indisponibles pour cette œuvre",
	KeyInvalidInput:       "Requête invalide",
	KeyValidation:         "Certains champs sont invalides",
	KeyEmptyCart:          "Votre panier est vide",
	KeyInvalidCredentials: "Email ou mot de passe incorrect",
	KeyInvalidToken:       "Session expirée, veuillez vous reconnecter",
	KeyEmailExists:        "Un compte existe déjà avec cet email",
	KeyNameExists:         "Ce nom existe déjà",
	KeyDiscountExists:     "Ce code existe déjà",
	KeyDiscountRange:      "La date de fin doit suivre la date de début",
	KeyDiscountInUse:      "Ce code est utilisé par des commandes",
	KeyPaintingInUse:      "Cette œuvre figure dans des commandes",
	KeyTaxonomyInUse:      "Cet élément est lié à des œuvres",
	KeyWrongPassword:      "Mot de passe actuel incorrect",
	KeyTooManyRequests:    "Trop de tentatives, réessayez plus tard",
	KeyInternal:           "Une erreur est survenue",
}

// Message returns the visitor-facing text of key, or key itself when unknown.
func Message(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}
