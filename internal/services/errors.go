package services

import "errors"

// Failure taxonomy surfaced to handlers. Messages are part of the API
// contract: the client matches on "Limite atteinte".
var (
	ErrNotFound     = errors.New("Habitude non trouvée")
	ErrHabitLimit   = errors.New("Limite atteinte. Vous avez déjà 5 habitudes.")
	ErrValidation   = errors.New("requête invalide")
	ErrEmailTaken   = errors.New("Utilisateur déjà existant.")
	ErrUserNotFound = errors.New("Utilisateur non trouvé.")
	ErrBadPassword  = errors.New("Mot de passe incorrect.")
	ErrBadToken     = errors.New("Token invalide ou expiré.")
)
