// Package apperr définit la taxonomie d'erreurs du backend Papyrus.
// Les handlers traduisent ces erreurs en statuts HTTP ; tout le reste
// (erreur inattendue) devient un 500 générique, loggé mais jamais détaillé
// dans la réponse.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound couvre aussi le cas "la ressource existe mais appartient à un
// autre utilisateur" : on ne révèle jamais l'existence d'une ressource tierce.
var ErrNotFound = errors.New("ressource introuvable")

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// BusinessRuleError porte un code de rejet machine (enum fermé, cf. package
// coupon) en plus du message humain.
type BusinessRuleError struct {
	Reason string
	Msg    string
}

func (e *BusinessRuleError) Error() string { return e.Msg }

func BusinessRule(reason, msg string) error {
	return &BusinessRuleError{Reason: reason, Msg: msg}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
