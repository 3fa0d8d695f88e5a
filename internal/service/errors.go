package service

import (
	"errors"

	"github.com/KHILANO5/Campusfound/pkg/apperr"
)

var errMissingAfterInsert = errors.New("inserted row not readable")

func isAppErr(err error) bool {
	var ae *apperr.Error
	return errors.As(err, &ae)
}
