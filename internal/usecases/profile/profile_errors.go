package profile

import "errors"

var ErrProfileNotFound = errors.New("perfil não encontrado")
