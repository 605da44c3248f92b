package contact

import "errors"

var ErrContactNotFound = errors.New("contato não encontrado")
