package deal

import "errors"

var (
	ErrDealNotFound = errors.New("negociação não encontrada")
	ErrInvalidStage = errors.New("estágio de negociação inválido")
)
