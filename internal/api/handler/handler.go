package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/crm-api/internal/domain"
	"github.com/vfg2006/crm-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// actorFromContext extrai o ID do usuário autenticado, quando presente.
// Rotas públicas e chamadas internas ficam sem ator e o registro de
// auditoria cai no usuário "System".
func actorFromContext(r *http.Request) *string {
	claims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	if !ok || claims.UserID == "" {
		return nil
	}

	return &claims.UserID
}
