package domain

import "time"

// Identidades documentadas dos objetos sentinela. Comparações de igualdade
// em todo o código devem usar estas constantes, nunca literais repetidos.
const (
	UnknownID = "unknown"
	SystemID  = "system"
)

// UnknownCompany é o substituto retornado quando a empresa referenciada
// não existe. O id do registro original é preservado quando conhecido.
func UnknownCompany(id string) *Company {
	if id == "" {
		id = UnknownID
	}
	now := time.Now()
	return &Company{
		ID:        id,
		Name:      "Unknown Company",
		Industry:  "Unknown",
		CreatedAt: now,
		UpdatedAt: now,
		Contacts:  []*Contact{},
	}
}

// UnassignedUser é o substituto para negociações sem responsável.
func UnassignedUser() *User {
	return &User{
		ID:    UnknownID,
		Name:  "Unassigned",
		Email: "unassigned@example.com",
	}
}

// UnknownUser é o substituto para uma referência de perfil quebrada.
func UnknownUser(id string) *User {
	if id == "" {
		id = UnknownID
	}
	return &User{
		ID:    id,
		Name:  "Unknown User",
		Email: "unknown@example.com",
	}
}

// SystemUser é o autor atribuído a atividades sem usuário associado.
func SystemUser() *User {
	return &User{
		ID:    SystemID,
		Name:  "System",
		Email: "system@example.com",
	}
}
