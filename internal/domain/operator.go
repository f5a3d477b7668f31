package domain

// OperatorRole é o papel do operador autenticado, emitido pelo serviço de autenticação externo.
type OperatorRole string

const (
	RoleStaff     OperatorRole = "staff"     // balcão da filial: leitura e recebimento de guias
	RoleLogistics OperatorRole = "logistics" // central de logística: também cancela guias
	RoleAdmin     OperatorRole = "admin"
)
