// Package docs registra o documento OpenAPI da API de guias de transferência.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/slips/scan": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Interpreta o texto lido do QR code e devolve a guia referenciada, em qualquer status. Não altera nada.",
                "consumes": ["application/json", "text/plain"],
                "produces": ["application/json"],
                "tags": ["slips"],
                "summary": "Lê o QR code de uma guia",
                "parameters": [
                    {"description": "Texto lido do QR code", "name": "scan", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ScanRequest"}}
                ],
                "responses": {
                    "200": {"description": "Guia encontrada", "schema": {"$ref": "#/definitions/domain.SlipDetail"}},
                    "400": {"description": "QR code malformado", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Guia não encontrada", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "422": {"description": "QR code de outro tipo", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/v1/slips/receive": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Valida o PIN de um funcionário da filial de destino, conclui a guia e credita o estoque uma única vez.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["slips"],
                "summary": "Confirma o recebimento de uma guia",
                "parameters": [
                    {"description": "ID da guia e PIN de 6 dígitos", "name": "receive", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.ReceiveRequest"}}
                ],
                "responses": {
                    "200": {"description": "Guia recebida", "schema": {"$ref": "#/definitions/domain.SlipDetail"}},
                    "400": {"description": "Payload inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "403": {"description": "PIN inválido para a filial de destino", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Guia não encontrada", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Guia já recebida ou cancelada (informativo)", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "429": {"description": "Muitas tentativas de PIN", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "503": {"description": "Livro de estoque indisponível; tente novamente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/v1/slips/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Entrada do fluxo externo de cancelamento. Não movimenta estoque.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["slips"],
                "summary": "Cancela uma guia em trânsito",
                "parameters": [
                    {"type": "string", "description": "ID da guia", "name": "id", "in": "path", "required": true},
                    {"description": "Motivo do cancelamento", "name": "cancel", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.CancelRequest"}}
                ],
                "responses": {
                    "200": {"description": "Guia cancelada", "schema": {"$ref": "#/definitions/domain.SlipDetail"}},
                    "400": {"description": "Motivo ausente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "403": {"description": "Papel sem permissão", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Guia não encontrada", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "409": {"description": "Guia já encerrada (informativo)", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/v1/branches": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["branches"],
                "summary": "Lista todas as filiais",
                "responses": {
                    "200": {"description": "Lista de filiais", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Branch"}}}
                }
            }
        },
        "/v1/branches/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["branches"],
                "summary": "Busca uma filial por ID",
                "parameters": [
                    {"type": "string", "description": "ID da filial", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Filial encontrada", "schema": {"$ref": "#/definitions/domain.Branch"}},
                    "404": {"description": "Filial não encontrada", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/v1/branches/{id}/slips": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Guias de entrada da filial, mais recentes primeiro, com filtro opcional de status.",
                "produces": ["application/json"],
                "tags": ["slips"],
                "summary": "Lista as guias destinadas a uma filial",
                "parameters": [
                    {"type": "string", "description": "ID da filial de destino", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "in_transit | completed | cancelled", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Guias da filial", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.SlipDetail"}}},
                    "400": {"description": "Status inválido", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        },
        "/v1/stock": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["stock"],
                "summary": "Consulta o saldo de um produto em uma filial",
                "parameters": [
                    {"type": "string", "description": "ID do produto", "name": "product_id", "in": "query", "required": true},
                    {"type": "string", "description": "ID da filial", "name": "branch_id", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "Saldo atual", "schema": {"$ref": "#/definitions/domain.StockLevel"}},
                    "400": {"description": "Parâmetros ausentes", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                    "404": {"description": "Sem saldo para o produto na filial", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Branch": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.CancelRequest": {
            "type": "object",
            "properties": {"reason": {"type": "string"}}
        },
        "domain.ErrorResponse": {
            "description": "Estrutura padronizada para respostas de erro na API.",
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 409},
                "category": {"type": "string", "example": "INVALID_STATE"},
                "message": {"type": "string", "example": "A guia S1 já foi recebida"},
                "informational": {"type": "boolean", "example": true},
                "currentStatus": {"type": "string", "example": "completed"}
            }
        },
        "domain.ReceiveRequest": {
            "type": "object",
            "properties": {
                "slipId": {"type": "string"},
                "pin": {"type": "string"}
            }
        },
        "domain.ScanRequest": {
            "type": "object",
            "properties": {"token": {"type": "string"}}
        },
        "domain.SlipDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "transferId": {"type": "string"},
                "productId": {"type": "string"},
                "productName": {"type": "string"},
                "quantity": {"type": "integer"},
                "fromBranch": {"type": "string"},
                "toBranch": {"type": "string"},
                "fromBranchName": {"type": "string"},
                "toBranchName": {"type": "string"},
                "status": {"type": "string", "enum": ["in_transit", "completed", "cancelled"]},
                "requestedTimestamp": {"type": "string"},
                "notes": {"type": "string"},
                "completedAt": {"type": "string"},
                "receivedBy": {"type": "string"},
                "cancelledAt": {"type": "string"},
                "cancelReason": {"type": "string"}
            }
        },
        "domain.StockLevel": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "product_id": {"type": "string"},
                "branch_id": {"type": "string"},
                "quantity": {"type": "integer"},
                "version": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "GoTransfer API",
	Description:      "Recebimento de guias de transferência entre filiais: leitura do QR code, confirmação por PIN e crédito único de estoque.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
