// Package docs holds the OpenAPI document served at /swagger. Regenerate it
// with `swag init -g cmd/rentd/main.go` after changing handler annotations.
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
		"/rooms": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Rooms"
				],
				"summary": "List rooms",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ListRoomsResponse"
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Rooms"
				],
				"summary": "Create a room",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"description": "Room",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CreateRoomRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.Room"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/rooms/{id}": {
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Rooms"
				],
				"summary": "Delete a room",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Room ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Room not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "Room in use",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/tenants": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Tenants"
				],
				"summary": "List tenants",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ListTenantsResponse"
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Tenants"
				],
				"summary": "Create a tenant profile",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"description": "Tenant",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CreateTenantRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.TenantProfile"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "User already linked",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/leases": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Leases"
				],
				"summary": "List leases",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Filter by status",
						"name": "status",
						"in": "query",
						"enum": [
							"ACTIVE",
							"ENDED"
						]
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ListLeasesResponse"
						}
					},
					"400": {
						"description": "Bad status",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"description": "Creates the lease, occupies its rooms and generates the invoice schedule in one transaction.",
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Leases"
				],
				"summary": "Open a lease",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"example": "7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab",
						"description": "Idempotency key for safe retries",
						"name": "Idempotency-Key",
						"in": "header"
					},
					{
						"description": "Lease",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CreateLeaseRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "Replayed",
						"schema": {
							"$ref": "#/definitions/domain.Lease"
						}
					},
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.Lease"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"404": {
						"description": "Tenant or room not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "Room unavailable",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/leases/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Leases"
				],
				"summary": "Get a lease",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Lease ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Lease"
						}
					},
					"404": {
						"description": "Lease not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Leases"
				],
				"summary": "Delete a lease",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Lease ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Lease not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/leases/{id}/end": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Leases"
				],
				"summary": "End a lease",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Lease ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Lease"
						}
					},
					"404": {
						"description": "Lease not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "Lease already ended",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/leases/{id}/terms": {
			"patch": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Leases"
				],
				"summary": "Edit lease terms",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Lease ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Terms",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.UpdateTermsRequest"
						}
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"404": {
						"description": "Lease not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/invoices": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Invoices"
				],
				"summary": "List invoices",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Filter by status",
						"name": "status",
						"in": "query",
						"enum": [
							"PENDING",
							"OVERDUE",
							"PAYMENT_PROCESSING",
							"PAID"
						]
					},
					{
						"type": "string",
						"description": "Filter by lease",
						"name": "lease_id",
						"in": "query",
						"format": "uuid"
					},
					{
						"type": "integer",
						"description": "Page number",
						"name": "page",
						"in": "query",
						"minimum": 1,
						"default": 1
					},
					{
						"type": "integer",
						"description": "Items per page",
						"name": "page_size",
						"in": "query",
						"minimum": 1,
						"maximum": 100,
						"default": 20
					},
					{
						"type": "string",
						"description": "ETag from a previous list",
						"name": "If-None-Match",
						"in": "header"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ListInvoicesResponse"
						}
					},
					"304": {
						"description": "Not modified"
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/invoices/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Invoices"
				],
				"summary": "Get an invoice",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Invoice ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Invoice"
						}
					},
					"404": {
						"description": "Invoice not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/invoices/{id}/mark-paid": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Invoices"
				],
				"summary": "Mark an invoice paid",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Invoice ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Settlement",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.MarkPaidRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Invoice"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"404": {
						"description": "Invoice not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "Invalid transition",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/invoices/{id}/unmark-paid": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Invoices"
				],
				"summary": "Revert a payment",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Invoice ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Invoice"
						}
					},
					"404": {
						"description": "Invoice not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "Invalid transition",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/invoices/{id}/approve": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Invoices"
				],
				"summary": "Approve a declared payment",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Invoice ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Invoice"
						}
					},
					"404": {
						"description": "Invoice not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "No pending proof",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/invoices/{id}/reject": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Invoices"
				],
				"summary": "Reject a declared payment",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Invoice ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Invoice"
						}
					},
					"404": {
						"description": "Invoice not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "No pending proof",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/messages": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Messages"
				],
				"summary": "List incidents",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Filter by status",
						"name": "status",
						"in": "query",
						"enum": [
							"OPEN",
							"CLOSED"
						]
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.LandlordMessagesResponse"
						}
					},
					"400": {
						"description": "Bad status",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/messages/{id}/reply": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Messages"
				],
				"summary": "Reply to an incident",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Message ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Reply",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.ReplyMessageRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Message"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"404": {
						"description": "Message not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/messages/{id}/close": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Messages"
				],
				"summary": "Close an incident",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Message ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Message not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "Already closed",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/expenses": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Expenses"
				],
				"summary": "List expenses",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"description": "Filter by status",
						"name": "status",
						"in": "query",
						"enum": [
							"PENDING",
							"APPROVED",
							"REJECTED"
						]
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ListExpensesResponse"
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Expenses"
				],
				"summary": "Record an expense",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"description": "Expense",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CreateExpenseRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.Expense"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"404": {
						"description": "Room not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/expenses/{id}/approve": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Expenses"
				],
				"summary": "Approve an expense",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Expense ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Expense"
						}
					},
					"404": {
						"description": "Expense not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "Already reviewed",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/expenses/{id}/reject": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Expenses"
				],
				"summary": "Reject an expense",
				"parameters": [
					{
						"type": "string",
						"description": "Acting landlord",
						"name": "X-Landlord-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Expense ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Expense"
						}
					},
					"404": {
						"description": "Expense not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "Already reviewed",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/tenant/invoices": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Tenant"
				],
				"summary": "List my invoices",
				"parameters": [
					{
						"type": "string",
						"description": "Acting tenant profile",
						"name": "X-Tenant-ID",
						"in": "header",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.TenantInvoicesResponse"
						}
					}
				}
			}
		},
		"/tenant/invoices/{id}/declare": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Tenant"
				],
				"summary": "Declare a payment",
				"parameters": [
					{
						"type": "string",
						"description": "Acting tenant profile",
						"name": "X-Tenant-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Invoice ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Declaration",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.DeclarePaymentRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/domain.Invoice"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"404": {
						"description": "Invoice not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"409": {
						"description": "Invalid transition",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/tenant/balance": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Tenant"
				],
				"summary": "My balance",
				"parameters": [
					{
						"type": "string",
						"description": "Acting tenant profile",
						"name": "X-Tenant-ID",
						"in": "header",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.Balance"
						}
					},
					"404": {
						"description": "Tenant not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/tenant/leases/{id}/messages": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Tenant"
				],
				"summary": "List my incidents",
				"parameters": [
					{
						"type": "string",
						"description": "Acting tenant profile",
						"name": "X-Tenant-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Lease ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"description": "Page number",
						"name": "page",
						"in": "query",
						"minimum": 1,
						"default": 1
					},
					{
						"type": "integer",
						"description": "Items per page",
						"name": "page_size",
						"in": "query",
						"minimum": 1,
						"maximum": 100,
						"default": 20
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ListMessagesResponse"
						}
					},
					"404": {
						"description": "Lease not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Tenant"
				],
				"summary": "Report an incident",
				"parameters": [
					{
						"type": "string",
						"description": "Acting tenant profile",
						"name": "X-Tenant-ID",
						"in": "header",
						"required": true
					},
					{
						"type": "string",
						"format": "uuid",
						"description": "Lease ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Incident",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.PostMessageRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/domain.Message"
						}
					},
					"400": {
						"description": "Bad request",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					},
					"404": {
						"description": "Lease not found",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/worker/recompute-overdue": {
			"post": {
				"description": "Promotes PENDING invoices due before today to OVERDUE. Job failures are reported with success=false.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Worker"
				],
				"summary": "Recompute overdue invoices",
				"parameters": [
					{
						"type": "string",
						"description": "Shared worker secret",
						"name": "x-worker-secret",
						"in": "header",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/worker.RecomputeResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		},
		"/worker/send-whatsapp-reminders": {
			"post": {
				"description": "Sends due-soon, due-today and overdue reminders for the business date at most once per invoice and type.",
				"produces": [
					"application/json"
				],
				"tags": [
					"Worker"
				],
				"summary": "Send payment reminders",
				"parameters": [
					{
						"type": "string",
						"description": "Shared worker secret",
						"name": "x-worker-secret",
						"in": "header",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/worker.RemindersResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"domain.Room": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"landlord_id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"status": {
					"type": "string",
					"enum": [
						"AVAILABLE",
						"OCCUPIED"
					]
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"domain.TenantProfile": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"landlord_id": {
					"type": "string"
				},
				"user_id": {
					"type": "string"
				},
				"display_name": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"whatsapp_opt_in": {
					"type": "boolean"
				},
				"notes": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"domain.Lease": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"landlord_id": {
					"type": "string"
				},
				"tenant_id": {
					"type": "string"
				},
				"start_date": {
					"type": "string"
				},
				"end_date": {
					"type": "string"
				},
				"rent_amount": {
					"type": "integer"
				},
				"billing_day": {
					"type": "integer"
				},
				"status": {
					"type": "string",
					"enum": [
						"ACTIVE",
						"ENDED"
					]
				},
				"rooms": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Room"
					}
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"domain.Invoice": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"lease_id": {
					"type": "string"
				},
				"landlord_id": {
					"type": "string"
				},
				"due_date": {
					"type": "string"
				},
				"amount": {
					"type": "integer"
				},
				"status": {
					"type": "string",
					"enum": [
						"PENDING",
						"OVERDUE",
						"PAYMENT_PROCESSING",
						"PAID"
					]
				},
				"paid_at": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"domain.Message": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"lease_id": {
					"type": "string"
				},
				"tenant_id": {
					"type": "string"
				},
				"content": {
					"type": "string"
				},
				"status": {
					"type": "string",
					"enum": [
						"OPEN",
						"CLOSED"
					]
				},
				"reply": {
					"type": "string"
				},
				"replied_at": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"domain.Expense": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"landlord_id": {
					"type": "string"
				},
				"room_id": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"amount": {
					"type": "integer"
				},
				"date": {
					"type": "string"
				},
				"category": {
					"type": "string"
				},
				"status": {
					"type": "string",
					"enum": [
						"PENDING",
						"APPROVED",
						"REJECTED"
					]
				},
				"created_at": {
					"type": "string"
				},
				"updated_at": {
					"type": "string"
				}
			}
		},
		"handlers.ErrorResponse": {
			"type": "object",
			"properties": {
				"request_id": {
					"type": "string",
					"example": "123e4567-e89b-12d3-a456-426614174000"
				},
				"code": {
					"type": "string",
					"example": "not_found"
				},
				"message": {
					"type": "string",
					"example": "lease not found"
				}
			}
		},
		"handlers.Pagination": {
			"type": "object",
			"properties": {
				"page": {
					"type": "integer"
				},
				"page_size": {
					"type": "integer"
				},
				"total": {
					"type": "integer"
				},
				"total_pages": {
					"type": "integer"
				},
				"has_next": {
					"type": "boolean"
				}
			}
		},
		"handlers.CreateRoomRequest": {
			"type": "object",
			"required": [
				"name"
			],
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 255,
					"example": "Room 2 (balcony)"
				}
			}
		},
		"handlers.CreateTenantRequest": {
			"type": "object",
			"required": [
				"display_name",
				"user_id"
			],
			"properties": {
				"user_id": {
					"type": "string",
					"maxLength": 64,
					"example": "user_8f1c"
				},
				"display_name": {
					"type": "string",
					"maxLength": 255,
					"example": "Lucía Pérez"
				},
				"phone": {
					"type": "string",
					"example": "+34600111222"
				},
				"email": {
					"type": "string",
					"example": "lucia@example.com"
				},
				"whatsapp_opt_in": {
					"type": "boolean",
					"example": true
				}
			}
		},
		"handlers.CreateLeaseRequest": {
			"type": "object",
			"required": [
				"billing_day",
				"room_ids",
				"tenant_id"
			],
			"properties": {
				"tenant_id": {
					"type": "string",
					"example": "5b0e2c1a-8f9d-4a63-9f3e-2a1d0c9b8e7f"
				},
				"room_ids": {
					"type": "array",
					"minItems": 1,
					"items": {
						"type": "string"
					}
				},
				"start_date": {
					"type": "string",
					"example": "2025-01-15"
				},
				"rent_amount": {
					"type": "integer",
					"example": 45000
				},
				"billing_day": {
					"type": "integer",
					"minimum": 1,
					"maximum": 31,
					"example": 5
				}
			}
		},
		"handlers.UpdateTermsRequest": {
			"type": "object",
			"required": [
				"billing_day"
			],
			"properties": {
				"rent_amount": {
					"type": "integer",
					"example": 47000
				},
				"billing_day": {
					"type": "integer",
					"minimum": 1,
					"maximum": 31,
					"example": 1
				}
			}
		},
		"handlers.MarkPaidRequest": {
			"type": "object",
			"required": [
				"method"
			],
			"properties": {
				"method": {
					"type": "string",
					"example": "BANK_TRANSFER"
				},
				"paid_date": {
					"type": "string",
					"example": "2025-02-03"
				},
				"note": {
					"type": "string",
					"maxLength": 1000
				}
			}
		},
		"handlers.DeclarePaymentRequest": {
			"type": "object",
			"required": [
				"method"
			],
			"properties": {
				"method": {
					"type": "string",
					"example": "BIZUM"
				},
				"notes": {
					"type": "string",
					"maxLength": 1000
				}
			}
		},
		"handlers.PostMessageRequest": {
			"type": "object",
			"required": [
				"content"
			],
			"properties": {
				"content": {
					"type": "string",
					"example": "The boiler makes a loud noise at night."
				}
			}
		},
		"handlers.ReplyMessageRequest": {
			"type": "object",
			"required": [
				"reply"
			],
			"properties": {
				"reply": {
					"type": "string",
					"example": "A technician will come on Thursday morning."
				}
			}
		},
		"handlers.CreateExpenseRequest": {
			"type": "object",
			"required": [
				"category",
				"description"
			],
			"properties": {
				"room_id": {
					"type": "string"
				},
				"description": {
					"type": "string",
					"maxLength": 1000,
					"example": "Replace kitchen tap"
				},
				"amount": {
					"type": "integer",
					"example": 8950
				},
				"date": {
					"type": "string",
					"example": "2025-03-02"
				},
				"category": {
					"type": "string",
					"maxLength": 64,
					"example": "REPAIRS"
				}
			}
		},
		"handlers.ListRoomsResponse": {
			"type": "object",
			"properties": {
				"rooms": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Room"
					}
				}
			}
		},
		"handlers.ListTenantsResponse": {
			"type": "object",
			"properties": {
				"tenants": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.TenantProfile"
					}
				}
			}
		},
		"handlers.ListLeasesResponse": {
			"type": "object",
			"properties": {
				"leases": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Lease"
					}
				}
			}
		},
		"handlers.ListInvoicesResponse": {
			"type": "object",
			"properties": {
				"invoices": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Invoice"
					}
				},
				"pagination": {
					"$ref": "#/definitions/handlers.Pagination"
				}
			}
		},
		"handlers.TenantInvoicesResponse": {
			"type": "object",
			"properties": {
				"invoices": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Invoice"
					}
				}
			}
		},
		"handlers.ListMessagesResponse": {
			"type": "object",
			"properties": {
				"messages": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Message"
					}
				},
				"pagination": {
					"$ref": "#/definitions/handlers.Pagination"
				}
			}
		},
		"handlers.LandlordMessagesResponse": {
			"type": "object",
			"properties": {
				"messages": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Message"
					}
				}
			}
		},
		"handlers.ListExpensesResponse": {
			"type": "object",
			"properties": {
				"expenses": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/domain.Expense"
					}
				}
			}
		},
		"services.Balance": {
			"type": "object",
			"properties": {
				"tenant_id": {
					"type": "string"
				},
				"outstanding": {
					"type": "integer"
				},
				"overdue": {
					"type": "integer"
				},
				"processing": {
					"type": "integer"
				},
				"paid": {
					"type": "integer"
				},
				"open_count": {
					"type": "integer"
				},
				"next_due_date": {
					"type": "string"
				}
			}
		},
		"worker.RecomputeResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"updated": {
					"type": "integer"
				},
				"dateUsed": {
					"type": "string",
					"example": "2025-04-06"
				},
				"error": {
					"type": "string"
				}
			}
		},
		"worker.RemindersResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"processed": {
					"type": "boolean"
				},
				"sent": {
					"type": "integer"
				},
				"failed": {
					"type": "integer"
				},
				"skipped": {
					"type": "integer"
				},
				"locked": {
					"type": "boolean"
				},
				"error": {
					"type": "string"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "",
	BasePath:		 "/",
	Schemes:		  []string{},
	Title:			"Rent Manager API",
	Description:	  "Multi-tenant room rental backend: leases, monthly invoices, payments, incidents and reminder jobs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
