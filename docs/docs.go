// Package docs holds the OpenAPI description served at /swagger/*.
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
        "/login": {"post": {"tags": ["auth"], "summary": "Authenticate user and return JWT token"}},
        "/products": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "List products"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "Create a new product"}
        },
        "/products/low-stock": {"get": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "Active products below their threshold"}},
        "/products/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "Get a product by ID"}},
        "/products/{id}/adjust": {"post": {"security": [{"BearerAuth": []}], "tags": ["movements"], "summary": "Adjust product quantity"}},
        "/products/{id}/movements": {"get": {"security": [{"BearerAuth": []}], "tags": ["movements"], "summary": "Get movements for a product"}},
        "/products/{id}/allergens": {"get": {"security": [{"BearerAuth": []}], "tags": ["allergens"], "summary": "Allergens of a product"}},
        "/products/{id}/allergens/{allergenID}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["allergens"], "summary": "Mark a product as containing an allergen"},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["allergens"], "summary": "Remove an allergen from a product"}
        },
        "/allergens": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["allergens"], "summary": "List allergens"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["allergens"], "summary": "Create an allergen"}
        },
        "/suppliers": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["suppliers"], "summary": "List suppliers"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["suppliers"], "summary": "Register a supplier"}
        },
        "/suppliers/{id}/status": {"put": {"security": [{"BearerAuth": []}], "tags": ["suppliers"], "summary": "Activate or deactivate a supplier"}},
        "/meals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["meals"], "summary": "List meals"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["meals"], "summary": "Create a meal"}
        },
        "/meals/{id}/status": {"put": {"security": [{"BearerAuth": []}], "tags": ["meals"], "summary": "Activate or deactivate a meal"}},
        "/meals/{id}/estimate": {"get": {"security": [{"BearerAuth": []}], "tags": ["meals"], "summary": "How many portions the current stock allows"}},
        "/meals/{id}/allergens": {"get": {"security": [{"BearerAuth": []}], "tags": ["allergens"], "summary": "Allergens a meal contains, derived from its ingredients"}},
        "/meals/{id}/ingredients": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["recipes"], "summary": "Ingredient requirements of a meal, per portion"},
            "post": {"security": [{"BearerAuth": []}], "tags": ["recipes"], "summary": "Add an ingredient to a meal's recipe"}
        },
        "/meals/{id}/ingredients/{productID}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["recipes"], "summary": "Change the per-portion quantity of an ingredient"},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["recipes"], "summary": "Remove an ingredient from a meal's recipe"}
        },
        "/meals/{id}/serve": {"post": {"security": [{"BearerAuth": []}], "tags": ["servings"], "summary": "Serve portions of a meal"}},
        "/servings": {"get": {"security": [{"BearerAuth": []}], "tags": ["servings"], "summary": "Serving history, newest first"}},
        "/servings/usage": {"get": {"security": [{"BearerAuth": []}], "tags": ["servings"], "summary": "Total consumption per product"}},
        "/servings/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["servings"], "summary": "A serving with its ingredient usages"}},
        "/metrics/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["metrics"], "summary": "Dashboard metrics for admin view"}},
        "/ws/events": {"get": {"security": [{"BearerAuth": []}], "tags": ["events"], "summary": "Stream of stock and meal change events"}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Kitchen Stock API",
	Description:      "Stock ledger, recipes and atomic meal servings for a kindergarten kitchen.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
