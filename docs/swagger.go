// Package docs TaskVault API documentation
package docs

// Swagger documentation info
// @title TaskVault API
// @version 1.0
// @description Multi-tenant todo API with JWT session lifecycle

// @contact.name API Support
// @contact.email support@taskvault.local

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

// @tag.name auth
// @tag.description Registration, login, token refresh and logout

// @tag.name sessions
// @tag.description Session listing, revocation and login history

// @tag.name todos
// @tag.description Todo management

// @tag.name categories
// @tag.description Category management
