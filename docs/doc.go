// Package docs provides generated OpenAPI documentation.
//
// Maestro API
//
//	@title			Maestro API
//	@version		1.0
//	@description	Music release pipeline API: extraction sessions, validation, and portal fill script generation.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/maestro
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/maestro/serve.go -o ./swagger --parseDependency --parseInternal
