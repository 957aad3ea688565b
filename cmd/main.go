// cmd/main.go
package main

import (
	"go-notes-api/app"

	_ "go-notes-api/docs"
)

// @title           Go-Notes API
// @version         1.0
// @description     Notes API with JWT authentication and rotating refresh tokens.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
