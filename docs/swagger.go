package docs

// @title           Mileage Tracker API
// @version         1.0
// @description     Shared-car mileage log. Drivers take turns submitting odometer readings; each accepted reading closes the previous trip and opens a new one. Readings are checked against the local log and the shared spreadsheet.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
