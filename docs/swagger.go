package docs

// @title           Ride Safety API
// @version         1.0
// @description     Ride lifecycle and rider safety monitoring. Riders book rides, drivers take them, and in-progress rides are watched with periodic safety checks that escalate to the emergency contact after repeated misses. Safety prompts are delivered over the rider WebSocket.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
