// Package docs registers the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "http://www.swagger.io/support",
            "email": "support@swagger.io"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {"tags": ["Health"], "summary": "Health Check", "responses": {"200": {"description": "OK"}}}
        },
        "/rides": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Rides"],
                "summary": "Request a ride",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CreateRideRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.RideResponse"}}, "422": {"description": "Validation failed"}}
            }
        },
        "/rides/available": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Rides waiting for a driver", "responses": {"200": {"description": "OK"}}}
        },
        "/rides/mine": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Caller's rides", "responses": {"200": {"description": "OK"}}}
        },
        "/drivers/{driver_id}/rides": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Rides assigned to a driver",
                "parameters": [{"in": "path", "name": "driver_id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/rides/{ride_id}": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Ride details",
                "parameters": [{"$ref": "#/parameters/rideID"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.RideResponse"}}, "404": {"description": "Not Found"}}
            }
        },
        "/rides/{ride_id}/trip": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Trip details with ETA",
                "parameters": [{"$ref": "#/parameters/rideID"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Ride is not in progress"}}
            }
        },
        "/rides/{ride_id}/assign": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Assign the calling driver", "parameters": [{"$ref": "#/parameters/rideID"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/rides/{ride_id}/start": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Start the ride", "parameters": [{"$ref": "#/parameters/rideID"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/rides/{ride_id}/complete": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Complete the ride", "parameters": [{"$ref": "#/parameters/rideID"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/rides/{ride_id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Cancel a ride",
                "parameters": [{"$ref": "#/parameters/rideID"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CancelRideRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/rides/{ride_id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}], "tags": ["Rides"], "summary": "Force a ride status",
                "parameters": [{"$ref": "#/parameters/rideID"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateStatusRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "422": {"description": "Unknown status"}}
            }
        },
        "/rides/{ride_id}/monitoring": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["Safety"], "summary": "Start safety monitoring",
                "parameters": [{"$ref": "#/parameters/rideID"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.StartMonitoringRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/rides/{ride_id}/safety/response": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["Safety"], "summary": "Answer a safety check",
                "parameters": [{"$ref": "#/parameters/rideID"}, {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.SafetyResponseRequest"}}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Already escalated"}}
            }
        },
        "/rides/{ride_id}/safety/log": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Safety"], "summary": "Safety log", "parameters": [{"$ref": "#/parameters/rideID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/rides/{ride_id}/safety/status": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Safety"], "summary": "Monitoring state", "parameters": [{"$ref": "#/parameters/rideID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/rides/{ride_id}/location": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Safety"], "summary": "Current location", "parameters": [{"$ref": "#/parameters/rideID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/rides": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "All rides",
                "parameters": [{"in": "query", "name": "status", "type": "string"}, {"in": "query", "name": "rider_id", "type": "string"}, {"in": "query", "name": "driver_id", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/statistics": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Admin"], "summary": "Ride statistics", "responses": {"200": {"description": "OK"}}}
        }
    },
    "parameters": {
        "rideID": {"in": "path", "name": "ride_id", "required": true, "type": "string", "format": "uuid"}
    },
    "definitions": {
        "dto.CreateRideRequest": {
            "type": "object",
            "required": ["pickup", "drop"],
            "properties": {"pickup": {"type": "string"}, "drop": {"type": "string"}}
        },
        "dto.CancelRideRequest": {
            "type": "object",
            "required": ["reason"],
            "properties": {"reason": {"type": "string"}}
        },
        "dto.UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["REQUESTED", "ASSIGNED", "IN_PROGRESS", "COMPLETED", "CANCELLED", "REJECTED", "SAFETY_ALERT"]}}
        },
        "dto.StartMonitoringRequest": {
            "type": "object",
            "required": ["waypoints", "emergency_contact"],
            "properties": {"waypoints": {"type": "array", "items": {"type": "string"}}, "emergency_contact": {"type": "string"}}
        },
        "dto.SafetyResponseRequest": {
            "type": "object",
            "required": ["responded"],
            "properties": {"responded": {"type": "boolean"}}
        },
        "dto.RideResponse": {
            "type": "object",
            "properties": {
                "ride_id": {"type": "string"},
                "rider_id": {"type": "string"},
                "driver_id": {"type": "string"},
                "pickup": {"type": "string"},
                "drop": {"type": "string"},
                "booking_time": {"type": "string"},
                "fare": {"type": "number"},
                "status": {"type": "string"},
                "cancellation_reason": {"type": "string"},
                "waypoints": {"type": "array", "items": {"type": "string"}},
                "emergency_contact": {"type": "string"},
                "alerts_missed": {"type": "integer"},
                "is_monitoring": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ride Safety API",
	Description:      "Ride lifecycle and rider safety monitoring.",
	InfoInstanceName: "ridesafety",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
