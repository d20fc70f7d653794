package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the collaboration server.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>collab-editor Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI description of the document API. The same routes are served under /api.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "collab-editor", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Summary": { "type": "object", "properties": { "id": {"type":"string"}, "title": {"type":"string"}, "createdAt": {"type":"string","format":"date-time"}, "updatedAt": {"type":"string","format":"date-time"} } },
      "Document": { "type": "object", "properties": { "id": {"type":"string"}, "title": {"type":"string"}, "content": {"type":"string"}, "createdAt": {"type":"string","format":"date-time"}, "updatedAt": {"type":"string","format":"date-time"} } }
    }
  },
  "paths": {
    "/documents": {
      "get": { "summary": "List documents (content omitted)", "responses": { "200": { "description": "document summaries", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/Summary" } } } } } } },
      "post": {
        "summary": "Create a document",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string"}}}}}},
        "responses": { "200": { "description": "created document", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Document" } } } } }
      }
    },
    "/documents/{id}": {
      "get": {
        "summary": "Get a document",
        "parameters": [ { "name": "id", "in": "path", "required": true, "schema": {"type":"string"} } ],
        "responses": { "200": { "description": "document", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Document" } } } }, "404": { "description": "Document not found" } }
      }
    },
    "/ws": { "get": { "summary": "WebSocket session (join-document, document-change, cursor-position)", "description": "Messages are JSON envelopes {\"event\", \"data\"}. Each session has a bounded outbound queue (WS_SEND_BUFFER, default 256); when it is full the message is dropped and the connection is closed, which the room sees as a disconnect.", "responses": { "101": { "description": "switching protocols" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
