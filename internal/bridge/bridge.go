// Package bridge exposes the tool and prompt catalogs over a small HTTP API
// for clients that do not speak the stdio protocol. Each request is handled
// independently with its own correlation id; there is no global pending-
// request slot and no "server busy" path.
package bridge

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/prompts"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// Bridge serves the HTTP surface around a tool registry.
type Bridge struct {
	registry *tools.Registry
	appName  string
	logger   zerolog.Logger
}

// New constructs the bridge.
func New(registry *tools.Registry, appName string, logger zerolog.Logger) *Bridge {
	return &Bridge{
		registry: registry,
		appName:  appName,
		logger:   logger.With().Str("component", "http_bridge").Logger(),
	}
}

// App builds the fiber application with every route registered.
func (b *Bridge) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               b.appName,
		ServerHeader:          b.appName,
		DisableStartupMessage: true,
	})

	app.Use(correlationID())

	app.Get("/healthz", b.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/api/tools", b.listTools)
	app.Post("/api/execute", b.execute)
	app.Get("/api/prompts", b.listPrompts)
	app.Post("/api/prompts/:name/execute", b.executePrompt)

	return app
}

// correlationID ensures every request carries a correlation identifier.
func correlationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		incoming := strings.TrimSpace(c.Get("X-Correlation-ID"))
		if incoming == "" {
			incoming = strings.TrimSpace(c.Get("X-Request-ID"))
		}
		if incoming == "" {
			incoming = uuid.NewString()
		}

		c.Locals("correlation_id", incoming)
		c.Set("X-Correlation-ID", incoming)

		return c.Next()
	}
}

func (b *Bridge) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"tools":  len(b.registry.List()),
	})
}

func (b *Bridge) listTools(c *fiber.Ctx) error {
	catalog := b.registry.List()
	descriptors := make([]fiber.Map, 0, len(catalog))
	for _, tool := range catalog {
		descriptors = append(descriptors, fiber.Map{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": tool.InputSchema,
		})
	}
	return c.JSON(descriptors)
}

// executeRequest accepts both the current and the legacy field names used by
// agent clients.
type executeRequest struct {
	Name       string                 `json:"name"`
	ToolName   string                 `json:"tool_name"`
	Args       map[string]interface{} `json:"args"`
	Parameters map[string]interface{} `json:"parameters"`
}

func (r executeRequest) toolName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ToolName
}

func (r executeRequest) arguments() map[string]interface{} {
	if r.Args != nil {
		return r.Args
	}
	return r.Parameters
}

func (b *Bridge) execute(c *fiber.Ctx) error {
	var req executeRequest
	if err := c.BodyParser(&req); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.toolName() == "" {
		return sendError(c, fiber.StatusBadRequest, "tool name is required")
	}

	logger := b.requestLogger(c)
	result, err := b.registry.Call(c.UserContext(), req.toolName(), req.arguments())
	if err != nil {
		logger.Error().Err(err).Str("tool", req.toolName()).Msg("tool execution failed")

		status := fiber.StatusInternalServerError
		var validationErr *tools.ValidationError
		switch {
		case errors.Is(err, tools.ErrUnknownTool):
			status = fiber.StatusNotFound
		case errors.As(err, &validationErr):
			status = fiber.StatusBadRequest
		}
		return sendError(c, status, err.Error())
	}

	return c.JSON(fiber.Map{"output": result})
}

func (b *Bridge) listPrompts(c *fiber.Ctx) error {
	return c.JSON(prompts.Catalog())
}

func (b *Bridge) executePrompt(c *fiber.Ctx) error {
	name := c.Params("name")
	prompt, err := prompts.Get(name)
	if err != nil {
		return sendError(c, fiber.StatusNotFound, err.Error())
	}

	var body struct {
		Arguments map[string]string `json:"arguments"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return sendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	return c.JSON(fiber.Map{"output": prompt.Render(body.Arguments)})
}

func (b *Bridge) requestLogger(c *fiber.Ctx) zerolog.Logger {
	logger := b.logger
	if id, ok := c.Locals("correlation_id").(string); ok && id != "" {
		logger = logger.With().Str("correlation_id", id).Logger()
	}
	return logger
}

func sendError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
