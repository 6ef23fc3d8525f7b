package server

import (
	// Go Internal Packages
	"context"
	"fmt"

	// Local Packages
	models "e-wale/models"

	// External Packages
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Dispatcher handles inbound USSD turns.
type Dispatcher interface {
	HandleTurn(ctx context.Context, req *models.TurnRequest) *models.TurnResponse
}

// PaymentProcessor consumes payment and service callbacks.
type PaymentProcessor interface {
	HandlePaymentCallback(ctx context.Context, cb *models.PaymentCallback) error
	HandleServiceCallback(ctx context.Context, cb *models.ServiceCallback) error
}

// EarningsService consumes send-money callbacks.
type EarningsService interface {
	HandleSendMoneyCallback(ctx context.Context, cb *models.SendMoneyCallback) error
}

// Server exposes the USSD turn endpoint and the provider callback
// endpoints. Each callback variant has its own route, so payloads are
// discriminated and validated once, at the boundary.
type Server struct {
	app        *fiber.App
	dispatcher Dispatcher
	processor  PaymentProcessor
	earnings   EarningsService
	validate   *validator.Validate
	logger     *zap.Logger
}

func New(dispatcher Dispatcher, processor PaymentProcessor, earnings EarningsService, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())

	s := &Server{
		app:        app,
		dispatcher: dispatcher,
		processor:  processor,
		earnings:   earnings,
		validate:   validator.New(),
		logger:     logger,
	}

	app.Get("/health", s.health)
	app.Post("/ussd", s.handleTurn)
	app.Post("/callback/payment", s.handlePaymentCallback)
	app.Post("/callback/send-money", s.handleSendMoneyCallback)
	app.Post("/callback/service", s.handleServiceCallback)

	return s
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen(port int) error {
	return s.app.Listen(fmt.Sprintf(":%d", port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleTurn(c *fiber.Ctx) error {
	var req models.TurnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	resp := s.dispatcher.HandleTurn(c.UserContext(), &req)
	return c.JSON(resp)
}

func (s *Server) handlePaymentCallback(c *fiber.Ctx) error {
	var cb models.PaymentCallback
	if err := c.BodyParser(&cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.validate.Struct(cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.processor.HandlePaymentCallback(c.UserContext(), &cb); err != nil {
		s.logger.Error("payment callback processing failed",
			zap.String("order_id", cb.OrderID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "processing failed"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleSendMoneyCallback(c *fiber.Ctx) error {
	var cb models.SendMoneyCallback
	if err := c.BodyParser(&cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.validate.Struct(cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.earnings.HandleSendMoneyCallback(c.UserContext(), &cb); err != nil {
		s.logger.Error("send-money callback processing failed",
			zap.String("client_reference", cb.ClientReference), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "processing failed"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleServiceCallback(c *fiber.Ctx) error {
	var cb models.ServiceCallback
	if err := c.BodyParser(&cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.validate.Struct(cb); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := s.processor.HandleServiceCallback(c.UserContext(), &cb); err != nil {
		s.logger.Error("service callback processing failed",
			zap.String("client_reference", cb.ClientReference), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "processing failed"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
