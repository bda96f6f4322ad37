// file: internals/features/registrations/controller/payment_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	service "legacy_backend/internals/features/registrations/service"
	helper "legacy_backend/internals/helpers"
)

type PaymentController struct {
	Service *service.RegistrationService
}

func NewPaymentController(svc *service.RegistrationService) *PaymentController {
	return &PaymentController{Service: svc}
}

/* =======================================================================
   Webhook Midtrans
======================================================================= */

// POST /api/payment/notification
//
// Kontrak gateway: signature salah → 401 tanpa perubahan state; error
// pemrosesan lain → tetap HTTP 200 dengan success:false supaya gateway
// tidak retry-storm untuk notifikasi yang memang rusak permanen.
func (h *PaymentController) MidtransNotification(c *fiber.Ctx) error {
	var notif service.Notification
	if err := c.BodyParser(&notif); err != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "invalid payload: " + err.Error(),
		})
	}

	result, err := h.Service.HandleNotification(c.UserContext(), &notif)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
		}
		log.Printf("[ERROR] webhook order=%s: %v", notif.OrderID, err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":  false,
			"message":  err.Error(),
			"order_id": notif.OrderID,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "notifikasi diproses",
		"data":    result,
	})
}

/* =======================================================================
   Status & manual sync
======================================================================= */

// GET /api/payment/status/:registrationId — dipolling frontend
func (h *PaymentController) GetPaymentStatus(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("registrationId"))
	detail, err := h.Service.GetByCode(c.UserContext(), code)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonOK(c, "status pembayaran", fiber.Map{
		"registration_code": detail.RegistrationCode,
		"payment_status":    detail.RegistrationPaymentStatus,
		"payment_method":    detail.RegistrationPaymentMethod,
		"payment_url":       detail.RegistrationPaymentURL,
		"order_id":          detail.RegistrationOrderID,
		"total_idr":         detail.RegistrationTotalIDR,
		"paid_at":           detail.RegistrationPaidAt,
		"expires_at":        detail.RegistrationExpiresAt,
	})
}

// POST /api/payment/check/:registrationId — sinkronisasi manual ke gateway
func (h *PaymentController) CheckPaymentStatus(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("registrationId"))
	result, err := h.Service.SyncPaymentStatus(c.UserContext(), code)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "status pembayaran disinkronkan", result)
}
