// file: internals/features/registrations/controller/registration_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "legacy_backend/internals/features/registrations/dto"
	service "legacy_backend/internals/features/registrations/service"
	constants "legacy_backend/internals/constants"
	helper "legacy_backend/internals/helpers"
)

type RegistrationController struct {
	Service   *service.RegistrationService
	Validator *validator.Validate
}

func NewRegistrationController(svc *service.RegistrationService, v *validator.Validate) *RegistrationController {
	return &RegistrationController{Service: svc, Validator: v}
}

/* =======================================================================
   Public
======================================================================= */

// POST /api/register
func (h *RegistrationController) CreateRegistration(c *fiber.Ctx) error {
	var req dto.CreateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}

	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if fieldErrs := req.FieldErrors(); fieldErrs != nil {
		return helper.JsonValidationError(c, fieldErrs)
	}

	resp, err := h.Service.CreateRegistration(c.UserContext(), &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonCreated(c, "registrasi berhasil dibuat", resp)
}

// GET /api/registration/:registrationId
func (h *RegistrationController) GetRegistration(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("registrationId"))
	detail, err := h.Service.GetByCode(c.UserContext(), code)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "detail registrasi", detail)
}

// DELETE /api/registration/:registrationId/cancel
func (h *RegistrationController) CancelRegistration(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("registrationId"))
	if err := h.Service.CancelRegistration(c.UserContext(), code); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "registrasi dibatalkan", fiber.Map{
		"registration_code": code,
		"cancelled":         true,
	})
}

// POST /api/registration/:registrationId/transfer-proof  (multipart: proof)
func (h *RegistrationController) UploadTransferProof(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("registrationId"))

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file bukti transfer wajib diunggah (field: proof)")
	}
	if !constants.IsAllowedImageExt(fileHeader.Filename) {
		return helper.JsonError(c, fiber.StatusBadRequest, "format file harus png/jpg/jpeg/webp")
	}
	if fileHeader.Size > 5*1024*1024 {
		return helper.JsonError(c, fiber.StatusBadRequest, "ukuran file maksimal 5MB")
	}

	proofURL, err := helper.SaveImageAsWebP("transfer-proofs", fileHeader)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	reg, err := h.Service.AttachTransferProof(c.UserContext(), code, proofURL)
	if err != nil {
		// rollback file yang sudah tersimpan agar tidak jadi sampah
		_ = helper.DeleteUpload(proofURL)
		return helper.FromFiberError(c, err)
	}

	return helper.JsonOK(c, "bukti transfer tersimpan", fiber.Map{
		"registration_code":  reg.RegistrationCode,
		"transfer_proof_url": reg.RegistrationTransferProofURL,
	})
}

/* =======================================================================
   Admin
======================================================================= */

// GET /api/admin/registrations
func (h *RegistrationController) ListRegistrations(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	filter := dto.RegistrationListFilter{
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		PaymentMethod: strings.TrimSpace(c.Query("payment_method")),
		Search:        strings.TrimSpace(c.Query("search")),
	}
	if pid := c.Query("program_id"); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "program_id tidak valid")
		}
		filter.ProgramID = &id
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "date_from harus format RFC3339")
		}
		filter.DateFrom = &t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "date_to harus format RFC3339")
		}
		filter.DateTo = &t
	}

	regs, total, err := h.Service.List(c.UserContext(), &filter, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "daftar registrasi", regs,
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/admin/registrations/stats
func (h *RegistrationController) GetRegistrationStats(c *fiber.Ctx) error {
	stats, err := h.Service.Stats(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "statistik registrasi", stats)
}

// POST /api/admin/registrations/:registrationId/verify-transfer
func (h *RegistrationController) VerifyTransfer(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("registrationId"))

	var body struct {
		Approve bool `json:"approve"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}

	reg, err := h.Service.VerifyBankTransfer(c.UserContext(), code, body.Approve)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonUpdated(c, "verifikasi transfer selesai", fiber.Map{
		"registration_code": reg.RegistrationCode,
		"payment_status":    reg.RegistrationPaymentStatus,
		"paid_at":           reg.RegistrationPaidAt,
	})
}
