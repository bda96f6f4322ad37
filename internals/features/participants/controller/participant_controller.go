// file: internals/features/participants/controller/participant_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	registrationModel "legacy_backend/internals/features/registrations/model"
	helper "legacy_backend/internals/helpers"
)

// Read-only view untuk admin di atas data peserta milik registrasi.
type ParticipantController struct {
	DB *gorm.DB
}

func NewParticipantController(db *gorm.DB) *ParticipantController {
	return &ParticipantController{DB: db}
}

// GET /api/admin/participants?registration_code=&search=
func (h *ParticipantController) ListParticipants(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.WithContext(c.Context()).Model(&registrationModel.Participant{})

	if code := strings.TrimSpace(c.Query("registration_code")); code != "" {
		q = q.Joins("JOIN registrations ON registrations.registration_id = participants.participant_registration_id").
			Where("registrations.registration_code = ?", code)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("participant_name ILIKE ? OR participant_email ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var participants []registrationModel.Participant
	if err := q.Order("participant_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&participants).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "daftar peserta", participants,
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/admin/participants/:id
func (h *ParticipantController) GetParticipant(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "participant id tidak valid")
	}

	var p registrationModel.Participant
	if err := h.DB.WithContext(c.Context()).First(&p, "participant_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "peserta tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// sertakan registrasi induknya untuk konteks
	var reg registrationModel.Registration
	if err := h.DB.WithContext(c.Context()).
		First(&reg, "registration_id = ?", p.ParticipantRegistrationID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "detail peserta", fiber.Map{
		"participant":  p,
		"registration": reg,
	})
}
