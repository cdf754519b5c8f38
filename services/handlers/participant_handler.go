package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/engage_api/dto"
	"github.com/lac-hong-legacy/engage_api/shared"
)

type ParticipantHandler struct {
	engagementSvc EngagementServiceInterface
	exportSvc     ExportServiceInterface
}

func NewParticipantHandler(engagementSvc EngagementServiceInterface, exportSvc ExportServiceInterface) *ParticipantHandler {
	return &ParticipantHandler{
		engagementSvc: engagementSvc,
		exportSvc:     exportSvc,
	}
}

// parseBody decodes and validates a request body. It writes the validation
// response itself and reports false when the handler should stop.
func parseBody(c *fiber.Ctx, req dto.Validator) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}
	return true, nil
}

// @Summary Participant login
// @Description Opens a session for the tab and runs the daily heart reset and streak update
// @Tags participant
// @Accept json
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param loginRequest body dto.LoginRequest true "Login request"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/participants/{participantId}/login [post]
func (h *ParticipantHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp := h.engagementSvc.OnLogin(c.UserContext(), c.Params("participantId"), req)
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Participant logout
// @Description Closes the tab's session and stops it from reopening on visibility changes
// @Tags participant
// @Accept json
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param logoutRequest body dto.LogoutRequest true "Logout request"
// @Success 200 {object} shared.Response{data=dto.SessionSignalResponse}
// @Router /api/v1/participants/{participantId}/logout [post]
func (h *ParticipantHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp := h.engagementSvc.OnLogout(c.UserContext(), c.Params("participantId"), req.TabID)
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Save quiz result
// @Description Scores a completed quiz, keeps the best result per unit and awards XP
// @Tags progress
// @Accept json
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param quizResultRequest body dto.QuizResultRequest true "Quiz result"
// @Success 200 {object} shared.Response{data=dto.QuizResultResponse}
// @Router /api/v1/participants/{participantId}/quiz [post]
func (h *ParticipantHandler) CompleteQuiz(c *fiber.Ctx) error {
	var req dto.QuizResultRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.engagementSvc.OnQuizCompleted(c.UserContext(), c.Params("participantId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Judge answer
// @Description Records a judged answer; an incorrect answer costs one heart
// @Tags gamification
// @Accept json
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param answerJudgedRequest body dto.AnswerJudgedRequest true "Judged answer"
// @Success 200 {object} shared.Response{data=dto.AnswerJudgedResponse}
// @Router /api/v1/participants/{participantId}/answers [post]
func (h *ParticipantHandler) JudgeAnswer(c *fiber.Ctx) error {
	var req dto.AnswerJudgedRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp := h.engagementSvc.OnAnswerJudged(c.UserContext(), c.Params("participantId"), req)
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Check unit unlock
// @Tags progress
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param index path int true "Unit index in the catalog"
// @Success 200 {object} shared.Response{data=dto.UnlockResponse}
// @Router /api/v1/participants/{participantId}/units/{index}/unlocked [get]
func (h *ParticipantHandler) IsUnlocked(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid unit index")
	}

	resp, err := h.engagementSvc.IsUnlocked(c.UserContext(), c.Params("participantId"), index)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Get best score
// @Tags progress
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param unitId path string true "Unit ID"
// @Success 200 {object} shared.Response{data=dto.BestScoreResponse}
// @Router /api/v1/participants/{participantId}/units/{unitId}/best [get]
func (h *ParticipantHandler) GetBestScore(c *fiber.Ctx) error {
	resp, err := h.engagementSvc.GetBestScore(c.UserContext(), c.Params("participantId"), c.Params("unitId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Get gamification snapshot
// @Tags gamification
// @Produce json
// @Param participantId path string true "Participant ID"
// @Success 200 {object} shared.Response{data=dto.GamificationSnapshot}
// @Router /api/v1/participants/{participantId}/gamification [get]
func (h *ParticipantHandler) GetGamification(c *fiber.Ctx) error {
	resp := h.engagementSvc.GetGamificationSnapshot(c.UserContext(), c.Params("participantId"))
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Check participation
// @Description Whether the participant has hearts left today
// @Tags gamification
// @Produce json
// @Param participantId path string true "Participant ID"
// @Success 200 {object} shared.Response{data=dto.CanParticipateResponse}
// @Router /api/v1/participants/{participantId}/can-participate [get]
func (h *ParticipantHandler) CanParticipate(c *fiber.Ctx) error {
	ok := h.engagementSvc.CanParticipate(c.UserContext(), c.Params("participantId"))
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", dto.CanParticipateResponse{CanParticipate: ok})
}

// @Summary Export participant data
// @Description Uploads everything recorded for the participant to object storage
// @Tags export
// @Produce json
// @Param participantId path string true "Participant ID"
// @Success 200 {object} shared.Response{data=dto.ExportResponse}
// @Router /api/v1/participants/{participantId}/export [post]
func (h *ParticipantHandler) Export(c *fiber.Ctx) error {
	resp, err := h.exportSvc.ExportParticipant(c.UserContext(), c.Params("participantId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
