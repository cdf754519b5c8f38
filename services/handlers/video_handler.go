package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/engage_api/dto"
	"github.com/lac-hong-legacy/engage_api/shared"
)

type VideoHandler struct {
	engagementSvc EngagementServiceInterface
}

func NewVideoHandler(engagementSvc EngagementServiceInterface) *VideoHandler {
	return &VideoHandler{engagementSvc: engagementSvc}
}

// @Summary Start video run
// @Tags video
// @Accept json
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param startVideoRunRequest body dto.StartVideoRunRequest true "Video run"
// @Success 201 {object} shared.Response{data=dto.VideoRunResponse}
// @Router /api/v1/participants/{participantId}/video-runs [post]
func (h *VideoHandler) StartRun(c *fiber.Ctx) error {
	var req dto.StartVideoRunRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.engagementSvc.StartVideoRun(c.UserContext(), c.Params("participantId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", resp)
}

// @Summary Finish video run
// @Description Attaches final metrics; repeated calls leave the first metrics in place
// @Tags video
// @Accept json
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param runId path string true "Video run ID"
// @Param finishVideoRunRequest body dto.FinishVideoRunRequest true "Metrics"
// @Success 200 {object} shared.Response{data=dto.VideoRunResponse}
// @Router /api/v1/participants/{participantId}/video-runs/{runId} [put]
func (h *VideoHandler) FinishRun(c *fiber.Ctx) error {
	var req dto.FinishVideoRunRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.engagementSvc.FinishVideoRun(c.UserContext(), c.Params("participantId"), c.Params("runId"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Record event
// @Description Best-effort; the event may be dropped under load
// @Tags events
// @Accept json
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param recordEventRequest body dto.RecordEventRequest true "Event"
// @Success 202 {object} shared.Response
// @Router /api/v1/participants/{participantId}/events [post]
func (h *VideoHandler) RecordEvent(c *fiber.Ctx) error {
	var req dto.RecordEventRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	h.engagementSvc.RecordEvent(c.UserContext(), c.Params("participantId"), req)
	return shared.ResponseJSON(c, fiber.StatusAccepted, "Accepted", nil)
}
