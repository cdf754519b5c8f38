package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/engage_api/shared"
)

type SessionHandler struct {
	engagementSvc EngagementServiceInterface
}

func NewSessionHandler(engagementSvc EngagementServiceInterface) *SessionHandler {
	return &SessionHandler{engagementSvc: engagementSvc}
}

// @Summary Tab hidden
// @Tags session
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param tabId path string true "Tab ID"
// @Success 200 {object} shared.Response{data=dto.SessionSignalResponse}
// @Router /api/v1/participants/{participantId}/tabs/{tabId}/hidden [post]
func (h *SessionHandler) Hidden(c *fiber.Ctx) error {
	resp := h.engagementSvc.OnTabHidden(c.UserContext(), c.Params("participantId"), c.Params("tabId"))
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Tab visible
// @Description Reopens a session if the tab still has a logged-in identity
// @Tags session
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param tabId path string true "Tab ID"
// @Success 200 {object} shared.Response{data=dto.SessionSignalResponse}
// @Router /api/v1/participants/{participantId}/tabs/{tabId}/visible [post]
func (h *SessionHandler) Visible(c *fiber.Ctx) error {
	resp := h.engagementSvc.OnTabVisible(c.UserContext(), c.Params("participantId"), c.Params("tabId"))
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Page unload
// @Description Beacon endpoint. The session close is written in the background.
// @Tags session
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param tabId path string true "Tab ID"
// @Success 202 {object} shared.Response{data=dto.SessionSignalResponse}
// @Router /api/v1/participants/{participantId}/tabs/{tabId}/unload [post]
func (h *SessionHandler) Unload(c *fiber.Ctx) error {
	resp := h.engagementSvc.OnBeforeUnload(c.UserContext(), c.Params("participantId"), c.Params("tabId"))
	return shared.ResponseJSON(c, fiber.StatusAccepted, "Accepted", resp)
}

// @Summary Page hide
// @Description Beacon endpoint. The session close is written in the background.
// @Tags session
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param tabId path string true "Tab ID"
// @Success 202 {object} shared.Response{data=dto.SessionSignalResponse}
// @Router /api/v1/participants/{participantId}/tabs/{tabId}/pagehide [post]
func (h *SessionHandler) PageHide(c *fiber.Ctx) error {
	resp := h.engagementSvc.OnPageHide(c.UserContext(), c.Params("participantId"), c.Params("tabId"))
	return shared.ResponseJSON(c, fiber.StatusAccepted, "Accepted", resp)
}
