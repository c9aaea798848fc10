package handlers

import (
	"fmt"

	"github.com/m3rciful/planbot/core/buildinfo"

	tele "gopkg.in/telebot.v4"
)

// Version reports build metadata. Admin only.
func (h *Handlers) Version(c tele.Context) error {
	text := fmt.Sprintf("planbot %s (%s)", buildinfo.Version, buildinfo.Commit)
	if buildinfo.Date != "" {
		text += "\n" + buildinfo.Date
	}
	return c.Send(text)
}
