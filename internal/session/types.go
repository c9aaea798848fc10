// Package session tracks per-user dialog state between Telegram updates.
package session

import "github.com/m3rciful/planbot/internal/schedule"

// Action names the multi-step operation a user is performing on a day.
type Action string

const (
	ActionNone   Action = ""
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionCopy   Action = "copy"
)

// Step names the reply the dialog currently waits for.
type Step string

const (
	StepNone     Step = ""
	StepDelete   Step = "delete"
	StepAskIndex Step = "ask_index"
	StepAskTitle Step = "ask_title"
	StepAskStart Step = "ask_start"
	StepAskEnd   Step = "ask_end"
)

// BlockDraft accumulates user input across dialog steps.
type BlockDraft struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DialogState is the persistent per-user dialog snapshot.
// Day and DayMessageID survive dialog resets so the day view can be refreshed.
type DialogState struct {
	Action       Action       `json:"action"`
	Step         Step         `json:"step"`
	Day          schedule.Day `json:"day"`
	DayMessageID int          `json:"day_message_id"`
	Data         BlockDraft   `json:"data"`
}

// InDialog reports whether the user is inside a multi-step dialog.
func (s DialogState) InDialog() bool {
	return s.Action != ActionNone && s.Step != StepNone
}
