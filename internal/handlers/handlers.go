package handlers

import (
	"time"

	"github.com/m3rciful/planbot/internal/dialog"
	"github.com/m3rciful/planbot/internal/schedule"
	"github.com/m3rciful/planbot/internal/session"
	"github.com/m3rciful/planbot/internal/tracker"
)

// Callback keys used across menus and dialogs.
const (
	cbMainNew  = "main_new"
	cbMainBack = "main_back"
	cbSchedule = "schedule"
	cbTodolist = "todolist"

	cbDay     = "day"
	cbDayCopy = "day_copy"

	cbBlockAddChoice    = "block_add_choice"
	cbBlockDeleteChoice = "block_delete_choice"
	cbBlockAdd          = "block_add"
	cbBlockEdit         = "block_edit"
	cbBlockDelete       = "block_delete"
	cbBlockCopy         = "block_copy"
	cbDayClear          = "day_clear"
)

const outcomeClearDelay = time.Second

// Handlers bundles the dependencies shared by all bot handlers.
type Handlers struct {
	store     schedule.Store
	sessions  session.Store
	machine   *dialog.Machine
	tracker   *tracker.Tracker
	view      *View
	menuImage string
}

// New assembles the handler set.
func New(store schedule.Store, sessions session.Store, machine *dialog.Machine, tr *tracker.Tracker, view *View, menuImage string) *Handlers {
	return &Handlers{
		store:     store,
		sessions:  sessions,
		machine:   machine,
		tracker:   tr,
		view:      view,
		menuImage: menuImage,
	}
}
