package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/podx/internal/dashboard"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/server"
	"github.com/desertthunder/podx/internal/session"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all asynchronous results in the TUI (Elm-style message union).
//
// gen is the view generation the work was started in. [Model.Update] drops messages from an older generation.
type Msg struct {
	kind MsgKind
	gen  int
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAuthChecked MsgKind = iota
	MsgLoginStarted
	MsgCallbackDone
	MsgSearchDue
	MsgSearchDone
	MsgSubmitted
	MsgDashboardLoaded
	MsgLoggedOut
	MsgOpened
)

type loginStarted struct {
	url    string
	opened bool
	copied bool
	err    error
}

type callbackDone struct {
	result server.CallbackResult
	err    error
}

type searchDone struct {
	searchGen int
	results   []models.Show
	err       error
}

// authCheckedMsg is the constructor for [MsgAuthChecked]
func authCheckedMsg(gen int, state session.State) Msg {
	return Msg{kind: MsgAuthChecked, gen: gen, data: state}
}

// loginStartedMsg is the constructor for [MsgLoginStarted]
func loginStartedMsg(gen int, ls loginStarted) Msg {
	return Msg{kind: MsgLoginStarted, gen: gen, data: ls}
}

// callbackDoneMsg is the constructor for [MsgCallbackDone]
func callbackDoneMsg(gen int, result server.CallbackResult, err error) Msg {
	return Msg{kind: MsgCallbackDone, gen: gen, data: callbackDone{result: result, err: err}}
}

// searchDueMsg is the constructor for [MsgSearchDue], sent when the debounce for searchGen elapses
func searchDueMsg(gen, searchGen int) Msg {
	return Msg{kind: MsgSearchDue, gen: gen, data: searchGen}
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(gen, searchGen int, results []models.Show, err error) Msg {
	return Msg{kind: MsgSearchDone, gen: gen, data: searchDone{searchGen: searchGen, results: results, err: err}}
}

// submittedMsg is the constructor for [MsgSubmitted]
func submittedMsg(gen int, err error) Msg {
	return Msg{kind: MsgSubmitted, gen: gen, data: err}
}

// dashboardLoadedMsg is the constructor for [MsgDashboardLoaded]
func dashboardLoadedMsg(gen int, d dashboard.Dashboard) Msg {
	return Msg{kind: MsgDashboardLoaded, gen: gen, data: d}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(gen int, err error) Msg {
	return Msg{kind: MsgLoggedOut, gen: gen, data: err}
}

// openedMsg is the constructor for [MsgOpened]
func openedMsg(gen int, err error) Msg {
	return Msg{kind: MsgOpened, gen: gen, data: err}
}

func msgErr(data any) error {
	if err, ok := data.(error); ok {
		return err
	}
	return nil
}
