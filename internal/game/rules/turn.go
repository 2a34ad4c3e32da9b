package rules

import "fmt"

// Step represents the individual steps that comprise a player's turn.
type Step int

const (
	StepRoundStart Step = iota
	StepMandatoryDraw
	StepActionChoice
	StepEndOfTurnCleanup
	StepWinCheck
)

var stepNames = map[Step]string{
	StepRoundStart:       "ROUND_START",
	StepMandatoryDraw:    "MANDATORY_DRAW",
	StepActionChoice:     "ACTION_CHOICE",
	StepEndOfTurnCleanup: "END_OF_TURN_CLEANUP",
	StepWinCheck:         "WIN_CHECK",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

var turnSequence = []Step{
	StepRoundStart,
	StepMandatoryDraw,
	StepActionChoice,
	StepEndOfTurnCleanup,
	StepWinCheck,
}

// Action is an entry of the action menu.
type Action int

const (
	ActionPlay Action = iota + 1
	ActionDrawExtra
	ActionShowSelf
	ActionShowOthers
	ActionExit
)

var actionNames = map[Action]string{
	ActionPlay:       "Play a card",
	ActionDrawExtra:  "Draw a card",
	ActionShowSelf:   "Show your cards",
	ActionShowOthers: "Show the other players",
	ActionExit:       "Exit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(a))
}

// Actions lists the menu entries in display order.
func Actions() []Action {
	return []Action{ActionPlay, ActionDrawExtra, ActionShowSelf, ActionShowOthers, ActionExit}
}

// EndsTurn reports whether choosing a ends the action step.
func (a Action) EndsTurn() bool {
	return a == ActionPlay || a == ActionDrawExtra || a == ActionExit
}

// RoundContext tells adapters which round is in progress. Round 0 means the
// game has not started yet.
type RoundContext struct {
	Round int
}

// Started reports whether the first round has begun.
func (rc RoundContext) Started() bool {
	return rc.Round > 0
}

// TurnManager tracks the active seat, the current step and the round counter.
// Every player's turn is a round.
type TurnManager struct {
	orderIndex int
	round      int
	activeSeat int
}

// NewTurnManager creates a turn manager before round 1 with seat active.
// round is the number of rounds already played, used when resuming a save.
func NewTurnManager(seat, round int) *TurnManager {
	if round < 0 {
		round = 0
	}
	return &TurnManager{activeSeat: seat, round: round}
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return turnSequence[tm.orderIndex]
}

// Round returns the current round number. It is 0 until BeginRound.
func (tm *TurnManager) Round() int {
	return tm.round
}

// Context returns the round context for adapters.
func (tm *TurnManager) Context() RoundContext {
	return RoundContext{Round: tm.round}
}

// ActiveSeat returns the seat of the player whose turn it is.
func (tm *TurnManager) ActiveSeat() int {
	return tm.activeSeat
}

// BeginRound increments the round counter and resets to RoundStart.
func (tm *TurnManager) BeginRound() int {
	tm.round++
	tm.orderIndex = 0
	return tm.round
}

// AdvanceStep moves to the next step of the turn. After WinCheck the turn
// passes to nextSeat and the sequence restarts at RoundStart; the round
// counter only changes in BeginRound.
func (tm *TurnManager) AdvanceStep(nextSeat int) Step {
	tm.orderIndex++
	if tm.orderIndex >= len(turnSequence) {
		tm.orderIndex = 0
		tm.activeSeat = nextSeat
	}
	return tm.CurrentStep()
}
