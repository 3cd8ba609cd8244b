package telegram

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/aliskhannn/lingua-bot/internal/storage"
)

// Callback action constants.
const (
	actionConfig  = "cfg"
	actionPlay    = "play"
	actionAnswer  = "ans"
	actionNext    = "next"
	actionRestart = "restart"
	actionStats   = "stats"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildConfigCallback builds callback data for one configuration choice.
func buildConfigCallback(field storage.DraftField, value string) string {
	return callbackData{
		Action: actionConfig,
		Params: []string{string(field), value},
	}.encode()
}

func buildPlayCallback() string {
	return actionPlay
}

// buildAnswerCallback builds callback data for picking a multiple choice option.
// The session id and position let stale keyboards be recognised.
func buildAnswerCallback(sessionID uuid.UUID, position, optionIndex int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{
			sessionID.String(),
			strconv.Itoa(position),
			strconv.Itoa(optionIndex),
		},
	}.encode()
}

func buildNextCallback(sessionID uuid.UUID, position int) string {
	return callbackData{
		Action: actionNext,
		Params: []string{sessionID.String(), strconv.Itoa(position)},
	}.encode()
}

func buildRestartCallback() string {
	return actionRestart
}

func buildStatsCallback(contentType string) string {
	return callbackData{
		Action: actionStats,
		Params: []string{contentType},
	}.encode()
}

// drillRef identifies the item a drill button was rendered for.
type drillRef struct {
	SessionID uuid.UUID
	Position  int
	Option    int
}

// parseDrillRef reads "<session>:<position>[:<option>]" from callback params.
func parseDrillRef(params []string, withOption bool) (drillRef, bool) {
	want := 2
	if withOption {
		want = 3
	}
	if len(params) != want {
		return drillRef{}, false
	}

	id, err := uuid.Parse(params[0])
	if err != nil {
		return drillRef{}, false
	}

	pos, err := strconv.Atoi(params[1])
	if err != nil || pos < 0 {
		return drillRef{}, false
	}

	ref := drillRef{SessionID: id, Position: pos}
	if withOption {
		opt, err := strconv.Atoi(params[2])
		if err != nil || opt < 0 {
			return drillRef{}, false
		}
		ref.Option = opt
	}

	return ref, true
}
