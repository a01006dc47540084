package websocket

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/cinefinder/cinefinder/internal/gateway"
	"github.com/cinefinder/cinefinder/internal/render"
)

// Client to server message types.
const (
	MessageTypeSearchInput  = "search:input"
	MessageTypeSearchType   = "search:type"
	MessageTypeSearchFocus  = "search:focus"
	MessageTypeSearchBlur   = "search:blur"
	MessageTypeSearchSelect = "search:select"
	MessageTypeSearchSubmit = "search:submit"
	MessageTypeSearchMore   = "search:more"
	MessageTypeLogsSub      = "logs:subscribe"
	MessageTypeLogsUnsub    = "logs:unsubscribe"
)

// Server to client message types.
const (
	MessageTypeSearchState = "search:state"
	MessageTypeError       = "error"
)

// StatePayload is the body of a search:state message.
type StatePayload struct {
	SessionID       string `json:"sessionId"`
	Text            string `json:"text"`
	Type            string `json:"type"`
	Primary         string `json:"primary"`
	Suggest         string `json:"suggest"`
	ShowSuggestions bool   `json:"showSuggestions"`
	CanShowMore     bool   `json:"canShowMore"`
	SuggestionsHTML string `json:"suggestionsHtml"`
	ResultsHTML     string `json:"resultsHtml"`
}

// handleIncoming routes a client event to its session's view.
func (h *Hub) handleIncoming(incoming incomingMessage) {
	msg := incoming.message
	if !gjson.ValidBytes(msg) {
		return
	}

	client := incoming.client
	view := client.view
	payload := gjson.GetBytes(msg, "payload")

	switch msgType := gjson.GetBytes(msg, "type").String(); msgType {
	case MessageTypeSearchInput:
		view.Input(payload.Get("text").String())
	case MessageTypeSearchType:
		view.SetType(gateway.ParseSearchType(payload.Get("type").String()))
	case MessageTypeSearchFocus:
		view.Focus()
	case MessageTypeSearchBlur:
		view.Blur()
	case MessageTypeSearchSelect:
		index := payload.Get("index")
		if index.Type != gjson.Number || !view.Select(int(index.Int())) {
			h.reply(client, MessageTypeError, map[string]any{"error": "indice del suggerimento non valido"})
		}
	case MessageTypeSearchSubmit:
		view.Submit()
	case MessageTypeSearchMore:
		view.ShowMore()
	case MessageTypeLogsSub:
		client.logs.Store(true)
	case MessageTypeLogsUnsub:
		client.logs.Store(false)
	default:
		h.logger.Debug().Str("session", client.id).Str("type", msgType).Msg("Ignoring unknown message type")
	}
}

func (h *Hub) reply(client *Client, msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		return
	}
	h.enqueue(client, data)
}

// statePayload renders the session's current snapshot.
func (h *Hub) statePayload(client *Client) (StatePayload, error) {
	state := client.view.Snapshot()
	panel := render.Search(state)

	suggestions, err := h.renderer.Fragment("suggestions", panel)
	if err != nil {
		return StatePayload{}, fmt.Errorf("suggestions: %w", err)
	}
	results, err := h.renderer.Fragment("results", panel.Results)
	if err != nil {
		return StatePayload{}, fmt.Errorf("results: %w", err)
	}

	return StatePayload{
		SessionID:       client.id,
		Text:            state.Text,
		Type:            string(state.Type),
		Primary:         state.Primary.String(),
		Suggest:         state.Suggest.String(),
		ShowSuggestions: state.ShowSuggestions(),
		CanShowMore:     state.CanShowMore(),
		SuggestionsHTML: suggestions,
		ResultsHTML:     results,
	}, nil
}
